package views

import (
	"context"
	"fmt"
	"html/template"
	"sync"

	"github.com/ziadkadry99/stock-console/internal/api"
	"github.com/ziadkadry99/stock-console/internal/dom"
)

// Suppliers serves the supplier list and supplier detail. The detail reuses
// the product module so its cards behave like the product grid.
type Suppliers struct {
	api      api.Backend
	products *Products

	mu        sync.Mutex
	suppliers []api.Supplier
	query     string
}

// NewSuppliers creates the supplier module.
func NewSuppliers(backend api.Backend, products *Products) *Suppliers {
	return &Suppliers{api: backend, products: products}
}

func (s *Suppliers) table() (template.HTML, error) {
	s.mu.Lock()
	var rows []api.Supplier
	for _, sup := range s.suppliers {
		if matches(s.query, sup.Name, sup.Email, sup.Phone, sup.Address) {
			rows = append(rows, sup)
		}
	}
	s.mu.Unlock()
	return execute("supplier-table", rows)
}

// List produces the supplier table.
func (s *Suppliers) List(ctx context.Context, _ int) (template.HTML, error) {
	suppliers, err := s.api.Suppliers(ctx)
	if err != nil {
		return "", fmt.Errorf("loading suppliers: %w", err)
	}
	s.mu.Lock()
	s.suppliers = suppliers
	s.query = ""
	s.mu.Unlock()

	table, err := s.table()
	if err != nil {
		return "", err
	}
	return execute("supplier-list", struct {
		Admin bool
		Table template.HTML
	}{SessionFrom(ctx).Role.IsAdmin(), table})
}

// Detail produces supplier id with the products it provides.
func (s *Suppliers) Detail(ctx context.Context, id int) (template.HTML, error) {
	if err := s.products.load(ctx); err != nil {
		return "", err
	}

	p := s.products
	p.mu.Lock()
	var sup *api.Supplier
	for i := range p.suppliers {
		if p.suppliers[i].ID == id {
			sup = &p.suppliers[i]
			break
		}
	}
	p.filter = productFilter{SupplierID: id}
	p.mu.Unlock()

	if sup == nil {
		return notFound("Fournisseur non trouvé", Hash(KeySuppliers, 0))
	}
	grid, err := p.grid()
	if err != nil {
		return "", err
	}
	return execute("supplier-detail", struct {
		Supplier api.Supplier
		Grid     template.HTML
	}{*sup, grid})
}

// ActivateSearch filters the supplier table.
func (s *Suppliers) ActivateSearch(_ context.Context, m *Mount) error {
	m.Main.Listeners().Bind("supplier-search", eventInput, func(_ context.Context, ev dom.Event) error {
		s.mu.Lock()
		s.query = ev.Value
		s.mu.Unlock()
		table, err := s.table()
		if err != nil {
			return err
		}
		return m.Main.Patch("supplier-table", string(table))
	})
	return nil
}

// ActivateRowClick opens the clicked supplier.
func (s *Suppliers) ActivateRowClick(_ context.Context, m *Mount) error {
	m.Main.Listeners().Bind("supplier-row", eventClick, func(_ context.Context, ev dom.Event) error {
		if id := atoi(ev.Data["id"]); id > 0 {
			m.Hash.SetHash(Hash(KeySupplierDetail, id))
		}
		return nil
	})
	return nil
}

// ActivateAddButton opens the new-supplier modal.
func (s *Suppliers) ActivateAddButton(_ context.Context, m *Mount) error {
	m.Main.Listeners().Bind("supplier-add", eventClick, func(context.Context, dom.Event) error {
		html, err := execute("supplier-form", struct{ Error string }{})
		if err != nil {
			return err
		}
		return openModal(m, html, "supplier-form", eventSubmit, func(ctx context.Context, ev dom.Event) error {
			name := formValue(ev, "name")
			if name == "" {
				return fmt.Errorf("le nom est obligatoire")
			}
			_, err := s.api.CreateSupplier(ctx, api.Supplier{
				Name:    name,
				Email:   formValue(ev, "email"),
				Phone:   formValue(ev, "phone"),
				Address: formValue(ev, "address"),
			})
			return err
		})
	})
	return nil
}
