package views

import (
	"context"
	"fmt"
	"html/template"
	"sync"

	"github.com/ziadkadry99/stock-console/internal/api"
	"github.com/ziadkadry99/stock-console/internal/dom"
)

const (
	stockOK  = "ok"
	stockLow = "low"
	stockOut = "out"
)

type productRow struct {
	api.Product
	CategoryName string
	SupplierName string
	Stock        string
	Description  template.HTML
}

type productFilter struct {
	Query      string
	CategoryID int
	SupplierID int
	Stock      string
}

// Products serves the product list, product detail and per-category
// product list. It keeps the collections fetched by the last producer call
// so search and filters run locally.
type Products struct {
	api      api.Backend
	md       *Markdown
	lowStock int

	mu         sync.Mutex
	products   []api.Product
	categories []api.Category
	suppliers  []api.Supplier
	filter     productFilter
}

// NewProducts creates the product module. Quantities at or below lowStock
// are flagged.
func NewProducts(backend api.Backend, md *Markdown, lowStock int) *Products {
	return &Products{api: backend, md: md, lowStock: lowStock}
}

func (p *Products) load(ctx context.Context) error {
	products, err := p.api.Products(ctx)
	if err != nil {
		return fmt.Errorf("loading products: %w", err)
	}
	categories, err := p.api.Categories(ctx)
	if err != nil {
		return fmt.Errorf("loading categories: %w", err)
	}
	suppliers, err := p.api.Suppliers(ctx)
	if err != nil {
		return fmt.Errorf("loading suppliers: %w", err)
	}

	p.mu.Lock()
	p.products, p.categories, p.suppliers = products, categories, suppliers
	p.mu.Unlock()
	return nil
}

func stockState(qty, lowStock int) string {
	switch {
	case qty <= 0:
		return stockOut
	case qty <= lowStock:
		return stockLow
	default:
		return stockOK
	}
}

// rowsLocked joins products with their category and supplier names and
// applies the current filter. p.mu must be held.
func (p *Products) rowsLocked() []productRow {
	catNames := make(map[int]string, len(p.categories))
	for _, c := range p.categories {
		catNames[c.ID] = c.Name
	}
	supNames := make(map[int]string, len(p.suppliers))
	for _, s := range p.suppliers {
		supNames[s.ID] = s.Name
	}

	f := p.filter
	var rows []productRow
	for _, prod := range p.products {
		if f.CategoryID != 0 && prod.CategoryID != f.CategoryID {
			continue
		}
		if f.SupplierID != 0 && prod.SupplierID != f.SupplierID {
			continue
		}
		stock := stockState(prod.Quantity, p.lowStock)
		if f.Stock != "" && stock != f.Stock {
			continue
		}
		if !matches(f.Query, prod.Name, prod.Reference, prod.Description, catNames[prod.CategoryID], supNames[prod.SupplierID]) {
			continue
		}
		rows = append(rows, productRow{
			Product:      prod,
			CategoryName: catNames[prod.CategoryID],
			SupplierName: supNames[prod.SupplierID],
			Stock:        stock,
		})
	}
	return rows
}

func (p *Products) grid() (template.HTML, error) {
	p.mu.Lock()
	rows := p.rowsLocked()
	p.mu.Unlock()
	return execute("product-grid", rows)
}

type productListData struct {
	Title       string
	Back        string
	Admin       bool
	ShowFilters bool
	Categories  []api.Category
	Suppliers   []api.Supplier
	Filter      productFilter
	Grid        template.HTML
}

func (p *Products) list(filter productFilter, data productListData) (template.HTML, error) {
	p.mu.Lock()
	p.filter = filter
	data.Categories = p.categories
	data.Suppliers = p.suppliers
	data.Filter = filter
	p.mu.Unlock()

	grid, err := p.grid()
	if err != nil {
		return "", err
	}
	data.Grid = grid
	return execute("product-list", data)
}

// List produces the full product list. Administrators get the add button.
func (p *Products) List(ctx context.Context, _ int) (template.HTML, error) {
	if err := p.load(ctx); err != nil {
		return "", err
	}
	return p.list(productFilter{}, productListData{
		Title:       "Produits",
		ShowFilters: true,
		Admin:       SessionFrom(ctx).Role.IsAdmin(),
	})
}

// CategoryList produces the products of category id.
func (p *Products) CategoryList(ctx context.Context, id int) (template.HTML, error) {
	if err := p.load(ctx); err != nil {
		return "", err
	}
	p.mu.Lock()
	var cat *api.Category
	for i := range p.categories {
		if p.categories[i].ID == id {
			cat = &p.categories[i]
			break
		}
	}
	p.mu.Unlock()
	if cat == nil {
		return notFound("Catégorie non trouvée", Hash(KeyCategories, 0))
	}
	return p.list(productFilter{CategoryID: id}, productListData{Title: cat.Name, Back: Hash(KeyCategories, 0)})
}

// Detail produces the detail of product id, or "Produit non trouvé" when
// the fetched list has no such product.
func (p *Products) Detail(ctx context.Context, id int) (template.HTML, error) {
	if err := p.load(ctx); err != nil {
		return "", err
	}

	p.mu.Lock()
	p.filter = productFilter{}
	var row *productRow
	for _, r := range p.rowsLocked() {
		if r.ID == id {
			r := r
			row = &r
			break
		}
	}
	p.mu.Unlock()

	if row == nil {
		return notFound("Produit non trouvé", Hash(KeyProducts, 0))
	}
	row.Description = p.md.Render(row.Product.Description)
	return execute("product-detail", row)
}

func (p *Products) refreshGrid(m *Mount) error {
	grid, err := p.grid()
	if err != nil {
		return err
	}
	return m.Main.Patch("product-grid", string(grid))
}

// ActivateSearch filters the mounted grid as the user types.
func (p *Products) ActivateSearch(_ context.Context, m *Mount) error {
	m.Main.Listeners().Bind("product-search", eventInput, func(_ context.Context, ev dom.Event) error {
		p.mu.Lock()
		p.filter.Query = ev.Value
		p.mu.Unlock()
		return p.refreshGrid(m)
	})
	return nil
}

// ActivateFilter wires the category, supplier and stock selects.
func (p *Products) ActivateFilter(_ context.Context, m *Mount) error {
	l := m.Main.Listeners()
	l.Bind("product-filter-category", eventChange, func(_ context.Context, ev dom.Event) error {
		p.mu.Lock()
		p.filter.CategoryID = atoi(ev.Value)
		p.mu.Unlock()
		return p.refreshGrid(m)
	})
	l.Bind("product-filter-supplier", eventChange, func(_ context.Context, ev dom.Event) error {
		p.mu.Lock()
		p.filter.SupplierID = atoi(ev.Value)
		p.mu.Unlock()
		return p.refreshGrid(m)
	})
	l.Bind("product-filter-stock", eventChange, func(_ context.Context, ev dom.Event) error {
		p.mu.Lock()
		p.filter.Stock = ev.Value
		p.mu.Unlock()
		return p.refreshGrid(m)
	})
	return nil
}

// ActivateCardClick opens a product's detail when its card is clicked.
func (p *Products) ActivateCardClick(_ context.Context, m *Mount) error {
	m.Main.Listeners().Bind("product-card", eventClick, func(_ context.Context, ev dom.Event) error {
		if id := atoi(ev.Data["id"]); id > 0 {
			m.Hash.SetHash(Hash(KeyProductDetail, id))
		}
		return nil
	})
	return nil
}

// ActivateAddButton opens the new-product modal.
func (p *Products) ActivateAddButton(_ context.Context, m *Mount) error {
	m.Main.Listeners().Bind("product-add", eventClick, func(context.Context, dom.Event) error {
		p.mu.Lock()
		data := struct {
			Categories []api.Category
			Suppliers  []api.Supplier
			Error      string
		}{Categories: p.categories, Suppliers: p.suppliers}
		p.mu.Unlock()

		html, err := execute("product-form", data)
		if err != nil {
			return err
		}
		return openModal(m, html, "product-form", eventSubmit, p.create)
	})
	return nil
}

func (p *Products) create(ctx context.Context, ev dom.Event) error {
	name := formValue(ev, "name")
	if name == "" {
		return fmt.Errorf("le nom est obligatoire")
	}
	price, err := formFloat(ev, "price")
	if err != nil {
		return fmt.Errorf("prix: %w", err)
	}
	qty, err := formInt(ev, "quantity")
	if err != nil {
		return fmt.Errorf("quantité: %w", err)
	}
	catID, err := formInt(ev, "categoryId")
	if err != nil {
		return fmt.Errorf("catégorie: %w", err)
	}
	supID, err := formInt(ev, "supplierId")
	if err != nil {
		return fmt.Errorf("fournisseur: %w", err)
	}
	_, err = p.api.CreateProduct(ctx, api.Product{
		Name:        name,
		Reference:   formValue(ev, "reference"),
		Description: formValue(ev, "description"),
		Price:       price,
		Quantity:    qty,
		CategoryID:  catID,
		SupplierID:  supID,
	})
	return err
}
