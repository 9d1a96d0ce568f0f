package views

import (
	"context"
	"fmt"
	"html/template"
	"sync"

	"github.com/ziadkadry99/stock-console/internal/api"
	"github.com/ziadkadry99/stock-console/internal/dom"
)

var orderStatusLabels = map[api.OrderStatus]string{
	api.OrderPending:   "En attente",
	api.OrderValidated: "Validée",
	api.OrderDelivered: "Livrée",
	api.OrderCancelled: "Annulée",
}

type orderRow struct {
	api.Order
	ProductName  string
	SupplierName string
	StatusLabel  string
	Pending      bool
}

// Orders serves the purchase order table.
type Orders struct {
	api api.Backend

	mu        sync.Mutex
	orders    []api.Order
	products  map[int]string
	suppliers map[int]string
	query     string
	status    api.OrderStatus
	admin     bool
}

// NewOrders creates the order module.
func NewOrders(backend api.Backend) *Orders {
	return &Orders{api: backend}
}

func (o *Orders) table() (template.HTML, error) {
	o.mu.Lock()
	data := struct {
		Admin bool
		Rows  []orderRow
	}{Admin: o.admin}
	for _, ord := range o.orders {
		if o.status != "" && ord.Status != o.status {
			continue
		}
		row := orderRow{
			Order:        ord,
			ProductName:  o.products[ord.ProductID],
			SupplierName: o.suppliers[ord.SupplierID],
			StatusLabel:  orderStatusLabels[ord.Status],
			Pending:      ord.Status == api.OrderPending,
		}
		if row.StatusLabel == "" {
			row.StatusLabel = string(ord.Status)
		}
		if !matches(o.query, row.Reference, row.ProductName, row.SupplierName) {
			continue
		}
		data.Rows = append(data.Rows, row)
	}
	o.mu.Unlock()
	return execute("order-table", data)
}

// List produces the order table.
func (o *Orders) List(ctx context.Context, _ int) (template.HTML, error) {
	orders, err := o.api.Orders(ctx)
	if err != nil {
		return "", fmt.Errorf("loading orders: %w", err)
	}
	products, err := o.api.Products(ctx)
	if err != nil {
		return "", fmt.Errorf("loading products: %w", err)
	}
	suppliers, err := o.api.Suppliers(ctx)
	if err != nil {
		return "", fmt.Errorf("loading suppliers: %w", err)
	}

	o.mu.Lock()
	o.orders = orders
	o.products = make(map[int]string, len(products))
	for _, p := range products {
		o.products[p.ID] = p.Name
	}
	o.suppliers = make(map[int]string, len(suppliers))
	for _, s := range suppliers {
		o.suppliers[s.ID] = s.Name
	}
	o.query, o.status = "", ""
	o.admin = SessionFrom(ctx).Role.IsAdmin()
	o.mu.Unlock()

	table, err := o.table()
	if err != nil {
		return "", err
	}
	return execute("order-list", struct{ Table template.HTML }{table})
}

func (o *Orders) refresh(m *Mount) error {
	table, err := o.table()
	if err != nil {
		return err
	}
	return m.Main.Patch("order-table", string(table))
}

// ActivateSearch filters orders by reference, product or supplier.
func (o *Orders) ActivateSearch(_ context.Context, m *Mount) error {
	m.Main.Listeners().Bind("order-search", eventInput, func(_ context.Context, ev dom.Event) error {
		o.mu.Lock()
		o.query = ev.Value
		o.mu.Unlock()
		return o.refresh(m)
	})
	return nil
}

// ActivateFilter wires the status select.
func (o *Orders) ActivateFilter(_ context.Context, m *Mount) error {
	m.Main.Listeners().Bind("order-filter-status", eventChange, func(_ context.Context, ev dom.Event) error {
		o.mu.Lock()
		o.status = api.OrderStatus(ev.Value)
		o.mu.Unlock()
		return o.refresh(m)
	})
	return nil
}

// ActivateActions wires the validate and cancel buttons of pending orders.
func (o *Orders) ActivateActions(_ context.Context, m *Mount) error {
	l := m.Main.Listeners()
	l.Bind("order-validate", eventClick, func(ctx context.Context, ev dom.Event) error {
		return o.setStatus(ctx, m, atoi(ev.Data["id"]), api.OrderValidated)
	})
	l.Bind("order-cancel", eventClick, func(ctx context.Context, ev dom.Event) error {
		return o.setStatus(ctx, m, atoi(ev.Data["id"]), api.OrderCancelled)
	})
	return nil
}

func (o *Orders) setStatus(ctx context.Context, m *Mount, id int, status api.OrderStatus) error {
	if id <= 0 {
		return nil
	}
	if err := o.api.UpdateOrderStatus(ctx, id, status); err != nil {
		return fmt.Errorf("updating order %d: %w", id, err)
	}
	o.mu.Lock()
	for i := range o.orders {
		if o.orders[i].ID == id {
			o.orders[i].Status = status
		}
	}
	o.mu.Unlock()
	return o.refresh(m)
}
