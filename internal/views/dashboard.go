package views

import (
	"context"
	"fmt"
	"html/template"
	"sort"

	"github.com/ziadkadry99/stock-console/internal/api"
	"github.com/ziadkadry99/stock-console/internal/dom"
)

// Dashboard summarises stock, orders and restock requests.
type Dashboard struct {
	api      api.Backend
	lowStock int
}

// NewDashboard creates the dashboard module.
func NewDashboard(backend api.Backend, lowStock int) *Dashboard {
	return &Dashboard{api: backend, lowStock: lowStock}
}

type dashboardData struct {
	Username        string
	ProductCount    int
	CategoryCount   int
	SupplierCount   int
	OrderCount      int
	PendingOrders   int
	PendingRequests int
	Threshold       int
	LowStock        []productRow
}

// Produce renders the dashboard.
func (d *Dashboard) Produce(ctx context.Context, _ int) (template.HTML, error) {
	products, err := d.api.Products(ctx)
	if err != nil {
		return "", fmt.Errorf("loading products: %w", err)
	}
	categories, err := d.api.Categories(ctx)
	if err != nil {
		return "", fmt.Errorf("loading categories: %w", err)
	}
	suppliers, err := d.api.Suppliers(ctx)
	if err != nil {
		return "", fmt.Errorf("loading suppliers: %w", err)
	}
	orders, err := d.api.Orders(ctx)
	if err != nil {
		return "", fmt.Errorf("loading orders: %w", err)
	}
	requests, err := d.api.Requests(ctx)
	if err != nil {
		return "", fmt.Errorf("loading requests: %w", err)
	}

	data := dashboardData{
		Username:      SessionFrom(ctx).Username,
		ProductCount:  len(products),
		CategoryCount: len(categories),
		SupplierCount: len(suppliers),
		OrderCount:    len(orders),
		Threshold:     d.lowStock,
	}
	for _, o := range orders {
		if o.Status == api.OrderPending {
			data.PendingOrders++
		}
	}
	for _, r := range requests {
		if r.Status == "" || r.Status == string(api.OrderPending) {
			data.PendingRequests++
		}
	}
	for _, p := range products {
		if stock := stockState(p.Quantity, d.lowStock); stock != stockOK {
			data.LowStock = append(data.LowStock, productRow{Product: p, Stock: stock})
		}
	}
	sort.Slice(data.LowStock, func(i, j int) bool {
		return data.LowStock[i].Quantity < data.LowStock[j].Quantity
	})

	return execute("dashboard", data)
}

// ActivateShortcuts makes the stat cards and low-stock entries navigate.
func (d *Dashboard) ActivateShortcuts(_ context.Context, m *Mount) error {
	l := m.Main.Listeners()
	l.Bind("dashboard-card", eventClick, func(_ context.Context, ev dom.Event) error {
		if route := ev.Data["route"]; route != "" {
			m.Hash.SetHash(route)
		}
		return nil
	})
	l.Bind("product-card", eventClick, func(_ context.Context, ev dom.Event) error {
		if id := atoi(ev.Data["id"]); id > 0 {
			m.Hash.SetHash(Hash(KeyProductDetail, id))
		}
		return nil
	})
	return nil
}
