package views

import "github.com/ziadkadry99/stock-console/internal/api"

// Modules holds one instance of every view module for a page session.
type Modules struct {
	Dashboard  *Dashboard
	Products   *Products
	Categories *Categories
	Suppliers  *Suppliers
	Orders     *Orders
	Users      *Users
}

// NewModules creates the view modules over backend.
func NewModules(backend api.Backend, lowStock int) *Modules {
	md := NewMarkdown()
	products := NewProducts(backend, md, lowStock)
	return &Modules{
		Dashboard:  NewDashboard(backend, lowStock),
		Products:   products,
		Categories: NewCategories(backend, md),
		Suppliers:  NewSuppliers(backend, products),
		Orders:     NewOrders(backend),
		Users:      NewUsers(backend),
	}
}

// Registry returns the route table served by m.
func (m *Modules) Registry() *Registry {
	return NewRegistry(
		View{Key: KeyDashboard, Produce: m.Dashboard.Produce},
		View{Key: KeyProducts, Produce: m.Products.List},
		View{Key: KeyProductDetail, NeedsID: true, Produce: m.Products.Detail},
		View{Key: KeyCategories, Produce: m.Categories.List},
		View{Key: KeyCategoryProducts, NeedsID: true, Produce: m.Products.CategoryList},
		View{Key: KeySuppliers, Produce: m.Suppliers.List},
		View{Key: KeySupplierDetail, NeedsID: true, Produce: m.Suppliers.Detail},
		View{Key: KeyOrders, Produce: m.Orders.List},
		View{Key: KeyUsers, Produce: m.Users.List},
	)
}
