package render

import (
	"github.com/ziadkadry99/stock-console/internal/session"
	"github.com/ziadkadry99/stock-console/internal/views"
)

// Activation is one named post-mount step.
type Activation struct {
	Name string
	Run  views.Activator
}

// Table maps (role, route key) to the ordered activations run after the
// view is mounted. Pairs absent from the table mount with no wiring.
type Table map[session.Role]map[string][]Activation

// Lookup returns the activations for role on key, or nil.
func (t Table) Lookup(role session.Role, key string) []Activation {
	return t[role][key]
}

// DefaultTable wires the console's view modules. nav, when not nil, runs
// last on every route to refresh the navigation bar.
func DefaultTable(mods *views.Modules, nav views.Activator) Table {
	p, c, s, o, u, d := mods.Products, mods.Categories, mods.Suppliers, mods.Orders, mods.Users, mods.Dashboard

	step := func(name string, run views.Activator) Activation {
		return Activation{Name: name, Run: run}
	}
	back := step("back", views.ActivateBack)

	admin := map[string][]Activation{
		views.KeyDashboard: {
			step("shortcuts", d.ActivateShortcuts),
		},
		views.KeyProducts: {
			step("search", p.ActivateSearch),
			step("add-button", p.ActivateAddButton),
			step("filter", p.ActivateFilter),
			step("card-click", p.ActivateCardClick),
		},
		views.KeyProductDetail: {back},
		views.KeyCategories: {
			step("search", c.ActivateSearch),
			step("add-button", c.ActivateAddButton),
			step("card-click", c.ActivateCardClick),
		},
		views.KeyCategoryProducts: {
			step("search", p.ActivateSearch),
			step("card-click", p.ActivateCardClick),
			back,
		},
		views.KeySuppliers: {
			step("search", s.ActivateSearch),
			step("add-button", s.ActivateAddButton),
			step("row-click", s.ActivateRowClick),
		},
		views.KeySupplierDetail: {
			step("card-click", p.ActivateCardClick),
			back,
		},
		views.KeyOrders: {
			step("search", o.ActivateSearch),
			step("filter", o.ActivateFilter),
			step("actions", o.ActivateActions),
		},
		views.KeyUsers: {
			step("search", u.ActivateSearch),
			step("add-button", u.ActivateAddButton),
			step("delete", u.ActivateDelete),
		},
	}

	employee := map[string][]Activation{
		views.KeyProducts: {
			step("search", p.ActivateSearch),
			step("filter", p.ActivateFilter),
			step("card-click", p.ActivateCardClick),
		},
		views.KeyProductDetail: {back},
		views.KeyCategories: {
			step("search", c.ActivateSearch),
			step("card-click", c.ActivateCardClick),
		},
		views.KeyCategoryProducts: {
			step("search", p.ActivateSearch),
			step("card-click", p.ActivateCardClick),
			back,
		},
		views.KeySuppliers: {
			step("search", s.ActivateSearch),
			step("row-click", s.ActivateRowClick),
		},
		views.KeySupplierDetail: {
			step("card-click", p.ActivateCardClick),
			back,
		},
		views.KeyOrders: {
			step("search", o.ActivateSearch),
			step("filter", o.ActivateFilter),
		},
	}

	if nav != nil {
		for _, routes := range []map[string][]Activation{admin, employee} {
			for key, steps := range routes {
				routes[key] = append(steps, step("navbar", nav))
			}
		}
	}

	return Table{
		session.RoleAdmin:    admin,
		session.RoleEmployee: employee,
	}
}
