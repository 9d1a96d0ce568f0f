package views

import (
	"context"
	"fmt"
	"html/template"
	"sync"

	"github.com/ziadkadry99/stock-console/internal/api"
	"github.com/ziadkadry99/stock-console/internal/dom"
)

type categoryRow struct {
	api.Category
	Description template.HTML
	Count       int
}

// Categories serves the category list.
type Categories struct {
	api api.Backend
	md  *Markdown

	mu    sync.Mutex
	rows  []categoryRow
	query string
}

// NewCategories creates the category module.
func NewCategories(backend api.Backend, md *Markdown) *Categories {
	return &Categories{api: backend, md: md}
}

func (c *Categories) grid() (template.HTML, error) {
	c.mu.Lock()
	var rows []categoryRow
	for _, r := range c.rows {
		if matches(c.query, r.Name, r.Category.Description) {
			rows = append(rows, r)
		}
	}
	c.mu.Unlock()
	return execute("category-grid", rows)
}

// List produces the category cards with their product counts.
func (c *Categories) List(ctx context.Context, _ int) (template.HTML, error) {
	categories, err := c.api.Categories(ctx)
	if err != nil {
		return "", fmt.Errorf("loading categories: %w", err)
	}
	products, err := c.api.Products(ctx)
	if err != nil {
		return "", fmt.Errorf("loading products: %w", err)
	}

	counts := make(map[int]int)
	for _, p := range products {
		counts[p.CategoryID]++
	}
	rows := make([]categoryRow, 0, len(categories))
	for _, cat := range categories {
		rows = append(rows, categoryRow{
			Category:    cat,
			Description: c.md.Render(cat.Description),
			Count:       counts[cat.ID],
		})
	}

	c.mu.Lock()
	c.rows = rows
	c.query = ""
	c.mu.Unlock()

	grid, err := c.grid()
	if err != nil {
		return "", err
	}
	return execute("category-list", struct {
		Admin bool
		Grid  template.HTML
	}{SessionFrom(ctx).Role.IsAdmin(), grid})
}

// ActivateSearch filters the category cards.
func (c *Categories) ActivateSearch(_ context.Context, m *Mount) error {
	m.Main.Listeners().Bind("category-search", eventInput, func(_ context.Context, ev dom.Event) error {
		c.mu.Lock()
		c.query = ev.Value
		c.mu.Unlock()
		grid, err := c.grid()
		if err != nil {
			return err
		}
		return m.Main.Patch("category-grid", string(grid))
	})
	return nil
}

// ActivateCardClick opens the product list of the clicked category.
func (c *Categories) ActivateCardClick(_ context.Context, m *Mount) error {
	m.Main.Listeners().Bind("category-card", eventClick, func(_ context.Context, ev dom.Event) error {
		if id := atoi(ev.Data["id"]); id > 0 {
			m.Hash.SetHash(Hash(KeyCategoryProducts, id))
		}
		return nil
	})
	return nil
}

// ActivateAddButton opens the new-category modal.
func (c *Categories) ActivateAddButton(_ context.Context, m *Mount) error {
	m.Main.Listeners().Bind("category-add", eventClick, func(context.Context, dom.Event) error {
		html, err := execute("category-form", struct{ Error string }{})
		if err != nil {
			return err
		}
		return openModal(m, html, "category-form", eventSubmit, func(ctx context.Context, ev dom.Event) error {
			name := formValue(ev, "name")
			if name == "" {
				return fmt.Errorf("le nom est obligatoire")
			}
			_, err := c.api.CreateCategory(ctx, api.Category{Name: name, Description: formValue(ev, "description")})
			return err
		})
	})
	return nil
}
