// Package apitest provides an in-memory api.Backend for tests.
package apitest

import (
	"context"
	"fmt"
	"sync"

	"github.com/ziadkadry99/stock-console/internal/api"
)

// Fake serves fixed collections. Err fails the named collection
// ("products", "categories", ...); Block makes it wait until the channel is
// closed or the context ends.
type Fake struct {
	mu sync.Mutex

	ProductList  []api.Product
	CategoryList []api.Category
	SupplierList []api.Supplier
	OrderList    []api.Order
	UserList     []api.User
	RequestList  []api.Request

	Err   map[string]error
	Block map[string]chan struct{}

	Calls         map[string]int
	StatusUpdates map[int]api.OrderStatus
	DeletedUsers  []int
}

func (f *Fake) enter(ctx context.Context, name string) error {
	f.mu.Lock()
	if f.Calls == nil {
		f.Calls = make(map[string]int)
	}
	f.Calls[name]++
	block := f.Block[name]
	err := f.Err[name]
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// CallCount returns how many times the named collection was fetched.
func (f *Fake) CallCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[name]
}

func (f *Fake) Products(ctx context.Context) ([]api.Product, error) {
	if err := f.enter(ctx, "products"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.Product{}, f.ProductList...), nil
}

func (f *Fake) Categories(ctx context.Context) ([]api.Category, error) {
	if err := f.enter(ctx, "categories"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.Category{}, f.CategoryList...), nil
}

func (f *Fake) Suppliers(ctx context.Context) ([]api.Supplier, error) {
	if err := f.enter(ctx, "suppliers"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.Supplier{}, f.SupplierList...), nil
}

func (f *Fake) Orders(ctx context.Context) ([]api.Order, error) {
	if err := f.enter(ctx, "orders"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.Order{}, f.OrderList...), nil
}

func (f *Fake) Users(ctx context.Context) ([]api.User, error) {
	if err := f.enter(ctx, "users"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.User{}, f.UserList...), nil
}

func (f *Fake) Requests(ctx context.Context) ([]api.Request, error) {
	if err := f.enter(ctx, "requests"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.Request{}, f.RequestList...), nil
}

func (f *Fake) CreateProduct(ctx context.Context, p api.Product) (*api.Product, error) {
	if err := f.enter(ctx, "create-product"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = len(f.ProductList) + 1
	f.ProductList = append(f.ProductList, p)
	return &p, nil
}

func (f *Fake) CreateCategory(ctx context.Context, c api.Category) (*api.Category, error) {
	if err := f.enter(ctx, "create-category"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = len(f.CategoryList) + 1
	f.CategoryList = append(f.CategoryList, c)
	return &c, nil
}

func (f *Fake) CreateSupplier(ctx context.Context, s api.Supplier) (*api.Supplier, error) {
	if err := f.enter(ctx, "create-supplier"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = len(f.SupplierList) + 1
	f.SupplierList = append(f.SupplierList, s)
	return &s, nil
}

func (f *Fake) CreateUser(ctx context.Context, u api.NewUser) (*api.User, error) {
	if err := f.enter(ctx, "create-user"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	created := api.User{ID: len(f.UserList) + 1, Username: u.Username, Email: u.Email, Role: u.Role}
	f.UserList = append(f.UserList, created)
	return &created, nil
}

func (f *Fake) DeleteUser(ctx context.Context, id int) error {
	if err := f.enter(ctx, "delete-user"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.UserList {
		if u.ID == id {
			f.UserList = append(f.UserList[:i], f.UserList[i+1:]...)
			f.DeletedUsers = append(f.DeletedUsers, id)
			return nil
		}
	}
	return fmt.Errorf("user %d not found", id)
}

func (f *Fake) UpdateOrderStatus(ctx context.Context, id int, status api.OrderStatus) error {
	if err := f.enter(ctx, "update-order"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.StatusUpdates == nil {
		f.StatusUpdates = make(map[int]api.OrderStatus)
	}
	for i := range f.OrderList {
		if f.OrderList[i].ID == id {
			f.OrderList[i].Status = status
			f.StatusUpdates[id] = status
			return nil
		}
	}
	return fmt.Errorf("order %d not found", id)
}
