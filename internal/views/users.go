package views

import (
	"context"
	"fmt"
	"html/template"
	"sync"

	"github.com/ziadkadry99/stock-console/internal/api"
	"github.com/ziadkadry99/stock-console/internal/dom"
	"github.com/ziadkadry99/stock-console/internal/session"
)

// Users serves account administration.
type Users struct {
	api api.Backend

	mu    sync.Mutex
	users []api.User
	query string
	self  string
}

// NewUsers creates the user module.
func NewUsers(backend api.Backend) *Users {
	return &Users{api: backend}
}

func (u *Users) table() (template.HTML, error) {
	u.mu.Lock()
	data := struct {
		Self string
		Rows []api.User
	}{Self: u.self}
	for _, usr := range u.users {
		if matches(u.query, usr.Username, usr.Email, usr.Role) {
			data.Rows = append(data.Rows, usr)
		}
	}
	u.mu.Unlock()
	return execute("user-table", data)
}

// List produces the user table. The signed-in user cannot delete their
// own account from it.
func (u *Users) List(ctx context.Context, _ int) (template.HTML, error) {
	users, err := u.api.Users(ctx)
	if err != nil {
		return "", fmt.Errorf("loading users: %w", err)
	}
	u.mu.Lock()
	u.users = users
	u.query = ""
	u.self = SessionFrom(ctx).Username
	u.mu.Unlock()

	table, err := u.table()
	if err != nil {
		return "", err
	}
	return execute("user-list", struct{ Table template.HTML }{table})
}

// ActivateSearch filters the user table.
func (u *Users) ActivateSearch(_ context.Context, m *Mount) error {
	m.Main.Listeners().Bind("user-search", eventInput, func(_ context.Context, ev dom.Event) error {
		u.mu.Lock()
		u.query = ev.Value
		u.mu.Unlock()
		table, err := u.table()
		if err != nil {
			return err
		}
		return m.Main.Patch("user-table", string(table))
	})
	return nil
}

// ActivateAddButton opens the new-user modal.
func (u *Users) ActivateAddButton(_ context.Context, m *Mount) error {
	m.Main.Listeners().Bind("user-add", eventClick, func(context.Context, dom.Event) error {
		html, err := execute("user-form", struct{ Error string }{})
		if err != nil {
			return err
		}
		return openModal(m, html, "user-form", eventSubmit, func(ctx context.Context, ev dom.Event) error {
			nu := api.NewUser{
				Username: formValue(ev, "username"),
				Email:    formValue(ev, "email"),
				Password: ev.Form["password"],
				Role:     string(session.ParseRole(formValue(ev, "role"))),
			}
			if nu.Username == "" || nu.Password == "" {
				return fmt.Errorf("nom d'utilisateur et mot de passe obligatoires")
			}
			if nu.Role == "" {
				nu.Role = string(session.RoleEmployee)
			}
			_, err := u.api.CreateUser(ctx, nu)
			return err
		})
	})
	return nil
}

// ActivateDelete asks for confirmation before deleting an account.
func (u *Users) ActivateDelete(_ context.Context, m *Mount) error {
	m.Main.Listeners().Bind("user-delete", eventClick, func(_ context.Context, ev dom.Event) error {
		id := atoi(ev.Data["id"])
		u.mu.Lock()
		var target *api.User
		for i := range u.users {
			if u.users[i].ID == id {
				target = &u.users[i]
				break
			}
		}
		u.mu.Unlock()
		if target == nil {
			return nil
		}

		html, err := execute("user-delete-confirm", target)
		if err != nil {
			return err
		}
		return openModal(m, html, "user-delete-confirm", eventClick, func(ctx context.Context, ev dom.Event) error {
			return u.api.DeleteUser(ctx, atoi(ev.Data["id"]))
		})
	})
	return nil
}
