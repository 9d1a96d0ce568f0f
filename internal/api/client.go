// Package api talks to the inventory REST backend. Every call forwards the
// caller's bearer token; authorization is the backend's job.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Source is the read side consumed by view producers.
type Source interface {
	Products(ctx context.Context) ([]Product, error)
	Categories(ctx context.Context) ([]Category, error)
	Suppliers(ctx context.Context) ([]Supplier, error)
	Orders(ctx context.Context) ([]Order, error)
	Users(ctx context.Context) ([]User, error)
	Requests(ctx context.Context) ([]Request, error)
}

// Mutator is the write side used by modal forms and row actions.
type Mutator interface {
	CreateProduct(ctx context.Context, p Product) (*Product, error)
	CreateCategory(ctx context.Context, c Category) (*Category, error)
	CreateSupplier(ctx context.Context, s Supplier) (*Supplier, error)
	CreateUser(ctx context.Context, u NewUser) (*User, error)
	DeleteUser(ctx context.Context, id int) error
	UpdateOrderStatus(ctx context.Context, id int, status OrderStatus) error
}

// Backend is everything the console needs from the API.
type Backend interface {
	Source
	Mutator
}

// TokenSource returns the credential to send, or "" for none.
type TokenSource func(ctx context.Context) (string, error)

// StatusError is returned for HTTP responses with status >= 400.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Client implements Backend over HTTP.
type Client struct {
	baseURL string
	tokens  TokenSource
	client  *http.Client
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshalling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens(ctx)
		if err != nil {
			return fmt.Errorf("reading credential: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var items []T
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *Client) Products(ctx context.Context) ([]Product, error) {
	return list[Product](ctx, c, "/products")
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	return list[Category](ctx, c, "/categories")
}

func (c *Client) Suppliers(ctx context.Context) ([]Supplier, error) {
	return list[Supplier](ctx, c, "/suppliers")
}

func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	return list[Order](ctx, c, "/orders")
}

func (c *Client) Users(ctx context.Context) ([]User, error) {
	return list[User](ctx, c, "/users")
}

func (c *Client) Requests(ctx context.Context) ([]Request, error) {
	return list[Request](ctx, c, "/requests")
}

func (c *Client) CreateProduct(ctx context.Context, p Product) (*Product, error) {
	var out Product
	if err := c.do(ctx, http.MethodPost, "/products", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCategory(ctx context.Context, cat Category) (*Category, error) {
	var out Category
	if err := c.do(ctx, http.MethodPost, "/categories", cat, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateSupplier(ctx context.Context, s Supplier) (*Supplier, error) {
	var out Supplier
	if err := c.do(ctx, http.MethodPost, "/suppliers", s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateUser(ctx context.Context, u NewUser) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodPost, "/users", u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
}

type statusRequest struct {
	Status OrderStatus `json:"status"`
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int, status OrderStatus) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/orders/%d/status", id), statusRequest{Status: status}, nil)
}

// Logout tells the backend the session ended. Failures are not fatal to the
// client-side logout.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}
