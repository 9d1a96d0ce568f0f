package api

import "time"

// Product is an inventory item.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Reference   string  `json:"reference"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	CategoryID  int     `json:"categoryId"`
	SupplierID  int     `json:"supplierId"`
}

// Category groups products.
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Supplier provides products.
type Supplier struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// OrderStatus is the lifecycle state of a purchase order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderValidated OrderStatus = "VALIDATED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// Order is a purchase order sent to a supplier.
type Order struct {
	ID         int         `json:"id"`
	Reference  string      `json:"reference"`
	SupplierID int         `json:"supplierId"`
	ProductID  int         `json:"productId"`
	Quantity   int         `json:"quantity"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// User is a console account.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// NewUser is the payload for creating an account.
type NewUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Request is a restock request raised by an employee.
type Request struct {
	ID          int       `json:"id"`
	ProductID   int       `json:"productId"`
	Quantity    int       `json:"quantity"`
	Status      string    `json:"status"`
	RequestedBy string    `json:"requestedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}
