package models

import "time"

type OrderStatus string

const (
	OrderStatusCreated        OrderStatus = "created"
	OrderStatusPaymentPending OrderStatus = "payment_pending"
	OrderStatusApproved       OrderStatus = "approved"
	OrderStatusFailed         OrderStatus = "failed"
)

// OrderLineItem is an immutable line of an order. Line items are fixed at
// order creation and never change afterwards.
type OrderLineItem struct {
	GameID   int64   `json:"game_id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price,omitempty"`
}

// Order is an immutable record of line items submitted for payment.
type Order struct {
	ID          string          `json:"id"`
	OwnerID     int64           `json:"owner_id"`
	LineItems   []OrderLineItem `json:"line_items"`
	TotalAmount float64         `json:"total_amount"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateOrderRequest is the payload sent to the order backend.
type CreateOrderRequest struct {
	OwnerID   int64           `json:"owner_id"`
	LineItems []OrderLineItem `json:"line_items"`
}

// OrderPage is the paged envelope the order backend returns for listings.
type OrderPage struct {
	Content       []Order `json:"content"`
	TotalElements int64   `json:"totalElements"`
	TotalPages    int64   `json:"totalPages"`
	Number        int     `json:"number"`
	Size          int     `json:"size"`
}

// OrderListFilter narrows order listings. Zero values mean "no filter".
type OrderListFilter struct {
	Page          int
	Size          int
	Status        string
	PaymentStatus string
	OwnerID       int64
	SortBy        string
	SortDirection string
}
