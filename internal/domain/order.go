package domain

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderConfirmed OrderStatus = "confirmed"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is a standalone deliverables purchase (prints, albums, digital
// packages), separate from booked sessions.
type Order struct {
	ID            int64       `json:"id"`
	ClientID      int64       `json:"client_id" validate:"required"`
	PhotographeID int64       `json:"photographe_id" validate:"required"`
	TotalAmount   float64     `json:"total_amount" validate:"required,gte=0"`
	Status        OrderStatus `json:"status"`
	PaidAt        *time.Time  `json:"paid_at,omitempty"`
	ConfirmedAt   *time.Time  `json:"confirmed_at,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type DeliveryStatus string

const (
	DeliveryPreparing DeliveryStatus = "preparing"
	DeliveryReady     DeliveryStatus = "ready"
	DeliveryDelivered DeliveryStatus = "delivered"
)

// Delivery tracks preparation of an order's deliverables, one per order.
type Delivery struct {
	ID        int64          `json:"id"`
	OrderID   int64          `json:"order_id"`
	Status    DeliveryStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
