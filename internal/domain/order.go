package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusReadyForPickup OrderStatus = "ready_for_pickup"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusReadyForPickup, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type FulfillmentMode string

const (
	FulfillmentDelivery FulfillmentMode = "delivery"
	FulfillmentPickup   FulfillmentMode = "pickup"
)

// PickupAddress is the fixed address sentinel for in-store pickup orders.
const PickupAddress = "Дэлгүүрээс авах"

// Order is created with the invoice id as its primary key so repeated
// submission attempts cannot create duplicate orders.
type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Phone     string      `json:"phone"`
	Address   string      `json:"address"`
	Items     []LineItem  `json:"items"`
	Total     int64       `json:"total"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
