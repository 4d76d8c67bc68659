package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
)

// next maps each status to its single legal successor. Progression is
// forward-only; there is no cancellation or rollback transition.
var nextOrderStatus = map[OrderStatus]OrderStatus{
	OrderStatusPending:   OrderStatusConfirmed,
	OrderStatusConfirmed: OrderStatusShipped,
	OrderStatusShipped:   OrderStatusDelivered,
}

func (s OrderStatus) IsTerminal() bool { return s == OrderStatusDelivered }

// CanTransitionTo reports whether moving from s to target is a legal
// forward step.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	return nextOrderStatus[s] == target
}

func (s OrderStatus) String() string { return string(s) }

// Order is the immutable record created at checkout. Only Status moves
// after creation, and only forward.
type Order struct {
	OrderID       string      `json:"id" dynamodbav:"order_id"`
	Email         string      `json:"email" dynamodbav:"email"`
	Lines         []CartLine  `json:"products" dynamodbav:"lines"`
	SubtotalMinor int64       `json:"subtotal_minor" dynamodbav:"subtotal_minor"`
	ShippingMinor int64       `json:"shipping_minor" dynamodbav:"shipping_minor"`
	TotalMinor    int64       `json:"total_minor" dynamodbav:"total_minor"`
	Currency      string      `json:"currency" dynamodbav:"currency"`
	Status        OrderStatus `json:"status" dynamodbav:"status"`
	CreatedAt     time.Time   `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time   `json:"updated" dynamodbav:"updated_at"`
}
