// Package order exposes order history and the admin status workflow.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront-api/internal/domain"
)

// View is an order as returned to clients, with display amounts derived
// from the stored minor units.
type View struct {
	OrderID         string            `json:"id"`
	Lines           []domain.CartLine `json:"products"`
	SubtotalMinor   int64             `json:"subtotal_minor"`
	ShippingMinor   int64             `json:"shipping_minor"`
	TotalMinor      int64             `json:"total_minor"`
	Currency        string            `json:"currency"`
	Status          string            `json:"status"`
	SubtotalDisplay string            `json:"subtotal"`
	ShippingDisplay string            `json:"shipping"`
	TotalDisplay    string            `json:"totalAmount"`
	OrderDate       time.Time         `json:"orderDate"`
}

type Service interface {
	// ListByCustomer returns the customer's orders, newest first.
	ListByCustomer(ctx context.Context, email string) ([]View, error)

	// Get returns one order; callers other than its owner get ErrForbidden
	// unless they are admins.
	Get(ctx context.Context, orderID, requesterEmail, requesterRole string) (*View, error)

	// AdvanceStatus moves an order one step forward. Admin only; skipping
	// steps or moving backwards is rejected.
	AdvanceStatus(ctx context.Context, orderID string, target domain.OrderStatus) (*View, error)
}

type orderRepo interface {
	Get(ctx context.Context, orderID string) (*domain.Order, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
}

type service struct {
	orders orderRepo
}

func NewService(orders orderRepo) Service {
	return &service{orders: orders}
}

func (s *service) ListByCustomer(ctx context.Context, email string) ([]View, error) {
	orders, err := s.orders.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	views := make([]View, 0, len(orders))
	for i := range orders {
		views = append(views, ToView(&orders[i]))
	}
	return views, nil
}

func (s *service) Get(ctx context.Context, orderID, requesterEmail, requesterRole string) (*View, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Email != requesterEmail && requesterRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	v := ToView(o)
	return &v, nil
}

func (s *service) AdvanceStatus(ctx context.Context, orderID string, target domain.OrderStatus) (*View, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: cannot move order from %s to %s",
			domain.ErrConflict, o.Status, target)
	}
	if err := s.orders.UpdateStatus(ctx, orderID, target); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	o.Status = target
	o.UpdatedAt = time.Now().UTC()
	v := ToView(o)
	return &v, nil
}

// ToView converts a stored order into its client representation.
func ToView(o *domain.Order) View {
	return View{
		OrderID:         o.OrderID,
		Lines:           o.Lines,
		SubtotalMinor:   o.SubtotalMinor,
		ShippingMinor:   o.ShippingMinor,
		TotalMinor:      o.TotalMinor,
		Currency:        o.Currency,
		Status:          o.Status.String(),
		SubtotalDisplay: domain.FormatMinor(o.SubtotalMinor, o.Currency),
		ShippingDisplay: domain.FormatMinor(o.ShippingMinor, o.Currency),
		TotalDisplay:    domain.FormatMinor(o.TotalMinor, o.Currency),
		OrderDate:       o.CreatedAt,
	}
}
