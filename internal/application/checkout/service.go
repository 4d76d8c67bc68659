// Package checkout orchestrates order placement: it walks a fixed sequence
// of gates (authentication, profile, summary, submission) and owns the
// guarantee that one customer cannot place the same cart twice concurrently.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/storefront-api/internal/application/cart"
	"github.com/storefront-api/internal/domain"
	"github.com/storefront-api/internal/infrastructure/smtp"
	"github.com/storefront-api/internal/infrastructure/sns"
	"github.com/storefront-api/internal/pkg/id"
)

// State names one step of the checkout walk. Every run starts at StateIdle
// and ends at StateSucceeded or StateFailed; there are no other exits.
type State string

const (
	StateIdle            State = "idle"
	StateAuthChecking    State = "auth_checking"
	StateProfileChecking State = "profile_checking"
	StateSummarizing     State = "summarizing"
	StateSubmitting      State = "submitting"
	StateSucceeded       State = "succeeded"
	StateFailed          State = "failed"
)

// Summary is the review-before-submit view: the cart lines, the computed
// totals, and the delivery details the order would ship to.
type Summary struct {
	Lines   []domain.CartLine       `json:"items"`
	Totals  *domain.CartTotals      `json:"totals"`
	Profile *domain.CustomerProfile `json:"delivery"`
}

type Service interface {
	// Summarize runs the pre-submission gates and returns what Submit
	// would place. It writes nothing.
	Summarize(ctx context.Context, sess *domain.Session) (*Summary, error)

	// Submit places the order. On success the cart is cleared; on any
	// failure the cart is left untouched so the customer can retry.
	Submit(ctx context.Context, sess *domain.Session) (*domain.Order, error)
}

type orderRepo interface {
	Put(ctx context.Context, o *domain.Order) error
}

type customerRepo interface {
	Get(ctx context.Context, email string) (*domain.CustomerProfile, error)
}

type service struct {
	carts     cart.Service
	customers customerRepo
	orders    orderRepo
	mailer    smtp.Mailer
	sms       sns.SMSSender
	log       *slog.Logger

	ownerEmail string

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewService(
	carts cart.Service,
	customers customerRepo,
	orders orderRepo,
	mailer smtp.Mailer,
	sms sns.SMSSender,
	log *slog.Logger,
	ownerEmail string,
) Service {
	return &service{
		carts:      carts,
		customers:  customers,
		orders:     orders,
		mailer:     mailer,
		sms:        sms,
		log:        log,
		ownerEmail: ownerEmail,
		inFlight:   make(map[string]struct{}),
	}
}

func (s *service) Summarize(ctx context.Context, sess *domain.Session) (*Summary, error) {
	summary, _, err := s.prepare(ctx, sess)
	return summary, err
}

// prepare walks the gates shared by Summarize and Submit. It returns the
// state reached when a gate rejects, so failures carry their stage.
func (s *service) prepare(ctx context.Context, sess *domain.Session) (*Summary, State, error) {
	state := StateAuthChecking
	if sess == nil || !sess.Valid(time.Now()) {
		return nil, state, domain.ErrUnauthorized
	}

	state = StateProfileChecking
	profile, err := s.customers.Get(ctx, sess.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, state, domain.ErrProfileIncomplete
		}
		return nil, state, fmt.Errorf("load profile: %w", err)
	}
	if !profile.IsComplete() {
		return nil, state, domain.ErrProfileIncomplete
	}

	state = StateSummarizing
	c, err := s.carts.Get(ctx, sess.Email)
	if err != nil {
		return nil, state, fmt.Errorf("load cart: %w", err)
	}
	if c.IsEmpty() {
		return nil, state, domain.ErrCartEmpty
	}

	return &Summary{
		Lines:   c.Lines,
		Totals:  s.carts.ComputeTotals(c),
		Profile: profile,
	}, state, nil
}

func (s *service) Submit(ctx context.Context, sess *domain.Session) (*domain.Order, error) {
	email := ""
	if sess != nil {
		email = sess.Email
	}
	if email != "" {
		if !s.acquire(email) {
			return nil, domain.ErrCheckoutInFlight
		}
		defer s.release(email)
	}

	summary, state, err := s.prepare(ctx, sess)
	if err != nil {
		s.log.Info("checkout rejected", "email", email, "state", state, "error", err)
		return nil, err
	}

	state = StateSubmitting
	now := time.Now().UTC()
	order := &domain.Order{
		OrderID:       id.New(),
		Email:         sess.Email,
		Lines:         summary.Lines,
		SubtotalMinor: summary.Totals.SubtotalMinor,
		ShippingMinor: summary.Totals.ShippingMinor,
		TotalMinor:    summary.Totals.TotalMinor,
		Currency:      summary.Totals.Currency,
		Status:        domain.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.orders.Put(ctx, order); err != nil {
		s.log.Error("checkout failed", "email", email, "state", state, "error", err)
		return nil, fmt.Errorf("store order: %w", err)
	}

	// The order is durable from here on. Cart cleanup and notifications may
	// fail without affecting it.
	if err := s.carts.Clear(ctx, sess.Email); err != nil {
		s.log.Error("clear cart after order", "email", email, "order_id", order.OrderID, "error", err)
	}

	s.notify(order, summary.Profile)

	s.log.Info("checkout succeeded", "email", email, "order_id", order.OrderID,
		"total_minor", order.TotalMinor, "state", StateSucceeded)
	return order, nil
}

func (s *service) acquire(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[email]; busy {
		return false
	}
	s.inFlight[email] = struct{}{}
	return true
}

func (s *service) release(email string) {
	s.mu.Lock()
	delete(s.inFlight, email)
	s.mu.Unlock()
}

// notify sends the order emails and the optional SMS. All of it is best
// effort: the order already exists and a mail outage must not undo it.
func (s *service) notify(order *domain.Order, profile *domain.CustomerProfile) {
	if s.mailer != nil {
		if s.ownerEmail != "" {
			if subject, body, err := smtp.OwnerOrderEmail(order, profile); err != nil {
				s.log.Error("render owner order email", "order_id", order.OrderID, "error", err)
			} else if err := s.mailer.SendEmail(s.ownerEmail, subject, body); err != nil {
				s.log.Error("send owner order email", "order_id", order.OrderID, "error", err)
			}
		}
		if subject, body, err := smtp.CustomerOrderEmail(order, profile); err != nil {
			s.log.Error("render customer order email", "order_id", order.OrderID, "error", err)
		} else if err := s.mailer.SendEmail(order.Email, subject, body); err != nil {
			s.log.Error("send customer order email", "order_id", order.OrderID, "error", err)
		}
	}

	if s.sms != nil && profile != nil && profile.Phone != "" {
		msg := fmt.Sprintf("Your order %s for %s is confirmed.",
			order.OrderID, domain.FormatMinor(order.TotalMinor, order.Currency))
		if err := s.sms.SendSMS(context.Background(), profile.Phone, msg); err != nil {
			s.log.Error("send order sms", "order_id", order.OrderID, "error", err)
		}
	}
}
