package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/storefront-api/internal/domain"
	redisinfra "github.com/storefront-api/internal/infrastructure/redis"
	"golang.org/x/sync/singleflight"
)

// Pricing carries the shipping configuration. The flat fee is added to any
// order whose subtotal sits below the free-shipping threshold; a threshold
// of 0 disables the waiver entirely.
type Pricing struct {
	Currency           string
	FlatFeeMinor       int64
	FreeThresholdMinor int64
}

type Service interface {
	Get(ctx context.Context, email string) (*domain.Cart, error)
	AddItem(ctx context.Context, email, productID string, qty int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, email, productID string) (*domain.Cart, error)
	SetQuantity(ctx context.Context, email, productID string, qty int) (*domain.Cart, error)
	Totals(ctx context.Context, email string) (*domain.CartTotals, error)
	Clear(ctx context.Context, email string) error

	// ComputeTotals is the pure pricing function over a cart snapshot.
	ComputeTotals(c *domain.Cart) *domain.CartTotals
}

type cartRepo interface {
	Put(ctx context.Context, c *domain.Cart) error
	Get(ctx context.Context, email string) (*domain.Cart, error)
	Delete(ctx context.Context, email string) error
}

type productRepo interface {
	Get(ctx context.Context, productID string) (*domain.Product, error)
}

type service struct {
	repo    cartRepo
	catalog productRepo
	cache   redisinfra.CartCache
	pricing Pricing
	sfg     singleflight.Group // collapses concurrent loads for the same cart
}

func NewService(repo cartRepo, catalog productRepo, cache redisinfra.CartCache, pricing Pricing) Service {
	return &service{repo: repo, catalog: catalog, cache: cache, pricing: pricing}
}

// Get returns the customer's cart, read-through cached. A customer without
// a stored cart gets an empty one; absence is not an error.
func (s *service) Get(ctx context.Context, email string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(email, func() (interface{}, error) {
		if s.cache != nil {
			cached, err := s.cache.Get(ctx, email)
			if err == nil {
				return cached, nil
			}
			if !errors.Is(err, redisinfra.ErrCacheMiss) {
				slog.Warn("cart cache get failed", "email", email, "err", err)
			}
		}

		cart, err := s.load(ctx, email)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, email, cart); err != nil {
				slog.Warn("cart cache set failed", "email", email, "err", err)
			}
		}
		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

// AddItem puts qty units of a catalog product into the cart. If the product
// is already present its quantity is incremented by qty. (Earlier storefront
// builds bumped an existing line by exactly 1 no matter what was requested;
// incrementing by the requested quantity is the intended behavior.)
func (s *service) AddItem(ctx context.Context, email, productID string, qty int) (*domain.Cart, error) {
	if qty < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", domain.ErrBadRequest)
	}
	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
		}
		return nil, err
	}
	if !product.Active {
		return nil, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}

	return s.mutate(ctx, email, func(cart *domain.Cart) {
		if i := cart.Line(productID); i >= 0 {
			cart.Lines[i].Quantity += qty
			return
		}
		cart.Lines = append(cart.Lines, domain.CartLine{
			ProductID:      product.ProductID,
			Name:           product.Name,
			UnitPriceMinor: product.PriceMinor,
			Currency:       product.Currency,
			ImageKey:       product.ImageKey,
			Quantity:       qty,
		})
	})
}

// RemoveItem deletes the matching line; removing an absent product is a no-op.
func (s *service) RemoveItem(ctx context.Context, email, productID string) (*domain.Cart, error) {
	return s.mutate(ctx, email, func(cart *domain.Cart) {
		removeLine(cart, productID)
	})
}

// SetQuantity overwrites a line's quantity. A quantity of zero or less
// removes the line; setting quantity on an absent product is a no-op.
func (s *service) SetQuantity(ctx context.Context, email, productID string, qty int) (*domain.Cart, error) {
	return s.mutate(ctx, email, func(cart *domain.Cart) {
		if qty <= 0 {
			removeLine(cart, productID)
			return
		}
		if i := cart.Line(productID); i >= 0 {
			cart.Lines[i].Quantity = qty
		}
	})
}

func (s *service) Totals(ctx context.Context, email string) (*domain.CartTotals, error) {
	cart, err := s.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.ComputeTotals(cart), nil
}

// ComputeTotals is pure: calling it any number of times on the same cart
// yields the same result and touches nothing.
func (s *service) ComputeTotals(c *domain.Cart) *domain.CartTotals {
	var subtotal int64
	for i := range c.Lines {
		subtotal += c.Lines[i].UnitPriceMinor * int64(c.Lines[i].Quantity)
	}
	var shipping int64
	if len(c.Lines) > 0 {
		shipping = s.pricing.FlatFeeMinor
		if s.pricing.FreeThresholdMinor > 0 && subtotal >= s.pricing.FreeThresholdMinor {
			shipping = 0
		}
	}
	cur := s.pricing.Currency
	return &domain.CartTotals{
		SubtotalMinor:   subtotal,
		ShippingMinor:   shipping,
		TotalMinor:      subtotal + shipping,
		Currency:        cur,
		ItemCount:       c.ItemCount(),
		SubtotalDisplay: domain.FormatMinor(subtotal, cur),
		ShippingDisplay: domain.FormatMinor(shipping, cur),
		TotalDisplay:    domain.FormatMinor(subtotal+shipping, cur),
	}
}

// Clear empties the cart and removes its persisted representation.
func (s *service) Clear(ctx context.Context, email string) error {
	if err := s.repo.Delete(ctx, email); err != nil {
		return err
	}
	s.invalidate(email)
	return nil
}

// mutate implements the read-before-write discipline: load the persisted
// cart, apply the change in memory, persist the full document, then drop
// the cached copy. No mutation returns before the store acknowledged it.
func (s *service) mutate(ctx context.Context, email string, fn func(*domain.Cart)) (*domain.Cart, error) {
	cart, err := s.load(ctx, email)
	if err != nil {
		return nil, err
	}
	fn(cart)
	cart.UpdatedAt = time.Now().UTC()
	if err := s.repo.Put(ctx, cart); err != nil {
		return nil, fmt.Errorf("persist cart: %w", err)
	}
	s.invalidate(email)
	return cart, nil
}

func (s *service) load(ctx context.Context, email string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		now := time.Now().UTC()
		return &domain.Cart{Email: email, CreatedAt: now, UpdatedAt: now}, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) invalidate(email string) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, email); err != nil {
		slog.Warn("cart cache invalidate failed", "email", email, "err", err)
	}
}

func removeLine(cart *domain.Cart, productID string) {
	if i := cart.Line(productID); i >= 0 {
		cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
	}
}
