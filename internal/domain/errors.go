package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// Checkout-flow errors. Each maps to a distinct user-facing message
	// and navigation action at the transport layer.
	ErrCartEmpty         = errors.New("cart is empty")
	ErrProfileIncomplete = errors.New("customer profile incomplete")
	ErrCheckoutInFlight  = errors.New("a checkout is already in progress")
)
