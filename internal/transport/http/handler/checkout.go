package handler

import (
	"net/http"

	"github.com/storefront-api/internal/application/checkout"
	"github.com/storefront-api/internal/application/order"
	"github.com/storefront-api/internal/application/session"
	"github.com/storefront-api/internal/domain"
	"github.com/storefront-api/internal/transport/http/middleware"
)

// CheckoutHandler exposes the review and submit steps of checkout. Both
// resolve the live session first so a token that outlived its session record
// cannot place an order.
type CheckoutHandler struct {
	svc      checkout.Service
	sessions session.Service
}

func NewCheckoutHandler(svc checkout.Service, sessions session.Service) *CheckoutHandler {
	return &CheckoutHandler{svc: svc, sessions: sessions}
}

func (h *CheckoutHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.resolveSession(w, r)
	if !ok {
		return
	}
	summary, err := h.svc.Summarize(r.Context(), sess)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.resolveSession(w, r)
	if !ok {
		return
	}
	placed, err := h.svc.Submit(r.Context(), sess)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "order placed",
		"order":   order.ToView(placed),
	})
}

func (h *CheckoutHandler) resolveSession(w http.ResponseWriter, r *http.Request) (*domain.Session, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	sess, err := h.sessions.Current(r.Context(), claims.SessionID)
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	return sess, true
}
