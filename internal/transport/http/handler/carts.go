package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/storefront-api/internal/application/cart"
	"github.com/storefront-api/internal/domain"
	"github.com/storefront-api/internal/transport/http/middleware"
)

// CartEnvelope wraps cart responses with the computed totals so clients
// never have to price lines themselves.
type CartEnvelope struct {
	Cart   *domain.Cart       `json:"cart"`
	Totals *domain.CartTotals `json:"totals"`
}

// CartHandler handles the authenticated cart endpoints. The acting customer
// is always the session owner; there is no way to address another cart.
type CartHandler struct {
	svc cart.Service
}

func NewCartHandler(svc cart.Service) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	c, err := h.svc.Get(r.Context(), claims.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CartEnvelope{Cart: c, Totals: h.svc.ComputeTotals(c)})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	c, err := h.svc.AddItem(r.Context(), claims.Email, req.ProductID, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CartEnvelope{Cart: c, Totals: h.svc.ComputeTotals(c)})
}

func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c, err := h.svc.SetQuantity(r.Context(), claims.Email, chi.URLParam(r, "productID"), req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CartEnvelope{Cart: c, Totals: h.svc.ComputeTotals(c)})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	c, err := h.svc.RemoveItem(r.Context(), claims.Email, chi.URLParam(r, "productID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CartEnvelope{Cart: c, Totals: h.svc.ComputeTotals(c)})
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Clear(r.Context(), claims.Email); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "cart cleared"})
}
