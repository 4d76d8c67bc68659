package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/storefront-api/internal/application/profile"
	"github.com/storefront-api/internal/domain"
	"github.com/storefront-api/internal/transport/http/middleware"
)

// CustomerHandler handles the delivery-details profile of the logged-in
// customer.
type CustomerHandler struct {
	svc profile.Service
}

func NewCustomerHandler(svc profile.Service) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	p, err := h.svc.Get(r.Context(), claims.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"profile":  nil,
				"complete": false,
				"next":     "profile",
			})
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile":  p,
		"complete": p.IsComplete(),
	})
}

func (h *CustomerHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.UpsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := h.svc.Upsert(r.Context(), claims.Email, &req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile":  p,
		"complete": p.IsComplete(),
	})
}
