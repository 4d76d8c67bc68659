package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/storefront-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper. Next, when set, names the
// step the client should take before retrying (e.g. "login", "profile").
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Next    string `json:"next,omitempty"`
}

// AuthEnvelope wraps OTP verification responses.
type AuthEnvelope struct {
	Token     string `json:"token,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
	Next      string `json:"next,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// writeDomainError maps a service error onto its HTTP status. Gate errors
// carry a next-step hint so clients know where to send the customer.
func writeDomainError(w http.ResponseWriter, err error) {
	env := MessageEnvelope{Error: err.Error()}
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
		env.Next = "login"
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrCheckoutInFlight), errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrProfileIncomplete):
		status = http.StatusUnprocessableEntity
		env.Next = "profile"
	case errors.Is(err, domain.ErrCartEmpty):
		status = http.StatusUnprocessableEntity
		env.Next = "cart"
	}
	writeJSON(w, status, env)
}
