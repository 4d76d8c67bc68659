package handler

import (
	"encoding/json"
	"net/http"

	"github.com/storefront-api/internal/application/auth"
)

// OTPHandler handles the two-step email login.
type OTPHandler struct {
	svc auth.Service
}

func NewOTPHandler(svc auth.Service) *OTPHandler {
	return &OTPHandler{svc: svc}
}

func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.RequestOTP(r.Context(), req.Email); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "verification code sent"})
}

func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.svc.VerifyOTP(r.Context(), req.Email, req.Code)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	next := "shop"
	if !result.ProfileComplete {
		next = "profile"
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{
		Token:     result.Token,
		Email:     result.Email,
		Role:      result.Role,
		ExpiresAt: result.ExpiresAt,
		Next:      next,
	})
}
