package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/storefront-api/internal/application/checkout"
	"github.com/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCheckoutSvc struct{ mock.Mock }

func (m *mockCheckoutSvc) Summarize(ctx context.Context, sess *domain.Session) (*checkout.Summary, error) {
	args := m.Called(ctx, sess)
	if s, _ := args.Get(0).(*checkout.Summary); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCheckoutSvc) Submit(ctx context.Context, sess *domain.Session) (*domain.Order, error) {
	args := m.Called(ctx, sess)
	if o, _ := args.Get(0).(*domain.Order); o != nil {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSessionSvc struct{ mock.Mock }

func (m *mockSessionSvc) Current(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionSvc) Logout(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func activeSession(email string) *domain.Session {
	return &domain.Session{
		SessionID: "sess1", Email: email, Role: domain.RoleCustomer,
		Enable: true, ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}
}

func TestCheckoutSubmit_MissingClaims(t *testing.T) {
	h := NewCheckoutHandler(&mockCheckoutSvc{}, &mockSessionSvc{})
	r := httptest.NewRequest(http.MethodPost, "/v1/checkout", nil)
	rr := httptest.NewRecorder()
	h.Submit(rr, r)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCheckoutSubmit_DeadSession(t *testing.T) {
	p := newTestJWTProvider(t)
	sessions := &mockSessionSvc{}
	sessions.On("Current", mock.Anything, "sess1").Return(nil, domain.ErrUnauthorized)
	h := NewCheckoutHandler(&mockCheckoutSvc{}, sessions)

	r := bearerReq(t, p, http.MethodPost, "/v1/checkout", "a@b.com", domain.RoleCustomer, nil)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Submit), rr, r)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	sessions.AssertExpectations(t)
}

func TestCheckoutSubmit_ProfileIncomplete_PointsToProfile(t *testing.T) {
	p := newTestJWTProvider(t)
	sess := activeSession("a@b.com")
	sessions := &mockSessionSvc{}
	sessions.On("Current", mock.Anything, "sess1").Return(sess, nil)
	svc := &mockCheckoutSvc{}
	svc.On("Submit", mock.Anything, sess).Return(nil, domain.ErrProfileIncomplete)
	h := NewCheckoutHandler(svc, sessions)

	r := bearerReq(t, p, http.MethodPost, "/v1/checkout", "a@b.com", domain.RoleCustomer, nil)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Submit), rr, r)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), `"next":"profile"`)
	svc.AssertExpectations(t)
}

func TestCheckoutSubmit_EmptyCart_PointsToCart(t *testing.T) {
	p := newTestJWTProvider(t)
	sess := activeSession("a@b.com")
	sessions := &mockSessionSvc{}
	sessions.On("Current", mock.Anything, "sess1").Return(sess, nil)
	svc := &mockCheckoutSvc{}
	svc.On("Submit", mock.Anything, sess).Return(nil, domain.ErrCartEmpty)
	h := NewCheckoutHandler(svc, sessions)

	r := bearerReq(t, p, http.MethodPost, "/v1/checkout", "a@b.com", domain.RoleCustomer, nil)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Submit), rr, r)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), `"next":"cart"`)
}

func TestCheckoutSubmit_InFlight_Conflict(t *testing.T) {
	p := newTestJWTProvider(t)
	sess := activeSession("a@b.com")
	sessions := &mockSessionSvc{}
	sessions.On("Current", mock.Anything, "sess1").Return(sess, nil)
	svc := &mockCheckoutSvc{}
	svc.On("Submit", mock.Anything, sess).Return(nil, domain.ErrCheckoutInFlight)
	h := NewCheckoutHandler(svc, sessions)

	r := bearerReq(t, p, http.MethodPost, "/v1/checkout", "a@b.com", domain.RoleCustomer, nil)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Submit), rr, r)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestCheckoutSubmit_HappyPath(t *testing.T) {
	p := newTestJWTProvider(t)
	sess := activeSession("a@b.com")
	sessions := &mockSessionSvc{}
	sessions.On("Current", mock.Anything, "sess1").Return(sess, nil)
	placed := &domain.Order{
		OrderID: "o1", Email: "a@b.com", Status: domain.OrderStatusPending,
		SubtotalMinor: 25000, ShippingMinor: 7000, TotalMinor: 32000, Currency: "INR",
	}
	svc := &mockCheckoutSvc{}
	svc.On("Submit", mock.Anything, sess).Return(placed, nil)
	h := NewCheckoutHandler(svc, sessions)

	r := bearerReq(t, p, http.MethodPost, "/v1/checkout", "a@b.com", domain.RoleCustomer, nil)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Submit), rr, r)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"o1"`)
	assert.Contains(t, rr.Body.String(), `₹320.00`)
	svc.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestCheckoutSummary_HappyPath(t *testing.T) {
	p := newTestJWTProvider(t)
	sess := activeSession("a@b.com")
	sessions := &mockSessionSvc{}
	sessions.On("Current", mock.Anything, "sess1").Return(sess, nil)
	svc := &mockCheckoutSvc{}
	svc.On("Summarize", mock.Anything, sess).Return(&checkout.Summary{
		Totals: &domain.CartTotals{TotalMinor: 32000, TotalDisplay: "₹320.00"},
	}, nil)
	h := NewCheckoutHandler(svc, sessions)

	r := bearerReq(t, p, http.MethodGet, "/v1/checkout/summary", "a@b.com", domain.RoleCustomer, nil)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Summary), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `₹320.00`)
}
