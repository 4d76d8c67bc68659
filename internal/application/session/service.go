// Package session resolves bearer tokens into active sessions and handles
// logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/storefront-api/internal/domain"
)

type Service interface {
	// Current resolves a session id into a live session, with the customer
	// profile attached when one exists.
	Current(ctx context.Context, sessionID string) (*domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

type sessionRepo interface {
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Update(ctx context.Context, sessionID string, updates map[string]interface{}) error
}

type customerRepo interface {
	Get(ctx context.Context, email string) (*domain.CustomerProfile, error)
}

type service struct {
	sessions  sessionRepo
	customers customerRepo
}

func NewService(sessions sessionRepo, customers customerRepo) Service {
	return &service{sessions: sessions, customers: customers}
}

func (s *service) Current(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !sess.Valid(time.Now()) {
		return nil, domain.ErrUnauthorized
	}
	if profile, err := s.customers.Get(ctx, sess.Email); err == nil {
		sess.Profile = profile
	}
	return sess, nil
}

// Logout disables the session. Disabling an already-dead session is fine;
// the client ends up logged out either way.
func (s *service) Logout(ctx context.Context, sessionID string) error {
	_, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load session: %w", err)
	}
	updates := map[string]interface{}{
		"enable":     false,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.sessions.Update(ctx, sessionID, updates); err != nil {
		return fmt.Errorf("disable session: %w", err)
	}
	return nil
}
