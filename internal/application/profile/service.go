// Package profile manages customer delivery details.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/storefront-api/internal/domain"
	"github.com/storefront-api/internal/infrastructure/smtp"
	"github.com/storefront-api/internal/pkg/validate"
)

type Service interface {
	Get(ctx context.Context, email string) (*domain.CustomerProfile, error)
	Upsert(ctx context.Context, email string, req *domain.UpsertProfileRequest) (*domain.CustomerProfile, error)
}

type customerRepo interface {
	Put(ctx context.Context, p *domain.CustomerProfile) error
	Get(ctx context.Context, email string) (*domain.CustomerProfile, error)
}

type service struct {
	customers  customerRepo
	mailer     smtp.Mailer
	log        *slog.Logger
	storeName  string
	ownerEmail string
}

func NewService(customers customerRepo, mailer smtp.Mailer, log *slog.Logger, storeName, ownerEmail string) Service {
	return &service{
		customers:  customers,
		mailer:     mailer,
		log:        log,
		storeName:  storeName,
		ownerEmail: ownerEmail,
	}
}

func (s *service) Get(ctx context.Context, email string) (*domain.CustomerProfile, error) {
	return s.customers.Get(ctx, email)
}

// Upsert stores the customer's details under their verified email. The first
// complete profile for an email triggers a notification to the store owner;
// delivery runs in the background and never blocks or fails the save.
func (s *service) Upsert(ctx context.Context, email string, req *domain.UpsertProfileRequest) (*domain.CustomerProfile, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadRequest, err)
	}

	now := time.Now().UTC()
	existing, err := s.customers.Get(ctx, email)
	isNew := false
	switch {
	case errors.Is(err, domain.ErrNotFound):
		isNew = true
	case err != nil:
		return nil, fmt.Errorf("load profile: %w", err)
	}

	p := &domain.CustomerProfile{
		Email:     email,
		Name:      req.Name,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		Pincode:   req.Pincode,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing != nil {
		p.CreatedAt = existing.CreatedAt
	}

	if err := s.customers.Put(ctx, p); err != nil {
		return nil, fmt.Errorf("store profile: %w", err)
	}

	if isNew && s.ownerEmail != "" {
		go s.notifyOwner(p)
	}
	return p, nil
}

func (s *service) notifyOwner(p *domain.CustomerProfile) {
	subject, body, err := smtp.NewCustomerEmail(s.storeName, p)
	if err != nil {
		s.log.Error("render new customer email", "error", err)
		return
	}
	if err := s.mailer.SendEmail(s.ownerEmail, subject, body); err != nil {
		s.log.Error("notify owner of new customer", "email", p.Email, "error", err)
	}
}
