// Package auth implements the email OTP login flow: request a code, verify
// it, mint a session.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/storefront-api/internal/config"
	"github.com/storefront-api/internal/domain"
	"github.com/storefront-api/internal/infrastructure/smtp"
	"github.com/storefront-api/internal/pkg/id"
)

const otpDigits = 6

// LoginResult is returned after a successful code verification. Token is the
// bearer credential; ProfileComplete tells the client whether checkout can
// proceed or the customer still has details to fill in.
type LoginResult struct {
	Token           string `json:"token"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	ExpiresAt       int64  `json:"expires_at"`
	ProfileComplete bool   `json:"profile_complete"`
}

type Service interface {
	RequestOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (*LoginResult, error)
}

type verificationRepo interface {
	Put(ctx context.Context, v *domain.OTPVerification) error
	Get(ctx context.Context, email string) (*domain.OTPVerification, error)
	IncrementAttempts(ctx context.Context, email string, attempts int) error
	Delete(ctx context.Context, email string) error
}

type sessionRepo interface {
	Put(ctx context.Context, s *domain.Session) error
	DisableByEmail(ctx context.Context, email string) error
}

type customerRepo interface {
	Get(ctx context.Context, email string) (*domain.CustomerProfile, error)
}

type tokenSigner interface {
	Sign(email, role, sessionID string) (string, error)
}

type service struct {
	verifications verificationRepo
	sessions      sessionRepo
	customers     customerRepo
	signer        tokenSigner
	mailer        smtp.Mailer
	log           *slog.Logger

	otpTTL      time.Duration
	maxAttempts int
	sessionTTL  time.Duration
	adminEmails map[string]struct{}
}

func NewService(
	verifications verificationRepo,
	sessions sessionRepo,
	customers customerRepo,
	signer tokenSigner,
	mailer smtp.Mailer,
	log *slog.Logger,
	cfg *config.Config,
) Service {
	admins := make(map[string]struct{}, len(cfg.AdminEmails))
	for _, e := range cfg.AdminEmails {
		admins[normalizeEmail(e)] = struct{}{}
	}
	return &service{
		verifications: verifications,
		sessions:      sessions,
		customers:     customers,
		signer:        signer,
		mailer:        mailer,
		log:           log,
		otpTTL:        cfg.OTPTTL,
		maxAttempts:   cfg.OTPMaxAttempts,
		sessionTTL:    cfg.SessionTTL,
		adminEmails:   admins,
	}
}

// RequestOTP generates a fresh code for email, replacing any pending one,
// and delivers it by mail. The stored record holds only the bcrypt hash.
func (s *service) RequestOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrBadRequest)
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash otp: %w", err)
	}

	v := &domain.OTPVerification{
		Email:     email,
		Code:      string(hash),
		Attempts:  0,
		ExpiresAt: time.Now().Add(s.otpTTL).Unix(),
	}
	if err := s.verifications.Put(ctx, v); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	subject, body, err := smtp.OTPEmail(code, s.otpTTL)
	if err != nil {
		return fmt.Errorf("render otp email: %w", err)
	}
	if err := s.mailer.SendEmail(email, subject, body); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}

	s.log.Info("otp issued", "email", email)
	return nil
}

// VerifyOTP checks the submitted code. A wrong code burns one of the
// allowed attempts; exhausting them or letting the code expire voids the
// record and the customer must request a new one. Success mints a session
// and disables any previous ones for the same email.
func (s *service) VerifyOTP(ctx context.Context, email, code string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || code == "" {
		return nil, fmt.Errorf("%w: email and code are required", domain.ErrBadRequest)
	}

	v, err := s.verifications.Get(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no pending code for this email", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("load otp: %w", err)
	}

	if time.Now().Unix() > v.ExpiresAt {
		_ = s.verifications.Delete(ctx, email)
		return nil, fmt.Errorf("%w: code expired, request a new one", domain.ErrUnauthorized)
	}
	if v.Attempts >= s.maxAttempts {
		_ = s.verifications.Delete(ctx, email)
		return nil, fmt.Errorf("%w: too many attempts, request a new code", domain.ErrUnauthorized)
	}

	if bcrypt.CompareHashAndPassword([]byte(v.Code), []byte(code)) != nil {
		attempts := v.Attempts + 1
		if err := s.verifications.IncrementAttempts(ctx, email, attempts); err != nil {
			s.log.Error("increment otp attempts", "email", email, "error", err)
		}
		remaining := s.maxAttempts - attempts
		if remaining <= 0 {
			_ = s.verifications.Delete(ctx, email)
			return nil, fmt.Errorf("%w: too many attempts, request a new code", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: invalid code, %d attempts remaining", domain.ErrUnauthorized, remaining)
	}

	if err := s.verifications.Delete(ctx, email); err != nil {
		s.log.Error("delete otp after verify", "email", email, "error", err)
	}
	if err := s.sessions.DisableByEmail(ctx, email); err != nil {
		s.log.Error("disable stale sessions", "email", email, "error", err)
	}

	now := time.Now().UTC()
	sess := &domain.Session{
		SessionID: id.New(),
		Email:     email,
		Role:      s.roleFor(email),
		Enable:    true,
		ExpiresAt: now.Add(s.sessionTTL).Unix(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	token, err := s.signer.Sign(sess.Email, sess.Role, sess.SessionID)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	profileComplete := false
	if profile, err := s.customers.Get(ctx, email); err == nil {
		profileComplete = profile.IsComplete()
	}

	s.log.Info("login verified", "email", email, "role", sess.Role)
	return &LoginResult{
		Token:           token,
		Email:           email,
		Role:            sess.Role,
		ExpiresAt:       sess.ExpiresAt,
		ProfileComplete: profileComplete,
	}, nil
}

func (s *service) roleFor(email string) string {
	if _, ok := s.adminEmails[email]; ok {
		return domain.RoleAdmin
	}
	return domain.RoleCustomer
}

func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
