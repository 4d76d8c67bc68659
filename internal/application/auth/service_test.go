package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/storefront-api/internal/config"
	"github.com/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifications struct {
	records map[string]*domain.OTPVerification
}

func (f *fakeVerifications) Put(_ context.Context, v *domain.OTPVerification) error {
	f.records[v.Email] = v
	return nil
}

func (f *fakeVerifications) Get(_ context.Context, email string) (*domain.OTPVerification, error) {
	v, ok := f.records[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVerifications) IncrementAttempts(_ context.Context, email string, attempts int) error {
	if v, ok := f.records[email]; ok {
		v.Attempts = attempts
	}
	return nil
}

func (f *fakeVerifications) Delete(_ context.Context, email string) error {
	delete(f.records, email)
	return nil
}

type fakeSessions struct {
	sessions map[string]*domain.Session
	disabled []string
}

func (f *fakeSessions) Put(_ context.Context, s *domain.Session) error {
	f.sessions[s.SessionID] = s
	return nil
}

func (f *fakeSessions) DisableByEmail(_ context.Context, email string) error {
	f.disabled = append(f.disabled, email)
	return nil
}

type fakeCustomers struct {
	profiles map[string]*domain.CustomerProfile
}

func (f *fakeCustomers) Get(_ context.Context, email string) (*domain.CustomerProfile, error) {
	p, ok := f.profiles[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

type fakeSigner struct{}

func (fakeSigner) Sign(email, role, sessionID string) (string, error) {
	return "tok-" + sessionID, nil
}

type fakeMailer struct {
	sent    []sentMail
	sendErr error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (f *fakeMailer) SendEmail(to, subject, body string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type testEnv struct {
	svc           Service
	verifications *fakeVerifications
	sessions      *fakeSessions
	customers     *fakeCustomers
	mailer        *fakeMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		verifications: &fakeVerifications{records: map[string]*domain.OTPVerification{}},
		sessions:      &fakeSessions{sessions: map[string]*domain.Session{}},
		customers:     &fakeCustomers{profiles: map[string]*domain.CustomerProfile{}},
		mailer:        &fakeMailer{},
	}
	cfg := &config.Config{
		OTPTTL:         5 * time.Minute,
		OTPMaxAttempts: 3,
		SessionTTL:     time.Hour,
		AdminEmails:    []string{"owner@shop.test"},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	env.svc = NewService(env.verifications, env.sessions, env.customers, fakeSigner{}, env.mailer, log, cfg)
	return env
}

// seedOTP stores a verification record with the bcrypt hash of code.
func seedOTP(t *testing.T, env *testEnv, email, code string, attempts int, expiry time.Time) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	require.NoError(t, err)
	env.verifications.records[email] = &domain.OTPVerification{
		Email:     email,
		Code:      string(hash),
		Attempts:  attempts,
		ExpiresAt: expiry.Unix(),
	}
}

func TestRequestOTP_StoresHashAndMails(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.RequestOTP(context.Background(), "User@Shop.Test ")

	require.NoError(t, err)
	v, ok := env.verifications.records["user@shop.test"]
	require.True(t, ok, "record keyed by normalized email")
	assert.NotEmpty(t, v.Code)
	assert.NotRegexp(t, `^\d{6}$`, v.Code, "stored value must be a hash, not the digits")
	assert.Equal(t, 0, v.Attempts)
	assert.Greater(t, v.ExpiresAt, time.Now().Unix())

	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, "user@shop.test", env.mailer.sent[0].to)
	assert.Regexp(t, `\d{6}`, env.mailer.sent[0].body, "mail carries the plaintext code")
}

func TestRequestOTP_EmptyEmail(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.RequestOTP(context.Background(), "  ")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestRequestOTP_MailFailureSurfaces(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.sendErr = errors.New("smtp refused")

	err := env.svc.RequestOTP(context.Background(), "user@shop.test")

	require.Error(t, err)
}

func TestVerifyOTP_Success(t *testing.T) {
	env := newTestEnv(t)
	seedOTP(t, env, "user@shop.test", "123456", 0, time.Now().Add(time.Minute))

	res, err := env.svc.VerifyOTP(context.Background(), "user@shop.test", "123456")

	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "user@shop.test", res.Email)
	assert.Equal(t, domain.RoleCustomer, res.Role)
	assert.False(t, res.ProfileComplete)

	_, stillThere := env.verifications.records["user@shop.test"]
	assert.False(t, stillThere, "used code must be burned")
	assert.Contains(t, env.sessions.disabled, "user@shop.test", "older sessions get disabled")
	require.Len(t, env.sessions.sessions, 1)
	for _, s := range env.sessions.sessions {
		assert.True(t, s.Enable)
		assert.Greater(t, s.ExpiresAt, time.Now().Unix())
	}
}

func TestVerifyOTP_AdminEmailGetsAdminRole(t *testing.T) {
	env := newTestEnv(t)
	seedOTP(t, env, "owner@shop.test", "123456", 0, time.Now().Add(time.Minute))

	res, err := env.svc.VerifyOTP(context.Background(), "owner@shop.test", "123456")

	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, res.Role)
}

func TestVerifyOTP_ProfileCompleteFlag(t *testing.T) {
	env := newTestEnv(t)
	env.customers.profiles["user@shop.test"] = &domain.CustomerProfile{
		Email: "user@shop.test", Name: "A", Phone: "9999999999", Address: "12 Lane",
	}
	seedOTP(t, env, "user@shop.test", "123456", 0, time.Now().Add(time.Minute))

	res, err := env.svc.VerifyOTP(context.Background(), "user@shop.test", "123456")

	require.NoError(t, err)
	assert.True(t, res.ProfileComplete)
}

func TestVerifyOTP_WrongCode_BurnsAttempt(t *testing.T) {
	env := newTestEnv(t)
	seedOTP(t, env, "user@shop.test", "123456", 0, time.Now().Add(time.Minute))

	_, err := env.svc.VerifyOTP(context.Background(), "user@shop.test", "000000")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	assert.Contains(t, err.Error(), "2 attempts remaining")
	assert.Equal(t, 1, env.verifications.records["user@shop.test"].Attempts)
}

func TestVerifyOTP_ThirdWrongCode_VoidsRecord(t *testing.T) {
	env := newTestEnv(t)
	seedOTP(t, env, "user@shop.test", "123456", 2, time.Now().Add(time.Minute))

	_, err := env.svc.VerifyOTP(context.Background(), "user@shop.test", "000000")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	_, stillThere := env.verifications.records["user@shop.test"]
	assert.False(t, stillThere)

	// Even the right code no longer works.
	_, err = env.svc.VerifyOTP(context.Background(), "user@shop.test", "123456")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestVerifyOTP_ExpiredCode(t *testing.T) {
	env := newTestEnv(t)
	seedOTP(t, env, "user@shop.test", "123456", 0, time.Now().Add(-time.Second))

	_, err := env.svc.VerifyOTP(context.Background(), "user@shop.test", "123456")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	_, stillThere := env.verifications.records["user@shop.test"]
	assert.False(t, stillThere)
}

func TestVerifyOTP_NoPendingCode(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.VerifyOTP(context.Background(), "user@shop.test", "123456")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestVerifyOTP_ExhaustedBeforeCheck(t *testing.T) {
	env := newTestEnv(t)
	seedOTP(t, env, "user@shop.test", "123456", 3, time.Now().Add(time.Minute))

	_, err := env.svc.VerifyOTP(context.Background(), "user@shop.test", "123456")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}
