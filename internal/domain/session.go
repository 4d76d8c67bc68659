package domain

import "time"

// Session is the bearer credential record created by OTP verification.
// ExpiresAt is a Unix timestamp checked on every authenticated read; a
// disabled or expired session means "re-authenticate".
type Session struct {
	SessionID string           `json:"id" dynamodbav:"session_id"`
	Email     string           `json:"email" dynamodbav:"email"`
	Role      string           `json:"role" dynamodbav:"role"`
	Enable    bool             `json:"enable" dynamodbav:"enable"`
	ExpiresAt int64            `json:"expires_at" dynamodbav:"expires_at"`
	CreatedAt time.Time        `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time        `json:"updated" dynamodbav:"updated_at"`
	Profile   *CustomerProfile `json:"profile,omitempty" dynamodbav:"-"`
}

// Valid reports whether the session is active at time now.
func (s *Session) Valid(now time.Time) bool {
	return s.Enable && now.Unix() < s.ExpiresAt
}
