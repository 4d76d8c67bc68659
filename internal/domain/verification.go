package domain

// OTPVerification stores one pending login code per email.
// Code holds a bcrypt hash, never the plaintext digits.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type OTPVerification struct {
	Email     string `json:"email" dynamodbav:"email"`
	Code      string `json:"-" dynamodbav:"code"`
	Attempts  int    `json:"attempts" dynamodbav:"attempts"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
