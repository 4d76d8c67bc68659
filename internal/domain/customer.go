package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// CustomerProfile holds the delivery details for one customer, keyed by the
// email the OTP login verified. One profile per email.
type CustomerProfile struct {
	Email     string    `json:"email" dynamodbav:"email"`
	Name      string    `json:"name" dynamodbav:"name"`
	Phone     string    `json:"phone" dynamodbav:"phone"`
	Address   string    `json:"address" dynamodbav:"address"`
	City      string    `json:"city" dynamodbav:"city"`
	State     string    `json:"state" dynamodbav:"state"`
	Pincode   string    `json:"pincode" dynamodbav:"pincode"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

// IsComplete reports whether the profile carries everything checkout needs.
func (p *CustomerProfile) IsComplete() bool {
	return strings.TrimSpace(p.Name) != "" &&
		strings.TrimSpace(p.Phone) != "" &&
		strings.TrimSpace(p.Address) != ""
}

type UpsertProfileRequest struct {
	Name    string `json:"name" validate:"required,min=2"`
	Phone   string `json:"phone" validate:"required,e164|numeric"`
	Address string `json:"address" validate:"required,min=5"`
	City    string `json:"city" validate:"required,min=2"`
	State   string `json:"state" validate:"required,min=2"`
	Pincode string `json:"pincode" validate:"required,len=6,numeric"`
}
