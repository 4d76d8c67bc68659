package smtp

import (
	"testing"
	"time"

	"github.com/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProfile() *domain.CustomerProfile {
	return &domain.CustomerProfile{
		Email: "a@b.com", Name: "Asha", Phone: "9876543210",
		Address: "12 Lane", City: "Pune", State: "MH", Pincode: "411001",
	}
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		OrderID: "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Email:   "a@b.com",
		Lines: []domain.CartLine{
			{ProductID: "p1", Name: "Candle", UnitPriceMinor: 10000, Currency: "INR", Quantity: 2},
			{ProductID: "p2", Name: "Mug", UnitPriceMinor: 5000, Currency: "INR", Quantity: 1},
		},
		SubtotalMinor: 25000, ShippingMinor: 7000, TotalMinor: 32000,
		Currency: "INR", Status: domain.OrderStatusPending,
		CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestOTPEmail(t *testing.T) {
	subject, body, err := OTPEmail("123456", 5*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, "Your Verification Code", subject)
	assert.Contains(t, body, "123456")
	assert.Contains(t, body, "expire in 5 minutes")
}

func TestNewCustomerEmail(t *testing.T) {
	subject, body, err := NewCustomerEmail("Test Store", sampleProfile())

	require.NoError(t, err)
	assert.Equal(t, "New Customer Registration - Asha", subject)
	assert.Contains(t, body, "Asha")
	assert.Contains(t, body, "a@b.com")
	assert.Contains(t, body, "411001")
	assert.Contains(t, body, "Test Store")
}

func TestNewCustomerEmail_EscapesCustomerInput(t *testing.T) {
	p := sampleProfile()
	p.Name = `<script>alert("x")</script>`

	_, body, err := NewCustomerEmail("Test Store", p)

	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}

func TestOwnerOrderEmail(t *testing.T) {
	subject, body, err := OwnerOrderEmail(sampleOrder(), sampleProfile())

	require.NoError(t, err)
	assert.Contains(t, subject, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.Contains(t, subject, "₹320.00")
	assert.Contains(t, body, "Candle")
	assert.Contains(t, body, "₹200.00", "line price is unit price times quantity")
	assert.Contains(t, body, "Mug")
	assert.Contains(t, body, "₹320.00")
	assert.Contains(t, body, "12 Lane")
}

func TestCustomerOrderEmail(t *testing.T) {
	subject, body, err := CustomerOrderEmail(sampleOrder(), sampleProfile())

	require.NoError(t, err)
	assert.Equal(t, "Order Confirmation #01ARZ3NDEKTSV4RRFFQ69G5FAV", subject)
	assert.Contains(t, body, "Dear Asha")
	assert.Contains(t, body, "₹320.00")
	assert.Contains(t, body, "Mar 14, 2026")
}
