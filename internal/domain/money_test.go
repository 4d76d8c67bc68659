package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMinor(t *testing.T) {
	cases := []struct {
		name     string
		amount   int64
		currency string
		want     string
	}{
		{"zero", 0, "INR", "₹0.00"},
		{"sub unit", 5, "INR", "₹0.05"},
		{"whole", 25000, "INR", "₹250.00"},
		{"with paise", 32070, "INR", "₹320.70"},
		{"thousands", 123456789, "INR", "₹1,234,567.89"},
		{"usd", 9999, "USD", "$99.99"},
		{"eur", 100, "EUR", "€1.00"},
		{"unknown currency falls back to code", 100, "XYZ", "XYZ 1.00"},
		{"negative", -7000, "INR", "-₹70.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatMinor(tc.amount, tc.currency))
		})
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusConfirmed))
	assert.True(t, OrderStatusConfirmed.CanTransitionTo(OrderStatusShipped))
	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusDelivered))

	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusShipped), "no skipping")
	assert.False(t, OrderStatusShipped.CanTransitionTo(OrderStatusConfirmed), "no rollback")
	assert.False(t, OrderStatusDelivered.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusPending))

	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
}
