package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderIsTerminal(t *testing.T) {
	tests := []struct {
		status   string
		terminal bool
	}{
		{OrderStatusReview, false},
		{OrderStatusPending, false},
		{OrderStatusError, false},
		{OrderStatusFilled, true},
		{OrderStatusCanceled, true},
	}

	for _, tt := range tests {
		order := Order{Status: tt.status}
		if order.IsTerminal() != tt.terminal {
			t.Fatalf("IsTerminal for %s = %v, want %v", tt.status, order.IsTerminal(), tt.terminal)
		}
	}
}

func TestSetupInvestmentAmount(t *testing.T) {
	order := Order{Setup: map[string]interface{}{
		"position": map[string]interface{}{"investment_amount": 2500.0},
	}}
	amount, ok := order.SetupInvestmentAmount()
	assert.True(t, ok)
	assert.Equal(t, 2500.0, amount)

	bare := Order{}
	_, ok = bare.SetupInvestmentAmount()
	assert.False(t, ok)

	malformed := Order{Setup: map[string]interface{}{"position": "not-a-map"}}
	_, ok = malformed.SetupInvestmentAmount()
	assert.False(t, ok)
}

func TestAccountPasswordRoundTrip(t *testing.T) {
	var account Account
	if err := account.SetPassword("hunter22"); err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	assert.NotEqual(t, "hunter22", account.PasswordHash)
	assert.True(t, account.CheckPassword("hunter22"))
	assert.False(t, account.CheckPassword("wrong"))
}
