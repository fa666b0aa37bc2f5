package domain_test

import (
	"testing"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func payment(amount string) domain.Payment {
	return domain.Payment{Amount: decimal.RequireFromString(amount)}
}

func TestVoucherTotalPaid(t *testing.T) {
	testCases := []struct {
		name     string
		payments []domain.Payment
		expected string
	}{
		{"no payments", nil, "0"},
		{"single payment", []domain.Payment{payment("40")}, "40"},
		{"multiple payments", []domain.Payment{payment("40"), payment("60.50")}, "100.50"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := domain.Voucher{Payments: tc.payments}
			assert.True(t, v.TotalPaid().Equal(decimal.RequireFromString(tc.expected)), "got %s", v.TotalPaid())
		})
	}
}

func TestVoucherOutstandingBalance(t *testing.T) {
	testCases := []struct {
		name     string
		amount   string
		payments []domain.Payment
		expected string
	}{
		{"nothing paid", "110", nil, "110"},
		{"partially paid", "110", []domain.Payment{payment("40")}, "70"},
		{"fully paid", "110", []domain.Payment{payment("40"), payment("70")}, "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := domain.Voucher{Amount: decimal.RequireFromString(tc.amount), Payments: tc.payments}
			got := v.OutstandingBalance()
			assert.True(t, got.Equal(decimal.RequireFromString(tc.expected)), "got %s", got)
		})
	}
}

func TestPartyTypeIsValid(t *testing.T) {
	assert.True(t, domain.PartyCustomer.IsValid())
	assert.True(t, domain.PartySupplier.IsValid())
	assert.True(t, domain.PartyEmployee.IsValid())
	assert.True(t, domain.PartyOther.IsValid())
	assert.False(t, domain.PartyType("vendor").IsValid())
}
