package accounting_test

import (
	"testing"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/finbooks/finbooks/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debit(amount int64) domain.JournalItem {
	return domain.JournalItem{DebitAmount: decimal.NewFromInt(amount), CreditAmount: decimal.Zero}
}

func credit(amount int64) domain.JournalItem {
	return domain.JournalItem{DebitAmount: decimal.Zero, CreditAmount: decimal.NewFromInt(amount)}
}

func TestBalanceDelta_NormalBalanceRule(t *testing.T) {
	testCases := []struct {
		name        string
		item        domain.JournalItem
		accountType domain.AccountType
		expected    int64
	}{
		{"debit to asset increases", debit(100), domain.Asset, 100},
		{"credit to asset decreases", credit(100), domain.Asset, -100},
		{"debit to expense increases", debit(100), domain.Expense, 100},
		{"credit to expense decreases", credit(100), domain.Expense, -100},
		{"debit to liability decreases", debit(100), domain.Liability, -100},
		{"credit to liability increases", credit(100), domain.Liability, 100},
		{"debit to equity decreases", debit(100), domain.Equity, -100},
		{"credit to equity increases", credit(100), domain.Equity, 100},
		{"debit to revenue decreases", debit(100), domain.Revenue, -100},
		{"credit to revenue increases", credit(100), domain.Revenue, 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			delta, err := accounting.BalanceDelta(tc.item, tc.accountType)
			require.NoError(t, err)
			assert.True(t, delta.Equal(decimal.NewFromInt(tc.expected)), "got %s", delta)
		})
	}
}

func TestBalanceDelta_UnknownAccountType(t *testing.T) {
	_, err := accounting.BalanceDelta(debit(100), domain.AccountType("goodwill"))
	assert.Error(t, err)
}

func TestReversalDelta_InvertsPosting(t *testing.T) {
	item := debit(250)

	posting, err := accounting.BalanceDelta(item, domain.Asset)
	require.NoError(t, err)
	reversal, err := accounting.ReversalDelta(item, domain.Asset)
	require.NoError(t, err)

	assert.True(t, posting.Add(reversal).IsZero())
}

func TestSumItems(t *testing.T) {
	items := []domain.JournalItem{debit(100), debit(50), credit(150)}

	totalDebit, totalCredit := accounting.SumItems(items)

	assert.True(t, totalDebit.Equal(decimal.NewFromInt(150)))
	assert.True(t, totalCredit.Equal(decimal.NewFromInt(150)))
}

func TestIsBalanced(t *testing.T) {
	testCases := []struct {
		name     string
		debit    string
		credit   string
		balanced bool
	}{
		{"exact match", "100", "100", true},
		{"within tolerance", "100.00", "99.995", true},
		{"at tolerance", "100.00", "99.99", true},
		{"beyond tolerance", "100.00", "99.98", false},
		{"wildly off", "100", "50", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := accounting.IsBalanced(decimal.RequireFromString(tc.debit), decimal.RequireFromString(tc.credit))
			assert.Equal(t, tc.balanced, got)
		})
	}
}
