package accounting

import (
	"fmt"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the maximum permitted difference between total debits
// and total credits for an entry to be considered balanced. Kept as a
// variable rather than a literal so deployments with different rounding
// policies can adjust it.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// BalanceDelta returns the signed change a journal item applies to its
// account's balance under the normal-balance rule:
//
//	DEBIT  to asset/expense             -> +
//	CREDIT to asset/expense             -> -
//	DEBIT  to liability/equity/revenue  -> -
//	CREDIT to liability/equity/revenue  -> +
func BalanceDelta(item domain.JournalItem, accountType domain.AccountType) (decimal.Decimal, error) {
	if !accountType.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown account type %q for account %s", accountType, item.AccountID)
	}

	delta := decimal.Zero
	switch accountType {
	case domain.Asset, domain.Expense:
		delta = item.DebitAmount.Sub(item.CreditAmount)
	case domain.Liability, domain.Equity, domain.Revenue:
		delta = item.CreditAmount.Sub(item.DebitAmount)
	}
	return delta, nil
}

// ReversalDelta returns the signed change that undoes a previously posted
// item: debit amounts are treated as credits and vice versa.
func ReversalDelta(item domain.JournalItem, accountType domain.AccountType) (decimal.Decimal, error) {
	delta, err := BalanceDelta(item, accountType)
	if err != nil {
		return decimal.Zero, err
	}
	return delta.Neg(), nil
}

// SumItems returns the debit and credit totals over a set of journal items.
func SumItems(items []domain.JournalItem) (totalDebit, totalCredit decimal.Decimal) {
	totalDebit = decimal.Zero
	totalCredit = decimal.Zero
	for _, item := range items {
		totalDebit = totalDebit.Add(item.DebitAmount)
		totalCredit = totalCredit.Add(item.CreditAmount)
	}
	return totalDebit, totalCredit
}

// IsBalanced reports whether the debit and credit totals agree within
// BalanceTolerance.
func IsBalanced(totalDebit, totalCredit decimal.Decimal) bool {
	return totalDebit.Sub(totalCredit).Abs().LessThanOrEqual(BalanceTolerance)
}
