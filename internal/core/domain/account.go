package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "asset"
	Liability AccountType = "liability"
	Equity    AccountType = "equity"
	Revenue   AccountType = "revenue"
	Expense   AccountType = "expense"
)

// IsValid reports whether t is one of the five recognized account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account is a node in the chart of accounts. ParentAccountID empty means
// the account is a root; Level is the depth from the root (root = 1) and is
// recomputed by the registry whenever the tree shape changes.
type Account struct {
	AccountID       string          `json:"accountID"`
	Code            string          `json:"code"` // globally unique
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	AccountType     AccountType     `json:"accountType"`
	ParentAccountID string          `json:"parentAccountID"`
	Level           int             `json:"level"`
	Balance         decimal.Decimal `json:"balance"`
	IsActive        bool            `json:"isActive"`
	AuditFields
}

// AccountNode is an account with its children materialized, used by the
// read-side tree query for display.
type AccountNode struct {
	Account
	Children []AccountNode `json:"children"`
}
