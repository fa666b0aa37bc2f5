package dto

import (
	"time"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountLedgerParams defines query parameters for the account ledger.
type AccountLedgerParams struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}

// BalanceAsOfParams defines query parameters for the point-in-time balance.
type BalanceAsOfParams struct {
	AsOf time.Time `form:"asOf" binding:"required" time_format:"2006-01-02"`
}

// LedgerLineResponse is one movement on an account's ledger. RunningBalance
// carries the cumulative signed balance after this line.
type LedgerLineResponse struct {
	EntryID          string             `json:"entryID"`
	EntryNumber      string             `json:"entryNumber"`
	EntryDate        time.Time          `json:"entryDate"`
	EntryReference   string             `json:"entryReference"`
	EntryDescription string             `json:"entryDescription"`
	EntryStatus      domain.EntryStatus `json:"entryStatus"`
	ItemDescription  string             `json:"itemDescription"`
	DebitAmount      decimal.Decimal    `json:"debitAmount"`
	CreditAmount     decimal.Decimal    `json:"creditAmount"`
	RunningBalance   decimal.Decimal    `json:"runningBalance"`
}

// AccountLedgerResponse is the ledger of one account over a period.
type AccountLedgerResponse struct {
	Account        AccountResponse      `json:"account"`
	From           time.Time            `json:"from"`
	To             time.Time            `json:"to"`
	OpeningBalance decimal.Decimal      `json:"openingBalance"`
	ClosingBalance decimal.Decimal      `json:"closingBalance"`
	Lines          []LedgerLineResponse `json:"lines"`
}

// AccountBalanceAsOfResponse is the reconstructed balance of an account at a
// point in time.
type AccountBalanceAsOfResponse struct {
	AccountID string          `json:"accountID"`
	AsOf      time.Time       `json:"asOf"`
	Balance   decimal.Decimal `json:"balance"`
}
