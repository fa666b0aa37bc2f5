package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
//
// Lifecycle: draft --post--> posted --approve--> approved;
// posted|approved --void--> voided. Draft and voided entries never affect
// account balances.
type EntryStatus string

const (
	EntryDraft    EntryStatus = "draft"
	EntryPosted   EntryStatus = "posted"
	EntryApproved EntryStatus = "approved"
	EntryVoided   EntryStatus = "voided"
)

// JournalEntry is a single double-entry event. TotalDebit/TotalCredit are
// recorded at posting time from the item sums; drafts may be unbalanced.
type JournalEntry struct {
	EntryID     string          `json:"entryID"`
	EntryNumber string          `json:"entryNumber"` // JE-YYYYMMDD-NNNN, unique
	Reference   string          `json:"reference"`
	EntryDate   time.Time       `json:"entryDate"`
	Description string          `json:"description"`
	Status      EntryStatus     `json:"status"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	ApprovedBy  *string         `json:"approvedBy,omitempty"`
	ApprovedAt  *time.Time      `json:"approvedAt,omitempty"`
	AuditFields

	// Items are loaded on demand; nil when only the header was fetched.
	Items []JournalItem `json:"items,omitempty"`
}

// JournalItem is one line of a journal entry. Exactly one of DebitAmount and
// CreditAmount is positive, the other zero.
type JournalItem struct {
	ItemID       string          `json:"itemID"`
	EntryID      string          `json:"entryID"`
	AccountID    string          `json:"accountID"`
	Description  string          `json:"description"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
}

// LedgerLine is a journal item joined with its parent entry header, as
// returned by the account ledger statement.
type LedgerLine struct {
	JournalItem
	EntryNumber      string      `json:"entryNumber"`
	EntryDate        time.Time   `json:"entryDate"`
	EntryReference   string      `json:"entryReference"`
	EntryDescription string      `json:"entryDescription"`
	EntryStatus      EntryStatus `json:"entryStatus"`
}
