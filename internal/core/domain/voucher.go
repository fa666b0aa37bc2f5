package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType distinguishes money owed to us from money we owe.
type VoucherType string

const (
	Receivable VoucherType = "receivable"
	Payable    VoucherType = "payable"
)

// VoucherStatus indicates the state of a voucher.
//
// Lifecycle: draft --approve--> approved --payment--> partially_paid|paid;
// approved|partially_paid --void--> voided (only with zero payments).
type VoucherStatus string

const (
	VoucherDraft         VoucherStatus = "draft"
	VoucherApproved      VoucherStatus = "approved"
	VoucherPaid          VoucherStatus = "paid"
	VoucherPartiallyPaid VoucherStatus = "partially_paid"
	VoucherVoided        VoucherStatus = "voided"
)

// PartyType identifies which registry the voucher's counterparty lives in.
type PartyType string

const (
	PartyCustomer PartyType = "customer"
	PartySupplier PartyType = "supplier"
	PartyEmployee PartyType = "employee"
	PartyOther    PartyType = "other"
)

// IsValid reports whether t is one of the recognized party types.
func (t PartyType) IsValid() bool {
	switch t {
	case PartyCustomer, PartySupplier, PartyEmployee, PartyOther:
		return true
	}
	return false
}

// PaymentMethod is how a voucher payment was settled.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodCheck        PaymentMethod = "check"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCreditCard   PaymentMethod = "credit_card"
	MethodOnline       PaymentMethod = "online"
	MethodOther        PaymentMethod = "other"
)

// Voucher is a pending receivable or payable obligation. Approval posts a
// balancing journal entry (linked via JournalEntryID); every payment posts a
// further settlement entry. The voucher itself never touches balances.
type Voucher struct {
	VoucherID      string          `json:"voucherID"`
	VoucherNumber  string          `json:"voucherNumber"` // AR-/AP-YYYYMMDD-NNNN, unique
	VoucherType    VoucherType     `json:"voucherType"`
	VoucherDate    time.Time       `json:"voucherDate"`
	DueDate        *time.Time      `json:"dueDate,omitempty"` // nil when no credit terms apply
	Reference      string          `json:"reference"`
	PartyType      PartyType       `json:"partyType"`
	PartyID        string          `json:"partyID"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	Status         VoucherStatus   `json:"status"`
	JournalEntryID *string         `json:"journalEntryID,omitempty"`
	ApprovedBy     *string         `json:"approvedBy,omitempty"`
	ApprovedAt     *time.Time      `json:"approvedAt,omitempty"`
	AuditFields

	// Loaded on demand.
	Items    []VoucherItem `json:"items,omitempty"`
	Payments []Payment     `json:"payments,omitempty"`
}

// VoucherItem is one revenue/expense line of a voucher.
type VoucherItem struct {
	ItemID      string          `json:"itemID"`
	VoucherID   string          `json:"voucherID"`
	AccountID   string          `json:"accountID"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
}

// Payment is one settlement against a voucher, linked to the journal entry
// it generated.
type Payment struct {
	PaymentID      string          `json:"paymentID"`
	VoucherID      string          `json:"voucherID"`
	PaymentDate    time.Time       `json:"paymentDate"`
	PaymentMethod  PaymentMethod   `json:"paymentMethod"`
	AccountID      string          `json:"accountID"` // cash or bank account settled against
	Reference      string          `json:"reference"`
	Amount         decimal.Decimal `json:"amount"`
	Notes          string          `json:"notes"`
	JournalEntryID *string         `json:"journalEntryID,omitempty"`
	AuditFields
}

// TotalPaid sums the recorded payments.
func (v *Voucher) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range v.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// OutstandingBalance is amount minus total paid.
func (v *Voucher) OutstandingBalance() decimal.Decimal {
	return v.Amount.Sub(v.TotalPaid())
}
