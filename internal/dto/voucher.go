package dto

import (
	"time"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateVoucherItemRequest defines one line of a new voucher. Tax fields are
// optional; taxAmount is what actually feeds the totals.
type CreateVoucherItemRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" binding:"required,gt=0"`
	TaxRate     decimal.Decimal `json:"taxRate" binding:"gte=0"`
	TaxAmount   decimal.Decimal `json:"taxAmount" binding:"gte=0"`
}

// CreateVoucherRequest defines the data needed to create a draft voucher.
// The voucher amount is derived from the items, never sent by the client.
type CreateVoucherRequest struct {
	VoucherType domain.VoucherType         `json:"voucherType" binding:"required,oneof=receivable payable"`
	VoucherDate time.Time                  `json:"voucherDate" binding:"required" time_format:"2006-01-02"`
	DueDate     *time.Time                 `json:"dueDate" time_format:"2006-01-02"`
	Reference   string                     `json:"reference"`
	PartyType   domain.PartyType           `json:"partyType" binding:"required,oneof=customer supplier employee other"`
	PartyID     string                     `json:"partyID" binding:"required"`
	Description string                     `json:"description"`
	Items       []CreateVoucherItemRequest `json:"items" binding:"required,min=1,dive"`
}

// RecordPaymentRequest defines the data needed to record a payment against
// an approved voucher. AccountID is the cash or bank account the money moves
// through.
type RecordPaymentRequest struct {
	PaymentDate   time.Time            `json:"paymentDate" binding:"required" time_format:"2006-01-02"`
	Amount        decimal.Decimal      `json:"amount" binding:"required,gt=0"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" binding:"required,oneof=cash check bank_transfer credit_card online other"`
	AccountID     string               `json:"accountID" binding:"required"`
	Reference     string               `json:"reference"`
	Notes         string               `json:"notes"`
}

// VoucherItemResponse defines the data returned for a voucher line.
type VoucherItemResponse struct {
	ItemID      string          `json:"itemID"`
	AccountID   string          `json:"accountID"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID      string               `json:"paymentID"`
	PaymentDate    time.Time            `json:"paymentDate"`
	Amount         decimal.Decimal      `json:"amount"`
	PaymentMethod  domain.PaymentMethod `json:"paymentMethod"`
	AccountID      string               `json:"accountID"`
	Reference      string               `json:"reference"`
	Notes          string               `json:"notes"`
	JournalEntryID *string              `json:"journalEntryID,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	CreatedBy      string               `json:"createdBy"`
}

// VoucherResponse defines the data returned for a voucher header.
type VoucherResponse struct {
	VoucherID          string               `json:"voucherID"`
	VoucherNumber      string               `json:"voucherNumber"`
	VoucherType        domain.VoucherType   `json:"voucherType"`
	VoucherDate        time.Time            `json:"voucherDate"`
	DueDate            *time.Time           `json:"dueDate,omitempty"`
	Reference          string               `json:"reference"`
	PartyType          domain.PartyType     `json:"partyType"`
	PartyID            string               `json:"partyID"`
	PartyName          string               `json:"partyName,omitempty"`
	Description        string               `json:"description"`
	Amount             decimal.Decimal      `json:"amount"`
	Status             domain.VoucherStatus `json:"status"`
	JournalEntryID     *string              `json:"journalEntryID,omitempty"`
	TotalPaid          decimal.Decimal      `json:"totalPaid"`
	OutstandingBalance decimal.Decimal      `json:"outstandingBalance"`
	CreatedAt          time.Time            `json:"createdAt"`
	CreatedBy          string               `json:"createdBy"`
}

// GetVoucherResponse combines a voucher header with its items and payments.
type GetVoucherResponse struct {
	Voucher  VoucherResponse       `json:"voucher"`
	Items    []VoucherItemResponse `json:"items"`
	Payments []PaymentResponse     `json:"payments"`
}

// PartyOutstandingResponse aggregates the open vouchers of one party.
type PartyOutstandingResponse struct {
	PartyID          string            `json:"partyID"`
	PartyName        string            `json:"partyName"`
	TotalAmount      decimal.Decimal   `json:"totalAmount"`
	TotalOutstanding decimal.Decimal   `json:"totalOutstanding"`
	Vouchers         []VoucherResponse `json:"vouchers"`
}

// ToVoucherItemResponse converts a domain.VoucherItem to its DTO.
func ToVoucherItemResponse(item *domain.VoucherItem) VoucherItemResponse {
	return VoucherItemResponse{
		ItemID:      item.ItemID,
		AccountID:   item.AccountID,
		Description: item.Description,
		Amount:      item.Amount,
		TaxRate:     item.TaxRate,
		TaxAmount:   item.TaxAmount,
	}
}

// ToVoucherItemResponses converts a slice of domain.VoucherItem.
func ToVoucherItemResponses(items []domain.VoucherItem) []VoucherItemResponse {
	responses := make([]VoucherItemResponse, len(items))
	for i, item := range items {
		responses[i] = ToVoucherItemResponse(&item)
	}
	return responses
}

// ToPaymentResponse converts a domain.Payment to its DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:      p.PaymentID,
		PaymentDate:    p.PaymentDate,
		Amount:         p.Amount,
		PaymentMethod:  p.PaymentMethod,
		AccountID:      p.AccountID,
		Reference:      p.Reference,
		Notes:          p.Notes,
		JournalEntryID: p.JournalEntryID,
		CreatedAt:      p.CreatedAt,
		CreatedBy:      p.CreatedBy,
	}
}

// ToPaymentResponses converts a slice of domain.Payment.
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		responses[i] = ToPaymentResponse(&p)
	}
	return responses
}

// ToVoucherResponse converts a domain.Voucher header to its DTO. TotalPaid
// and OutstandingBalance are derived from the payments loaded on the domain
// value; partyName is resolved by the service and passed in.
func ToVoucherResponse(v *domain.Voucher, partyName string) VoucherResponse {
	return VoucherResponse{
		VoucherID:          v.VoucherID,
		VoucherNumber:      v.VoucherNumber,
		VoucherType:        v.VoucherType,
		VoucherDate:        v.VoucherDate,
		DueDate:            v.DueDate,
		Reference:          v.Reference,
		PartyType:          v.PartyType,
		PartyID:            v.PartyID,
		PartyName:          partyName,
		Description:        v.Description,
		Amount:             v.Amount,
		Status:             v.Status,
		JournalEntryID:     v.JournalEntryID,
		TotalPaid:          v.TotalPaid(),
		OutstandingBalance: v.OutstandingBalance(),
		CreatedAt:          v.CreatedAt,
		CreatedBy:          v.CreatedBy,
	}
}

// ListVouchersParams defines query parameters for listing vouchers.
type ListVouchersParams struct {
	Status *string `form:"status" binding:"omitempty,oneof=draft approved paid partially_paid voided"`
	Limit  int     `form:"limit,default=50"`
	Offset int     `form:"offset,default=0"`
}

// ListVouchersResponse wraps a list of voucher headers.
type ListVouchersResponse struct {
	Vouchers []VoucherResponse `json:"vouchers"`
}
