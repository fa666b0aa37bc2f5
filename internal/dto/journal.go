package dto

import (
	"time"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalItemRequest defines one line of a new journal entry. Exactly
// one of debitAmount/creditAmount should be non-zero; the service rejects
// lines that set both or neither.
type CreateJournalItemRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	Description  string          `json:"description"`
	DebitAmount  decimal.Decimal `json:"debitAmount" binding:"gte=0"`
	CreditAmount decimal.Decimal `json:"creditAmount" binding:"gte=0"`
}

// CreateJournalEntryRequest defines the data needed to create a draft entry.
type CreateJournalEntryRequest struct {
	EntryDate   time.Time                  `json:"entryDate" binding:"required" time_format:"2006-01-02"`
	Reference   string                     `json:"reference"`
	Description string                     `json:"description"`
	Items       []CreateJournalItemRequest `json:"items" binding:"required,min=2,dive"`
}

// JournalItemResponse defines the data returned for a journal item.
type JournalItemResponse struct {
	ItemID       string          `json:"itemID"`
	AccountID    string          `json:"accountID"`
	Description  string          `json:"description"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
}

// JournalEntryResponse defines the data returned for an entry header.
type JournalEntryResponse struct {
	EntryID     string             `json:"entryID"`
	EntryNumber string             `json:"entryNumber"`
	Reference   string             `json:"reference"`
	EntryDate   time.Time          `json:"entryDate"`
	Description string             `json:"description"`
	Status      domain.EntryStatus `json:"status"`
	TotalDebit  decimal.Decimal    `json:"totalDebit"`
	TotalCredit decimal.Decimal    `json:"totalCredit"`
	ApprovedBy  *string            `json:"approvedBy,omitempty"`
	ApprovedAt  *time.Time         `json:"approvedAt,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	CreatedBy   string             `json:"createdBy"`
}

// GetJournalEntryResponse combines an entry header with its items.
type GetJournalEntryResponse struct {
	Entry JournalEntryResponse  `json:"entry"`
	Items []JournalItemResponse `json:"items"`
}

// ToJournalItemResponse converts a domain.JournalItem to its DTO.
func ToJournalItemResponse(item *domain.JournalItem) JournalItemResponse {
	return JournalItemResponse{
		ItemID:       item.ItemID,
		AccountID:    item.AccountID,
		Description:  item.Description,
		DebitAmount:  item.DebitAmount,
		CreditAmount: item.CreditAmount,
	}
}

// ToJournalItemResponses converts a slice of domain.JournalItem.
func ToJournalItemResponses(items []domain.JournalItem) []JournalItemResponse {
	responses := make([]JournalItemResponse, len(items))
	for i, item := range items {
		responses[i] = ToJournalItemResponse(&item)
	}
	return responses
}

// ToJournalEntryResponse converts a domain.JournalEntry header to its DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	return JournalEntryResponse{
		EntryID:     e.EntryID,
		EntryNumber: e.EntryNumber,
		Reference:   e.Reference,
		EntryDate:   e.EntryDate,
		Description: e.Description,
		Status:      e.Status,
		TotalDebit:  e.TotalDebit,
		TotalCredit: e.TotalCredit,
		ApprovedBy:  e.ApprovedBy,
		ApprovedAt:  e.ApprovedAt,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
}

// ToListJournalEntryResponse converts a slice of entry headers.
func ToListJournalEntryResponse(entries []domain.JournalEntry) []JournalEntryResponse {
	res := make([]JournalEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = ToJournalEntryResponse(&e)
	}
	return res
}

// ListJournalEntriesParams defines query parameters for listing entries.
type ListJournalEntriesParams struct {
	From   time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To     time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
	Status *string   `form:"status" binding:"omitempty,oneof=draft posted approved voided"`
	Limit  int       `form:"limit,default=50"`
	Offset int       `form:"offset,default=0"`
}

// ListJournalEntriesResponse wraps the list of entry headers.
type ListJournalEntriesResponse struct {
	Entries []JournalEntryResponse `json:"entries"`
}
