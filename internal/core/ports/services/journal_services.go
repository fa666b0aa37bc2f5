package services

import (
	"context"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/finbooks/finbooks/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries.
type JournalReaderSvc interface {
	// GetEntryByID retrieves an entry header with its items loaded.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves entry headers for a date range.
	ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, error)
}

// JournalWriterSvc drives the entry lifecycle:
//
//	draft -> posted -> approved
//	         posted/approved -> voided
type JournalWriterSvc interface {
	// CreateEntry validates item shape and persists a draft entry. Drafts
	// may be unbalanced while being edited; account balances are untouched.
	CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// PostEntry transitions a draft to posted and applies every item to its
	// account balance atomically.
	PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)

	// ApproveEntry marks a posted entry approved. Balances are untouched.
	ApproveEntry(ctx context.Context, entryID string, approverUserID string) (*domain.JournalEntry, error)

	// VoidEntry reverses a posted or approved entry, restoring every touched
	// balance exactly.
	VoidEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces.
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
