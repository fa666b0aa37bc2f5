package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal data.
type JournalReader interface {
	// FindEntryByID retrieves a journal entry header.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindItemsByEntryID retrieves the items of an entry in insertion order.
	FindItemsByEntryID(ctx context.Context, entryID string) ([]domain.JournalItem, error)

	// ListEntriesByDateRange retrieves entry headers within [start, end],
	// optionally filtered by status, newest first.
	ListEntriesByDateRange(ctx context.Context, start, end time.Time, status *domain.EntryStatus, limit, offset int) ([]domain.JournalEntry, error)
}

// JournalWriter defines the atomic write operations of the ledger. Each
// method is one all-or-nothing transaction.
type JournalWriter interface {
	// SaveEntry persists a draft header plus all items. When
	// entry.EntryNumber is empty a JE-YYYYMMDD-NNNN number is generated
	// inside the same transaction; the number used is returned.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, items []domain.JournalItem) (string, error)

	// PostEntry transitions draft -> posted, records the totals, and applies
	// the balance deltas under row locks. A non-draft entry fails with
	// ErrInvalidState and nothing changes.
	PostEntry(ctx context.Context, entryID string, totalDebit, totalCredit decimal.Decimal, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error

	// ApproveEntry transitions posted -> approved; metadata only.
	ApproveEntry(ctx context.Context, entryID, approverID string, now time.Time) error

	// VoidEntry transitions posted|approved -> voided and applies the
	// reversal deltas, with the same atomicity as PostEntry.
	VoidEntry(ctx context.Context, entryID string, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// JournalTransactionSupport exposes the journal mutations as steps inside a
// caller-owned transaction, so the voucher workflow can combine them with
// its own row changes in one atomic unit.
type JournalTransactionSupport interface {
	// InsertEntryInTx persists a header plus items within tx, generating the
	// entry number when absent. Returns the entry number used.
	InsertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, items []domain.JournalItem) (string, error)

	// MarkPostedInTx flips draft -> posted with totals within tx.
	MarkPostedInTx(ctx context.Context, tx pgx.Tx, entryID string, totalDebit, totalCredit decimal.Decimal, userID string, now time.Time) error

	// MarkVoidedInTx flips posted|approved -> voided within tx.
	MarkVoidedInTx(ctx context.Context, tx pgx.Tx, entryID string, userID string, now time.Time) error
}

// JournalRepositoryFacade combines all journal repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	JournalTransactionSupport
}
