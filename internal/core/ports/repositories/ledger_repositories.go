package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines the reporting reads over posted journal data.
type LedgerReader interface {
	// AccountLedger retrieves the journal items touching an account within
	// [start, end], joined with their entry headers, excluding drafts,
	// ordered by entry date then entry number.
	AccountLedger(ctx context.Context, accountID string, start, end time.Time) ([]domain.LedgerLine, error)

	// AccountBalanceAsOf computes the signed balance of an account from
	// posted and approved entries dated on or before asOf.
	AccountBalanceAsOf(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error)
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
}
