package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerSvcFacade defines the reporting reads over the posted ledger.
type LedgerSvcFacade interface {
	// GetAccountLedger returns an account's movements over a period with a
	// running balance, excluding drafts.
	GetAccountLedger(ctx context.Context, accountID string, params dto.AccountLedgerParams) (*dto.AccountLedgerResponse, error)

	// GetAccountBalanceAsOf reconstructs an account's balance at the end of
	// the given day from posted and approved entries.
	GetAccountBalanceAsOf(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error)

	// GetAccountTree returns the full chart of accounts as a forest of root
	// nodes. A parent cycle fails with ErrDataIntegrity.
	GetAccountTree(ctx context.Context) ([]domain.AccountNode, error)
}
