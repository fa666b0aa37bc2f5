package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its unique code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAllAccounts retrieves every account, ordered by code. Used by the
	// level recomputation and the display tree.
	ListAllAccounts(ctx context.Context) ([]domain.Account, error)

	// ListAccountsByType retrieves accounts of one type, ordered by code.
	ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error)

	// ListChildAccounts retrieves the direct children of parentID; an empty
	// parentID lists the root accounts.
	ListChildAccounts(ctx context.Context, parentID string) ([]domain.Account, error)

	// SearchAccounts matches code or name against a search term.
	SearchAccounts(ctx context.Context, term string, limit int) ([]domain.Account, error)

	// HasChildAccounts reports whether any account references accountID as parent.
	HasChildAccounts(ctx context.Context, accountID string) (bool, error)

	// HasJournalItems reports whether any journal item references accountID,
	// including items of voided entries.
	HasJournalItems(ctx context.Context, accountID string) (bool, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates name, description, parent and active flag.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account. Dependency checks are the service's
	// responsibility.
	DeleteAccount(ctx context.Context, accountID string) error

	// UpdateAccountLevels persists recomputed tree depths in one batch.
	UpdateAccountLevels(ctx context.Context, levels map[string]int, userID string, now time.Time) error
}

// AccountTransactionSupport defines the in-transaction operations the
// posting path needs: row locks and balance deltas.
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks their rows
	// (SELECT ... FOR UPDATE) within the given transaction. Missing accounts
	// surface as ErrNotFound.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx applies signed balance deltas to multiple
	// accounts within the given transaction.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
