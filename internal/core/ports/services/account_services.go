package services

import (
	"context"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/finbooks/finbooks/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts.
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its unique code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts retrieves accounts, optionally filtered by type.
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)

	// ListChildAccounts retrieves the direct children of an account; an
	// empty accountID lists the roots.
	ListChildAccounts(ctx context.Context, accountID string) ([]domain.Account, error)

	// SearchAccounts matches accounts by code or name.
	SearchAccounts(ctx context.Context, params dto.SearchAccountsParams) ([]domain.Account, error)

	// GetAccountPath returns the chain of accounts from the root down to
	// accountID, root first. A parent cycle fails with ErrDataIntegrity.
	GetAccountPath(ctx context.Context, accountID string) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for the chart of accounts.
type AccountWriterSvc interface {
	// CreateAccount persists a new account under an optional parent.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// UpdateAccount updates an existing account's details; re-parenting
	// triggers a level recomputation.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, updaterUserID string) (*domain.Account, error)

	// DeleteAccount removes an account that has no children and no journal
	// history.
	DeleteAccount(ctx context.Context, accountID string) error

	// RecomputeLevels rewrites every account's tree depth from the parent
	// links. A parent cycle fails with ErrDataIntegrity before any write.
	RecomputeLevels(ctx context.Context, updaterUserID string) error
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
