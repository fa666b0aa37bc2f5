package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
)

// accountService provides chart-of-accounts operations.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

// Ensure accountService implements the portssvc.AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: account code is required", apperrors.ErrValidation)
	}
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	// Code must be unique across the whole chart.
	existing, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check account code uniqueness", slog.String("error", err.Error()), slog.String("code", code))
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, code)
	}

	parentID := ""
	level := 1
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s not found", apperrors.ErrValidation, *req.ParentAccountID)
			}
			logger.Error("Failed to fetch parent account", slog.String("error", err.Error()), slog.String("parent_account_id", *req.ParentAccountID))
			return nil, err
		}
		if parent.AccountType != req.AccountType {
			return nil, fmt.Errorf("%w: parent account type %s does not match %s", apperrors.ErrValidation, parent.AccountType, req.AccountType)
		}
		parentID = parent.AccountID
		level = parent.Level + 1
	}

	now := time.Now()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            code,
		Name:            req.Name,
		Description:     req.Description,
		AccountType:     req.AccountType,
		ParentAccountID: parentID,
		Level:           level,
		Balance:         decimal.Zero,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account in repository", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account by ID in repository", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account by code in repository", slog.String("error", err.Error()), slog.String("code", code))
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts retrieves accounts, optionally filtered by type.
func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var accounts []domain.Account
	var err error
	if params.AccountType != nil {
		accounts, err = s.accountRepo.ListAccountsByType(ctx, domain.AccountType(*params.AccountType))
	} else {
		accounts, err = s.accountRepo.ListAllAccounts(ctx)
	}
	if err != nil {
		logger.Error("Failed to list accounts from repository", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) ListChildAccounts(ctx context.Context, accountID string) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	accounts, err := s.accountRepo.ListChildAccounts(ctx, accountID)
	if err != nil {
		logger.Error("Failed to list child accounts from repository", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list child accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) SearchAccounts(ctx context.Context, params dto.SearchAccountsParams) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	accounts, err := s.accountRepo.SearchAccounts(ctx, params.Query, params.Limit)
	if err != nil {
		logger.Error("Failed to search accounts in repository", slog.String("error", err.Error()), slog.String("query", params.Query))
		return nil, fmt.Errorf("failed to search accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// GetAccountPath walks the parent chain from accountID up to its root and
// returns the chain root first. A repeated account on the way up means the
// parent links form a cycle, which is reported instead of looping forever.
func (s *accountService) GetAccountPath(ctx context.Context, accountID string) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var path []domain.Account
	visited := make(map[string]bool)
	currentID := accountID
	for currentID != "" {
		if visited[currentID] {
			logger.Error("Cycle detected in account parent chain", slog.String("account_id", accountID), slog.String("repeated_id", currentID))
			return nil, fmt.Errorf("%w: account parent chain contains a cycle at %s", apperrors.ErrDataIntegrity, currentID)
		}
		visited[currentID] = true

		account, err := s.accountRepo.FindAccountByID(ctx, currentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) && currentID != accountID {
				// Broken parent link partway up the chain.
				return nil, fmt.Errorf("%w: parent account %s is missing", apperrors.ErrDataIntegrity, currentID)
			}
			return nil, err
		}
		path = append([]domain.Account{*account}, path...)
		currentID = account.ParentAccountID
	}
	return path, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, updaterUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	reparented := false
	if req.ParentAccountID != nil && *req.ParentAccountID != account.ParentAccountID {
		newParentID := *req.ParentAccountID
		if newParentID == accountID {
			return nil, fmt.Errorf("%w: account cannot be its own parent", apperrors.ErrValidation)
		}
		if newParentID != "" {
			parent, err := s.accountRepo.FindAccountByID(ctx, newParentID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, fmt.Errorf("%w: parent account %s not found", apperrors.ErrValidation, newParentID)
				}
				return nil, err
			}
			if parent.AccountType != account.AccountType {
				return nil, fmt.Errorf("%w: parent account type %s does not match %s", apperrors.ErrValidation, parent.AccountType, account.AccountType)
			}
			// The new parent must not be a descendant of this account,
			// otherwise the re-parenting would close a cycle.
			parentPath, err := s.GetAccountPath(ctx, newParentID)
			if err != nil {
				return nil, err
			}
			for _, ancestor := range parentPath {
				if ancestor.AccountID == accountID {
					return nil, fmt.Errorf("%w: cannot move account under its own descendant %s", apperrors.ErrValidation, newParentID)
				}
			}
		}
		account.ParentAccountID = newParentID
		reparented = true
	}

	now := time.Now()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = updaterUserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account in repository", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	if reparented {
		if err := s.RecomputeLevels(ctx, updaterUserID); err != nil {
			return nil, err
		}
		// Reload to pick up the recomputed level.
		return s.accountRepo.FindAccountByID(ctx, accountID)
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	return account, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, accountID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return err
	}

	hasChildren, err := s.accountRepo.HasChildAccounts(ctx, accountID)
	if err != nil {
		logger.Error("Failed to check child accounts", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return err
	}
	if hasChildren {
		return fmt.Errorf("%w: account %s has child accounts", apperrors.ErrHasChildren, accountID)
	}

	hasItems, err := s.accountRepo.HasJournalItems(ctx, accountID)
	if err != nil {
		logger.Error("Failed to check journal history", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return err
	}
	if hasItems {
		return fmt.Errorf("%w: account %s has journal history", apperrors.ErrHasTransactions, accountID)
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		logger.Error("Failed to delete account in repository", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return err
	}

	logger.Info("Account deleted", slog.String("account_id", accountID))
	return nil
}

// RecomputeLevels rewrites every account's level from the parent links with
// a breadth-first walk from the roots. Accounts whose parent row is missing
// are treated as roots; accounts never reached by the walk sit on a parent
// cycle and abort the recomputation before any write.
func (s *accountService) RecomputeLevels(ctx context.Context, updaterUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.accountRepo.ListAllAccounts(ctx)
	if err != nil {
		logger.Error("Failed to list accounts for level recomputation", slog.String("error", err.Error()))
		return err
	}
	if len(accounts) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Account, len(accounts))
	children := make(map[string][]string, len(accounts))
	var queue []string
	for i := range accounts {
		byID[accounts[i].AccountID] = &accounts[i]
	}
	for i := range accounts {
		parentID := accounts[i].ParentAccountID
		if parentID == "" || byID[parentID] == nil {
			queue = append(queue, accounts[i].AccountID)
			continue
		}
		children[parentID] = append(children[parentID], accounts[i].AccountID)
	}

	levels := make(map[string]int, len(accounts))
	for _, rootID := range queue {
		levels[rootID] = 1
	}
	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]
		for _, childID := range children[currentID] {
			if _, seen := levels[childID]; seen {
				return fmt.Errorf("%w: account parent links contain a cycle at %s", apperrors.ErrDataIntegrity, childID)
			}
			levels[childID] = levels[currentID] + 1
			queue = append(queue, childID)
		}
	}
	if len(levels) != len(accounts) {
		return fmt.Errorf("%w: %d accounts unreachable from any root, parent links contain a cycle", apperrors.ErrDataIntegrity, len(accounts)-len(levels))
	}

	// Persist only the levels that actually changed.
	changed := make(map[string]int)
	for id, level := range levels {
		if byID[id].Level != level {
			changed[id] = level
		}
	}
	if len(changed) == 0 {
		return nil
	}

	if err := s.accountRepo.UpdateAccountLevels(ctx, changed, updaterUserID, time.Now()); err != nil {
		logger.Error("Failed to persist recomputed levels", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Account levels recomputed", slog.Int("updated", len(changed)))
	return nil
}
