package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
	"github.com/finbooks/finbooks/internal/utils/accounting"
)

// ledgerService answers the reporting reads: per-account ledgers with
// running balances, point-in-time balances, and the account hierarchy.
type ledgerService struct {
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// GetAccountLedger returns every movement on an account within the period,
// with a running balance seeded from the balance the day before the period
// starts. Voided entries stay visible in the listing but contribute nothing
// to the running balance.
func (s *ledgerService) GetAccountLedger(ctx context.Context, accountID string, params dto.AccountLedgerParams) (*dto.AccountLedgerResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if params.To.Before(params.From) {
		return nil, fmt.Errorf("%w: to date is before from date", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	opening, err := s.ledgerRepo.AccountBalanceAsOf(ctx, accountID, params.From.AddDate(0, 0, -1))
	if err != nil {
		logger.Error("Failed to compute opening balance", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	lines, err := s.ledgerRepo.AccountLedger(ctx, accountID, params.From, params.To)
	if err != nil {
		logger.Error("Failed to load account ledger", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	resp := &dto.AccountLedgerResponse{
		Account:        dto.ToAccountResponse(account),
		From:           params.From,
		To:             params.To,
		OpeningBalance: opening,
		Lines:          make([]dto.LedgerLineResponse, 0, len(lines)),
	}

	running := opening
	for _, line := range lines {
		if line.EntryStatus == domain.EntryPosted || line.EntryStatus == domain.EntryApproved {
			delta, err := accounting.BalanceDelta(line.JournalItem, account.AccountType)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", apperrors.ErrDataIntegrity, err)
			}
			running = running.Add(delta)
		}
		resp.Lines = append(resp.Lines, dto.LedgerLineResponse{
			EntryID:          line.EntryID,
			EntryNumber:      line.EntryNumber,
			EntryDate:        line.EntryDate,
			EntryReference:   line.EntryReference,
			EntryDescription: line.EntryDescription,
			EntryStatus:      line.EntryStatus,
			ItemDescription:  line.Description,
			DebitAmount:      line.DebitAmount,
			CreditAmount:     line.CreditAmount,
			RunningBalance:   running,
		})
	}
	resp.ClosingBalance = running

	return resp, nil
}

// GetAccountBalanceAsOf reconstructs an account's balance at the end of the
// given day from posted and approved entries only. Drafts never count and
// voided entries count as if they never happened.
func (s *ledgerService) GetAccountBalanceAsOf(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return decimal.Zero, err
	}

	balance, err := s.ledgerRepo.AccountBalanceAsOf(ctx, accountID, asOf)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to compute balance as of date", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return decimal.Zero, err
	}
	return balance, nil
}

// GetAccountTree returns the chart of accounts as a forest. Accounts whose
// parent row is missing are surfaced as roots rather than dropped; a parent
// cycle is reported instead of recursing forever.
func (s *ledgerService) GetAccountTree(ctx context.Context) ([]domain.AccountNode, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.accountRepo.ListAllAccounts(ctx)
	if err != nil {
		logger.Error("Failed to list accounts for tree", slog.String("error", err.Error()))
		return nil, err
	}

	byID := make(map[string]bool, len(accounts))
	for _, account := range accounts {
		byID[account.AccountID] = true
	}

	children := make(map[string][]domain.Account)
	var roots []domain.Account
	for _, account := range accounts {
		parentID := account.ParentAccountID
		if parentID == "" || !byID[parentID] {
			roots = append(roots, account)
			continue
		}
		children[parentID] = append(children[parentID], account)
	}

	placed := 0
	var build func(account domain.Account) domain.AccountNode
	build = func(account domain.Account) domain.AccountNode {
		placed++
		node := domain.AccountNode{Account: account}
		for _, child := range children[account.AccountID] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	forest := make([]domain.AccountNode, 0, len(roots))
	for _, root := range roots {
		forest = append(forest, build(root))
	}

	if placed != len(accounts) {
		return nil, fmt.Errorf("%w: %d accounts unreachable from any root, parent links contain a cycle", apperrors.ErrDataIntegrity, len(accounts)-placed)
	}
	return forest, nil
}
