package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
	"github.com/finbooks/finbooks/internal/utils/accounting"
)

// journalService drives the entry lifecycle and the balance bookkeeping
// that goes with it.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// validateItems checks the structural rules of an entry's lines: at least
// two lines, at least two distinct accounts, every line carrying exactly one
// positive side.
func (s *journalService) validateItems(items []dto.CreateJournalItemRequest) error {
	if len(items) < 2 {
		return fmt.Errorf("%w: entry must have at least two lines", apperrors.ErrValidation)
	}

	accountIDs := make(map[string]bool)
	for i, item := range items {
		if item.DebitAmount.IsNegative() || item.CreditAmount.IsNegative() {
			return fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrValidation, i+1)
		}
		debitSet := item.DebitAmount.IsPositive()
		creditSet := item.CreditAmount.IsPositive()
		if debitSet == creditSet {
			return fmt.Errorf("%w: line %d must set exactly one of debit or credit", apperrors.ErrValidation, i+1)
		}
		accountIDs[item.AccountID] = true
	}
	if len(accountIDs) < 2 {
		return fmt.Errorf("%w: entry must touch at least two different accounts", apperrors.ErrValidation)
	}
	return nil
}

// fetchActiveAccounts loads the accounts the items reference and rejects
// unknown or inactive ones.
func (s *journalService) fetchActiveAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range accountIDs {
		account, found := accounts[id]
		if !found {
			return nil, fmt.Errorf("%w: account %s not found", apperrors.ErrValidation, id)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s (%s) is inactive", apperrors.ErrValidation, account.Code, id)
		}
	}
	return accounts, nil
}

// balanceChanges computes the signed per-account deltas an item set applies
// under the normal-balance rule. reverse flips every delta, for voiding.
func balanceChanges(items []domain.JournalItem, accounts map[string]domain.Account, reverse bool) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal)
	for _, item := range items {
		account, found := accounts[item.AccountID]
		if !found {
			return nil, fmt.Errorf("%w: account %s referenced by item %s is missing", apperrors.ErrDataIntegrity, item.AccountID, item.ItemID)
		}
		var delta decimal.Decimal
		var err error
		if reverse {
			delta, err = accounting.ReversalDelta(item, account.AccountType)
		} else {
			delta, err = accounting.BalanceDelta(item, account.AccountType)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrDataIntegrity, err)
		}
		changes[item.AccountID] = changes[item.AccountID].Add(delta)
	}
	return changes, nil
}

func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.validateItems(req.Items); err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0, len(req.Items))
	seen := make(map[string]bool)
	for _, item := range req.Items {
		if !seen[item.AccountID] {
			seen[item.AccountID] = true
			accountIDs = append(accountIDs, item.AccountID)
		}
	}
	if _, err := s.fetchActiveAccounts(ctx, accountIDs); err != nil {
		return nil, err
	}

	now := time.Now()
	entryID := uuid.NewString()
	items := make([]domain.JournalItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.JournalItem{
			ItemID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    item.AccountID,
			Description:  item.Description,
			DebitAmount:  item.DebitAmount,
			CreditAmount: item.CreditAmount,
		}
	}

	// Drafts may be unbalanced while being edited; balance is enforced at
	// posting time.
	totalDebit, totalCredit := accounting.SumItems(items)

	entry := domain.JournalEntry{
		EntryID:     entryID,
		Reference:   req.Reference,
		EntryDate:   req.EntryDate,
		Description: req.Description,
		Status:      domain.EntryDraft,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	entryNumber, err := s.journalRepo.SaveEntry(ctx, entry, items)
	if err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}
	entry.EntryNumber = entryNumber
	entry.Items = items

	logger.Info("Journal entry created", slog.String("entry_id", entryID), slog.String("entry_number", entryNumber))
	return &entry, nil
}

func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}

	items, err := s.journalRepo.FindItemsByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to load journal items", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}
	entry.Items = items
	return entry, nil
}

func (s *journalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if params.To.Before(params.From) {
		return nil, fmt.Errorf("%w: to date is before from date", apperrors.ErrValidation)
	}

	var status *domain.EntryStatus
	if params.Status != nil {
		st := domain.EntryStatus(*params.Status)
		status = &st
	}

	entries, err := s.journalRepo.ListEntriesByDateRange(ctx, params.From, params.To, status, params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list journal entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	if entries == nil {
		return []domain.JournalEntry{}, nil
	}
	return entries, nil
}

// PostEntry applies a draft entry to the books: totals are re-verified, the
// per-account deltas computed, and the status flip plus every balance update
// committed in one transaction.
func (s *journalService) PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.EntryDraft {
		return nil, fmt.Errorf("%w: entry %s is %s, only drafts can be posted", apperrors.ErrInvalidState, entryID, entry.Status)
	}

	totalDebit, totalCredit := accounting.SumItems(entry.Items)
	if !accounting.IsBalanced(totalDebit, totalCredit) {
		return nil, fmt.Errorf("%w: debits %s do not match credits %s", apperrors.ErrUnbalancedEntry, totalDebit, totalCredit)
	}

	accountIDs := make([]string, 0, len(entry.Items))
	seen := make(map[string]bool)
	for _, item := range entry.Items {
		if !seen[item.AccountID] {
			seen[item.AccountID] = true
			accountIDs = append(accountIDs, item.AccountID)
		}
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}

	changes, err := balanceChanges(entry.Items, accounts, false)
	if err != nil {
		return nil, err
	}

	if err := s.journalRepo.PostEntry(ctx, entryID, totalDebit, totalCredit, changes, userID, time.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrInvalidState) {
			logger.Error("Failed to post journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}

	logger.Info("Journal entry posted", slog.String("entry_id", entryID), slog.String("entry_number", entry.EntryNumber))
	return s.GetEntryByID(ctx, entryID)
}

// ApproveEntry records the reviewer sign-off on a posted entry. Balances
// were already applied at posting time and stay untouched.
func (s *journalService) ApproveEntry(ctx context.Context, entryID string, approverUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.EntryPosted {
		return nil, fmt.Errorf("%w: entry %s is %s, only posted entries can be approved", apperrors.ErrInvalidState, entryID, entry.Status)
	}

	if err := s.journalRepo.ApproveEntry(ctx, entryID, approverUserID, time.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrInvalidState) {
			logger.Error("Failed to approve journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}

	logger.Info("Journal entry approved", slog.String("entry_id", entryID), slog.String("approver", approverUserID))
	return s.GetEntryByID(ctx, entryID)
}

// VoidEntry reverses a posted or approved entry. The entry and its items
// stay on record with status voided; every touched account balance gets the
// exact inverse of the posting delta.
func (s *journalService) VoidEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.EntryPosted && entry.Status != domain.EntryApproved {
		return nil, fmt.Errorf("%w: entry %s is %s, only posted or approved entries can be voided", apperrors.ErrInvalidState, entryID, entry.Status)
	}

	accountIDs := make([]string, 0, len(entry.Items))
	seen := make(map[string]bool)
	for _, item := range entry.Items {
		if !seen[item.AccountID] {
			seen[item.AccountID] = true
			accountIDs = append(accountIDs, item.AccountID)
		}
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}

	changes, err := balanceChanges(entry.Items, accounts, true)
	if err != nil {
		return nil, err
	}

	if err := s.journalRepo.VoidEntry(ctx, entryID, changes, userID, time.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrInvalidState) {
			logger.Error("Failed to void journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}

	logger.Info("Journal entry voided", slog.String("entry_id", entryID), slog.String("entry_number", entry.EntryNumber))
	return s.GetEntryByID(ctx, entryID)
}
