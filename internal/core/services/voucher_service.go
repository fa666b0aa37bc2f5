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

// ControlAccounts holds the IDs of the summary accounts the voucher
// workflow posts against: the accounts-receivable and accounts-payable
// control accounts. Both are resolved from configuration at startup; a
// voucher approval with the matching side unset fails with
// ErrConfiguration.
type ControlAccounts struct {
	ReceivableAccountID string
	PayableAccountID    string
}

// voucherService drives the AR/AP voucher workflow and the journal entries
// it generates.
type voucherService struct {
	voucherRepo portsrepo.VoucherRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
	partyRepo   portsrepo.PartyRepositoryFacade
	control     ControlAccounts
}

// NewVoucherService creates a new voucher service.
func NewVoucherService(
	voucherRepo portsrepo.VoucherRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryFacade,
	partyRepo portsrepo.PartyRepositoryFacade,
	control ControlAccounts,
) portssvc.VoucherSvcFacade {
	return &voucherService{
		voucherRepo: voucherRepo,
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		partyRepo:   partyRepo,
		control:     control,
	}
}

// Ensure voucherService implements the portssvc.VoucherSvcFacade interface
var _ portssvc.VoucherSvcFacade = (*voucherService)(nil)

// numberPrefix returns the document prefix of a voucher type.
func numberPrefix(voucherType domain.VoucherType) string {
	if voucherType == domain.Receivable {
		return accounting.ReceivableNumberPrefix
	}
	return accounting.PayableNumberPrefix
}

// controlAccountID resolves the control account for a voucher type, failing
// with ErrConfiguration when that side was never configured.
func (s *voucherService) controlAccountID(voucherType domain.VoucherType) (string, error) {
	var id string
	if voucherType == domain.Receivable {
		id = s.control.ReceivableAccountID
	} else {
		id = s.control.PayableAccountID
	}
	if id == "" {
		return "", fmt.Errorf("%w: no control account configured for %s vouchers", apperrors.ErrConfiguration, voucherType)
	}
	return id, nil
}

// voucherStatusForPayments returns the status a voucher should carry given
// its amount and the sum paid so far.
func voucherStatusForPayments(amount, totalPaid decimal.Decimal) domain.VoucherStatus {
	switch {
	case totalPaid.GreaterThanOrEqual(amount):
		return domain.VoucherPaid
	case totalPaid.IsPositive():
		return domain.VoucherPartiallyPaid
	default:
		return domain.VoucherApproved
	}
}

func (s *voucherService) CreateVoucher(ctx context.Context, req dto.CreateVoucherRequest, creatorUserID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.DueDate != nil && req.DueDate.Before(req.VoucherDate) {
		return nil, fmt.Errorf("%w: due date is before voucher date", apperrors.ErrValidation)
	}

	// The party must exist before money can be owed to or by it.
	if _, err := s.partyRepo.FindPartyByID(ctx, req.PartyType, req.PartyID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s %s not found", apperrors.ErrValidation, req.PartyType, req.PartyID)
		}
		return nil, err
	}

	accountIDs := make([]string, 0, len(req.Items))
	seen := make(map[string]bool)
	amount := decimal.Zero
	for i, item := range req.Items {
		if !item.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: line %d amount must be positive", apperrors.ErrInvalidAmount, i+1)
		}
		if item.TaxAmount.IsNegative() {
			return nil, fmt.Errorf("%w: line %d tax amount is negative", apperrors.ErrInvalidAmount, i+1)
		}
		amount = amount.Add(item.Amount).Add(item.TaxAmount)
		if !seen[item.AccountID] {
			seen[item.AccountID] = true
			accountIDs = append(accountIDs, item.AccountID)
		}
	}

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

	now := time.Now()
	voucherID := uuid.NewString()
	items := make([]domain.VoucherItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.VoucherItem{
			ItemID:      uuid.NewString(),
			VoucherID:   voucherID,
			AccountID:   item.AccountID,
			Description: item.Description,
			Amount:      item.Amount,
			TaxRate:     item.TaxRate,
			TaxAmount:   item.TaxAmount,
		}
	}

	voucher := domain.Voucher{
		VoucherID:   voucherID,
		VoucherType: req.VoucherType,
		VoucherDate: req.VoucherDate,
		DueDate:     req.DueDate,
		Reference:   req.Reference,
		PartyType:   req.PartyType,
		PartyID:     req.PartyID,
		Description: req.Description,
		Amount:      amount,
		Status:      domain.VoucherDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	voucherNumber, err := s.voucherRepo.SaveVoucher(ctx, voucher, items)
	if err != nil {
		logger.Error("Failed to save voucher", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		return nil, err
	}
	voucher.VoucherNumber = voucherNumber
	voucher.Items = items

	logger.Info("Voucher created", slog.String("voucher_id", voucherID), slog.String("voucher_number", voucherNumber), slog.String("type", string(req.VoucherType)))
	return &voucher, nil
}

// loadVoucher fetches a voucher with items and payments attached.
func (s *voucherService) loadVoucher(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	items, err := s.voucherRepo.FindItemsByVoucherID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	payments, err := s.voucherRepo.FindPaymentsByVoucherID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	voucher.Items = items
	voucher.Payments = payments
	return voucher, nil
}

// resolvePartyName returns the party's display name, or an empty string
// when the party row has gone missing; listings should not fail over a
// deleted counterparty.
func (s *voucherService) resolvePartyName(ctx context.Context, partyType domain.PartyType, partyID string) string {
	party, err := s.partyRepo.FindPartyByID(ctx, partyType, partyID)
	if err != nil {
		return ""
	}
	return party.Name
}

func (s *voucherService) GetVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, string, error) {
	voucher, err := s.loadVoucher(ctx, voucherID)
	if err != nil {
		return nil, "", err
	}
	return voucher, s.resolvePartyName(ctx, voucher.PartyType, voucher.PartyID), nil
}

// approvalEntryItems builds the balancing journal lines for a voucher
// approval. A receivable debits the AR control account with the full amount
// and credits each line's account; a payable is the exact inverse against
// the AP control account.
func approvalEntryItems(entryID, controlAccountID string, voucher *domain.Voucher) []domain.JournalItem {
	items := make([]domain.JournalItem, 0, len(voucher.Items)+1)

	controlItem := domain.JournalItem{
		ItemID:      uuid.NewString(),
		EntryID:     entryID,
		AccountID:   controlAccountID,
		Description: voucher.Description,
	}
	if voucher.VoucherType == domain.Receivable {
		controlItem.DebitAmount = voucher.Amount
		controlItem.CreditAmount = decimal.Zero
	} else {
		controlItem.DebitAmount = decimal.Zero
		controlItem.CreditAmount = voucher.Amount
	}
	items = append(items, controlItem)

	for _, line := range voucher.Items {
		lineAmount := line.Amount.Add(line.TaxAmount)
		item := domain.JournalItem{
			ItemID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   line.AccountID,
			Description: line.Description,
		}
		if voucher.VoucherType == domain.Receivable {
			item.DebitAmount = decimal.Zero
			item.CreditAmount = lineAmount
		} else {
			item.DebitAmount = lineAmount
			item.CreditAmount = decimal.Zero
		}
		items = append(items, item)
	}
	return items
}

// ApproveVoucher turns a draft voucher into a live obligation: the
// balancing journal entry is built against the control account, posted, and
// linked to the voucher in one transaction.
func (s *voucherService) ApproveVoucher(ctx context.Context, voucherID string, approverUserID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	voucher, err := s.loadVoucher(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher.Status != domain.VoucherDraft {
		return nil, fmt.Errorf("%w: voucher %s is %s, only drafts can be approved", apperrors.ErrInvalidState, voucherID, voucher.Status)
	}
	if len(voucher.Items) == 0 {
		return nil, fmt.Errorf("%w: voucher %s has no items", apperrors.ErrDataIntegrity, voucherID)
	}

	controlID, err := s.controlAccountID(voucher.VoucherType)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entryID := uuid.NewString()
	entryItems := approvalEntryItems(entryID, controlID, voucher)
	totalDebit, totalCredit := accounting.SumItems(entryItems)

	entry := domain.JournalEntry{
		EntryID:     entryID,
		Reference:   voucher.VoucherNumber,
		EntryDate:   voucher.VoucherDate,
		Description: fmt.Sprintf("Approval of voucher %s", voucher.VoucherNumber),
		Status:      domain.EntryDraft,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     approverUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: approverUserID,
		},
	}

	accountIDs := make([]string, 0, len(entryItems))
	seen := make(map[string]bool)
	for _, item := range entryItems {
		if !seen[item.AccountID] {
			seen[item.AccountID] = true
			accountIDs = append(accountIDs, item.AccountID)
		}
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	if _, found := accounts[controlID]; !found {
		return nil, fmt.Errorf("%w: configured control account %s does not exist", apperrors.ErrConfiguration, controlID)
	}

	changes, err := balanceChanges(entryItems, accounts, false)
	if err != nil {
		return nil, err
	}

	newEntryID, err := s.voucherRepo.ApproveVoucher(ctx, voucherID, approverUserID, now, entry, entryItems, changes)
	if err != nil {
		if !errors.Is(err, apperrors.ErrInvalidState) {
			logger.Error("Failed to approve voucher", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		}
		return nil, err
	}

	logger.Info("Voucher approved", slog.String("voucher_id", voucherID), slog.String("entry_id", newEntryID))
	return s.loadVoucher(ctx, voucherID)
}

// paymentEntryItems builds the two-line money movement for a payment.
// Collecting a receivable debits the cash/bank account and credits the AR
// control account; settling a payable debits the AP control account and
// credits cash/bank.
func paymentEntryItems(entryID, paymentAccountID, controlAccountID string, voucherType domain.VoucherType, amount decimal.Decimal, description string) []domain.JournalItem {
	cashItem := domain.JournalItem{
		ItemID:      uuid.NewString(),
		EntryID:     entryID,
		AccountID:   paymentAccountID,
		Description: description,
	}
	controlItem := domain.JournalItem{
		ItemID:      uuid.NewString(),
		EntryID:     entryID,
		AccountID:   controlAccountID,
		Description: description,
	}
	if voucherType == domain.Receivable {
		cashItem.DebitAmount = amount
		cashItem.CreditAmount = decimal.Zero
		controlItem.DebitAmount = decimal.Zero
		controlItem.CreditAmount = amount
	} else {
		controlItem.DebitAmount = amount
		controlItem.CreditAmount = decimal.Zero
		cashItem.DebitAmount = decimal.Zero
		cashItem.CreditAmount = amount
	}
	return []domain.JournalItem{cashItem, controlItem}
}

// RecordPayment settles part or all of an approved voucher. The payment
// row, its journal entry, the balance updates and the voucher status move
// commit together.
func (s *voucherService) RecordPayment(ctx context.Context, voucherID string, req dto.RecordPaymentRequest, userID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	voucher, err := s.loadVoucher(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher.Status != domain.VoucherApproved && voucher.Status != domain.VoucherPartiallyPaid {
		return nil, fmt.Errorf("%w: voucher %s is %s, payments need an approved voucher", apperrors.ErrInvalidState, voucherID, voucher.Status)
	}

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrInvalidAmount)
	}
	outstanding := voucher.OutstandingBalance()
	if req.Amount.GreaterThan(outstanding) {
		return nil, fmt.Errorf("%w: payment %s exceeds outstanding balance %s", apperrors.ErrInvalidAmount, req.Amount, outstanding)
	}

	paymentAccount, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: payment account %s not found", apperrors.ErrValidation, req.AccountID)
		}
		return nil, err
	}
	if !paymentAccount.IsActive {
		return nil, fmt.Errorf("%w: payment account %s is inactive", apperrors.ErrValidation, paymentAccount.Code)
	}
	if paymentAccount.AccountType != domain.Asset {
		return nil, fmt.Errorf("%w: payment account %s must be a cash or bank asset account", apperrors.ErrValidation, paymentAccount.Code)
	}

	controlID, err := s.controlAccountID(voucher.VoucherType)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entryID := uuid.NewString()
	description := fmt.Sprintf("Payment for voucher %s", voucher.VoucherNumber)
	entryItems := paymentEntryItems(entryID, req.AccountID, controlID, voucher.VoucherType, req.Amount, description)
	totalDebit, totalCredit := accounting.SumItems(entryItems)

	entry := domain.JournalEntry{
		EntryID:     entryID,
		Reference:   req.Reference,
		EntryDate:   req.PaymentDate,
		Description: description,
		Status:      domain.EntryDraft,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, []string{req.AccountID, controlID})
	if err != nil {
		return nil, err
	}
	if _, found := accounts[controlID]; !found {
		return nil, fmt.Errorf("%w: configured control account %s does not exist", apperrors.ErrConfiguration, controlID)
	}
	changes, err := balanceChanges(entryItems, accounts, false)
	if err != nil {
		return nil, err
	}

	payment := domain.Payment{
		PaymentID:     uuid.NewString(),
		VoucherID:     voucherID,
		PaymentDate:   req.PaymentDate,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		AccountID:     req.AccountID,
		Reference:     req.Reference,
		Notes:         req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	newStatus := voucherStatusForPayments(voucher.Amount, voucher.TotalPaid().Add(req.Amount))

	newEntryID, err := s.voucherRepo.RecordPayment(ctx, payment, newStatus, entry, entryItems, changes)
	if err != nil {
		if !errors.Is(err, apperrors.ErrInvalidState) {
			logger.Error("Failed to record payment", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		}
		return nil, err
	}

	logger.Info("Payment recorded", slog.String("voucher_id", voucherID), slog.String("payment_id", payment.PaymentID), slog.String("entry_id", newEntryID), slog.String("new_status", string(newStatus)))
	return s.loadVoucher(ctx, voucherID)
}

// VoidVoucher cancels a voucher that has no payments. A draft is simply
// flipped; an approved voucher also gets its journal entry voided and the
// control-account balance restored, atomically.
func (s *voucherService) VoidVoucher(ctx context.Context, voucherID string, userID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	voucher, err := s.loadVoucher(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if len(voucher.Payments) > 0 {
		return nil, fmt.Errorf("%w: voucher %s has %d payments, void them first is not supported", apperrors.ErrHasPayments, voucherID, len(voucher.Payments))
	}
	if voucher.Status != domain.VoucherDraft && voucher.Status != domain.VoucherApproved {
		return nil, fmt.Errorf("%w: voucher %s is %s and cannot be voided", apperrors.ErrInvalidState, voucherID, voucher.Status)
	}

	var reversal map[string]decimal.Decimal
	if voucher.JournalEntryID != nil {
		entryItems, err := s.journalRepo.FindItemsByEntryID(ctx, *voucher.JournalEntryID)
		if err != nil {
			return nil, err
		}
		accountIDs := make([]string, 0, len(entryItems))
		seen := make(map[string]bool)
		for _, item := range entryItems {
			if !seen[item.AccountID] {
				seen[item.AccountID] = true
				accountIDs = append(accountIDs, item.AccountID)
			}
		}
		accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
		if err != nil {
			return nil, err
		}
		reversal, err = balanceChanges(entryItems, accounts, true)
		if err != nil {
			return nil, err
		}
	}

	if err := s.voucherRepo.VoidVoucher(ctx, voucherID, voucher.JournalEntryID, reversal, userID, time.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrInvalidState) {
			logger.Error("Failed to void voucher", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		}
		return nil, err
	}

	logger.Info("Voucher voided", slog.String("voucher_id", voucherID))
	return s.loadVoucher(ctx, voucherID)
}

// partyNames resolves the display names of every party a voucher batch
// references, grouped per party type to keep the lookups batched.
func (s *voucherService) partyNames(ctx context.Context, vouchers []domain.Voucher) map[string]string {
	idsByType := make(map[domain.PartyType][]string)
	seen := make(map[string]bool)
	for _, v := range vouchers {
		if !seen[v.PartyID] {
			seen[v.PartyID] = true
			idsByType[v.PartyType] = append(idsByType[v.PartyType], v.PartyID)
		}
	}

	names := make(map[string]string)
	for partyType, ids := range idsByType {
		parties, err := s.partyRepo.FindPartiesByIDs(ctx, partyType, ids)
		if err != nil {
			continue
		}
		for id, party := range parties {
			names[id] = party.Name
		}
	}
	return names
}

// attachPayments loads the payments of each voucher so paid totals can be
// derived without extra round trips in the handlers.
func (s *voucherService) attachPayments(ctx context.Context, vouchers []domain.Voucher) error {
	for i := range vouchers {
		payments, err := s.voucherRepo.FindPaymentsByVoucherID(ctx, vouchers[i].VoucherID)
		if err != nil {
			return err
		}
		vouchers[i].Payments = payments
	}
	return nil
}

func (s *voucherService) ListVouchers(ctx context.Context, voucherType domain.VoucherType, params dto.ListVouchersParams) ([]domain.Voucher, map[string]string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var status *domain.VoucherStatus
	if params.Status != nil {
		st := domain.VoucherStatus(*params.Status)
		status = &st
	}

	vouchers, err := s.voucherRepo.ListVouchers(ctx, voucherType, status, params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list vouchers", slog.String("error", err.Error()), slog.String("type", string(voucherType)))
		return nil, nil, fmt.Errorf("failed to list vouchers: %w", err)
	}
	if err := s.attachPayments(ctx, vouchers); err != nil {
		return nil, nil, err
	}
	return vouchers, s.partyNames(ctx, vouchers), nil
}

func (s *voucherService) ListOverdueVouchers(ctx context.Context, voucherType domain.VoucherType, asOf time.Time) ([]domain.Voucher, map[string]string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	vouchers, err := s.voucherRepo.ListOverdueVouchers(ctx, voucherType, asOf)
	if err != nil {
		logger.Error("Failed to list overdue vouchers", slog.String("error", err.Error()), slog.String("type", string(voucherType)))
		return nil, nil, fmt.Errorf("failed to list overdue vouchers: %w", err)
	}
	if err := s.attachPayments(ctx, vouchers); err != nil {
		return nil, nil, err
	}
	return vouchers, s.partyNames(ctx, vouchers), nil
}

// GetPartyOutstanding builds a statement of one party's open vouchers:
// everything approved or partially paid, with the totals still owed.
func (s *voucherService) GetPartyOutstanding(ctx context.Context, voucherType domain.VoucherType, partyType domain.PartyType, partyID string) (*dto.PartyOutstandingResponse, error) {
	party, err := s.partyRepo.FindPartyByID(ctx, partyType, partyID)
	if err != nil {
		return nil, err
	}

	vouchers, err := s.voucherRepo.ListOpenVouchersByParty(ctx, voucherType, partyType, partyID)
	if err != nil {
		return nil, err
	}
	if err := s.attachPayments(ctx, vouchers); err != nil {
		return nil, err
	}

	resp := &dto.PartyOutstandingResponse{
		PartyID:          partyID,
		PartyName:        party.Name,
		TotalAmount:      decimal.Zero,
		TotalOutstanding: decimal.Zero,
		Vouchers:         make([]dto.VoucherResponse, 0, len(vouchers)),
	}
	for i := range vouchers {
		resp.TotalAmount = resp.TotalAmount.Add(vouchers[i].Amount)
		resp.TotalOutstanding = resp.TotalOutstanding.Add(vouchers[i].OutstandingBalance())
		resp.Vouchers = append(resp.Vouchers, dto.ToVoucherResponse(&vouchers[i], party.Name))
	}
	return resp, nil
}
