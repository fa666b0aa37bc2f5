package services_test

import (
	"context"
	"time"

	"github.com/finbooks/finbooks/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

// Ensure MockAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAllAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	args := m.Called(ctx, accountType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListChildAccounts(ctx context.Context, parentID string) ([]domain.Account, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SearchAccounts(ctx context.Context, term string, limit int) ([]domain.Account, error) {
	args := m.Called(ctx, term, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) HasChildAccounts(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) HasJournalItems(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccountLevels(ctx context.Context, levels map[string]int, userID string, now time.Time) error {
	args := m.Called(ctx, levels, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, userID, now)
	return args.Error(0)
}

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

// Ensure MockJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindItemsByEntryID(ctx context.Context, entryID string) ([]domain.JournalItem, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalItem), args.Error(1)
}

func (m *MockJournalRepository) ListEntriesByDateRange(ctx context.Context, start, end time.Time, status *domain.EntryStatus, limit, offset int) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, start, end, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, items []domain.JournalItem) (string, error) {
	args := m.Called(ctx, entry, items)
	return args.String(0), args.Error(1)
}

func (m *MockJournalRepository) PostEntry(ctx context.Context, entryID string, totalDebit, totalCredit decimal.Decimal, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, entryID, totalDebit, totalCredit, balanceChanges, userID, now)
	return args.Error(0)
}

func (m *MockJournalRepository) ApproveEntry(ctx context.Context, entryID, approverID string, now time.Time) error {
	args := m.Called(ctx, entryID, approverID, now)
	return args.Error(0)
}

func (m *MockJournalRepository) VoidEntry(ctx context.Context, entryID string, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, entryID, balanceChanges, userID, now)
	return args.Error(0)
}

func (m *MockJournalRepository) InsertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, items []domain.JournalItem) (string, error) {
	args := m.Called(ctx, tx, entry, items)
	return args.String(0), args.Error(1)
}

func (m *MockJournalRepository) MarkPostedInTx(ctx context.Context, tx pgx.Tx, entryID string, totalDebit, totalCredit decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, entryID, totalDebit, totalCredit, userID, now)
	return args.Error(0)
}

func (m *MockJournalRepository) MarkVoidedInTx(ctx context.Context, tx pgx.Tx, entryID string, userID string, now time.Time) error {
	args := m.Called(ctx, tx, entryID, userID, now)
	return args.Error(0)
}

// --- Mock VoucherRepository ---

type MockVoucherRepository struct {
	mock.Mock
}

// Ensure MockVoucherRepository implements portsrepo.VoucherRepositoryFacade
var _ portsrepo.VoucherRepositoryFacade = (*MockVoucherRepository)(nil)

func (m *MockVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) FindItemsByVoucherID(ctx context.Context, voucherID string) ([]domain.VoucherItem, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VoucherItem), args.Error(1)
}

func (m *MockVoucherRepository) FindPaymentsByVoucherID(ctx context.Context, voucherID string) ([]domain.Payment, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockVoucherRepository) ListVouchers(ctx context.Context, voucherType domain.VoucherType, status *domain.VoucherStatus, limit, offset int) ([]domain.Voucher, error) {
	args := m.Called(ctx, voucherType, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) ListOverdueVouchers(ctx context.Context, voucherType domain.VoucherType, asOf time.Time) ([]domain.Voucher, error) {
	args := m.Called(ctx, voucherType, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) ListOpenVouchersByParty(ctx context.Context, voucherType domain.VoucherType, partyType domain.PartyType, partyID string) ([]domain.Voucher, error) {
	args := m.Called(ctx, voucherType, partyType, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher, items []domain.VoucherItem) (string, error) {
	args := m.Called(ctx, voucher, items)
	return args.String(0), args.Error(1)
}

func (m *MockVoucherRepository) ApproveVoucher(ctx context.Context, voucherID, approverID string, now time.Time, entry domain.JournalEntry, entryItems []domain.JournalItem, balanceChanges map[string]decimal.Decimal) (string, error) {
	args := m.Called(ctx, voucherID, approverID, now, entry, entryItems, balanceChanges)
	return args.String(0), args.Error(1)
}

func (m *MockVoucherRepository) RecordPayment(ctx context.Context, payment domain.Payment, newStatus domain.VoucherStatus, entry domain.JournalEntry, entryItems []domain.JournalItem, balanceChanges map[string]decimal.Decimal) (string, error) {
	args := m.Called(ctx, payment, newStatus, entry, entryItems, balanceChanges)
	return args.String(0), args.Error(1)
}

func (m *MockVoucherRepository) VoidVoucher(ctx context.Context, voucherID string, journalEntryID *string, reversalChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, voucherID, journalEntryID, reversalChanges, userID, now)
	return args.Error(0)
}

// --- Mock LedgerRepository ---

type MockLedgerRepository struct {
	mock.Mock
}

// Ensure MockLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) AccountLedger(ctx context.Context, accountID string, start, end time.Time) ([]domain.LedgerLine, error) {
	args := m.Called(ctx, accountID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerLine), args.Error(1)
}

func (m *MockLedgerRepository) AccountBalanceAsOf(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock PartyRepository ---

type MockPartyRepository struct {
	mock.Mock
}

// Ensure MockPartyRepository implements portsrepo.PartyRepositoryFacade
var _ portsrepo.PartyRepositoryFacade = (*MockPartyRepository)(nil)

func (m *MockPartyRepository) FindPartyByID(ctx context.Context, partyType domain.PartyType, partyID string) (*domain.Party, error) {
	args := m.Called(ctx, partyType, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockPartyRepository) FindPartiesByIDs(ctx context.Context, partyType domain.PartyType, partyIDs []string) (map[string]domain.Party, error) {
	args := m.Called(ctx, partyType, partyIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Party), args.Error(1)
}

func (m *MockPartyRepository) ListParties(ctx context.Context, partyType domain.PartyType, limit, offset int) ([]domain.Party, error) {
	args := m.Called(ctx, partyType, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Party), args.Error(1)
}

func (m *MockPartyRepository) SaveParty(ctx context.Context, party domain.Party) error {
	args := m.Called(ctx, party)
	return args.Error(0)
}

func (m *MockPartyRepository) UpdateParty(ctx context.Context, party domain.Party) error {
	args := m.Called(ctx, party)
	return args.Error(0)
}
