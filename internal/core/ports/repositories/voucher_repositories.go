package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// VoucherReader defines read operations for receivable and payable vouchers.
type VoucherReader interface {
	// FindVoucherByID retrieves a voucher header.
	FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)

	// FindItemsByVoucherID retrieves the line items of a voucher.
	FindItemsByVoucherID(ctx context.Context, voucherID string) ([]domain.VoucherItem, error)

	// FindPaymentsByVoucherID retrieves the payments of a voucher, oldest first.
	FindPaymentsByVoucherID(ctx context.Context, voucherID string) ([]domain.Payment, error)

	// ListVouchers retrieves voucher headers of one type, optionally filtered
	// by status, newest first.
	ListVouchers(ctx context.Context, voucherType domain.VoucherType, status *domain.VoucherStatus, limit, offset int) ([]domain.Voucher, error)

	// ListOverdueVouchers retrieves vouchers of one type past their due date
	// as of the given day and still carrying an outstanding balance.
	ListOverdueVouchers(ctx context.Context, voucherType domain.VoucherType, asOf time.Time) ([]domain.Voucher, error)

	// ListOpenVouchersByParty retrieves the approved and partially paid
	// vouchers of one party, oldest first.
	ListOpenVouchersByParty(ctx context.Context, voucherType domain.VoucherType, partyType domain.PartyType, partyID string) ([]domain.Voucher, error)
}

// VoucherWriter defines the atomic write operations of the voucher workflow.
// Approval and payment each combine a journal insert-and-post with the
// voucher row change in a single transaction.
type VoucherWriter interface {
	// SaveVoucher persists a draft voucher plus items. When
	// voucher.VoucherNumber is empty an AR-/AP- number is generated inside
	// the same transaction; the number used is returned.
	SaveVoucher(ctx context.Context, voucher domain.Voucher, items []domain.VoucherItem) (string, error)

	// ApproveVoucher inserts the balancing journal entry, posts it with the
	// given balance deltas, and flips the voucher draft -> approved with the
	// entry linked, all in one transaction. Returns the new entry ID.
	ApproveVoucher(ctx context.Context, voucherID, approverID string, now time.Time, entry domain.JournalEntry, entryItems []domain.JournalItem, balanceChanges map[string]decimal.Decimal) (string, error)

	// RecordPayment inserts the payment's journal entry, posts it, stores the
	// payment row linked to that entry, and moves the voucher to newStatus,
	// all in one transaction. Returns the new entry ID.
	RecordPayment(ctx context.Context, payment domain.Payment, newStatus domain.VoucherStatus, entry domain.JournalEntry, entryItems []domain.JournalItem, balanceChanges map[string]decimal.Decimal) (string, error)

	// VoidVoucher flips the voucher to voided and, when the voucher carries a
	// posted journal entry, voids that entry and applies the reversal deltas
	// in the same transaction.
	VoidVoucher(ctx context.Context, voucherID string, journalEntryID *string, reversalChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// VoucherRepositoryFacade combines all voucher repository interfaces.
type VoucherRepositoryFacade interface {
	VoucherReader
	VoucherWriter
}
