package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/finbooks/finbooks/internal/dto"
)

// VoucherReaderSvc defines read operations for receivable and payable
// vouchers.
type VoucherReaderSvc interface {
	// GetVoucherByID retrieves a voucher with items and payments loaded,
	// plus the resolved party name.
	GetVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, string, error)

	// ListVouchers retrieves voucher headers of one type with their
	// payments loaded, optionally filtered by status.
	ListVouchers(ctx context.Context, voucherType domain.VoucherType, params dto.ListVouchersParams) ([]domain.Voucher, map[string]string, error)

	// ListOverdueVouchers retrieves vouchers past due as of the given day
	// that still carry an outstanding balance.
	ListOverdueVouchers(ctx context.Context, voucherType domain.VoucherType, asOf time.Time) ([]domain.Voucher, map[string]string, error)

	// GetPartyOutstanding aggregates one party's open vouchers of the given
	// type into a statement.
	GetPartyOutstanding(ctx context.Context, voucherType domain.VoucherType, partyType domain.PartyType, partyID string) (*dto.PartyOutstandingResponse, error)
}

// VoucherWriterSvc drives the voucher lifecycle:
//
//	draft -> approved -> partially_paid -> paid
//	every non-paid state -> voided (draft and approved only, and only
//	while no payments exist)
type VoucherWriterSvc interface {
	// CreateVoucher validates and persists a draft voucher. No journal
	// entry exists yet.
	CreateVoucher(ctx context.Context, req dto.CreateVoucherRequest, creatorUserID string) (*domain.Voucher, error)

	// ApproveVoucher builds the balancing journal entry against the
	// configured control account, posts it, and links it to the voucher,
	// atomically.
	ApproveVoucher(ctx context.Context, voucherID string, approverUserID string) (*domain.Voucher, error)

	// RecordPayment settles part or all of an approved voucher through a
	// cash or bank account, posting the money-movement entry atomically.
	RecordPayment(ctx context.Context, voucherID string, req dto.RecordPaymentRequest, userID string) (*domain.Voucher, error)

	// VoidVoucher cancels a voucher with no payments, reversing its journal
	// entry when one was posted.
	VoidVoucher(ctx context.Context, voucherID string, userID string) (*domain.Voucher, error)
}

// VoucherSvcFacade combines all voucher-related service interfaces.
type VoucherSvcFacade interface {
	VoucherReaderSvc
	VoucherWriterSvc
}
