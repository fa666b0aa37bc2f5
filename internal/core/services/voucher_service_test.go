package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/core/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Definition ---

type VoucherServiceTestSuite struct {
	suite.Suite
	mockVoucherRepo *MockVoucherRepository
	mockAccountRepo *MockAccountRepository
	mockJournalRepo *MockJournalRepository
	mockPartyRepo   *MockPartyRepository
	service         portssvc.VoucherSvcFacade

	userID         string
	customer       domain.Party
	arControl      domain.Account
	apControl      domain.Account
	cashAccount    domain.Account
	revenueAccount domain.Account
}

func (suite *VoucherServiceTestSuite) SetupTest() {
	suite.mockVoucherRepo = new(MockVoucherRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockPartyRepo = new(MockPartyRepository)

	suite.userID = uuid.NewString()
	suite.customer = domain.Party{
		PartyID:   uuid.NewString(),
		PartyType: domain.PartyCustomer,
		Name:      "Acme Corp",
	}
	suite.arControl = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1200",
		Name:        "Accounts Receivable",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.apControl = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "2000",
		Name:        "Accounts Payable",
		AccountType: domain.Liability,
		IsActive:    true,
	}
	suite.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1000",
		Name:        "Cash",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "4000",
		Name:        "Sales Revenue",
		AccountType: domain.Revenue,
		IsActive:    true,
	}

	suite.service = services.NewVoucherService(
		suite.mockVoucherRepo,
		suite.mockAccountRepo,
		suite.mockJournalRepo,
		suite.mockPartyRepo,
		services.ControlAccounts{
			ReceivableAccountID: suite.arControl.AccountID,
			PayableAccountID:    suite.apControl.AccountID,
		},
	)
}

// newService rebuilds the service with different control accounts.
func (suite *VoucherServiceTestSuite) newService(control services.ControlAccounts) portssvc.VoucherSvcFacade {
	return services.NewVoucherService(
		suite.mockVoucherRepo,
		suite.mockAccountRepo,
		suite.mockJournalRepo,
		suite.mockPartyRepo,
		control,
	)
}

// receivableVoucher builds a stored receivable with one 100 + 10 tax line.
func (suite *VoucherServiceTestSuite) receivableVoucher(status domain.VoucherStatus) (*domain.Voucher, []domain.VoucherItem) {
	voucherID := uuid.NewString()
	items := []domain.VoucherItem{
		{
			ItemID:    uuid.NewString(),
			VoucherID: voucherID,
			AccountID: suite.revenueAccount.AccountID,
			Amount:    decimal.NewFromInt(100),
			TaxRate:   decimal.NewFromFloat(0.10),
			TaxAmount: decimal.NewFromInt(10),
		},
	}
	voucher := &domain.Voucher{
		VoucherID:     voucherID,
		VoucherNumber: "AR-20260115-0001",
		VoucherType:   domain.Receivable,
		VoucherDate:   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		PartyType:     domain.PartyCustomer,
		PartyID:       suite.customer.PartyID,
		Amount:        decimal.NewFromInt(110),
		Status:        status,
	}
	return voucher, items
}

// expectLoadVoucher wires up the three reads loadVoucher performs.
func (suite *VoucherServiceTestSuite) expectLoadVoucher(ctx context.Context, voucher *domain.Voucher, items []domain.VoucherItem, payments []domain.Payment) {
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil)
	suite.mockVoucherRepo.On("FindItemsByVoucherID", ctx, voucher.VoucherID).Return(items, nil)
	suite.mockVoucherRepo.On("FindPaymentsByVoucherID", ctx, voucher.VoucherID).Return(payments, nil)
}

// --- CreateVoucher ---

func (suite *VoucherServiceTestSuite) TestCreateVoucher_AmountDerivedFromItems() {
	ctx := context.Background()
	req := dto.CreateVoucherRequest{
		VoucherType: domain.Receivable,
		VoucherDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		PartyType:   domain.PartyCustomer,
		PartyID:     suite.customer.PartyID,
		Items: []dto.CreateVoucherItemRequest{
			{AccountID: suite.revenueAccount.AccountID, Amount: decimal.NewFromInt(100), TaxRate: decimal.NewFromFloat(0.10), TaxAmount: decimal.NewFromInt(10)},
			{AccountID: suite.revenueAccount.AccountID, Amount: decimal.NewFromInt(50)},
		},
	}

	suite.mockPartyRepo.On("FindPartyByID", ctx, domain.PartyCustomer, suite.customer.PartyID).Return(&suite.customer, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{suite.revenueAccount.AccountID}).
		Return(map[string]domain.Account{suite.revenueAccount.AccountID: suite.revenueAccount}, nil).Once()
	savedAmount := func(v domain.Voucher) bool {
		return v.Amount.Equal(decimal.NewFromInt(160)) && v.Status == domain.VoucherDraft
	}
	suite.mockVoucherRepo.On("SaveVoucher", ctx, mock.MatchedBy(savedAmount), mock.AnythingOfType("[]domain.VoucherItem")).
		Return("AR-20260115-0001", nil).Once()

	voucher, err := suite.service.CreateVoucher(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(voucher)
	suite.Equal("AR-20260115-0001", voucher.VoucherNumber)
	suite.True(voucher.Amount.Equal(decimal.NewFromInt(160)))
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_DueDateBeforeVoucherDate() {
	ctx := context.Background()
	due := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	req := dto.CreateVoucherRequest{
		VoucherType: domain.Receivable,
		VoucherDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		DueDate:     &due,
		PartyType:   domain.PartyCustomer,
		PartyID:     suite.customer.PartyID,
		Items:       []dto.CreateVoucherItemRequest{{AccountID: suite.revenueAccount.AccountID, Amount: decimal.NewFromInt(100)}},
	}

	_, err := suite.service.CreateVoucher(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_NonPositiveLine() {
	ctx := context.Background()
	req := dto.CreateVoucherRequest{
		VoucherType: domain.Receivable,
		VoucherDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		PartyType:   domain.PartyCustomer,
		PartyID:     suite.customer.PartyID,
		Items:       []dto.CreateVoucherItemRequest{{AccountID: suite.revenueAccount.AccountID, Amount: decimal.Zero}},
	}

	suite.mockPartyRepo.On("FindPartyByID", ctx, domain.PartyCustomer, suite.customer.PartyID).Return(&suite.customer, nil).Once()

	_, err := suite.service.CreateVoucher(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "SaveVoucher", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_UnknownParty() {
	ctx := context.Background()
	req := dto.CreateVoucherRequest{
		VoucherType: domain.Receivable,
		VoucherDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		PartyType:   domain.PartyCustomer,
		PartyID:     uuid.NewString(),
		Items:       []dto.CreateVoucherItemRequest{{AccountID: suite.revenueAccount.AccountID, Amount: decimal.NewFromInt(100)}},
	}

	suite.mockPartyRepo.On("FindPartyByID", ctx, domain.PartyCustomer, req.PartyID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateVoucher(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- ApproveVoucher ---

func (suite *VoucherServiceTestSuite) TestApproveVoucher_ReceivablePostsControlEntry() {
	ctx := context.Background()
	voucher, items := suite.receivableVoucher(domain.VoucherDraft)

	suite.expectLoadVoucher(ctx, voucher, items, nil)
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(map[string]domain.Account{
		suite.arControl.AccountID:      suite.arControl,
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}, nil).Once()

	// AR control is an asset debited with the full amount (+110); the
	// revenue line is credited with amount plus tax (+110).
	expectedChanges := func(changes map[string]decimal.Decimal) bool {
		return len(changes) == 2 &&
			changes[suite.arControl.AccountID].Equal(decimal.NewFromInt(110)) &&
			changes[suite.revenueAccount.AccountID].Equal(decimal.NewFromInt(110))
	}
	balancedEntry := func(entry domain.JournalEntry) bool {
		return entry.Reference == voucher.VoucherNumber &&
			entry.TotalDebit.Equal(decimal.NewFromInt(110)) &&
			entry.TotalCredit.Equal(decimal.NewFromInt(110))
	}
	suite.mockVoucherRepo.On("ApproveVoucher", ctx, voucher.VoucherID, suite.userID, mock.AnythingOfType("time.Time"),
		mock.MatchedBy(balancedEntry), mock.AnythingOfType("[]domain.JournalItem"), mock.MatchedBy(expectedChanges)).
		Return(uuid.NewString(), nil).Once()

	approved, err := suite.service.ApproveVoucher(ctx, voucher.VoucherID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(approved)
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestApproveVoucher_NotDraft() {
	ctx := context.Background()
	voucher, items := suite.receivableVoucher(domain.VoucherApproved)

	suite.expectLoadVoucher(ctx, voucher, items, nil)

	_, err := suite.service.ApproveVoucher(ctx, voucher.VoucherID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "ApproveVoucher",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestApproveVoucher_ControlAccountNotConfigured() {
	ctx := context.Background()
	voucher, items := suite.receivableVoucher(domain.VoucherDraft)
	service := suite.newService(services.ControlAccounts{PayableAccountID: suite.apControl.AccountID})

	suite.expectLoadVoucher(ctx, voucher, items, nil)

	_, err := service.ApproveVoucher(ctx, voucher.VoucherID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConfiguration)
}

func (suite *VoucherServiceTestSuite) TestApproveVoucher_ControlAccountMissingFromChart() {
	ctx := context.Background()
	voucher, items := suite.receivableVoucher(domain.VoucherDraft)

	suite.expectLoadVoucher(ctx, voucher, items, nil)
	// The configured AR control account does not exist in the chart.
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(map[string]domain.Account{
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}, nil).Once()

	_, err := suite.service.ApproveVoucher(ctx, voucher.VoucherID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConfiguration)
}

// --- RecordPayment ---

func (suite *VoucherServiceTestSuite) paymentRequest(amount int64) dto.RecordPaymentRequest {
	return dto.RecordPaymentRequest{
		PaymentDate:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Amount:        decimal.NewFromInt(amount),
		PaymentMethod: domain.MethodBankTransfer,
		AccountID:     suite.cashAccount.AccountID,
	}
}

func (suite *VoucherServiceTestSuite) TestRecordPayment_FullPaymentMarksPaid() {
	ctx := context.Background()
	voucher, items := suite.receivableVoucher(domain.VoucherApproved)

	suite.expectLoadVoucher(ctx, voucher, items, nil)
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.cashAccount.AccountID).Return(&suite.cashAccount, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{suite.cashAccount.AccountID, suite.arControl.AccountID}).
		Return(map[string]domain.Account{
			suite.cashAccount.AccountID: suite.cashAccount,
			suite.arControl.AccountID:   suite.arControl,
		}, nil).Once()

	// Collecting a receivable moves cash up and the AR control back down.
	expectedChanges := func(changes map[string]decimal.Decimal) bool {
		return changes[suite.cashAccount.AccountID].Equal(decimal.NewFromInt(110)) &&
			changes[suite.arControl.AccountID].Equal(decimal.NewFromInt(-110))
	}
	suite.mockVoucherRepo.On("RecordPayment", ctx, mock.AnythingOfType("domain.Payment"), domain.VoucherPaid,
		mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalItem"), mock.MatchedBy(expectedChanges)).
		Return(uuid.NewString(), nil).Once()

	updated, err := suite.service.RecordPayment(ctx, voucher.VoucherID, suite.paymentRequest(110), suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestRecordPayment_PartialPaymentMarksPartiallyPaid() {
	ctx := context.Background()
	voucher, items := suite.receivableVoucher(domain.VoucherApproved)

	suite.expectLoadVoucher(ctx, voucher, items, nil)
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.cashAccount.AccountID).Return(&suite.cashAccount, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(map[string]domain.Account{
			suite.cashAccount.AccountID: suite.cashAccount,
			suite.arControl.AccountID:   suite.arControl,
		}, nil).Once()
	suite.mockVoucherRepo.On("RecordPayment", ctx, mock.AnythingOfType("domain.Payment"), domain.VoucherPartiallyPaid,
		mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalItem"), mock.Anything).
		Return(uuid.NewString(), nil).Once()

	_, err := suite.service.RecordPayment(ctx, voucher.VoucherID, suite.paymentRequest(40), suite.userID)

	suite.Require().NoError(err)
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestRecordPayment_OverpaymentRejected() {
	ctx := context.Background()
	voucher, items := suite.receivableVoucher(domain.VoucherPartiallyPaid)
	payments := []domain.Payment{{PaymentID: uuid.NewString(), VoucherID: voucher.VoucherID, Amount: decimal.NewFromInt(60)}}

	suite.expectLoadVoucher(ctx, voucher, items, payments)

	// 60 already paid of 110; 51 exceeds the 50 outstanding.
	_, err := suite.service.RecordPayment(ctx, voucher.VoucherID, suite.paymentRequest(51), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "RecordPayment",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestRecordPayment_DraftVoucherRejected() {
	ctx := context.Background()
	voucher, items := suite.receivableVoucher(domain.VoucherDraft)

	suite.expectLoadVoucher(ctx, voucher, items, nil)

	_, err := suite.service.RecordPayment(ctx, voucher.VoucherID, suite.paymentRequest(50), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *VoucherServiceTestSuite) TestRecordPayment_NonAssetPaymentAccount() {
	ctx := context.Background()
	voucher, items := suite.receivableVoucher(domain.VoucherApproved)

	suite.expectLoadVoucher(ctx, voucher, items, nil)
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.revenueAccount.AccountID).Return(&suite.revenueAccount, nil).Once()

	req := suite.paymentRequest(50)
	req.AccountID = suite.revenueAccount.AccountID
	_, err := suite.service.RecordPayment(ctx, voucher.VoucherID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- VoidVoucher ---

func (suite *VoucherServiceTestSuite) TestVoidVoucher_WithPaymentsRejected() {
	ctx := context.Background()
	voucher, items := suite.receivableVoucher(domain.VoucherPartiallyPaid)
	payments := []domain.Payment{{PaymentID: uuid.NewString(), VoucherID: voucher.VoucherID, Amount: decimal.NewFromInt(60)}}

	suite.expectLoadVoucher(ctx, voucher, items, payments)

	_, err := suite.service.VoidVoucher(ctx, voucher.VoucherID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrHasPayments)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "VoidVoucher",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestVoidVoucher_DraftHasNoEntryToReverse() {
	ctx := context.Background()
	voucher, items := suite.receivableVoucher(domain.VoucherDraft)

	suite.expectLoadVoucher(ctx, voucher, items, nil)
	suite.mockVoucherRepo.On("VoidVoucher", ctx, voucher.VoucherID, (*string)(nil),
		map[string]decimal.Decimal(nil), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	voided, err := suite.service.VoidVoucher(ctx, voucher.VoucherID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(voided)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindItemsByEntryID", mock.Anything, mock.Anything)
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestVoidVoucher_ApprovedReversesEntry() {
	ctx := context.Background()
	voucher, items := suite.receivableVoucher(domain.VoucherApproved)
	entryID := uuid.NewString()
	voucher.JournalEntryID = &entryID

	entryItems := []domain.JournalItem{
		{ItemID: uuid.NewString(), EntryID: entryID, AccountID: suite.arControl.AccountID, DebitAmount: decimal.NewFromInt(110), CreditAmount: decimal.Zero},
		{ItemID: uuid.NewString(), EntryID: entryID, AccountID: suite.revenueAccount.AccountID, DebitAmount: decimal.Zero, CreditAmount: decimal.NewFromInt(110)},
	}

	suite.expectLoadVoucher(ctx, voucher, items, nil)
	suite.mockJournalRepo.On("FindItemsByEntryID", ctx, entryID).Return(entryItems, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(map[string]domain.Account{
		suite.arControl.AccountID:      suite.arControl,
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}, nil).Once()

	reversedChanges := func(changes map[string]decimal.Decimal) bool {
		return changes[suite.arControl.AccountID].Equal(decimal.NewFromInt(-110)) &&
			changes[suite.revenueAccount.AccountID].Equal(decimal.NewFromInt(-110))
	}
	suite.mockVoucherRepo.On("VoidVoucher", ctx, voucher.VoucherID, &entryID,
		mock.MatchedBy(reversedChanges), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	voided, err := suite.service.VoidVoucher(ctx, voucher.VoucherID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(voided)
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestVoidVoucher_VoidedRejected() {
	ctx := context.Background()
	voucher, items := suite.receivableVoucher(domain.VoucherVoided)

	suite.expectLoadVoucher(ctx, voucher, items, nil)

	_, err := suite.service.VoidVoucher(ctx, voucher.VoucherID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

// --- GetPartyOutstanding ---

func (suite *VoucherServiceTestSuite) TestGetPartyOutstanding_SumsOpenVouchers() {
	ctx := context.Background()
	v1, _ := suite.receivableVoucher(domain.VoucherApproved)
	v2, _ := suite.receivableVoucher(domain.VoucherPartiallyPaid)
	open := []domain.Voucher{*v1, *v2}

	suite.mockPartyRepo.On("FindPartyByID", ctx, domain.PartyCustomer, suite.customer.PartyID).Return(&suite.customer, nil).Once()
	suite.mockVoucherRepo.On("ListOpenVouchersByParty", ctx, domain.Receivable, domain.PartyCustomer, suite.customer.PartyID).
		Return(open, nil).Once()
	suite.mockVoucherRepo.On("FindPaymentsByVoucherID", ctx, v1.VoucherID).Return([]domain.Payment(nil), nil).Once()
	suite.mockVoucherRepo.On("FindPaymentsByVoucherID", ctx, v2.VoucherID).
		Return([]domain.Payment{{PaymentID: uuid.NewString(), Amount: decimal.NewFromInt(60)}}, nil).Once()

	statement, err := suite.service.GetPartyOutstanding(ctx, domain.Receivable, domain.PartyCustomer, suite.customer.PartyID)

	suite.Require().NoError(err)
	suite.Require().NotNil(statement)
	suite.Equal(suite.customer.Name, statement.PartyName)
	suite.True(statement.TotalAmount.Equal(decimal.NewFromInt(220)))
	suite.True(statement.TotalOutstanding.Equal(decimal.NewFromInt(160)))
	suite.Len(statement.Vouchers, 2)
}

// --- Run Suite ---

func TestVoucherServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VoucherServiceTestSuite))
}
