package services_test

import (
	"context"
	"testing"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/core/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Definition ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	service         portssvc.AccountSvcFacade

	userID string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo)
	suite.userID = uuid.NewString()
}

// --- CreateAccount ---

func (suite *AccountServiceTestSuite) TestCreateAccount_RootSuccess() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "1000",
		Name:        "Cash",
		AccountType: domain.Asset,
	}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, "1000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.Equal("1000", account.Code)
	suite.Equal(1, account.Level)
	suite.Empty(account.ParentAccountID)
	suite.True(account.Balance.IsZero())
	suite.True(account.IsActive)
	suite.Equal(suite.userID, account.CreatedBy)

	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ChildInheritsLevel() {
	ctx := context.Background()
	parent := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1000",
		AccountType: domain.Asset,
		Level:       2,
		IsActive:    true,
	}
	req := dto.CreateAccountRequest{
		Code:            "1010",
		Name:            "Checking",
		AccountType:     domain.Asset,
		ParentAccountID: &parent.AccountID,
	}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, "1010").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, parent.AccountID).Return(&parent, nil).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(parent.AccountID, account.ParentAccountID)
	suite.Equal(3, account.Level)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	existing := domain.Account{AccountID: uuid.NewString(), Code: "1000"}
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, "1000").Return(&existing, nil).Once()

	_, err := suite.service.CreateAccount(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentTypeMismatch() {
	ctx := context.Background()
	parent := domain.Account{AccountID: uuid.NewString(), Code: "4000", AccountType: domain.Revenue, Level: 1, IsActive: true}
	req := dto.CreateAccountRequest{
		Code:            "1010",
		Name:            "Checking",
		AccountType:     domain.Asset,
		ParentAccountID: &parent.AccountID,
	}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, "1010").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, parent.AccountID).Return(&parent, nil).Once()

	_, err := suite.service.CreateAccount(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_MissingParent() {
	ctx := context.Background()
	parentID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Code:            "1010",
		Name:            "Checking",
		AccountType:     domain.Asset,
		ParentAccountID: &parentID,
	}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, "1010").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, parentID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateAccount(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- GetAccountPath ---

func (suite *AccountServiceTestSuite) TestGetAccountPath_RootFirst() {
	ctx := context.Background()
	root := domain.Account{AccountID: uuid.NewString(), Code: "1000", Level: 1}
	mid := domain.Account{AccountID: uuid.NewString(), Code: "1100", ParentAccountID: root.AccountID, Level: 2}
	leaf := domain.Account{AccountID: uuid.NewString(), Code: "1110", ParentAccountID: mid.AccountID, Level: 3}

	suite.mockAccountRepo.On("FindAccountByID", ctx, leaf.AccountID).Return(&leaf, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, mid.AccountID).Return(&mid, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, root.AccountID).Return(&root, nil).Once()

	path, err := suite.service.GetAccountPath(ctx, leaf.AccountID)

	suite.Require().NoError(err)
	suite.Require().Len(path, 3)
	suite.Equal(root.AccountID, path[0].AccountID)
	suite.Equal(mid.AccountID, path[1].AccountID)
	suite.Equal(leaf.AccountID, path[2].AccountID)
}

func (suite *AccountServiceTestSuite) TestGetAccountPath_CycleDetected() {
	ctx := context.Background()
	a := domain.Account{AccountID: uuid.NewString(), Code: "1000"}
	b := domain.Account{AccountID: uuid.NewString(), Code: "1100"}
	a.ParentAccountID = b.AccountID
	b.ParentAccountID = a.AccountID

	suite.mockAccountRepo.On("FindAccountByID", ctx, a.AccountID).Return(&a, nil)
	suite.mockAccountRepo.On("FindAccountByID", ctx, b.AccountID).Return(&b, nil)

	_, err := suite.service.GetAccountPath(ctx, a.AccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDataIntegrity)
}

func (suite *AccountServiceTestSuite) TestGetAccountPath_BrokenParentLink() {
	ctx := context.Background()
	missingParentID := uuid.NewString()
	leaf := domain.Account{AccountID: uuid.NewString(), Code: "1110", ParentAccountID: missingParentID}

	suite.mockAccountRepo.On("FindAccountByID", ctx, leaf.AccountID).Return(&leaf, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, missingParentID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetAccountPath(ctx, leaf.AccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDataIntegrity)
}

// --- UpdateAccount ---

func (suite *AccountServiceTestSuite) TestUpdateAccount_ReparentUnderOwnDescendant() {
	ctx := context.Background()
	parent := domain.Account{AccountID: uuid.NewString(), Code: "1000", AccountType: domain.Asset, Level: 1}
	child := domain.Account{AccountID: uuid.NewString(), Code: "1100", AccountType: domain.Asset, ParentAccountID: parent.AccountID, Level: 2}

	suite.mockAccountRepo.On("FindAccountByID", ctx, parent.AccountID).Return(&parent, nil)
	suite.mockAccountRepo.On("FindAccountByID", ctx, child.AccountID).Return(&child, nil)

	req := dto.UpdateAccountRequest{ParentAccountID: &child.AccountID}
	_, err := suite.service.UpdateAccount(ctx, parent.AccountID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_SelfParentRejected() {
	ctx := context.Background()
	account := domain.Account{AccountID: uuid.NewString(), Code: "1000", AccountType: domain.Asset, Level: 1}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()

	req := dto.UpdateAccountRequest{ParentAccountID: &account.AccountID}
	_, err := suite.service.UpdateAccount(ctx, account.AccountID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- DeleteAccount ---

func (suite *AccountServiceTestSuite) TestDeleteAccount_Success() {
	ctx := context.Background()
	account := domain.Account{AccountID: uuid.NewString(), Code: "1000"}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("HasChildAccounts", ctx, account.AccountID).Return(false, nil).Once()
	suite.mockAccountRepo.On("HasJournalItems", ctx, account.AccountID).Return(false, nil).Once()
	suite.mockAccountRepo.On("DeleteAccount", ctx, account.AccountID).Return(nil).Once()

	err := suite.service.DeleteAccount(ctx, account.AccountID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_HasChildren() {
	ctx := context.Background()
	account := domain.Account{AccountID: uuid.NewString(), Code: "1000"}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("HasChildAccounts", ctx, account.AccountID).Return(true, nil).Once()

	err := suite.service.DeleteAccount(ctx, account.AccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrHasChildren)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeleteAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_HasJournalHistory() {
	ctx := context.Background()
	account := domain.Account{AccountID: uuid.NewString(), Code: "1000"}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("HasChildAccounts", ctx, account.AccountID).Return(false, nil).Once()
	suite.mockAccountRepo.On("HasJournalItems", ctx, account.AccountID).Return(true, nil).Once()

	err := suite.service.DeleteAccount(ctx, account.AccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrHasTransactions)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeleteAccount", mock.Anything, mock.Anything)
}

// --- RecomputeLevels ---

func (suite *AccountServiceTestSuite) TestRecomputeLevels_FixesDepths() {
	ctx := context.Background()
	root := domain.Account{AccountID: uuid.NewString(), Code: "1000", Level: 1}
	child := domain.Account{AccountID: uuid.NewString(), Code: "1100", ParentAccountID: root.AccountID, Level: 5} // stale

	suite.mockAccountRepo.On("ListAllAccounts", ctx).Return([]domain.Account{root, child}, nil).Once()
	expectedLevels := func(levels map[string]int) bool {
		return len(levels) == 1 && levels[child.AccountID] == 2
	}
	suite.mockAccountRepo.On("UpdateAccountLevels", ctx, mock.MatchedBy(expectedLevels), suite.userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	err := suite.service.RecomputeLevels(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestRecomputeLevels_CycleAborts() {
	ctx := context.Background()
	a := domain.Account{AccountID: uuid.NewString(), Code: "1000", Level: 1}
	b := domain.Account{AccountID: uuid.NewString(), Code: "1100", Level: 2}
	a.ParentAccountID = b.AccountID
	b.ParentAccountID = a.AccountID

	suite.mockAccountRepo.On("ListAllAccounts", ctx).Return([]domain.Account{a, b}, nil).Once()

	err := suite.service.RecomputeLevels(ctx, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDataIntegrity)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccountLevels", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestRecomputeLevels_NoChangesNoWrite() {
	ctx := context.Background()
	root := domain.Account{AccountID: uuid.NewString(), Code: "1000", Level: 1}
	child := domain.Account{AccountID: uuid.NewString(), Code: "1100", ParentAccountID: root.AccountID, Level: 2}

	suite.mockAccountRepo.On("ListAllAccounts", ctx).Return([]domain.Account{root, child}, nil).Once()

	err := suite.service.RecomputeLevels(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccountLevels", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Suite ---

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
