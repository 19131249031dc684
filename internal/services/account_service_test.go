package services

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"banking-api/internal/models"
	"banking-api/internal/repositories"
	"banking-api/internal/repositories/repository_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// AccountServiceSuite defines the test suite for AccountServiceInterface
type AccountServiceSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	accountRepo   *repository_mocks.MockAccountRepositoryInterface
	service       *accountService
	testAccountID uuid.UUID
	testTime      time.Time
}

// SetupTest runs before each test in the suite
func (s *AccountServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.accountRepo = repository_mocks.NewMockAccountRepositoryInterface(s.ctrl)
	s.service = NewAccountService(s.accountRepo, nil, slog.Default()).(*accountService)

	s.testAccountID = uuid.New()
	s.testTime = time.Now().UTC()
}

// TearDownTest runs after each test in the suite
func (s *AccountServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

// TestAccountServiceSuite runs the test suite
func TestAccountServiceSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceSuite))
}

func (s *AccountServiceSuite) testAccount(balance decimal.Decimal, active bool) *models.Account {
	return &models.Account{
		ID:        s.testAccountID,
		Name:      "Test Holder",
		Balance:   balance,
		Active:    active,
		Version:   1,
		CreatedAt: s.testTime,
		UpdatedAt: s.testTime,
	}
}

func (s *AccountServiceSuite) TestCreateAccount() {
	s.accountRepo.EXPECT().Create(gomock.Any()).DoAndReturn(
		func(account *models.Account) error {
			account.ID = s.testAccountID
			account.Version = 1
			account.CreatedAt = s.testTime
			account.UpdatedAt = s.testTime
			return nil
		})

	account, err := s.service.CreateAccount("Test Holder", decimal.NewFromFloat(100))
	s.NoError(err)
	s.NotNil(account)
	s.Equal("Test Holder", account.Name)
	s.True(account.Active)
	s.True(account.Balance.Equal(decimal.NewFromFloat(100)))
}

func (s *AccountServiceSuite) TestCreateAccount_NegativeInitialBalance() {
	account, err := s.service.CreateAccount("Test Holder", decimal.NewFromFloat(-1))
	s.ErrorIs(err, ErrInvalidBalance)
	s.Nil(account)
}

func (s *AccountServiceSuite) TestGetAccount() {
	expected := s.testAccount(decimal.NewFromInt(100), true)
	s.accountRepo.EXPECT().GetByID(s.testAccountID).Return(expected, nil)

	account, err := s.service.GetAccount(s.testAccountID)
	s.NoError(err)
	s.Equal(expected, account)
}

func (s *AccountServiceSuite) TestGetAccount_NotFound() {
	s.accountRepo.EXPECT().GetByID(s.testAccountID).Return(nil, repositories.ErrAccountNotFound)

	account, err := s.service.GetAccount(s.testAccountID)
	s.ErrorIs(err, ErrAccountNotFound)
	s.Nil(account)
}

func (s *AccountServiceSuite) TestListAccounts() {
	filter := models.NewAccountsFilter()
	expected := []models.Account{*s.testAccount(decimal.NewFromInt(100), true)}

	s.accountRepo.EXPECT().List(&filter).Return(expected, int64(25), nil)

	accounts, metadata, err := s.service.ListAccounts(&filter)
	s.NoError(err)
	s.Equal(expected, accounts)
	s.Require().NotNil(metadata)
	s.EqualValues(25, metadata.TotalCount)
	s.Equal(10, metadata.PageSize)
	s.Equal(1, metadata.CurrentPage)
	s.Equal(3, metadata.TotalPages)
}

func (s *AccountServiceSuite) TestChangeName() {
	account := s.testAccount(decimal.NewFromInt(100), true)
	s.accountRepo.EXPECT().GetByID(s.testAccountID).Return(account, nil)
	s.accountRepo.EXPECT().Update(account).Return(nil)

	updated, err := s.service.ChangeName(s.testAccountID, "New Holder")
	s.NoError(err)
	s.Equal("New Holder", updated.Name)
}

func (s *AccountServiceSuite) TestChangeName_InactiveAccount() {
	account := s.testAccount(decimal.Zero, false)
	s.accountRepo.EXPECT().GetByID(s.testAccountID).Return(account, nil)

	updated, err := s.service.ChangeName(s.testAccountID, "New Holder")
	s.ErrorIs(err, ErrAccountInactive)
	s.Nil(updated)
}

func (s *AccountServiceSuite) TestChangeName_ConcurrencyConflict() {
	account := s.testAccount(decimal.NewFromInt(100), true)
	s.accountRepo.EXPECT().GetByID(s.testAccountID).Return(account, nil)
	s.accountRepo.EXPECT().Update(account).Return(repositories.ErrStaleAccount)

	updated, err := s.service.ChangeName(s.testAccountID, "New Holder")
	s.ErrorIs(err, ErrConcurrencyConflict)
	s.Nil(updated)
}

func (s *AccountServiceSuite) TestDeposit() {
	account := s.testAccount(decimal.NewFromInt(100), true)
	s.accountRepo.EXPECT().GetByID(s.testAccountID).Return(account, nil)
	s.accountRepo.EXPECT().Update(account).Return(nil)

	updated, err := s.service.Deposit(s.testAccountID, decimal.NewFromInt(50))
	s.NoError(err)
	s.True(updated.Balance.Equal(decimal.NewFromInt(150)))
}

func (s *AccountServiceSuite) TestDeposit_NegativeAmount() {
	account := s.testAccount(decimal.NewFromInt(100), true)
	s.accountRepo.EXPECT().GetByID(s.testAccountID).Return(account, nil)

	updated, err := s.service.Deposit(s.testAccountID, decimal.NewFromInt(-50))
	s.ErrorIs(err, ErrInvalidAmount)
	s.Nil(updated)
}

func (s *AccountServiceSuite) TestDeposit_ZeroAmountSucceeds() {
	account := s.testAccount(decimal.NewFromInt(100), true)
	s.accountRepo.EXPECT().GetByID(s.testAccountID).Return(account, nil)
	s.accountRepo.EXPECT().Update(account).Return(nil)

	updated, err := s.service.Deposit(s.testAccountID, decimal.Zero)
	s.NoError(err)
	s.True(updated.Balance.Equal(decimal.NewFromInt(100)))
}

func (s *AccountServiceSuite) TestDeposit_InactiveAccount() {
	account := s.testAccount(decimal.NewFromInt(100), false)
	s.accountRepo.EXPECT().GetByID(s.testAccountID).Return(account, nil)

	updated, err := s.service.Deposit(s.testAccountID, decimal.NewFromInt(50))
	s.ErrorIs(err, ErrAccountInactive)
	s.Nil(updated)
}

func (s *AccountServiceSuite) TestWithdraw() {
	account := s.testAccount(decimal.NewFromInt(100), true)
	s.accountRepo.EXPECT().GetByID(s.testAccountID).Return(account, nil)
	s.accountRepo.EXPECT().Update(account).Return(nil)

	updated, err := s.service.Withdraw(s.testAccountID, decimal.NewFromInt(100))
	s.NoError(err)
	s.True(updated.Balance.IsZero())
}

func (s *AccountServiceSuite) TestWithdraw_InsufficientFunds() {
	account := s.testAccount(decimal.NewFromInt(100), true)
	s.accountRepo.EXPECT().GetByID(s.testAccountID).Return(account, nil)

	updated, err := s.service.Withdraw(s.testAccountID, decimal.NewFromInt(101))
	s.ErrorIs(err, ErrInsufficientFunds)
	s.Nil(updated)
}

func (s *AccountServiceSuite) TestTransfer_SameAccountRejected() {
	from, to, err := s.service.Transfer(s.testAccountID, s.testAccountID, decimal.NewFromInt(10))
	s.ErrorIs(err, ErrSameAccountTransfer)
	s.Nil(from)
	s.Nil(to)
}

func (s *AccountServiceSuite) TestTransfer() {
	toID := uuid.New()
	amount := decimal.NewFromInt(30)

	fromAccount := s.testAccount(decimal.NewFromInt(70), true)
	toAccount := &models.Account{ID: toID, Name: "Other", Balance: decimal.NewFromInt(80), Active: true}

	s.accountRepo.EXPECT().ExecuteTransfer(s.testAccountID, toID, amount).Return(fromAccount, toAccount, nil)

	from, to, err := s.service.Transfer(s.testAccountID, toID, amount)
	s.NoError(err)
	s.Equal(fromAccount, from)
	s.Equal(toAccount, to)
}

func (s *AccountServiceSuite) TestTransfer_ErrorsPassThrough() {
	toID := uuid.New()
	amount := decimal.NewFromInt(30)

	tests := []struct {
		name     string
		repoErr  error
		expected error
	}{
		{"insufficient funds", models.ErrInsufficientFunds, ErrInsufficientFunds},
		{"inactive account", models.ErrAccountInactive, ErrAccountInactive},
		{"negative amount", models.ErrInvalidAmount, ErrInvalidAmount},
		{"missing account", repositories.ErrAccountNotFound, ErrAccountNotFound},
		{"stale account", repositories.ErrStaleAccount, ErrConcurrencyConflict},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.accountRepo.EXPECT().ExecuteTransfer(s.testAccountID, toID, amount).Return(nil, nil, tt.repoErr)

			_, _, err := s.service.Transfer(s.testAccountID, toID, amount)
			s.ErrorIs(err, tt.expected)
		})
	}
}

func (s *AccountServiceSuite) TestTransfer_FailedLegKeepsSideAttribution() {
	toID := uuid.New()
	amount := decimal.NewFromInt(30)

	tests := []struct {
		name     string
		repoErr  error
		expected error
		side     string
	}{
		{
			"missing destination",
			&repositories.TransferError{Side: repositories.TransferSideDestination, Err: repositories.ErrAccountNotFound},
			ErrAccountNotFound,
			repositories.TransferSideDestination,
		},
		{
			"missing source",
			&repositories.TransferError{Side: repositories.TransferSideSource, Err: repositories.ErrAccountNotFound},
			ErrAccountNotFound,
			repositories.TransferSideSource,
		},
		{
			"inactive destination",
			&repositories.TransferError{Side: repositories.TransferSideDestination, Err: models.ErrAccountInactive},
			ErrAccountInactive,
			repositories.TransferSideDestination,
		},
		{
			"source insufficient funds",
			&repositories.TransferError{Side: repositories.TransferSideSource, Err: models.ErrInsufficientFunds},
			ErrInsufficientFunds,
			repositories.TransferSideSource,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.accountRepo.EXPECT().ExecuteTransfer(s.testAccountID, toID, amount).Return(nil, nil, tt.repoErr)

			_, _, err := s.service.Transfer(s.testAccountID, toID, amount)
			s.ErrorIs(err, tt.expected)
			s.Contains(err.Error(), tt.side)
		})
	}
}

func (s *AccountServiceSuite) TestDeactivateAccount() {
	account := s.testAccount(decimal.Zero, true)
	s.accountRepo.EXPECT().GetByID(s.testAccountID).Return(account, nil)
	s.accountRepo.EXPECT().Update(account).Return(nil)

	updated, err := s.service.DeactivateAccount(s.testAccountID)
	s.NoError(err)
	s.False(updated.Active)
}

func (s *AccountServiceSuite) TestDeactivateAccount_NonZeroBalance() {
	account := s.testAccount(decimal.NewFromFloat(0.01), true)
	s.accountRepo.EXPECT().GetByID(s.testAccountID).Return(account, nil)

	updated, err := s.service.DeactivateAccount(s.testAccountID)
	s.ErrorIs(err, ErrNonZeroBalance)
	s.Nil(updated)
}

func (s *AccountServiceSuite) TestDeactivateAccount_AlreadyInactive() {
	account := s.testAccount(decimal.Zero, false)
	s.accountRepo.EXPECT().GetByID(s.testAccountID).Return(account, nil)

	updated, err := s.service.DeactivateAccount(s.testAccountID)
	s.ErrorIs(err, ErrAlreadyInactive)
	s.Nil(updated)
}

func (s *AccountServiceSuite) TestReactivateAccount() {
	account := s.testAccount(decimal.Zero, false)
	s.accountRepo.EXPECT().GetByID(s.testAccountID).Return(account, nil)
	s.accountRepo.EXPECT().Update(account).Return(nil)

	updated, err := s.service.ReactivateAccount(s.testAccountID)
	s.NoError(err)
	s.True(updated.Active)
}

func (s *AccountServiceSuite) TestReactivateAccount_AlreadyActive() {
	account := s.testAccount(decimal.NewFromInt(100), true)
	s.accountRepo.EXPECT().GetByID(s.testAccountID).Return(account, nil)

	updated, err := s.service.ReactivateAccount(s.testAccountID)
	s.ErrorIs(err, ErrAlreadyActive)
	s.Nil(updated)
}

func (s *AccountServiceSuite) TestDeleteAccount() {
	s.accountRepo.EXPECT().Delete(s.testAccountID).Return(nil)

	err := s.service.DeleteAccount(s.testAccountID)
	s.NoError(err)
}

func (s *AccountServiceSuite) TestDeleteAccount_NotFound() {
	s.accountRepo.EXPECT().Delete(s.testAccountID).Return(repositories.ErrAccountNotFound)

	err := s.service.DeleteAccount(s.testAccountID)
	s.ErrorIs(err, ErrAccountNotFound)
}

func (s *AccountServiceSuite) TestDeleteAccount_IgnoresAccountState() {
	// Hard delete is an administrative override: no balance or state checks,
	// only a single repository call
	s.accountRepo.EXPECT().Delete(s.testAccountID).Return(nil)

	err := s.service.DeleteAccount(s.testAccountID)
	s.NoError(err)
}

func (s *AccountServiceSuite) TestRepositoryFailuresAreWrapped() {
	repoErr := errors.New("connection reset")
	s.accountRepo.EXPECT().GetByID(s.testAccountID).Return(nil, repoErr)

	_, err := s.service.GetAccount(s.testAccountID)
	s.Error(err)
	s.ErrorIs(err, repoErr)
	s.NotErrorIs(err, ErrAccountNotFound)
}
