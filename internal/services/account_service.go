package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"banking-api/internal/models"
	"banking-api/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrInvalidAmount       = errors.New("amount cannot be negative")
	ErrInvalidBalance      = errors.New("initial balance cannot be negative")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrAlreadyActive       = errors.New("account is already active")
	ErrAlreadyInactive     = errors.New("account is already deactivated")
	ErrNonZeroBalance      = errors.New("account balance must be zero before deactivation")
	ErrConcurrencyConflict = errors.New("account was modified concurrently, retry the operation")
	ErrSameAccountTransfer = errors.New("cannot transfer to the same account")
)

// accountService implements AccountServiceInterface
type accountService struct {
	accountRepo repositories.AccountRepositoryInterface
	metrics     MetricsRecorderInterface
	logger      *slog.Logger
}

// NewAccountService creates an account service. The metrics recorder may be
// nil when metric collection is not wanted.
func NewAccountService(
	accountRepo repositories.AccountRepositoryInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) AccountServiceInterface {
	if logger == nil {
		logger = slog.Default()
	}
	return &accountService{
		accountRepo: accountRepo,
		metrics:     metrics,
		logger:      logger,
	}
}

// CreateAccount opens a new active account
func (s *accountService) CreateAccount(name string, initialBalance decimal.Decimal) (*models.Account, error) {
	if initialBalance.LessThan(decimal.Zero) {
		return nil, ErrInvalidBalance
	}

	account := &models.Account{
		Name:    name,
		Balance: initialBalance,
		Active:  true,
	}

	if err := s.accountRepo.Create(account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.Info("account created", "account_id", account.ID, "name", account.Name)
	s.incrementCounter("account_created", nil)

	return account, nil
}

// GetAccount retrieves a single account by ID
func (s *accountService) GetAccount(id uuid.UUID) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(id)
	if err != nil {
		return nil, s.mapRepoError(err, "failed to get account")
	}
	return account, nil
}

// ListAccounts retrieves a page of accounts along with pagination metadata
func (s *accountService) ListAccounts(filter *models.AccountsFilter) ([]models.Account, *models.PaginationMetadata, error) {
	start := time.Now()

	filter.Normalize()

	accounts, total, err := s.accountRepo.List(filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	metadata := models.NewPaginationMetadata(total, filter.PageSize, filter.PageNumber)

	if s.metrics != nil {
		s.metrics.RecordProcessingTime("account_list", time.Since(start))
	}

	return accounts, &metadata, nil
}

// ChangeName updates the holder name of an active account
func (s *accountService) ChangeName(id uuid.UUID, name string) (*models.Account, error) {
	return s.mutateAccount(id, "account_renamed", func(account *models.Account) error {
		return account.Rename(name)
	})
}

// Deposit credits the account balance
func (s *accountService) Deposit(id uuid.UUID, amount decimal.Decimal) (*models.Account, error) {
	return s.mutateAccount(id, "account_deposit", func(account *models.Account) error {
		return account.Deposit(amount)
	})
}

// Withdraw debits the account balance
func (s *accountService) Withdraw(id uuid.UUID, amount decimal.Decimal) (*models.Account, error) {
	return s.mutateAccount(id, "account_withdrawal", func(account *models.Account) error {
		return account.Withdraw(amount)
	})
}

// Transfer atomically moves funds between two accounts. Either both legs
// commit or neither does.
func (s *accountService) Transfer(fromID, toID uuid.UUID, amount decimal.Decimal) (*models.Account, *models.Account, error) {
	if fromID == toID {
		return nil, nil, ErrSameAccountTransfer
	}

	start := time.Now()

	from, to, err := s.accountRepo.ExecuteTransfer(fromID, toID, amount)
	if err != nil {
		s.incrementCounter("transfers_total", map[string]string{"status": "failed"})
		// Keep the failing side visible so callers can report which
		// account blocked the transfer
		var legErr *repositories.TransferError
		if errors.As(err, &legErr) {
			return nil, nil, fmt.Errorf("%s: %w", legErr.Side, s.mapRepoError(legErr.Err, "failed to execute transfer"))
		}
		return nil, nil, s.mapRepoError(err, "failed to execute transfer")
	}

	s.logger.Info("transfer completed",
		"from_account_id", from.ID,
		"to_account_id", to.ID,
		"amount", amount.String(),
	)
	s.incrementCounter("transfers_total", map[string]string{"status": "completed"})
	if s.metrics != nil {
		s.metrics.RecordProcessingTime("transfer_duration", time.Since(start))
		amountFloat, _ := amount.Float64()
		s.metrics.RecordGauge("transfer_amount", amountFloat, nil)
	}

	return from, to, nil
}

// DeactivateAccount marks an account inactive once its balance is zero
func (s *accountService) DeactivateAccount(id uuid.UUID) (*models.Account, error) {
	return s.mutateAccount(id, "account_deactivated", func(account *models.Account) error {
		return account.Deactivate()
	})
}

// ReactivateAccount re-enables a deactivated account
func (s *accountService) ReactivateAccount(id uuid.UUID) (*models.Account, error) {
	return s.mutateAccount(id, "account_reactivated", func(account *models.Account) error {
		return account.Reactivate()
	})
}

// DeleteAccount permanently removes an account. Unlike deactivation this is
// an administrative override with no balance or state preconditions.
func (s *accountService) DeleteAccount(id uuid.UUID) error {
	if err := s.accountRepo.Delete(id); err != nil {
		return s.mapRepoError(err, "failed to delete account")
	}

	s.logger.Info("account deleted", "account_id", id)
	s.incrementCounter("account_deleted", nil)

	return nil
}

// mutateAccount loads an account, applies the domain mutation, and persists
// the result under the account's version guard.
func (s *accountService) mutateAccount(id uuid.UUID, action string, mutate func(*models.Account) error) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(id)
	if err != nil {
		return nil, s.mapRepoError(err, "failed to get account")
	}

	if err := mutate(account); err != nil {
		return nil, s.mapDomainError(err)
	}

	if err := s.accountRepo.Update(account); err != nil {
		return nil, s.mapRepoError(err, "failed to update account")
	}

	s.logger.Info(action, "account_id", account.ID)
	s.incrementCounter(action, nil)

	return account, nil
}

// mapRepoError converts repository sentinel errors into service errors,
// keeping the domain errors carried inside transfer failures intact.
func (s *accountService) mapRepoError(err error, msg string) error {
	switch {
	case errors.Is(err, repositories.ErrAccountNotFound):
		return ErrAccountNotFound
	case errors.Is(err, repositories.ErrStaleAccount):
		return ErrConcurrencyConflict
	}

	if mapped := s.mapDomainError(err); mapped != err {
		return mapped
	}

	return fmt.Errorf("%s: %w", msg, err)
}

// mapDomainError converts model invariant errors into service errors
func (s *accountService) mapDomainError(err error) error {
	switch {
	case errors.Is(err, models.ErrInvalidAmount):
		return ErrInvalidAmount
	case errors.Is(err, models.ErrAccountInactive):
		return ErrAccountInactive
	case errors.Is(err, models.ErrInsufficientFunds):
		return ErrInsufficientFunds
	case errors.Is(err, models.ErrAlreadyActive):
		return ErrAlreadyActive
	case errors.Is(err, models.ErrAlreadyInactive):
		return ErrAlreadyInactive
	case errors.Is(err, models.ErrNonZeroBalance):
		return ErrNonZeroBalance
	}
	return err
}

func (s *accountService) incrementCounter(name string, tags map[string]string) {
	if s.metrics != nil {
		s.metrics.IncrementCounter(name, tags)
	}
}
