package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"banking-api/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrStaleAccount    = errors.New("account was modified concurrently")
)

// Transfer leg names used in TransferError
const (
	TransferSideSource      = "source account"
	TransferSideDestination = "destination account"
)

// TransferError attributes a transfer failure to one leg of the transfer so
// callers can report which account blocked it.
type TransferError struct {
	Side string
	Err  error
}

func (e *TransferError) Error() string {
	return e.Side + ": " + e.Err.Error()
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// accountRepository implements AccountRepositoryInterface backed by GORM
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepositoryInterface {
	return &accountRepository{
		db: db,
	}
}

// Create persists a new account
func (r *accountRepository) Create(account *models.Account) error {
	if err := r.db.Create(account).Error; err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByID retrieves an account by ID
func (r *accountRepository) GetByID(id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// List retrieves accounts matching the filter. The total count reflects
// all matches before pagination is applied.
func (r *accountRepository) List(filter *models.AccountsFilter) ([]models.Account, int64, error) {
	var accounts []models.Account
	var total int64

	filter.Normalize()

	query := r.db.Model(&models.Account{})

	if filter.SearchTerm != "" {
		term := "%" + strings.ToLower(filter.SearchTerm) + "%"
		query = query.Where("LOWER(name) LIKE ?", term)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count accounts: %w", err)
	}

	column := models.SortColumn(filter.SortBy)
	order := fmt.Sprintf("%s %s", column, strings.ToUpper(filter.SortOrder))
	if column != "created_at" {
		// Stable ordering for rows with equal sort keys
		order += ", created_at ASC"
	}

	if err := query.Order(order).
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&accounts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list accounts: %w", err)
	}

	return accounts, total, nil
}

// Update persists changes to an account guarded by its version. The write
// only succeeds when the stored version matches the version the account
// was read at; a concurrent writer bumps the version and forces the loser
// to retry.
func (r *accountRepository) Update(account *models.Account) error {
	now := time.Now().UTC()

	result := r.db.Model(&models.Account{}).
		Where("id = ? AND version = ?", account.ID, account.Version).
		Updates(map[string]interface{}{
			"name":       account.Name,
			"balance":    account.Balance,
			"active":     account.Active,
			"version":    account.Version + 1,
			"updated_at": now,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update account: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.Account{}).
			Where("id = ?", account.ID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check account existence: %w", err)
		}
		if count == 0 {
			return ErrAccountNotFound
		}
		return ErrStaleAccount
	}

	account.Version++
	account.UpdatedAt = now
	return nil
}

// Delete permanently removes an account
func (r *accountRepository) Delete(id uuid.UUID) error {
	result := r.db.Unscoped().Where("id = ?", id).Delete(&models.Account{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// ExecuteTransfer atomically moves amount from one account to another.
// Both balance updates happen in a single database transaction with
// version checks on each leg, so a failure on either side rolls back both.
func (r *accountRepository) ExecuteTransfer(fromID, toID uuid.UUID, amount decimal.Decimal) (*models.Account, *models.Account, error) {
	var from, to models.Account

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", fromID).First(&from).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &TransferError{Side: TransferSideSource, Err: ErrAccountNotFound}
			}
			return fmt.Errorf("failed to load source account: %w", err)
		}

		if err := tx.Where("id = ?", toID).First(&to).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &TransferError{Side: TransferSideDestination, Err: ErrAccountNotFound}
			}
			return fmt.Errorf("failed to load destination account: %w", err)
		}

		if err := from.Withdraw(amount); err != nil {
			return &TransferError{Side: TransferSideSource, Err: err}
		}
		if err := to.Deposit(amount); err != nil {
			return &TransferError{Side: TransferSideDestination, Err: err}
		}

		now := time.Now().UTC()

		result := tx.Model(&models.Account{}).
			Where("id = ? AND version = ?", from.ID, from.Version).
			Updates(map[string]interface{}{
				"balance":    from.Balance,
				"version":    from.Version + 1,
				"updated_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to debit source account: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return &TransferError{Side: TransferSideSource, Err: ErrStaleAccount}
		}

		result = tx.Model(&models.Account{}).
			Where("id = ? AND version = ?", to.ID, to.Version).
			Updates(map[string]interface{}{
				"balance":    to.Balance,
				"version":    to.Version + 1,
				"updated_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to credit destination account: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return &TransferError{Side: TransferSideDestination, Err: ErrStaleAccount}
		}

		from.Version++
		to.Version++
		from.UpdatedAt = now
		to.UpdatedAt = now

		return nil
	})

	if err != nil {
		return nil, nil, err
	}

	return &from, &to, nil
}
