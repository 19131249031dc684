package repositories

import (
	"banking-api/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepositoryInterface defines the contract for account persistence.
type AccountRepositoryInterface interface {
	// Create persists a new account
	Create(account *models.Account) error

	// GetByID retrieves an account by ID
	GetByID(id uuid.UUID) (*models.Account, error)

	// List retrieves accounts matching the filter along with the total
	// count of matches before pagination is applied
	List(filter *models.AccountsFilter) ([]models.Account, int64, error)

	// Update persists changes to an existing account using optimistic
	// locking on the account version
	Update(account *models.Account) error

	// Delete permanently removes an account
	Delete(id uuid.UUID) error

	// ExecuteTransfer atomically moves amount between two accounts and
	// returns the updated source and destination accounts
	ExecuteTransfer(fromID, toID uuid.UUID, amount decimal.Decimal) (*models.Account, *models.Account, error)
}
