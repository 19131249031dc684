package services

import (
	"time"

	"banking-api/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountServiceInterface defines account management operations
type AccountServiceInterface interface {
	// CreateAccount opens a new active account with the given holder name
	// and starting balance
	CreateAccount(name string, initialBalance decimal.Decimal) (*models.Account, error)

	// GetAccount retrieves a single account by ID
	GetAccount(id uuid.UUID) (*models.Account, error)

	// ListAccounts retrieves a page of accounts matching the filter
	ListAccounts(filter *models.AccountsFilter) ([]models.Account, *models.PaginationMetadata, error)

	// ChangeName updates the holder name of an active account
	ChangeName(id uuid.UUID, name string) (*models.Account, error)

	// Deposit credits the account balance
	Deposit(id uuid.UUID, amount decimal.Decimal) (*models.Account, error)

	// Withdraw debits the account balance
	Withdraw(id uuid.UUID, amount decimal.Decimal) (*models.Account, error)

	// Transfer atomically moves funds between two accounts
	Transfer(fromID, toID uuid.UUID, amount decimal.Decimal) (*models.Account, *models.Account, error)

	// DeactivateAccount marks an account inactive. The balance must be zero.
	DeactivateAccount(id uuid.UUID) (*models.Account, error)

	// ReactivateAccount re-enables a deactivated account
	ReactivateAccount(id uuid.UUID) (*models.Account, error)

	// DeleteAccount permanently removes an account regardless of its state
	DeleteAccount(id uuid.UUID) error
}

// TokenServiceInterface defines JWT token operations
type TokenServiceInterface interface {
	GenerateToken(userName string) (string, time.Time, error)
	ValidateToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
}

// AuthServiceInterface verifies login credentials
type AuthServiceInterface interface {
	Authenticate(userName, password string) error
}

// MetricsRecorderInterface abstracts metric collection
type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}
