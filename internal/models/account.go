package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvalidAmount     = errors.New("amount cannot be negative")
	ErrInvalidBalance    = errors.New("balance cannot be negative")
	ErrAccountInactive   = errors.New("account is inactive")
	ErrInsufficientFunds = errors.New("requested amount is more than account balance")
	ErrAlreadyActive     = errors.New("account is already active")
	ErrAlreadyInactive   = errors.New("account is already deactivated")
	ErrNonZeroBalance    = errors.New("account still has a balance greater than 0")
)

// Account represents a bank account
type Account struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name      string          `gorm:"type:varchar(100);not null;index" json:"name"`
	Balance   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	Active    bool            `gorm:"not null;default:true" json:"active"`
	Version   int64           `gorm:"not null;default:1" json:"-"`
	CreatedAt time.Time       `gorm:"not null;index" json:"created_date"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_date"`
}

// BeforeCreate hook for Account
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	if a.Version == 0 {
		a.Version = 1
	}

	// Set timestamps if not already set (for tests)
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}

	return a.Validate()
}

// Validate validates the account fields
func (a *Account) Validate() error {
	if a.Name == "" {
		return errors.New("account name is required")
	}

	if a.Balance.LessThan(decimal.Zero) {
		return ErrInvalidBalance
	}

	return nil
}

// Rename changes the account display name. Only active accounts may be renamed.
func (a *Account) Rename(name string) error {
	if !a.Active {
		return ErrAccountInactive
	}

	a.Name = name
	return nil
}

// Deposit credits the account balance
func (a *Account) Deposit(amount decimal.Decimal) error {
	if amount.LessThan(decimal.Zero) {
		return ErrInvalidAmount
	}

	if !a.Active {
		return ErrAccountInactive
	}

	a.Balance = a.Balance.Add(amount)
	return nil
}

// Withdraw debits the account balance. The balance never goes negative.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if amount.LessThan(decimal.Zero) {
		return ErrInvalidAmount
	}

	if !a.Active {
		return ErrAccountInactive
	}

	if amount.GreaterThan(a.Balance) {
		return ErrInsufficientFunds
	}

	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Deactivate soft-deletes the account. The balance must be withdrawn first.
func (a *Account) Deactivate() error {
	if !a.Active {
		return ErrAlreadyInactive
	}

	if a.Balance.GreaterThan(decimal.Zero) {
		return ErrNonZeroBalance
	}

	a.Active = false
	return nil
}

// Reactivate re-enables a previously deactivated account
func (a *Account) Reactivate() error {
	if a.Active {
		return ErrAlreadyActive
	}

	a.Active = true
	return nil
}

// TableName returns the table name for Account
func (a *Account) TableName() string {
	return "accounts"
}
