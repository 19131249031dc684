package database

import (
	"testing"

	"banking-api/internal/config"
	"banking-api/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	testDB := &DB{
		DB: db,
		config: &config.DatabaseConfig{
			MaxConnections: 1,
			MaxIdleConns:   1,
		},
	}

	if err := testDB.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return testDB
}

// CreateTestAccount persists an active account with a random holder name
// and the given balance.
func CreateTestAccount(t *testing.T, db *DB, balance decimal.Decimal) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:    gofakeit.Name(),
		Balance: balance,
		Active:  true,
	}

	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}

	return account
}

// CreateInactiveTestAccount persists a deactivated account with the given balance.
func CreateInactiveTestAccount(t *testing.T, db *DB, balance decimal.Decimal) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:    gofakeit.Name(),
		Balance: balance,
		Active:  true,
	}

	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}

	// Flip the flag after creation so BeforeCreate validation still runs
	if err := db.Model(account).Update("active", false).Error; err != nil {
		t.Fatalf("failed to deactivate test account: %v", err)
	}
	account.Active = false

	return account
}

func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	if err := db.Exec("DELETE FROM accounts").Error; err != nil {
		t.Logf("failed to cleanup accounts table: %v", err)
	}
}
