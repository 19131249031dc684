package database

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"banking-api/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryConfig() *config.DatabaseConfig {
	return &config.DatabaseConfig{
		ConnectRetries:       2,
		ConnectRetryInterval: 10 * time.Millisecond,
	}
}

func TestNewMigrationRunner_Defaults(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	runner := NewMigrationRunner(db, nil)

	assert.NotNil(t, runner)
	assert.Equal(t, db, runner.db)
	assert.Equal(t, defaultMigrationsPath, runner.migrationsPath)
	assert.Equal(t, defaultSeedsPath, runner.seedsPath)
	assert.Equal(t, defaultConnectRetries, runner.connectRetries)
	assert.Equal(t, defaultRetryInterval, runner.retryInterval)
}

func TestNewMigrationRunner_ConfigOverrides(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cfg := &config.DatabaseConfig{
		MigrationsPath:       "custom/migrations",
		SeedsPath:            "custom/seeds",
		ConnectRetries:       5,
		ConnectRetryInterval: 500 * time.Millisecond,
	}

	runner := NewMigrationRunner(db, cfg)

	assert.Equal(t, "custom/migrations", runner.migrationsPath)
	assert.Equal(t, "custom/seeds", runner.seedsPath)
	assert.Equal(t, 5, runner.connectRetries)
	assert.Equal(t, 500*time.Millisecond, runner.retryInterval)
}

func TestNewMigrationRunner_ZeroKnobsFallBack(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	runner := NewMigrationRunner(db, &config.DatabaseConfig{})

	assert.Equal(t, defaultConnectRetries, runner.connectRetries)
	assert.Equal(t, defaultRetryInterval, runner.retryInterval)
}

func TestWaitForDatabase_Success(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(nil)

	runner := NewMigrationRunner(db, fastRetryConfig())
	err = runner.WaitForDatabase()

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitForDatabase_FailureThenSuccess(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	// First ping fails, second succeeds
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing().WillReturnError(nil)

	runner := NewMigrationRunner(db, fastRetryConfig())
	err = runner.WaitForDatabase()

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitForDatabase_AlwaysFails(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	cfg := fastRetryConfig()
	for i := 0; i < cfg.ConnectRetries; i++ {
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	}

	runner := NewMigrationRunner(db, cfg)
	err = runner.WaitForDatabase()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database not ready after")
}

func TestRunMigrations_DirectoryNotFound(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	runner := NewMigrationRunner(db, &config.DatabaseConfig{
		MigrationsPath: "/nonexistent/path/to/migrations",
	})

	err = runner.RunMigrations()

	// Should not error when directory doesn't exist
	assert.NoError(t, err)
}

func TestLoadSeeds_DisabledByEnvironment(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t.Setenv("SEED_DATABASE", "false")

	runner := NewMigrationRunner(db, nil)
	err = runner.LoadSeeds()

	assert.NoError(t, err)
}

func TestLoadSeeds_DirectoryNotFound(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t.Setenv("SEED_DATABASE", "true")

	runner := NewMigrationRunner(db, &config.DatabaseConfig{
		SeedsPath: "/nonexistent/seeds/path",
	})

	err = runner.LoadSeeds()

	// Should not error when directory doesn't exist
	assert.NoError(t, err)
}

func TestLoadSeeds_NoSeedFiles(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tempDir := t.TempDir()
	t.Setenv("SEED_DATABASE", "true")

	runner := NewMigrationRunner(db, &config.DatabaseConfig{SeedsPath: tempDir})
	err = runner.LoadSeeds()

	assert.NoError(t, err)
}

func TestLoadSeeds_SuccessfulExecution(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tempDir := t.TempDir()

	seedContent := `
INSERT INTO accounts (id, name, balance, active)
VALUES ('a0000000-0000-0000-0000-000000000001', 'Seed Account', 100.00, true)
ON CONFLICT (id) DO NOTHING;
`
	seedFile := filepath.Join(tempDir, "001_test_data.sql")
	err = os.WriteFile(seedFile, []byte(seedContent), 0644)
	require.NoError(t, err)

	t.Setenv("SEED_DATABASE", "true")

	mock.ExpectExec("INSERT INTO accounts").WillReturnResult(sqlmock.NewResult(0, 1))

	runner := NewMigrationRunner(db, &config.DatabaseConfig{SeedsPath: tempDir})
	err = runner.LoadSeeds()

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSeeds_ExecutionFailureIsContinued(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tempDir := t.TempDir()

	// First seed file fails, second succeeds
	seed1 := filepath.Join(tempDir, "001_bad_data.sql")
	err = os.WriteFile(seed1, []byte("INSERT INTO nonexistent_table VALUES (1);"), 0644)
	require.NoError(t, err)

	seed2 := filepath.Join(tempDir, "002_good_data.sql")
	err = os.WriteFile(seed2, []byte("INSERT INTO accounts VALUES ('test');"), 0644)
	require.NoError(t, err)

	t.Setenv("SEED_DATABASE", "true")

	mock.ExpectExec("INSERT INTO nonexistent_table").WillReturnError(errors.New("table does not exist"))
	mock.ExpectExec("INSERT INTO accounts").WillReturnResult(sqlmock.NewResult(0, 1))

	runner := NewMigrationRunner(db, &config.DatabaseConfig{SeedsPath: tempDir})
	err = runner.LoadSeeds()

	// Should not error even though one file failed
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSeeds_ReadFileError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tempDir := t.TempDir()

	// A directory with a .sql name forces the read to fail
	seedDir := filepath.Join(tempDir, "001_invalid.sql")
	err = os.Mkdir(seedDir, 0755)
	require.NoError(t, err)

	t.Setenv("SEED_DATABASE", "true")

	runner := NewMigrationRunner(db, &config.DatabaseConfig{SeedsPath: tempDir})
	err = runner.LoadSeeds()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read seed file")
}

func TestRunMigrationsIfEnabled_Disabled(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t.Setenv("AUTO_MIGRATE", "false")

	err = RunMigrationsIfEnabled(db, nil)

	assert.NoError(t, err)
}

func TestRunMigrationsIfEnabled_Enabled_DatabaseNotReady(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	t.Setenv("AUTO_MIGRATE", "true")

	cfg := fastRetryConfig()
	for i := 0; i < cfg.ConnectRetries; i++ {
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	}

	err = RunMigrationsIfEnabled(db, cfg)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database readiness check failed")
}

func TestGetMigrationStatus_DirectoryNotFound(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	runner := NewMigrationRunner(db, &config.DatabaseConfig{
		MigrationsPath: "/nonexistent/migrations",
	})

	_, _, err = runner.GetMigrationStatus()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations directory not found")
}
