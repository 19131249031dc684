package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"banking-api/internal/config"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const (
	defaultMigrationsPath = "db/migrations"
	defaultSeedsPath      = "db/seeds"
	defaultConnectRetries = 30
	defaultRetryInterval  = 2 * time.Second
)

// MigrationRunner applies versioned SQL migrations and optional seed data
// against the accounts database.
type MigrationRunner struct {
	db             *sql.DB
	logger         *slog.Logger
	migrationsPath string
	seedsPath      string
	connectRetries int
	retryInterval  time.Duration
}

// NewMigrationRunner builds a runner from the database configuration.
// Zero-valued knobs fall back to the package defaults.
func NewMigrationRunner(db *sql.DB, cfg *config.DatabaseConfig) *MigrationRunner {
	mr := &MigrationRunner{
		db:             db,
		logger:         slog.Default(),
		migrationsPath: defaultMigrationsPath,
		seedsPath:      defaultSeedsPath,
		connectRetries: defaultConnectRetries,
		retryInterval:  defaultRetryInterval,
	}

	if cfg != nil {
		if cfg.MigrationsPath != "" {
			mr.migrationsPath = cfg.MigrationsPath
		}
		if cfg.SeedsPath != "" {
			mr.seedsPath = cfg.SeedsPath
		}
		if cfg.ConnectRetries > 0 {
			mr.connectRetries = cfg.ConnectRetries
		}
		if cfg.ConnectRetryInterval > 0 {
			mr.retryInterval = cfg.ConnectRetryInterval
		}
	}

	return mr
}

// WaitForDatabase pings the database until it answers or the retry budget
// is exhausted.
func (mr *MigrationRunner) WaitForDatabase() error {
	mr.logger.Info("Waiting for database to be ready",
		"max_attempts", mr.connectRetries,
		"retry_interval", mr.retryInterval.String())

	for attempt := 1; attempt <= mr.connectRetries; attempt++ {
		err := mr.db.Ping()
		if err == nil {
			mr.logger.Info("Database is ready", "attempt", attempt)
			return nil
		}

		mr.logger.Warn("Database not ready",
			"attempt", attempt,
			"max_attempts", mr.connectRetries,
			"error", err)
		time.Sleep(mr.retryInterval)
	}

	return fmt.Errorf("database not ready after %d attempts", mr.connectRetries)
}

func (mr *MigrationRunner) newMigrateInstance() (*migrate.Migrate, error) {
	absPath, err := filepath.Abs(mr.migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve migrations path: %w", err)
	}

	driver, err := postgres.WithInstance(mr.db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", absPath),
		"postgres",
		driver,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}

	return m, nil
}

// RunMigrations applies all pending migrations. A missing migrations
// directory is not an error, deployments without SQL migrations rely on
// AutoMigrate instead.
func (mr *MigrationRunner) RunMigrations() error {
	if _, err := os.Stat(mr.migrationsPath); os.IsNotExist(err) {
		mr.logger.Info("Migrations directory not found, skipping migrations",
			"path", mr.migrationsPath)
		return nil
	}

	mr.logger.Info("Running migrations", "path", mr.migrationsPath)

	m, err := mr.newMigrateInstance()
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if dirty {
		mr.logger.Warn("Database is in dirty state, forcing version", "version", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		mr.logger.Info("No new migrations to apply", "version", version)
	case err != nil:
		return fmt.Errorf("migration failed: %w", err)
	default:
		newVersion, _, err := m.Version()
		if err != nil {
			return fmt.Errorf("failed to get new migration version: %w", err)
		}
		mr.logger.Info("Migrations applied",
			"previous_version", version,
			"new_version", newVersion)
	}

	return nil
}

// LoadSeeds executes the seed SQL files when SEED_DATABASE=true. A failing
// seed file is logged and skipped so one bad fixture does not block startup.
func (mr *MigrationRunner) LoadSeeds() error {
	if os.Getenv("SEED_DATABASE") != "true" {
		mr.logger.Info("Seed data loading disabled (SEED_DATABASE != true)")
		return nil
	}

	if _, err := os.Stat(mr.seedsPath); os.IsNotExist(err) {
		mr.logger.Info("Seeds directory not found, skipping seed data",
			"path", mr.seedsPath)
		return nil
	}

	files, err := filepath.Glob(filepath.Join(mr.seedsPath, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to find seed files: %w", err)
	}

	if len(files) == 0 {
		mr.logger.Info("No seed files found", "path", mr.seedsPath)
		return nil
	}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read seed file %s: %w", file, err)
		}

		if _, err := mr.db.Exec(string(content)); err != nil {
			mr.logger.Warn("Failed to execute seed file",
				"file", filepath.Base(file),
				"error", err)
			continue
		}

		mr.logger.Info("Executed seed file", "file", filepath.Base(file))
	}

	return nil
}

// GetMigrationStatus reports the current schema version and dirty flag.
func (mr *MigrationRunner) GetMigrationStatus() (version uint, dirty bool, err error) {
	if _, statErr := os.Stat(mr.migrationsPath); os.IsNotExist(statErr) {
		return 0, false, fmt.Errorf("migrations directory not found")
	}

	m, err := mr.newMigrateInstance()
	if err != nil {
		return 0, false, err
	}

	return m.Version()
}

// RunMigrationsIfEnabled waits for the database and runs migrations plus
// seed data when AUTO_MIGRATE=true.
func RunMigrationsIfEnabled(db *sql.DB, cfg *config.DatabaseConfig) error {
	if os.Getenv("AUTO_MIGRATE") != "true" {
		slog.Info("Auto-migration disabled (AUTO_MIGRATE != true)")
		return nil
	}

	runner := NewMigrationRunner(db, cfg)

	if err := runner.WaitForDatabase(); err != nil {
		return fmt.Errorf("database readiness check failed: %w", err)
	}

	if err := runner.RunMigrations(); err != nil {
		return fmt.Errorf("migration execution failed: %w", err)
	}

	if err := runner.LoadSeeds(); err != nil {
		runner.logger.Warn("Seed data loading failed", "error", err)
	}

	if version, dirty, err := runner.GetMigrationStatus(); err != nil {
		runner.logger.Warn("Failed to get migration status", "error", err)
	} else {
		runner.logger.Info("Migration status", "version", version, "dirty", dirty)
	}

	return nil
}
