package journal

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	sqlitedb "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations
var migrations embed.FS

// Migrate brings the schema of db up to date
func Migrate(db *sql.DB, driver string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		dbDriver database.Driver
		err      error
	)
	switch driver {
	case DriverSQLite:
		dbDriver, err = sqlitedb.WithInstance(db, &sqlitedb.Config{})
	case DriverPostgres:
		dbDriver, err = postgresdb.WithInstance(db, &postgresdb.Config{})
	default:
		return fmt.Errorf("unsupported journal driver: %s", driver)
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrations, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	// m.Close would close db as well, so the instance is left to the caller
	m, err := migrate.NewWithInstance("iofs", source, driver, dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Debug("No new journal migrations to apply")
	} else {
		logger.Info("Journal migrations applied", zap.String("driver", driver))
	}

	return nil
}
