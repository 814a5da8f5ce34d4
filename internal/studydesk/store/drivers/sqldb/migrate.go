package sqldb

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/studydesk/internal/studydesk/store/drivers/sqldb/migrations"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ApplyMigrations applies any pending migrations from the embedded schema.
// The same files serve both dialects.
func (s *Store) ApplyMigrations() error {
	var (
		driver database.Driver
		err    error
	)
	switch s.dialect {
	case DialectPostgres:
		driver, err = pgxmigrate.WithInstance(s.db, &pgxmigrate.Config{})
	default:
		driver, err = sqlite.WithInstance(s.db, &sqlite.Config{})
	}
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	source, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return err
	}

	instance, err := migrate.NewWithInstance("iofs", source, string(s.dialect), driver)
	if err != nil {
		return err
	}

	err = instance.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}
