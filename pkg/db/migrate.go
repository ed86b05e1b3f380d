package db

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"storefront/pkg/config"
)

// Migrate applies the sessions and login_audit migrations. DIRECT_URL wins over
// DATABASE_URL so migrations bypass connection poolers.
func Migrate(cfg config.Config) error {
	m, err := migrate.New(cfg.MigrationsPath, migrationConnString(cfg))
	if err != nil {
		return fmt.Errorf("opening migrations %s: %w", cfg.MigrationsPath, err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
