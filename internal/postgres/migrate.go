package postgres

import (
	"github.com/flexprice/billingsession/internal/config"
	ierr "github.com/flexprice/billingsession/internal/errors"
	"github.com/flexprice/billingsession/migrations"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// NewMigrator returns a migrator over the embedded schema migrations
func NewMigrator(cfg *config.Configuration) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load embedded migrations").
			Mark(ierr.ErrSystem)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, cfg.Postgres.GetURL())
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to initialize migrations").
			Mark(ierr.ErrDatabase)
	}
	return m, nil
}
