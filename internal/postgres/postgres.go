package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/flexprice/billingsession/internal/config"
	ierr "github.com/flexprice/billingsession/internal/errors"
	"github.com/flexprice/billingsession/internal/logger"
	"github.com/flexprice/billingsession/internal/sentry"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/fx"
)

// uniqueViolation is the SQLSTATE postgres reports for a unique constraint conflict
const uniqueViolation = "23505"

// DB wraps sqlx.DB with query tracing
type DB struct {
	*sqlx.DB
	logger *logger.Logger
	sentry *sentry.Service
}

// Querier interface defines all database operations the repositories use
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// NewDB opens the connection pool and closes it on shutdown
func NewDB(lc fx.Lifecycle, cfg *config.Configuration, logger *logger.Logger, sentrySvc *sentry.Service) (*DB, error) {
	db, err := sqlx.Open("postgres", cfg.Postgres.GetDSN())
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to open database connection").
			Mark(ierr.ErrDatabase)
	}

	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Postgres.ConnMaxLifetimeMinutes) * time.Minute)

	wrapped := &DB{DB: db, logger: logger, sentry: sentrySvc}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := db.PingContext(ctx); err != nil {
				return ierr.WithError(err).
					WithHint("Database is not reachable").
					Mark(ierr.ErrDatabase)
			}
			logger.Infow("connected to postgres",
				"host", cfg.Postgres.Host,
				"dbname", cfg.Postgres.DBName,
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			wrapped.Close()
			return nil
		},
	})

	return wrapped, nil
}

// Close closes the database connection
func (db *DB) Close() {
	if err := db.DB.Close(); err != nil {
		db.logger.Errorw("error closing database", "error", err)
	}
}

// GetQuerier returns a traced querier over the pool
func (db *DB) GetQuerier(ctx context.Context) Querier {
	return NewTracedQuerier(db.DB, db.logger, db.sentry)
}

// IsUniqueViolation reports whether err is a postgres unique constraint conflict
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if ierr.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}

// IsNoRows reports whether err means the query matched nothing
func IsNoRows(err error) bool {
	return ierr.Is(err, sql.ErrNoRows)
}
