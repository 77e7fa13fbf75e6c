package postgres

import (
	"context"

	"github.com/flexprice/billingsession/internal/domain/customer"
	ierr "github.com/flexprice/billingsession/internal/errors"
	"github.com/flexprice/billingsession/internal/logger"
	"github.com/flexprice/billingsession/internal/postgres"
)

type customerRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCustomerRepository(db *postgres.DB, logger *logger.Logger) customer.Repository {
	return &customerRepository{db: db, logger: logger}
}

func (r *customerRepository) GetByUserID(ctx context.Context, userID string) (*customer.Customer, error) {
	query := `
	SELECT user_id, billing_customer_id, created_at, updated_at
	FROM customers
	WHERE user_id = $1
	`

	var c customer.Customer
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &c, query, userID); err != nil {
		if postgres.IsNoRows(err) {
			return nil, ierr.WithError(err).
				WithHintf("Customer for user %s not found", userID).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get customer").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

// Create relies on the primary key on user_id so that concurrent creates
// for one user leave exactly one row
func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	query := `
	INSERT INTO customers (user_id, billing_customer_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		c.UserID,
		c.BillingCustomerID,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("Customer already exists for this user").
				WithReportableDetails(map[string]any{
					"user_id": c.UserID,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create customer").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
