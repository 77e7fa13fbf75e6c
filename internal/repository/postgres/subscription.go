package postgres

import (
	"context"

	"github.com/flexprice/billingsession/internal/domain/subscription"
	ierr "github.com/flexprice/billingsession/internal/errors"
	"github.com/flexprice/billingsession/internal/logger"
	"github.com/flexprice/billingsession/internal/postgres"
)

type subscriptionRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return &subscriptionRepository{db: db, logger: logger}
}

func (r *subscriptionRepository) ListByUserID(ctx context.Context, userID string) ([]*subscription.Subscription, error) {
	query := `
	SELECT id, user_id, status, price_id, quantity, cancel_at_period_end,
		current_period_start, current_period_end, ended_at, cancel_at,
		canceled_at, trial_start, trial_end, metadata, created_at, updated_at
	FROM subscriptions
	WHERE user_id = $1
	ORDER BY created_at DESC
	`

	subs := []*subscription.Subscription{}
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &subs, query, userID); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list subscriptions").
			Mark(ierr.ErrDatabase)
	}
	return subs, nil
}
