package postgres

import (
	"context"

	"github.com/flexprice/billingsession/internal/domain/price"
	ierr "github.com/flexprice/billingsession/internal/errors"
	"github.com/flexprice/billingsession/internal/logger"
	"github.com/flexprice/billingsession/internal/postgres"
	"github.com/samber/lo"
)

type priceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPriceRepository(db *postgres.DB, logger *logger.Logger) price.Repository {
	return &priceRepository{db: db, logger: logger}
}

const priceColumns = `
	id, product_id, active, COALESCE(description, '') AS description, unit_amount,
	currency, type, "interval", interval_count, trial_period_days, metadata,
	created_at, updated_at`

func (r *priceRepository) Get(ctx context.Context, id string) (*price.Price, error) {
	query := `SELECT ` + priceColumns + ` FROM prices WHERE id = $1`

	var p price.Price
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, id); err != nil {
		if postgres.IsNoRows(err) {
			return nil, ierr.WithError(err).
				WithHintf("Price %s not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get price").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *priceRepository) ListActiveProducts(ctx context.Context) ([]*price.Product, error) {
	q := r.db.GetQuerier(ctx)

	var products []*price.Product
	productQuery := `
	SELECT id, active, name, COALESCE(description, '') AS description,
		COALESCE(image, '') AS image, metadata, created_at, updated_at
	FROM products
	WHERE active = true
	ORDER BY name
	`
	if err := q.SelectContext(ctx, &products, productQuery); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list products").
			Mark(ierr.ErrDatabase)
	}
	if len(products) == 0 {
		return products, nil
	}

	var prices []*price.Price
	priceQuery := `
	SELECT ` + priceColumns + `
	FROM prices
	WHERE active = true AND product_id IN (SELECT id FROM products WHERE active = true)
	`
	if err := q.SelectContext(ctx, &prices, priceQuery); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list prices").
			Mark(ierr.ErrDatabase)
	}

	byProduct := lo.GroupBy(prices, func(p *price.Price) string { return p.ProductID })
	for _, product := range products {
		product.Prices = byProduct[product.ID]
		if product.Prices == nil {
			product.Prices = []*price.Price{}
		}
	}
	return products, nil
}
