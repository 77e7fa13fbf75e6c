package repository

import (
	"github.com/flexprice/billingsession/internal/domain/customer"
	"github.com/flexprice/billingsession/internal/domain/price"
	"github.com/flexprice/billingsession/internal/domain/subscription"
	"github.com/flexprice/billingsession/internal/logger"
	"github.com/flexprice/billingsession/internal/postgres"
	postgresRepo "github.com/flexprice/billingsession/internal/repository/postgres"
)

func NewCustomerRepository(db *postgres.DB, logger *logger.Logger) customer.Repository {
	return postgresRepo.NewCustomerRepository(db, logger)
}

func NewPriceRepository(db *postgres.DB, logger *logger.Logger) price.Repository {
	return postgresRepo.NewPriceRepository(db, logger)
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return postgresRepo.NewSubscriptionRepository(db, logger)
}
