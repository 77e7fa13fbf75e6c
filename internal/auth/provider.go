package auth

import (
	"context"

	"github.com/flexprice/billingsession/internal/config"
	"github.com/flexprice/billingsession/internal/domain/user"
	"github.com/flexprice/billingsession/internal/logger"
)

// Provider resolves an access token presented by the browser into a user
type Provider interface {
	// VerifySession returns ierr.ErrNotAuthenticated when token is not a
	// valid session
	VerifySession(ctx context.Context, token string) (*user.User, error)
}

func NewProvider(cfg *config.Configuration, logger *logger.Logger) Provider {
	return NewSupabaseAuth(cfg, logger)
}
