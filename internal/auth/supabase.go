package auth

import (
	"context"
	"fmt"

	"github.com/flexprice/billingsession/internal/config"
	"github.com/flexprice/billingsession/internal/domain/user"
	ierr "github.com/flexprice/billingsession/internal/errors"
	"github.com/flexprice/billingsession/internal/logger"
	"github.com/golang-jwt/jwt/v4"
	"github.com/nedpals/supabase-go"
)

type supabaseAuth struct {
	cfg    config.SupabaseConfig
	client *supabase.Client
	logger *logger.Logger
}

func NewSupabaseAuth(cfg *config.Configuration, logger *logger.Logger) Provider {
	s := &supabaseAuth{
		cfg:    cfg.Auth.Supabase,
		logger: logger,
	}
	if s.cfg.JWTSecret == "" {
		logger.Errorw("supabase jwt secret is not configured, every session will be rejected")
	}
	if s.cfg.VerifyRemote {
		s.client = supabase.CreateClient(s.cfg.BaseURL, s.cfg.ServiceKey)
	}
	return s
}

func (s *supabaseAuth) VerifySession(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, notAuthenticated(fmt.Errorf("no access token"))
	}

	// an empty HMAC key verifies tokens anyone can sign
	if s.cfg.JWTSecret == "" {
		return nil, notAuthenticated(fmt.Errorf("jwt secret not configured"))
	}

	claims, err := s.parseToken(token)
	if err != nil {
		return nil, notAuthenticated(err)
	}

	u := &user.User{ID: claims.Subject, Email: claims.Email}

	if s.client != nil {
		remote, err := s.client.Auth.User(ctx, token)
		if err != nil {
			s.logger.Warnw("supabase rejected access token", "error", err, "user_id", u.ID)
			return nil, notAuthenticated(err)
		}
		if remote.ID != u.ID {
			return nil, notAuthenticated(fmt.Errorf("token subject does not match supabase user"))
		}
		u.Email = remote.Email
	}

	return u, nil
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s *supabaseAuth) parseToken(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	parsedToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("token parse error: %w", err)
	}

	if !parsedToken.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token missing user ID")
	}

	return claims, nil
}

func notAuthenticated(err error) error {
	return ierr.WithError(err).
		WithHint("Could not get user session.").
		Mark(ierr.ErrNotAuthenticated)
}
