package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/caseflow-backend/internal/auth"
	"github.com/heartmarshall/caseflow-backend/internal/config"
	"github.com/heartmarshall/caseflow-backend/internal/transport/middleware"
)

// NewTokenValidator returns the bearer token verifier selected by cfg.Mode.
func NewTokenValidator(ctx context.Context, cfg config.AuthConfig, logger *slog.Logger) (middleware.TokenValidator, error) {
	switch cfg.Mode {
	case config.AuthModeHS256:
		return auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL), nil
	case config.AuthModeJWKS:
		v, err := auth.NewJWKSVerifier(ctx, cfg.JWKSURL, logger)
		if err != nil {
			return nil, fmt.Errorf("jwks verifier: %w", err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}
