package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// identityClaims are the claims issued by a Supabase-style identity provider.
// The application role lives in app_metadata.role; some deployments put it
// in a top-level user_role claim instead. The top-level role claim only
// distinguishes authenticated from anonymous sessions.
type identityClaims struct {
	jwt.RegisteredClaims
	Role        string `json:"role"`
	UserRole    string `json:"user_role"`
	AppMetadata struct {
		Role string `json:"role"`
	} `json:"app_metadata"`
}

func (c *identityClaims) appRole() string {
	if c.AppMetadata.Role != "" {
		return c.AppMetadata.Role
	}
	return c.UserRole
}

// JWKSVerifier validates asymmetric tokens against keys published at a JWKS URL.
// Keys are cached and refreshed by keyfunc.
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	logger *slog.Logger
}

// NewJWKSVerifier fetches the key set at jwksURL and keeps it refreshed
// until ctx is cancelled.
func NewJWKSVerifier(ctx context.Context, jwksURL string, logger *slog.Logger) (*JWKSVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("create JWKS client: %w", err)
	}

	logger.Info("jwks verifier initialized", "jwks_url", jwksURL)
	return newJWKSVerifier(jwks, logger), nil
}

func newJWKSVerifier(jwks keyfunc.Keyfunc, logger *slog.Logger) *JWKSVerifier {
	return &JWKSVerifier{jwks: jwks, logger: logger.With("component", "jwks_verifier")}
}

// ValidateToken verifies the token signature and returns the subject and
// application role. Anonymous sessions are rejected.
func (v *JWKSVerifier) ValidateToken(ctx context.Context, tokenString string) (uuid.UUID, string, error) {
	if tokenString == "" {
		return uuid.Nil, "", fmt.Errorf("token is empty: %w", ErrInvalidToken)
	}

	token, err := jwt.ParseWithClaims(tokenString, &identityClaims{}, v.jwks.Keyfunc,
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		v.logger.DebugContext(ctx, "token parse failed", "error", err)
		return uuid.Nil, "", fmt.Errorf("parse token: %w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*identityClaims)
	if !ok || !token.Valid {
		return uuid.Nil, "", fmt.Errorf("invalid token claims: %w", ErrInvalidToken)
	}
	if claims.Role == "anon" {
		return uuid.Nil, "", fmt.Errorf("anonymous session: %w", ErrInvalidToken)
	}

	return subjectAndRole(claims.Subject, claims.appRole())
}
