package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Server.validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Auth.validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Trash.validate(); err != nil {
		return fmt.Errorf("trash: %w", err)
	}
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.CORS.validate(); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.RateLimit.validate(); err != nil {
		return fmt.Errorf("rate_limit: %w", err)
	}
	return nil
}

func (s *ServerConfig) validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&s.ShutdownTimeout, validation.Min(0)),
	)
}

func (d *DatabaseConfig) validate() error {
	if err := validation.ValidateStruct(d,
		validation.Field(&d.DSN, validation.Required),
		validation.Field(&d.MaxConns, validation.Required, validation.Min(int32(1))),
		validation.Field(&d.MinConns, validation.Min(int32(0))),
	); err != nil {
		return err
	}
	if d.MinConns > d.MaxConns {
		return fmt.Errorf("min_conns (%d) must not exceed max_conns (%d)", d.MinConns, d.MaxConns)
	}
	return nil
}

func (a *AuthConfig) validate() error {
	a.Mode = strings.ToLower(strings.TrimSpace(a.Mode))
	if a.Mode == "" {
		a.Mode = AuthModeHS256
	}
	if err := validation.ValidateStruct(a,
		validation.Field(&a.Mode, validation.In(AuthModeHS256, AuthModeJWKS)),
	); err != nil {
		return err
	}

	switch a.Mode {
	case AuthModeHS256:
		if len(a.JWTSecret) < 32 {
			return fmt.Errorf("jwt_secret must be at least 32 characters (got %d)", len(a.JWTSecret))
		}
		return validation.ValidateStruct(a,
			validation.Field(&a.JWTIssuer, validation.Required),
		)
	case AuthModeJWKS:
		return validation.ValidateStruct(a,
			validation.Field(&a.JWKSURL, validation.Required, is.URL),
		)
	}
	return nil
}

func (t *TrashConfig) validate() error {
	t.PurgeRoles = trimAll(t.PurgeRoles)
	return validation.ValidateStruct(t,
		validation.Field(&t.PurgeRoles, validation.Required),
		validation.Field(&t.RetentionDays, validation.Required, validation.Min(1)),
		validation.Field(&t.ListMaxLimit, validation.Required, validation.Min(1), validation.Max(1000)),
	)
}

func (l *LogConfig) validate() error {
	return validation.ValidateStruct(l,
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "warning", "error", "DEBUG", "INFO", "WARN", "ERROR")),
		validation.Field(&l.Format, validation.In("json", "text")),
	)
}

// Credentials require explicit origins.
func (c *CORSConfig) validate() error {
	if c.AllowCredentials && slices.Contains(c.AllowedOrigins, "*") {
		return errors.New("allow_credentials requires explicit allowed_origins, not \"*\"")
	}
	return nil
}

func (r *RateLimitConfig) validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DestructivePerMinute, validation.Min(0)),
		validation.Field(&r.CleanupInterval, validation.When(r.Enabled(), validation.Required)),
	)
}
