package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/caseflow-backend/internal/adapter/postgres"
	"github.com/heartmarshall/caseflow-backend/internal/adapter/postgres/audit"
	"github.com/heartmarshall/caseflow-backend/internal/adapter/postgres/entity"
	"github.com/heartmarshall/caseflow-backend/internal/cascade"
	"github.com/heartmarshall/caseflow-backend/internal/config"
	"github.com/heartmarshall/caseflow-backend/internal/metrics"
	"github.com/heartmarshall/caseflow-backend/internal/service/summary"
	"github.com/heartmarshall/caseflow-backend/internal/service/trash"
)

// Services bundles the storage-backed services shared by the HTTP server,
// the cleanup job and trashctl.
type Services struct {
	Pool     *pgxpool.Pool
	Trash    *trash.Service
	Summary  *summary.Service
	Entities *entity.Repo
	Audit    *audit.Repo
}

// NewServices connects to the database and wires the repositories into the
// trash and summary services. m may be nil.
func NewServices(ctx context.Context, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (*Services, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return NewServicesWithPool(pool, cfg.Trash, logger, m), nil
}

// NewServicesWithPool wires the services onto an existing pool. Close on the
// result closes pool.
func NewServicesWithPool(pool *pgxpool.Pool, cfg config.TrashConfig, logger *slog.Logger, m *metrics.Metrics) *Services {
	entities := entity.New(pool)
	auditRepo := audit.New(pool)
	txm := postgres.NewTxManager(pool)

	trashSvc := trash.NewService(
		logger,
		entities,
		auditRepo,
		txm,
		cascade.Default(),
		trash.NewPolicy(cfg.PurgeRoles),
		trash.WithMetrics(m),
		trash.WithListMaxLimit(cfg.ListMaxLimit),
	)

	return &Services{
		Pool:     pool,
		Trash:    trashSvc,
		Summary:  summary.NewService(logger, entities, txm),
		Entities: entities,
		Audit:    auditRepo,
	}
}

// Close releases the connection pool.
func (s *Services) Close() {
	s.Pool.Close()
}
