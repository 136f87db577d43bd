// Package trash implements the soft-delete lifecycle: moving records to the
// trash, restoring them, and purging them permanently together with their
// dependent rows.
package trash

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/caseflow-backend/internal/adapter/postgres/entity"
	"github.com/heartmarshall/caseflow-backend/internal/cascade"
	"github.com/heartmarshall/caseflow-backend/internal/domain"
	"github.com/heartmarshall/caseflow-backend/internal/metrics"
)

// entityRepo defines the entity store interface needed by the trash service.
type entityRepo interface {
	FindForUpdate(ctx context.Context, kind domain.EntityKind, id uuid.UUID) (*domain.Entity, error)
	SetDeletedAt(ctx context.Context, kind domain.EntityKind, id uuid.UUID, at *time.Time) error
	DeleteWhere(ctx context.Context, table domain.Table, pred entity.Predicate) (int64, error)
	ListTrashedIDs(ctx context.Context, kind domain.EntityKind, before *time.Time) ([]uuid.UUID, error)
	ListTrashed(ctx context.Context, kinds []domain.EntityKind, limit, offset int) ([]domain.Entity, int, error)
}

// auditRepo defines the audit repository interface needed by the trash service.
type auditRepo interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

// txManager defines the transaction manager interface needed by the trash service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// planner returns the ordered dependent deletes for a kind.
type planner interface {
	Plan(kind domain.EntityKind) []cascade.Step
}

// Service implements the trash lifecycle.
type Service struct {
	log      *slog.Logger
	entities entityRepo
	audit    auditRepo
	tx       txManager
	cascade  planner
	policy   Policy
	metrics  *metrics.Metrics
	listMax  int
	now      func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithMetrics records operation metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithListMaxLimit caps the page size of ListTrash.
func WithListMaxLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.listMax = n
		}
	}
}

// NewService creates a new trash service instance.
func NewService(
	logger *slog.Logger,
	entities entityRepo,
	audit auditRepo,
	tx txManager,
	resolver planner,
	policy Policy,
	opts ...Option,
) *Service {
	s := &Service{
		log:      logger.With("service", "trash"),
		entities: entities,
		audit:    audit,
		tx:       tx,
		cascade:  resolver,
		policy:   policy,
		listMax:  100,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// observe records metrics for a finished operation.
func (s *Service) observe(operation string, kind domain.EntityKind, start time.Time, err error) {
	s.metrics.ObserveOperation(operation, string(kind), err, s.now().Sub(start))
}
