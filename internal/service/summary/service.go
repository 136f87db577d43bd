// Package summary computes the dashboard counters shown next to the trash.
package summary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/caseflow-backend/internal/adapter/postgres/entity"
	"github.com/heartmarshall/caseflow-backend/internal/domain"
	"github.com/heartmarshall/caseflow-backend/pkg/ctxutil"
)

// counter defines the entity store interface needed by the summary service.
type counter interface {
	CountWhere(ctx context.Context, table domain.Table, pred entity.Predicate) (int64, error)
}

// snapshotter runs fn inside a read-only transaction with a single snapshot.
type snapshotter interface {
	RunInReadTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service computes aggregate counts. Results are never cached.
type Service struct {
	log     *slog.Logger
	counter counter
	tx      snapshotter
}

// NewService creates a new summary service instance.
func NewService(logger *slog.Logger, counter counter, tx snapshotter) *Service {
	return &Service{
		log:     logger.With("service", "summary"),
		counter: counter,
		tx:      tx,
	}
}

type countQuery struct {
	name  string
	table domain.Table
	pred  entity.Predicate
	dst   *int64
}

// ComputeSummary counts active non-terminal cases, unpaid invoices and trashed
// rows across every kind. All counts read the same snapshot, so a row that
// moves between active and trashed mid-call is counted exactly once.
func (s *Service) ComputeSummary(ctx context.Context) (domain.TrashSummary, error) {
	if _, ok := ctxutil.ActorFromCtx(ctx); !ok {
		return domain.TrashSummary{}, domain.ErrUnauthorized
	}

	var (
		activeCases    int64
		unpaidInvoices int64
		trashed        = make([]int64, len(domain.AllEntityKinds))
	)

	queries := []countQuery{
		{
			name:  "active cases",
			table: domain.TableCases,
			pred:  entity.And(entity.Active(), entity.StatusNotIn(domain.TerminalCaseStatuses...)),
			dst:   &activeCases,
		},
		{
			name:  "unpaid invoices",
			table: domain.TableInvoices,
			pred:  entity.And(entity.Active(), entity.StatusIn(domain.UnpaidInvoiceStatuses...)),
			dst:   &unpaidInvoices,
		},
	}
	for i, kind := range domain.AllEntityKinds {
		table, err := kind.Table()
		if err != nil {
			return domain.TrashSummary{}, err
		}
		queries = append(queries, countQuery{
			name:  "trashed " + kind.String(),
			table: table,
			pred:  entity.Trashed(),
			dst:   &trashed[i],
		})
	}

	err := s.tx.RunInReadTx(ctx, func(txCtx context.Context) error {
		for _, q := range queries {
			n, err := s.counter.CountWhere(txCtx, q.table, q.pred)
			if err != nil {
				return fmt.Errorf("count %s: %w", q.name, err)
			}
			*q.dst = n
		}
		return nil
	})
	if err != nil {
		s.log.ErrorContext(ctx, "compute summary failed", "operation", "summary", "error", err)
		return domain.TrashSummary{}, err
	}

	var trashedItems int64
	for _, n := range trashed {
		trashedItems += n
	}

	return domain.TrashSummary{
		ActiveCases:    int(activeCases),
		UnpaidInvoices: int(unpaidInvoices),
		TrashedItems:   int(trashedItems),
	}, nil
}
