package trash

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/caseflow-backend/internal/domain"
	"github.com/heartmarshall/caseflow-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// EmptyTrash
// ---------------------------------------------------------------------------

// EmptyTrash permanently removes every trashed record of every kind.
//
// The role check runs before any row is read. Each kind is purged in its own
// transaction over the set of ids captured (and locked) at the start of that
// transaction; records trashed later survive until the next run. A failing
// kind does not undo kinds already committed and does not stop the remaining
// kinds; the call then returns *PartialFailureError.
func (s *Service) EmptyTrash(ctx context.Context) (_ *EmptyResult, err error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !s.policy.CanEmptyTrash(actor.Role) {
		s.log.WarnContext(ctx, "empty trash forbidden", "actor_id", actor.UserID, "role", actor.Role)
		return nil, fmt.Errorf("role %q may not empty the trash: %w", actor.Role, domain.ErrForbidden)
	}

	start := s.now()
	defer func() { s.observe("empty_trash", "all", start, err) }()

	return s.purgeTrashed(ctx, actor, nil)
}

// ---------------------------------------------------------------------------
// PurgeOlderThan
// ---------------------------------------------------------------------------

// PurgeOlderThan permanently removes records trashed before threshold, using
// the same per-kind transactions as EmptyTrash. It is meant for scheduled
// retention jobs and is audited under the system role.
func (s *Service) PurgeOlderThan(ctx context.Context, threshold time.Time) (_ *EmptyResult, err error) {
	if threshold.IsZero() {
		return nil, domain.NewValidationError("threshold", "required")
	}

	start := s.now()
	defer func() { s.observe("retention_purge", "all", start, err) }()

	system := ctxutil.Actor{Role: string(domain.UserRoleSystem)}
	return s.purgeTrashed(ctx, system, &threshold)
}

func (s *Service) purgeTrashed(ctx context.Context, actor ctxutil.Actor, before *time.Time) (*EmptyResult, error) {
	result := newEmptyResult()
	var failed []*KindError

	for _, kind := range domain.AllEntityKinds {
		if ctxErr := ctx.Err(); ctxErr != nil {
			failed = append(failed, &KindError{Kind: kind, Err: ctxErr})
			continue
		}

		deleted, purged, err := s.purgeKind(ctx, actor, kind, before)
		if err != nil {
			s.log.ErrorContext(ctx, "empty trash kind failed",
				"operation", "empty_trash",
				"entity_kind", kind,
				"error", err,
			)
			failed = append(failed, &KindError{Kind: kind, Err: err})
			continue
		}

		result.Purged[kind] = purged
		for table, n := range deleted {
			result.Deleted[table] += n
		}
		s.recordPurged(deleted)
	}

	s.log.InfoContext(ctx, "trash emptied",
		"actor_id", actor.UserID,
		"role", actor.Role,
		"purged", result.Total(),
		"failed_kinds", len(failed),
	)

	if len(failed) > 0 {
		return result, &PartialFailureError{Failed: failed, Result: result}
	}
	return result, nil
}

// purgeKind purges the trashed records of one kind in a single transaction.
func (s *Service) purgeKind(ctx context.Context, actor ctxutil.Actor, kind domain.EntityKind, before *time.Time) (map[domain.Table]int64, int, error) {
	var (
		deleted map[domain.Table]int64
		purged  int
	)

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		ids, err := s.entities.ListTrashedIDs(txCtx, kind, before)
		if err != nil {
			return fmt.Errorf("list trashed: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		deleted, err = s.purgeSet(txCtx, kind, ids)
		if err != nil {
			return err
		}
		purged = len(ids)

		changes := countsToChanges(deleted)
		changes["ids"] = idStrings(ids)
		if before != nil {
			changes["trashed_before"] = before.UTC().Format(time.RFC3339)
		}
		if err := s.audit.Log(txCtx, newAuditRecord(actor, kind, nil, domain.AuditActionEmptyTrash, changes)); err != nil {
			return fmt.Errorf("audit empty trash: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return deleted, purged, nil
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// ---------------------------------------------------------------------------
// ListTrash
// ---------------------------------------------------------------------------

// ListTrash returns a page of trashed records, most recently trashed first,
// with the total count. A nil kind lists every kind. limit <= 0 selects the
// maximum page size; larger values are capped.
func (s *Service) ListTrash(ctx context.Context, kind *domain.EntityKind, limit, offset int) (*Page, error) {
	if _, ok := ctxutil.ActorFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}

	kinds := domain.AllEntityKinds
	if kind != nil {
		if err := validateKind(*kind); err != nil {
			return nil, err
		}
		kinds = []domain.EntityKind{*kind}
	}
	if offset < 0 {
		return nil, domain.NewValidationError("offset", "must not be negative")
	}
	if limit <= 0 || limit > s.listMax {
		limit = s.listMax
	}

	items, total, err := s.entities.ListTrashed(ctx, kinds, limit, offset)
	if err != nil {
		s.log.ErrorContext(ctx, "list trash failed", "operation", "list_trash", "error", err)
		return nil, err
	}
	return &Page{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}
