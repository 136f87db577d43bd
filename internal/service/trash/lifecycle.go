package trash

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/caseflow-backend/internal/adapter/postgres/entity"
	"github.com/heartmarshall/caseflow-backend/internal/domain"
	"github.com/heartmarshall/caseflow-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// SoftDelete
// ---------------------------------------------------------------------------

// SoftDelete moves an entity to the trash. Trashing an already trashed entity
// is a no-op and returns it unchanged.
func (s *Service) SoftDelete(ctx context.Context, kind domain.EntityKind, id uuid.UUID) (_ *domain.Entity, err error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := validateKind(kind); err != nil {
		return nil, err
	}

	start := s.now()
	defer func() { s.observe("soft_delete", kind, start, err) }()

	var result *domain.Entity
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		ent, err := s.entities.FindForUpdate(txCtx, kind, id)
		if err != nil {
			return err
		}
		if ent.IsTrashed() {
			result = ent
			return nil
		}

		now := s.now().UTC().Truncate(time.Microsecond)
		if err := s.entities.SetDeletedAt(txCtx, kind, id, &now); err != nil {
			return fmt.Errorf("set deleted_at: %w", err)
		}
		ent.DeletedAt = &now

		if err := s.audit.Log(txCtx, newAuditRecord(actor, kind, &id, domain.AuditActionSoftDelete, nil)); err != nil {
			return fmt.Errorf("audit soft delete: %w", err)
		}

		result = ent
		return nil
	})
	if err != nil {
		s.logFailure(ctx, "soft_delete", kind, id, err)
		return nil, err
	}

	return result, nil
}

// ---------------------------------------------------------------------------
// Restore
// ---------------------------------------------------------------------------

// Restore brings a trashed entity back. Restoring an active entity is a no-op.
func (s *Service) Restore(ctx context.Context, kind domain.EntityKind, id uuid.UUID) (_ *domain.Entity, err error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := validateKind(kind); err != nil {
		return nil, err
	}

	start := s.now()
	defer func() { s.observe("restore", kind, start, err) }()

	var result *domain.Entity
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		ent, err := s.entities.FindForUpdate(txCtx, kind, id)
		if err != nil {
			return err
		}
		if !ent.IsTrashed() {
			result = ent
			return nil
		}

		trashedAt := *ent.DeletedAt
		if err := s.entities.SetDeletedAt(txCtx, kind, id, nil); err != nil {
			return fmt.Errorf("clear deleted_at: %w", err)
		}
		ent.DeletedAt = nil

		changes := map[string]any{"trashed_at": trashedAt.UTC().Format(time.RFC3339Nano)}
		if err := s.audit.Log(txCtx, newAuditRecord(actor, kind, &id, domain.AuditActionRestore, changes)); err != nil {
			return fmt.Errorf("audit restore: %w", err)
		}

		result = ent
		return nil
	})
	if err != nil {
		s.logFailure(ctx, "restore", kind, id, err)
		return nil, err
	}

	return result, nil
}

// ---------------------------------------------------------------------------
// PurgeOne
// ---------------------------------------------------------------------------

// PurgeOne permanently removes a trashed entity and all of its dependent rows
// in one transaction. Active entities are rejected with domain.ErrInvalidState.
// A concurrent purge of the same entity waits on the row lock and then sees
// domain.ErrNotFound.
func (s *Service) PurgeOne(ctx context.Context, kind domain.EntityKind, id uuid.UUID) (_ *PurgeResult, err error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := validateKind(kind); err != nil {
		return nil, err
	}

	start := s.now()
	defer func() { s.observe("purge", kind, start, err) }()

	var deleted map[domain.Table]int64
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		ent, err := s.entities.FindForUpdate(txCtx, kind, id)
		if err != nil {
			return err
		}
		if !ent.IsTrashed() {
			return fmt.Errorf("%s %s is not in the trash: %w", kind, id, domain.ErrInvalidState)
		}

		deleted, err = s.purgeSet(txCtx, kind, []uuid.UUID{id})
		if err != nil {
			return err
		}

		if err := s.audit.Log(txCtx, newAuditRecord(actor, kind, &id, domain.AuditActionPurge, countsToChanges(deleted))); err != nil {
			return fmt.Errorf("audit purge: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure(ctx, "purge", kind, id, err)
		return nil, err
	}

	s.recordPurged(deleted)
	s.log.InfoContext(ctx, "entity purged",
		"entity_kind", kind, "entity_id", id, "actor_id", actor.UserID, "deleted", deleted)

	return &PurgeResult{Deleted: deleted}, nil
}

// purgeSet deletes the dependents of ids following the cascade plan, then the
// roots themselves. It must run inside a transaction holding locks on ids.
// Roots are deleted only while still trashed; a mismatch between len(ids) and
// the removed root count aborts with domain.ErrConflict.
func (s *Service) purgeSet(ctx context.Context, kind domain.EntityKind, ids []uuid.UUID) (map[domain.Table]int64, error) {
	root, err := kind.Table()
	if err != nil {
		return nil, err
	}

	deleted := make(map[domain.Table]int64)
	for _, step := range s.cascade.Plan(kind) {
		n, err := s.entities.DeleteWhere(ctx, step.Table, entity.ByAncestor(step.Path, ids))
		if err != nil {
			return nil, fmt.Errorf("delete %s: %w", step.Table, err)
		}
		deleted[step.Table] += n
	}

	n, err := s.entities.DeleteWhere(ctx, root, entity.And(entity.ByIDs(ids), entity.Trashed()))
	if err != nil {
		return nil, fmt.Errorf("delete %s: %w", root, err)
	}
	if n != int64(len(ids)) {
		return nil, fmt.Errorf("delete %s: removed %d of %d rows: %w", root, n, len(ids), domain.ErrConflict)
	}
	deleted[root] += n

	return deleted, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func validateKind(kind domain.EntityKind) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidEntityKind, string(kind))
	}
	return nil
}

func newAuditRecord(actor ctxutil.Actor, kind domain.EntityKind, id *uuid.UUID, action domain.AuditAction, changes map[string]any) domain.AuditRecord {
	rec := domain.AuditRecord{
		ActorRole:  domain.UserRole(actor.Role),
		EntityKind: kind,
		EntityID:   id,
		Action:     action,
		Changes:    changes,
	}
	if actor.UserID != uuid.Nil {
		actorID := actor.UserID
		rec.ActorID = &actorID
	}
	return rec
}

func countsToChanges(deleted map[domain.Table]int64) map[string]any {
	changes := make(map[string]any, len(deleted))
	for table, n := range deleted {
		changes[string(table)] = n
	}
	return changes
}

func (s *Service) recordPurged(deleted map[domain.Table]int64) {
	for table, n := range deleted {
		s.metrics.AddRowsPurged(string(table), n)
	}
}

// isClientError reports errors caused by the request rather than the system.
func isClientError(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInvalidState) ||
		errors.Is(err, domain.ErrInvalidEntityKind) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrUnauthorized) ||
		errors.Is(err, domain.ErrForbidden)
}

// logFailure logs storage and unexpected errors. Client errors are returned
// to the caller without logging.
func (s *Service) logFailure(ctx context.Context, operation string, kind domain.EntityKind, id uuid.UUID, err error) {
	if isClientError(err) {
		return
	}
	s.log.ErrorContext(ctx, "trash operation failed",
		"operation", operation,
		"entity_kind", kind,
		"entity_id", id,
		"error", err,
	)
}
