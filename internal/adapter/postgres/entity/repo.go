// Package entity implements the Entity Store: lifecycle reads and writes over
// the top-level tables and their dependents, using PostgreSQL.
package entity

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/caseflow-backend/internal/adapter/postgres"
	"github.com/heartmarshall/caseflow-backend/internal/domain"
)

// psql is the statement builder for PostgreSQL ($1 placeholders).
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var lifecycleColumns = []string{
	"id",
	"status::text AS status",
	"deleted_at",
	"created_at",
	"updated_at",
}

// row is the scan target for lifecycle columns.
type row struct {
	ID        uuid.UUID  `db:"id"`
	Kind      string     `db:"kind"`
	Status    string     `db:"status"`
	DeletedAt *time.Time `db:"deleted_at"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

func (r row) toDomain(kind domain.EntityKind) domain.Entity {
	return domain.Entity{
		ID:        r.ID,
		Kind:      kind,
		Status:    r.Status,
		DeletedAt: r.DeletedAt,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Repo provides entity lifecycle persistence backed by PostgreSQL.
// All methods use the transaction carried in ctx when present.
type Repo struct {
	pool postgres.Querier
}

// New creates a new entity repository.
func New(pool postgres.Querier) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Find returns a row by kind and ID, trashed or not.
func (r *Repo) Find(ctx context.Context, kind domain.EntityKind, id uuid.UUID) (*domain.Entity, error) {
	return r.find(ctx, kind, id, false)
}

// FindForUpdate is Find with a row lock held until the surrounding
// transaction ends. Outside a transaction the lock is released immediately.
func (r *Repo) FindForUpdate(ctx context.Context, kind domain.EntityKind, id uuid.UUID) (*domain.Entity, error) {
	return r.find(ctx, kind, id, true)
}

func (r *Repo) find(ctx context.Context, kind domain.EntityKind, id uuid.UUID, lock bool) (*domain.Entity, error) {
	table, err := kind.Table()
	if err != nil {
		return nil, err
	}

	query := psql.Select(lifecycleColumns...).From(string(table)).Where(ByID(id))
	if lock {
		query = query.Suffix("FOR UPDATE")
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find %s: %w", kind, err)
	}

	var dst row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.pool), &dst, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
		}
		return nil, postgres.MapError(err, string(kind), id.String())
	}

	e := dst.toDomain(kind)
	return &e, nil
}

// CountWhere returns the number of rows in table matching pred.
func (r *Repo) CountWhere(ctx context.Context, table domain.Table, pred Predicate) (int64, error) {
	if !table.IsValid() {
		return 0, fmt.Errorf("count %q: %w", table, domain.ErrValidation)
	}

	sql, args, err := psql.Select("count(*)").From(string(table)).Where(pred).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count %s: %w", table, err)
	}

	var n int64
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, string(table), "count")
	}
	return n, nil
}

// ListTrashedIDs returns the IDs of trashed rows of kind, oldest first.
// When before is non-nil only rows trashed strictly before it are returned.
// Inside a transaction the returned rows are locked, so the set cannot change
// until commit.
func (r *Repo) ListTrashedIDs(ctx context.Context, kind domain.EntityKind, before *time.Time) ([]uuid.UUID, error) {
	table, err := kind.Table()
	if err != nil {
		return nil, err
	}

	pred := Trashed()
	if before != nil {
		pred = And(Trashed(), TrashedBefore(*before))
	}

	query := psql.Select("id").From(string(table)).Where(pred).OrderBy("deleted_at", "id")
	if postgres.InTx(ctx) {
		query = query.Suffix("FOR UPDATE")
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list trashed ids %s: %w", kind, err)
	}

	var ids []uuid.UUID
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), &ids, sql, args...); err != nil {
		return nil, postgres.MapError(err, string(table), "trashed ids")
	}
	return ids, nil
}

// ListTrashed returns trashed rows across kinds, most recently trashed first,
// and the total number of trashed rows across those kinds.
func (r *Repo) ListTrashed(ctx context.Context, kinds []domain.EntityKind, limit, offset int) ([]domain.Entity, int, error) {
	if len(kinds) == 0 {
		return []domain.Entity{}, 0, nil
	}

	var union squirrel.SelectBuilder
	for i, kind := range kinds {
		table, err := kind.Table()
		if err != nil {
			return nil, 0, err
		}
		part := squirrel.Select(lifecycleColumns...).
			Column(squirrel.Expr("?::text AS kind", string(kind))).
			From(string(table)).
			Where(Trashed())
		if i == 0 {
			union = part
			continue
		}
		union = union.Suffix("UNION ALL").SuffixExpr(part)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	countSQL, countArgs, err := psql.Select("count(*)").FromSelect(union, "t").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count trashed: %w", err)
	}
	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, postgres.MapError(err, "trash", "count")
	}

	listSQL, listArgs, err := psql.Select("id", "kind", "status", "deleted_at", "created_at", "updated_at").
		FromSelect(union, "t").
		OrderBy("deleted_at DESC", "id").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list trashed: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, listSQL, listArgs...); err != nil {
		return nil, 0, postgres.MapError(err, "trash", "list")
	}

	out := make([]domain.Entity, 0, len(rows))
	for _, rw := range rows {
		kind, err := domain.ParseEntityKind(rw.Kind)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rw.toDomain(kind))
	}
	return out, total, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// SetDeletedAt sets or clears the deleted-at marker. nil restores the row.
func (r *Repo) SetDeletedAt(ctx context.Context, kind domain.EntityKind, id uuid.UUID, at *time.Time) error {
	table, err := kind.Table()
	if err != nil {
		return err
	}

	sql, args, err := psql.Update(string(table)).
		Set("deleted_at", at).
		Set("updated_at", squirrel.Expr("now()")).
		Where(ByID(id)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set deleted_at %s: %w", kind, err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, string(kind), id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}
	return nil
}

// DeleteWhere permanently removes rows of table matching pred and returns
// how many were removed.
func (r *Repo) DeleteWhere(ctx context.Context, table domain.Table, pred Predicate) (int64, error) {
	if !table.IsValid() {
		return 0, fmt.Errorf("delete from %q: %w", table, domain.ErrValidation)
	}

	sql, args, err := psql.Delete(string(table)).Where(pred).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete %s: %w", table, err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, string(table), pred.String())
	}
	return tag.RowsAffected(), nil
}
