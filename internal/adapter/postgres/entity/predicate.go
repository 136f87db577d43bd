package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/heartmarshall/caseflow-backend/internal/domain"
)

// Predicate is a row filter understood by the Repo. Values are built only by
// the constructors in this file, so no caller-supplied SQL reaches a query.
type Predicate struct {
	sqlizer squirrel.Sqlizer
	desc    string
}

// ToSql renders the predicate with '?' placeholders.
func (p Predicate) ToSql() (string, []any, error) {
	if p.sqlizer == nil {
		return "", nil, fmt.Errorf("entity: empty predicate")
	}
	return p.sqlizer.ToSql()
}

func (p Predicate) String() string { return p.desc }

// ByID matches a single row.
func ByID(id uuid.UUID) Predicate {
	return Predicate{
		sqlizer: squirrel.Expr("id = ?", id),
		desc:    "id=" + id.String(),
	}
}

// ByIDs matches any of ids. An empty set matches nothing.
func ByIDs(ids []uuid.UUID) Predicate {
	return Predicate{
		sqlizer: squirrel.Expr("id = ANY(?)", ids),
		desc:    fmt.Sprintf("id in %d ids", len(ids)),
	}
}

// ByParent matches rows whose column references one of parentIDs.
func ByParent(column string, parentIDs []uuid.UUID) Predicate {
	return Predicate{
		sqlizer: squirrel.Expr(column+" = ANY(?)", parentIDs),
		desc:    fmt.Sprintf("%s in %d ids", column, len(parentIDs)),
	}
}

// ByAncestor matches rows that reach one of rootIDs by following path.
// path[0] is a column of the filtered table; the last element references
// the root table. Multi-hop paths render as nested IN subqueries.
func ByAncestor(path []domain.ForeignKey, rootIDs []uuid.UUID) Predicate {
	if len(path) == 0 {
		return ByIDs(rootIDs)
	}

	last := len(path) - 1
	var cond squirrel.Sqlizer = ByParent(path[last].Column, rootIDs)
	for i := last - 1; i >= 0; i-- {
		sub := squirrel.Select("id").From(string(path[i].References)).Where(cond)
		sql, args, err := sub.ToSql()
		if err != nil {
			return Predicate{sqlizer: errSqlizer{err}, desc: "invalid path"}
		}
		cond = squirrel.Expr(path[i].Column+" IN ("+sql+")", args...)
	}

	hops := make([]string, len(path))
	for i, fk := range path {
		hops[i] = fk.Column
	}
	return Predicate{
		sqlizer: cond,
		desc:    fmt.Sprintf("%s in %d ids", strings.Join(hops, "->"), len(rootIDs)),
	}
}

// Trashed matches soft-deleted rows.
func Trashed() Predicate {
	return Predicate{sqlizer: squirrel.NotEq{"deleted_at": nil}, desc: "trashed"}
}

// Active matches rows that are not soft-deleted.
func Active() Predicate {
	return Predicate{sqlizer: squirrel.Eq{"deleted_at": nil}, desc: "active"}
}

// TrashedBefore matches rows soft-deleted strictly before t.
func TrashedBefore(t time.Time) Predicate {
	return Predicate{sqlizer: squirrel.Lt{"deleted_at": t}, desc: "trashed before " + t.Format(time.RFC3339)}
}

// StatusIn matches rows whose status is one of statuses.
func StatusIn(statuses ...string) Predicate {
	return Predicate{
		sqlizer: squirrel.Expr("status::text = ANY(?)", statuses),
		desc:    "status in " + strings.Join(statuses, ","),
	}
}

// StatusNotIn matches rows whose status is none of statuses.
func StatusNotIn(statuses ...string) Predicate {
	return Predicate{
		sqlizer: squirrel.Expr("NOT (status::text = ANY(?))", statuses),
		desc:    "status not in " + strings.Join(statuses, ","),
	}
}

// And matches rows satisfying every predicate.
func And(preds ...Predicate) Predicate {
	and := make(squirrel.And, 0, len(preds))
	descs := make([]string, 0, len(preds))
	for _, p := range preds {
		and = append(and, p)
		descs = append(descs, p.desc)
	}
	return Predicate{sqlizer: and, desc: strings.Join(descs, " and ")}
}

type errSqlizer struct{ err error }

func (e errSqlizer) ToSql() (string, []any, error) { return "", nil, e.err }
