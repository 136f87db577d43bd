package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity is a top-level record as seen by the trash lifecycle.
// Kind-specific payload stays in storage; only the lifecycle columns are loaded.
type Entity struct {
	ID        uuid.UUID
	Kind      EntityKind
	Status    string
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTrashed reports whether the entity is soft-deleted.
func (e *Entity) IsTrashed() bool {
	return e.DeletedAt != nil
}

// ForeignKey declares that rows of Table reference rows of References via Column.
type ForeignKey struct {
	Table      Table
	Column     string
	References Table
}

func (fk ForeignKey) String() string {
	return string(fk.Table) + "." + fk.Column + " -> " + string(fk.References)
}

// TrashSummary holds the aggregate counts shown on badges and dashboards.
type TrashSummary struct {
	ActiveCases    int
	UnpaidInvoices int
	TrashedItems   int
}
