package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditRecord is an append-only log entry for a lifecycle mutation.
type AuditRecord struct {
	ID         uuid.UUID
	ActorID    *uuid.UUID
	ActorRole  UserRole
	EntityKind EntityKind
	EntityID   *uuid.UUID
	Action     AuditAction
	Changes    map[string]any
	CreatedAt  time.Time
}
