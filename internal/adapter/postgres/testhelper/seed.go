package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/caseflow-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedCase creates an active case with the given status.
func SeedCase(t *testing.T, pool *pgxpool.Pool, status domain.CaseStatus) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO cases (id, title, status) VALUES ($1, $2, $3)`,
		id, "Case "+uniqueSuffix(), string(status),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedCase: %v", err)
	}
	return id
}

// SeedCaseWithChildren creates a case with the given number of actions and documents.
func SeedCaseWithChildren(t *testing.T, pool *pgxpool.Pool, actions, documents int) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	id := SeedCase(t, pool, domain.CaseStatusOpen)
	for i := 0; i < actions; i++ {
		if _, err := pool.Exec(ctx,
			`INSERT INTO case_actions (case_id, description) VALUES ($1, $2)`,
			id, "action "+uniqueSuffix(),
		); err != nil {
			t.Fatalf("testhelper: SeedCaseWithChildren insert action: %v", err)
		}
	}
	for i := 0; i < documents; i++ {
		if _, err := pool.Exec(ctx,
			`INSERT INTO case_documents (case_id, file_name, storage_path) VALUES ($1, $2, $3)`,
			id, "doc-"+uniqueSuffix()+".pdf", "cases/"+id.String(),
		); err != nil {
			t.Fatalf("testhelper: SeedCaseWithChildren insert document: %v", err)
		}
	}
	return id
}

// SeedInvoice creates an active invoice with the given status.
func SeedInvoice(t *testing.T, pool *pgxpool.Pool, status domain.InvoiceStatus) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO invoices (id, number, status, amount_cents) VALUES ($1, $2, $3, $4)`,
		id, "INV-"+uniqueSuffix(), string(status), 10000,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedInvoice: %v", err)
	}
	return id
}

// SeedPartner creates an active partner.
func SeedPartner(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO partners (id, name) VALUES ($1, $2)`,
		id, "Partner "+uniqueSuffix(),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPartner: %v", err)
	}
	return id
}

// SeedOurCompany creates an active company record.
func SeedOurCompany(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO our_companies (id, name) VALUES ($1, $2)`,
		id, "Company "+uniqueSuffix(),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedOurCompany: %v", err)
	}
	return id
}

// Seed creates an active row of the given kind and returns its ID.
func Seed(t *testing.T, pool *pgxpool.Pool, kind domain.EntityKind) uuid.UUID {
	t.Helper()

	switch kind {
	case domain.EntityKindCase:
		return SeedCase(t, pool, domain.CaseStatusOpen)
	case domain.EntityKindInvoice:
		return SeedInvoice(t, pool, domain.InvoiceStatusUnpaid)
	case domain.EntityKindPartner:
		return SeedPartner(t, pool)
	case domain.EntityKindOurCompany:
		return SeedOurCompany(t, pool)
	default:
		t.Fatalf("testhelper: Seed: unknown kind %q", kind)
		return uuid.Nil
	}
}

// Trash sets deleted_at on a row directly, bypassing the service layer.
func Trash(t *testing.T, pool *pgxpool.Pool, kind domain.EntityKind, id uuid.UUID, at time.Time) {
	t.Helper()

	table, err := kind.Table()
	if err != nil {
		t.Fatalf("testhelper: Trash: %v", err)
	}
	tag, err := pool.Exec(context.Background(),
		`UPDATE `+string(table)+` SET deleted_at = $2 WHERE id = $1`, id, at,
	)
	if err != nil {
		t.Fatalf("testhelper: Trash: %v", err)
	}
	if tag.RowsAffected() != 1 {
		t.Fatalf("testhelper: Trash: %s %s not found", kind, id)
	}
}

// CountRows returns the number of rows in table matching column = id.
func CountRows(t *testing.T, pool *pgxpool.Pool, table domain.Table, column string, id uuid.UUID) int {
	t.Helper()

	var n int
	err := pool.QueryRow(context.Background(),
		`SELECT count(*) FROM `+string(table)+` WHERE `+column+` = $1`, id,
	).Scan(&n)
	if err != nil {
		t.Fatalf("testhelper: CountRows %s: %v", table, err)
	}
	return n
}

// Exists reports whether a row of the given kind exists, trashed or not.
func Exists(t *testing.T, pool *pgxpool.Pool, kind domain.EntityKind, id uuid.UUID) bool {
	t.Helper()

	table, err := kind.Table()
	if err != nil {
		t.Fatalf("testhelper: Exists: %v", err)
	}
	return CountRows(t, pool, table, "id", id) == 1
}

// DeletedAt returns the deleted_at column of a row, nil when active.
func DeletedAt(t *testing.T, pool *pgxpool.Pool, kind domain.EntityKind, id uuid.UUID) *time.Time {
	t.Helper()

	table, err := kind.Table()
	if err != nil {
		t.Fatalf("testhelper: DeletedAt: %v", err)
	}
	var at *time.Time
	if err := pool.QueryRow(context.Background(),
		`SELECT deleted_at FROM `+string(table)+` WHERE id = $1`, id,
	).Scan(&at); err != nil {
		t.Fatalf("testhelper: DeletedAt %s %s: %v", kind, id, err)
	}
	return at
}

// Reset removes all rows from every table. Tests that assert global counts
// call it first and must not run in parallel with other database tests.
func Reset(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`TRUNCATE audit_log, case_actions, case_documents, cases, invoices, partners, our_companies`)
	if err != nil {
		t.Fatalf("testhelper: Reset: %v", err)
	}
}
