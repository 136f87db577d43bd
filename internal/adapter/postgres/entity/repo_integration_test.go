package entity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/caseflow-backend/internal/adapter/postgres"
	"github.com/heartmarshall/caseflow-backend/internal/adapter/postgres/entity"
	"github.com/heartmarshall/caseflow-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/caseflow-backend/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*entity.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return entity.New(pool), pool
}

func TestRepo_FindAndSetDeletedAt_AllKinds(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	for _, kind := range domain.AllEntityKinds {
		id := testhelper.Seed(t, pool, kind)

		got, err := repo.Find(ctx, kind, id)
		if err != nil {
			t.Fatalf("Find %s: %v", kind, err)
		}
		if got.IsTrashed() {
			t.Fatalf("%s: new row should be active", kind)
		}

		now := time.Now().UTC().Truncate(time.Microsecond)
		if err := repo.SetDeletedAt(ctx, kind, id, &now); err != nil {
			t.Fatalf("SetDeletedAt %s: %v", kind, err)
		}
		got, err = repo.Find(ctx, kind, id)
		if err != nil {
			t.Fatalf("Find after trash %s: %v", kind, err)
		}
		if got.DeletedAt == nil || !got.DeletedAt.Equal(now) {
			t.Fatalf("%s: deleted_at = %v, want %v", kind, got.DeletedAt, now)
		}

		if err := repo.SetDeletedAt(ctx, kind, id, nil); err != nil {
			t.Fatalf("restore %s: %v", kind, err)
		}
		if at := testhelper.DeletedAt(t, pool, kind, id); at != nil {
			t.Fatalf("%s: expected deleted_at cleared, got %v", kind, at)
		}
	}
}

func TestRepo_Find_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.Find(context.Background(), domain.EntityKindCase, uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_DeleteWhere_CascadeThenRoot(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	caseID := testhelper.SeedCaseWithChildren(t, pool, 3, 2)
	otherID := testhelper.SeedCaseWithChildren(t, pool, 1, 1)
	testhelper.Trash(t, pool, domain.EntityKindCase, caseID, time.Now())

	// Root delete must fail while dependents reference it.
	_, err := repo.DeleteWhere(ctx, domain.TableCases, entity.ByID(caseID))
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict from FK violation, got %v", err)
	}

	ids := []uuid.UUID{caseID}
	n, err := repo.DeleteWhere(ctx, domain.TableCaseActions, entity.ByParent("case_id", ids))
	if err != nil || n != 3 {
		t.Fatalf("delete actions: n=%d err=%v", n, err)
	}
	n, err = repo.DeleteWhere(ctx, domain.TableCaseDocuments, entity.ByParent("case_id", ids))
	if err != nil || n != 2 {
		t.Fatalf("delete documents: n=%d err=%v", n, err)
	}
	n, err = repo.DeleteWhere(ctx, domain.TableCases, entity.And(entity.ByID(caseID), entity.Trashed()))
	if err != nil || n != 1 {
		t.Fatalf("delete root: n=%d err=%v", n, err)
	}

	if testhelper.Exists(t, pool, domain.EntityKindCase, caseID) {
		t.Fatal("purged case still exists")
	}
	if got := testhelper.CountRows(t, pool, domain.TableCaseActions, "case_id", otherID); got != 1 {
		t.Fatalf("unrelated case lost actions: %d", got)
	}
}

func TestRepo_DeleteWhere_ActiveRootIsNotDeleted(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)

	id := testhelper.SeedInvoice(t, pool, domain.InvoiceStatusPaid)
	n, err := repo.DeleteWhere(context.Background(), domain.TableInvoices, entity.And(entity.ByID(id), entity.Trashed()))
	if err != nil {
		t.Fatalf("DeleteWhere: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 rows deleted for active invoice, got %d", n)
	}
	if !testhelper.Exists(t, pool, domain.EntityKindInvoice, id) {
		t.Fatal("active invoice was deleted")
	}
}

func TestRepo_CountWhere_StatusFilters(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	ids := []uuid.UUID{
		testhelper.SeedInvoice(t, pool, domain.InvoiceStatusDraft),
		testhelper.SeedInvoice(t, pool, domain.InvoiceStatusUnpaid),
		testhelper.SeedInvoice(t, pool, domain.InvoiceStatusPaid),
		testhelper.SeedInvoice(t, pool, domain.InvoiceStatusUnpaid),
	}
	testhelper.Trash(t, pool, domain.EntityKindInvoice, ids[3], time.Now())

	n, err := repo.CountWhere(ctx, domain.TableInvoices, entity.And(
		entity.ByIDs(ids), entity.Active(), entity.StatusIn(domain.UnpaidInvoiceStatuses...),
	))
	if err != nil {
		t.Fatalf("CountWhere: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 unpaid active invoices, got %d", n)
	}

	n, err = repo.CountWhere(ctx, domain.TableInvoices, entity.And(entity.ByIDs(ids), entity.Trashed()))
	if err != nil {
		t.Fatalf("CountWhere trashed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 trashed invoice, got %d", n)
	}

	n, err = repo.CountWhere(ctx, domain.TableInvoices, entity.ByIDs(nil))
	if err != nil {
		t.Fatalf("CountWhere empty set: %v", err)
	}
	if n != 0 {
		t.Fatalf("empty id set should match nothing, got %d", n)
	}
}

func TestRepo_ListTrashedIDs_LocksInsideTx(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	tm := postgres.NewTxManager(pool)

	old := testhelper.SeedPartner(t, pool)
	recent := testhelper.SeedPartner(t, pool)
	testhelper.Trash(t, pool, domain.EntityKindPartner, old, time.Now().Add(-48*time.Hour))
	testhelper.Trash(t, pool, domain.EntityKindPartner, recent, time.Now())

	threshold := time.Now().Add(-24 * time.Hour)
	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		ids, err := repo.ListTrashedIDs(ctx, domain.EntityKindPartner, &threshold)
		if err != nil {
			return err
		}
		found := false
		for _, id := range ids {
			if id == recent {
				t.Errorf("recently trashed partner should be excluded by threshold")
			}
			if id == old {
				found = true
			}
		}
		if !found {
			t.Errorf("old trashed partner missing from %v", ids)
		}

		// A concurrent writer must not be able to take the lock.
		conn, err := pool.Acquire(ctx)
		if err != nil {
			return err
		}
		defer conn.Release()
		if _, err := conn.Exec(ctx, `SET lock_timeout = '100ms'`); err != nil {
			return err
		}
		_, lockErr := conn.Exec(ctx, `UPDATE partners SET deleted_at = NULL WHERE id = $1`, old)
		if lockErr == nil {
			t.Errorf("expected lock timeout restoring a locked row")
		}
		_, _ = conn.Exec(ctx, `RESET lock_timeout`)
		return nil
	})
	if err != nil {
		t.Fatalf("RunInTx: %v", err)
	}
}

func TestRepo_ListTrashed_Pagination(t *testing.T) {
	repo, pool := newRepo(t)
	ctx := context.Background()
	testhelper.Reset(t, pool)

	base := time.Now().Add(-time.Hour)
	c := testhelper.SeedCase(t, pool, domain.CaseStatusOpen)
	i := testhelper.SeedInvoice(t, pool, domain.InvoiceStatusDraft)
	p := testhelper.SeedPartner(t, pool)
	testhelper.SeedOurCompany(t, pool) // stays active
	testhelper.Trash(t, pool, domain.EntityKindCase, c, base)
	testhelper.Trash(t, pool, domain.EntityKindInvoice, i, base.Add(time.Minute))
	testhelper.Trash(t, pool, domain.EntityKindPartner, p, base.Add(2*time.Minute))

	items, total, err := repo.ListTrashed(ctx, domain.AllEntityKinds, 2, 0)
	if err != nil {
		t.Fatalf("ListTrashed: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	if len(items) != 2 || items[0].ID != p || items[1].ID != i {
		t.Fatalf("unexpected first page: %+v", items)
	}

	items, _, err = repo.ListTrashed(ctx, domain.AllEntityKinds, 2, 2)
	if err != nil {
		t.Fatalf("ListTrashed page 2: %v", err)
	}
	if len(items) != 1 || items[0].ID != c || items[0].Kind != domain.EntityKindCase {
		t.Fatalf("unexpected second page: %+v", items)
	}

	items, total, err = repo.ListTrashed(ctx, []domain.EntityKind{domain.EntityKindInvoice}, 10, 0)
	if err != nil {
		t.Fatalf("ListTrashed invoices: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].ID != i {
		t.Fatalf("unexpected invoice listing: total=%d items=%+v", total, items)
	}
}
