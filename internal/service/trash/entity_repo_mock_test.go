package trash

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/caseflow-backend/internal/adapter/postgres/entity"
	"github.com/heartmarshall/caseflow-backend/internal/domain"
)

var _ entityRepo = &entityRepoMock{}

type entityRepoMock struct {
	DeleteWhereFunc    func(ctx context.Context, table domain.Table, pred entity.Predicate) (int64, error)
	FindForUpdateFunc  func(ctx context.Context, kind domain.EntityKind, id uuid.UUID) (*domain.Entity, error)
	ListTrashedFunc    func(ctx context.Context, kinds []domain.EntityKind, limit int, offset int) ([]domain.Entity, int, error)
	ListTrashedIDsFunc func(ctx context.Context, kind domain.EntityKind, before *time.Time) ([]uuid.UUID, error)
	SetDeletedAtFunc   func(ctx context.Context, kind domain.EntityKind, id uuid.UUID, at *time.Time) error

	calls struct {
		DeleteWhere []struct {
			Ctx   context.Context
			Table domain.Table
			Pred  entity.Predicate
		}
		FindForUpdate []struct {
			Ctx  context.Context
			Kind domain.EntityKind
			ID   uuid.UUID
		}
		ListTrashed []struct {
			Ctx    context.Context
			Kinds  []domain.EntityKind
			Limit  int
			Offset int
		}
		ListTrashedIDs []struct {
			Ctx    context.Context
			Kind   domain.EntityKind
			Before *time.Time
		}
		SetDeletedAt []struct {
			Ctx  context.Context
			Kind domain.EntityKind
			ID   uuid.UUID
			At   *time.Time
		}
	}
	lockDeleteWhere    sync.RWMutex
	lockFindForUpdate  sync.RWMutex
	lockListTrashed    sync.RWMutex
	lockListTrashedIDs sync.RWMutex
	lockSetDeletedAt   sync.RWMutex
}

func (mock *entityRepoMock) DeleteWhere(ctx context.Context, table domain.Table, pred entity.Predicate) (int64, error) {
	if mock.DeleteWhereFunc == nil {
		panic("entityRepoMock.DeleteWhereFunc: method is nil but entityRepo.DeleteWhere was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Table domain.Table
		Pred  entity.Predicate
	}{Ctx: ctx, Table: table, Pred: pred}
	mock.lockDeleteWhere.Lock()
	mock.calls.DeleteWhere = append(mock.calls.DeleteWhere, callInfo)
	mock.lockDeleteWhere.Unlock()
	return mock.DeleteWhereFunc(ctx, table, pred)
}

func (mock *entityRepoMock) DeleteWhereCalls() []struct {
	Ctx   context.Context
	Table domain.Table
	Pred  entity.Predicate
} {
	mock.lockDeleteWhere.RLock()
	calls := mock.calls.DeleteWhere
	mock.lockDeleteWhere.RUnlock()
	return calls
}

func (mock *entityRepoMock) FindForUpdate(ctx context.Context, kind domain.EntityKind, id uuid.UUID) (*domain.Entity, error) {
	if mock.FindForUpdateFunc == nil {
		panic("entityRepoMock.FindForUpdateFunc: method is nil but entityRepo.FindForUpdate was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Kind domain.EntityKind
		ID   uuid.UUID
	}{Ctx: ctx, Kind: kind, ID: id}
	mock.lockFindForUpdate.Lock()
	mock.calls.FindForUpdate = append(mock.calls.FindForUpdate, callInfo)
	mock.lockFindForUpdate.Unlock()
	return mock.FindForUpdateFunc(ctx, kind, id)
}

func (mock *entityRepoMock) FindForUpdateCalls() []struct {
	Ctx  context.Context
	Kind domain.EntityKind
	ID   uuid.UUID
} {
	mock.lockFindForUpdate.RLock()
	calls := mock.calls.FindForUpdate
	mock.lockFindForUpdate.RUnlock()
	return calls
}

func (mock *entityRepoMock) ListTrashed(ctx context.Context, kinds []domain.EntityKind, limit int, offset int) ([]domain.Entity, int, error) {
	if mock.ListTrashedFunc == nil {
		panic("entityRepoMock.ListTrashedFunc: method is nil but entityRepo.ListTrashed was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Kinds  []domain.EntityKind
		Limit  int
		Offset int
	}{Ctx: ctx, Kinds: kinds, Limit: limit, Offset: offset}
	mock.lockListTrashed.Lock()
	mock.calls.ListTrashed = append(mock.calls.ListTrashed, callInfo)
	mock.lockListTrashed.Unlock()
	return mock.ListTrashedFunc(ctx, kinds, limit, offset)
}

func (mock *entityRepoMock) ListTrashedCalls() []struct {
	Ctx    context.Context
	Kinds  []domain.EntityKind
	Limit  int
	Offset int
} {
	mock.lockListTrashed.RLock()
	calls := mock.calls.ListTrashed
	mock.lockListTrashed.RUnlock()
	return calls
}

func (mock *entityRepoMock) ListTrashedIDs(ctx context.Context, kind domain.EntityKind, before *time.Time) ([]uuid.UUID, error) {
	if mock.ListTrashedIDsFunc == nil {
		panic("entityRepoMock.ListTrashedIDsFunc: method is nil but entityRepo.ListTrashedIDs was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Kind   domain.EntityKind
		Before *time.Time
	}{Ctx: ctx, Kind: kind, Before: before}
	mock.lockListTrashedIDs.Lock()
	mock.calls.ListTrashedIDs = append(mock.calls.ListTrashedIDs, callInfo)
	mock.lockListTrashedIDs.Unlock()
	return mock.ListTrashedIDsFunc(ctx, kind, before)
}

func (mock *entityRepoMock) ListTrashedIDsCalls() []struct {
	Ctx    context.Context
	Kind   domain.EntityKind
	Before *time.Time
} {
	mock.lockListTrashedIDs.RLock()
	calls := mock.calls.ListTrashedIDs
	mock.lockListTrashedIDs.RUnlock()
	return calls
}

func (mock *entityRepoMock) SetDeletedAt(ctx context.Context, kind domain.EntityKind, id uuid.UUID, at *time.Time) error {
	if mock.SetDeletedAtFunc == nil {
		panic("entityRepoMock.SetDeletedAtFunc: method is nil but entityRepo.SetDeletedAt was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Kind domain.EntityKind
		ID   uuid.UUID
		At   *time.Time
	}{Ctx: ctx, Kind: kind, ID: id, At: at}
	mock.lockSetDeletedAt.Lock()
	mock.calls.SetDeletedAt = append(mock.calls.SetDeletedAt, callInfo)
	mock.lockSetDeletedAt.Unlock()
	return mock.SetDeletedAtFunc(ctx, kind, id, at)
}

func (mock *entityRepoMock) SetDeletedAtCalls() []struct {
	Ctx  context.Context
	Kind domain.EntityKind
	ID   uuid.UUID
	At   *time.Time
} {
	mock.lockSetDeletedAt.RLock()
	calls := mock.calls.SetDeletedAt
	mock.lockSetDeletedAt.RUnlock()
	return calls
}
