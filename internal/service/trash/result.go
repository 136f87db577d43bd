package trash

import (
	"fmt"
	"sort"
	"strings"

	"github.com/heartmarshall/caseflow-backend/internal/domain"
)

// PurgeResult reports the rows removed by PurgeOne, keyed by table.
type PurgeResult struct {
	Deleted map[domain.Table]int64
}

// Page is one page of the trash listing. Limit is the page size actually
// applied after defaults and capping.
type Page struct {
	Items  []domain.Entity
	Total  int
	Limit  int
	Offset int
}

// EmptyResult reports the rows removed by a batch purge, keyed by table,
// and the number of root records purged per kind.
type EmptyResult struct {
	Deleted map[domain.Table]int64
	Purged  map[domain.EntityKind]int
}

func newEmptyResult() *EmptyResult {
	return &EmptyResult{
		Deleted: make(map[domain.Table]int64),
		Purged:  make(map[domain.EntityKind]int),
	}
}

// Total returns the number of root records purged.
func (r *EmptyResult) Total() int {
	n := 0
	for _, c := range r.Purged {
		n += c
	}
	return n
}

// KindError is the failure of one kind within a batch purge.
type KindError struct {
	Kind domain.EntityKind
	Err  error
}

func (e *KindError) Error() string { return fmt.Sprintf("%s: %v", e.Kind, e.Err) }

func (e *KindError) Unwrap() error { return e.Err }

// PartialFailureError is returned when at least one kind failed during a
// batch purge. Kinds that committed stay purged; Result describes them.
type PartialFailureError struct {
	Failed []*KindError
	Result *EmptyResult
}

func (e *PartialFailureError) Error() string {
	msgs := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		msgs[i] = f.Error()
	}
	sort.Strings(msgs)
	return "empty trash: " + strings.Join(msgs, "; ")
}

// Unwrap exposes every per-kind error to errors.Is and errors.As.
func (e *PartialFailureError) Unwrap() []error {
	errs := make([]error, len(e.Failed))
	for i, f := range e.Failed {
		errs[i] = f
	}
	return errs
}
