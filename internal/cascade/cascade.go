// Package cascade computes the order in which dependent rows must be removed
// before a top-level record can be permanently purged.
//
// The dependency graph is a static table of parent/child edges. It is
// validated once at construction and plans are cached per kind, so every
// purge path deletes in the same order.
package cascade

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/heartmarshall/caseflow-backend/internal/domain"
)

// Edge declares that rows of Child reference rows of Parent through ForeignKey.
type Edge struct {
	Parent     domain.Table
	Child      domain.Table
	ForeignKey string
}

// Edges is the dependency graph of the schema.
// Adding a dependent table is one new entry here.
var Edges = []Edge{
	{Parent: domain.TableCases, Child: domain.TableCaseActions, ForeignKey: "case_id"},
	{Parent: domain.TableCases, Child: domain.TableCaseDocuments, ForeignKey: "case_id"},
}

// Step is one delete that must happen before the root row is removed.
// Path walks from Table up to the root: Path[0] is a column of Table and the
// last element references the root table.
type Step struct {
	Table domain.Table
	Path  []domain.ForeignKey
}

// ErrInvalidGraph is returned by New when the edge table is not a rooted DAG.
var ErrInvalidGraph = errors.New("invalid cascade graph")

// Resolver returns purge plans for top-level kinds.
type Resolver struct {
	plans map[domain.EntityKind][]Step
}

// New validates edges and precomputes a plan for every top-level kind.
// It fails on malformed identifiers, on a cycle, when a top-level table is
// declared as a child, or when a chain of parents does not end at a
// top-level table.
func New(edges []Edge) (*Resolver, error) {
	children := make(map[domain.Table][]Edge)
	hasParent := make(map[domain.Table]bool)

	for _, e := range edges {
		if !identifier.MatchString(string(e.Parent)) || !identifier.MatchString(string(e.Child)) {
			return nil, fmt.Errorf("%w: bad table name in edge %q -> %q", ErrInvalidGraph, e.Child, e.Parent)
		}
		if !identifier.MatchString(e.ForeignKey) {
			return nil, fmt.Errorf("%w: bad foreign key %q on %s", ErrInvalidGraph, e.ForeignKey, e.Child)
		}
		if _, ok := e.Child.Kind(); ok {
			return nil, fmt.Errorf("%w: top-level table %s cannot be a child", ErrInvalidGraph, e.Child)
		}
		children[e.Parent] = append(children[e.Parent], e)
		hasParent[e.Child] = true
	}

	if err := checkAcyclic(children); err != nil {
		return nil, err
	}

	// Chains of parents must end at a top-level table.
	for parent := range children {
		if hasParent[parent] {
			continue
		}
		if _, ok := parent.Kind(); !ok {
			return nil, fmt.Errorf("%w: %s is not reachable from a top-level table", ErrInvalidGraph, parent)
		}
	}

	r := &Resolver{plans: make(map[domain.EntityKind][]Step, len(domain.AllEntityKinds))}
	for _, kind := range domain.AllEntityKinds {
		root, err := kind.Table()
		if err != nil {
			return nil, err
		}
		r.plans[kind] = plan(root, children)
	}
	return r, nil
}

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func checkAcyclic(children map[domain.Table][]Edge) error {
	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[domain.Table]int)

	var visit func(t domain.Table) error
	visit = func(t domain.Table) error {
		switch state[t] {
		case inProgress:
			return fmt.Errorf("%w: cycle through %s", ErrInvalidGraph, t)
		case done:
			return nil
		}
		state[t] = inProgress
		for _, e := range children[t] {
			if err := visit(e.Child); err != nil {
				return err
			}
		}
		state[t] = done
		return nil
	}

	for t := range children {
		if err := visit(t); err != nil {
			return err
		}
	}
	return nil
}

// Default returns the resolver for the built-in edge table.
// It panics if Edges is invalid.
func Default() *Resolver {
	r, err := New(Edges)
	if err != nil {
		panic(fmt.Sprintf("cascade: %v", err))
	}
	return r
}

// Plan returns the ordered deletes required before a row of kind can be
// removed. Leaves come first. The result is empty for kinds without
// dependents and for unknown kinds.
func (r *Resolver) Plan(kind domain.EntityKind) []Step {
	steps := r.plans[kind]
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// Tables returns every table touched when purging kind, dependents first and
// the root table last.
func (r *Resolver) Tables(kind domain.EntityKind) ([]domain.Table, error) {
	root, err := kind.Table()
	if err != nil {
		return nil, err
	}
	steps := r.plans[kind]
	tables := make([]domain.Table, 0, len(steps)+1)
	for _, s := range steps {
		tables = append(tables, s.Table)
	}
	return append(tables, root), nil
}

// plan walks the graph depth-first and emits each child after its own
// descendants (post-order), so leaves precede their parents.
func plan(root domain.Table, children map[domain.Table][]Edge) []Step {
	var steps []Step

	var visit func(table domain.Table, path []domain.ForeignKey)
	visit = func(table domain.Table, path []domain.ForeignKey) {
		for _, e := range children[table] {
			fk := domain.ForeignKey{Table: e.Child, Column: e.ForeignKey, References: e.Parent}
			childPath := make([]domain.ForeignKey, 0, len(path)+1)
			childPath = append(childPath, fk)
			childPath = append(childPath, path...)

			visit(e.Child, childPath)
			steps = append(steps, Step{Table: e.Child, Path: childPath})
		}
	}
	visit(root, nil)

	return steps
}
