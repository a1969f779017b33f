// Package query is the criteria engine: it turns a sparse set of optional
// filter, sort, and pagination parameters into a deterministic query plan,
// and knows how to apply a plan to a bun query or evaluate it in memory.
package query

import (
	"strings"
)

// Op identifies a predicate operator. All predicates in a plan are ANDed;
// there is no OR or NOT composition.
type Op int

const (
	// OpContains is a case-insensitive substring match on a text column.
	OpContains Op = iota + 1
	// OpEq is an exact match.
	OpEq
	// OpGTE is a greater-than-or-equal comparison.
	OpGTE
	// OpLTE is a less-than-or-equal comparison.
	OpLTE
	// OpBetween is an inclusive range with both bounds set.
	OpBetween
)

// Predicate is one filter condition on a column. Upper is only set for
// OpBetween.
type Predicate struct {
	Column string
	Op     Op
	Value  any
	Upper  any
}

// Plan is a fully-resolved query: predicates, ordering, and pagination.
// Column names come from the closed sort/filter maps, never from raw input.
type Plan struct {
	Predicates []Predicate
	SortColumn string
	Asc        bool
	Offset     int
	Limit      int
}

// Builder accumulates predicates, skipping filters that are absent so they
// never touch the predicate list.
type Builder struct {
	plan Plan
}

// NewBuilder returns an empty plan builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Contains adds a case-insensitive substring predicate unless the fragment is
// blank.
func (b *Builder) Contains(column, fragment string) *Builder {
	if strings.TrimSpace(fragment) == "" {
		return b
	}
	b.plan.Predicates = append(b.plan.Predicates, Predicate{Column: column, Op: OpContains, Value: fragment})
	return b
}

// Eq adds an exact-match predicate.
func (b *Builder) Eq(column string, value any) *Builder {
	b.plan.Predicates = append(b.plan.Predicates, Predicate{Column: column, Op: OpEq, Value: value})
	return b
}

// GTE adds a greater-than-or-equal predicate.
func (b *Builder) GTE(column string, value any) *Builder {
	b.plan.Predicates = append(b.plan.Predicates, Predicate{Column: column, Op: OpGTE, Value: value})
	return b
}

// LTE adds a less-than-or-equal predicate.
func (b *Builder) LTE(column string, value any) *Builder {
	b.plan.Predicates = append(b.plan.Predicates, Predicate{Column: column, Op: OpLTE, Value: value})
	return b
}

// Between adds an inclusive range predicate. Callers supply both bounds; a
// caller-side missing bound is extended to the type's theoretical min/max
// before it gets here, which keeps boundary equality inclusive.
func (b *Builder) Between(column string, lower, upper any) *Builder {
	b.plan.Predicates = append(b.plan.Predicates, Predicate{Column: column, Op: OpBetween, Value: lower, Upper: upper})
	return b
}

// Sort sets the ordering. The column must already be resolved through a
// SortFields map.
func (b *Builder) Sort(column string, asc bool) *Builder {
	b.plan.SortColumn = column
	b.plan.Asc = asc
	return b
}

// Paginate sets zero-based pagination: offset = page * pageSize.
func (b *Builder) Paginate(page, pageSize int) *Builder {
	b.plan.Offset = page * pageSize
	b.plan.Limit = pageSize
	return b
}

// Build returns the accumulated plan.
func (b *Builder) Build() Plan {
	return b.plan
}
