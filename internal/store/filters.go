package store

import (
	"fmt"
	"strings"

	"github.com/cicero78M/recap-engine/internal/period"
)

// Filter composes WHERE-clause predicates with positional parameters. The
// clause shape of a recap query depends on which of the role-tag, unit,
// regional and date-range filters are present, so predicates are collected
// as named fragments and rendered with renumbered $n placeholders in one
// place. Column names use the store's canonical table aliases (c = content
// items, p = personnel, u = org units).
type Filter struct {
	clauses []clause
}

type clause struct {
	// expr is a fmt template whose %d verbs are filled with parameter
	// ordinals when the clause is rendered
	expr string
	args []interface{}
}

// NewFilter creates an empty filter matching everything
func NewFilter() *Filter {
	return &Filter{}
}

// Clone returns an independent copy of the filter
func (f *Filter) Clone() *Filter {
	cp := &Filter{clauses: make([]clause, len(f.clauses))}
	copy(cp.clauses, f.clauses)
	return cp
}

// Empty reports whether no predicates have been added
func (f *Filter) Empty() bool {
	return len(f.clauses) == 0
}

// Eq adds an equality predicate on the column
func (f *Filter) Eq(column string, value interface{}) *Filter {
	return f.add(column+" = $%d", value)
}

// HasElement adds a membership predicate against an array column
func (f *Filter) HasElement(column string, value interface{}) *Filter {
	return f.add("$%d = ANY("+column+")", value)
}

// Window bounds a timestamp column to the recap window. Unbounded windows
// add no predicate.
func (f *Filter) Window(column string, w period.Window) *Filter {
	if w.Unbounded {
		return f
	}
	f.add(column+" >= $%d", w.Start)
	f.add(column+" < $%d", w.UpperBound())
	return f
}

func (f *Filter) add(expr string, args ...interface{}) *Filter {
	f.clauses = append(f.clauses, clause{expr: expr, args: args})
	return f
}

// Clause renders the predicates joined with AND, numbering parameters from
// start, and returns the bound arguments in matching order.
func (f *Filter) Clause(start int) (string, []interface{}) {
	if f.Empty() {
		return "", nil
	}

	parts := make([]string, 0, len(f.clauses))
	args := make([]interface{}, 0, len(f.clauses))
	n := start
	for _, c := range f.clauses {
		ordinals := make([]interface{}, len(c.args))
		for i := range c.args {
			ordinals[i] = n
			n++
		}
		parts = append(parts, fmt.Sprintf(c.expr, ordinals...))
		args = append(args, c.args...)
	}

	return strings.Join(parts, " AND "), args
}
