package repository

import (
	"strings"

	"github.com/okian/unirank/internal/domain/university"
)

// Operator identifies how a predicate tests its field.
type Operator int

const (
	// OpExists requires the field to be present and non-null.
	OpExists Operator = iota + 1
	// OpMatchFold requires a case-insensitive substring match on a string field.
	OpMatchFold
)

func (o Operator) String() string {
	switch o {
	case OpExists:
		return "exists"
	case OpMatchFold:
		return "match_fold"
	default:
		return "unknown"
	}
}

// Predicate is a single condition on one record field.
type Predicate struct {
	Field string
	Op    Operator
	Value string
}

// Filter is a conjunction of predicates. The zero value matches everything.
type Filter struct {
	Predicates []Predicate
}

// Exists returns a copy of f that also requires field to be non-null.
func (f Filter) Exists(field string) Filter {
	return f.with(Predicate{Field: field, Op: OpExists})
}

// MatchFold returns a copy of f that also requires field to contain value, ignoring case.
func (f Filter) MatchFold(field, value string) Filter {
	return f.with(Predicate{Field: field, Op: OpMatchFold, Value: value})
}

func (f Filter) with(p Predicate) Filter {
	preds := make([]Predicate, len(f.Predicates), len(f.Predicates)+1)
	copy(preds, f.Predicates)
	return Filter{Predicates: append(preds, p)}
}

// Matches evaluates f against rec.
func (f Filter) Matches(rec university.Record) bool {
	for _, p := range f.Predicates {
		switch p.Op {
		case OpExists:
			if !rec.Has(p.Field) {
				return false
			}
		case OpMatchFold:
			s, ok := rec[p.Field].(string)
			if !ok || !strings.Contains(strings.ToLower(s), strings.ToLower(p.Value)) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Direction is a sort direction.
type Direction int

// Sort directions.
const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// Query describes a paged, sorted read. Build it with NewQuery and the
// chained setters; each setter returns a modified copy.
type Query struct {
	Filter    Filter
	SortField string
	SortDir   Direction
	SkipN     int
	LimitN    int
}

// NewQuery starts a query over records matching f.
func NewQuery(f Filter) Query {
	return Query{Filter: f, SortDir: Ascending}
}

// Sort orders results by field in dir.
func (q Query) Sort(field string, dir Direction) Query {
	q.SortField = field
	q.SortDir = dir
	return q
}

// Skip drops the first n results.
func (q Query) Skip(n int) Query {
	if n < 0 {
		n = 0
	}
	q.SkipN = n
	return q
}

// Limit caps the number of results; zero means no cap.
func (q Query) Limit(n int) Query {
	if n < 0 {
		n = 0
	}
	q.LimitN = n
	return q
}
