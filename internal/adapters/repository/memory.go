package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/unirank/internal/domain/university"
)

// MemoryStore is an in-memory Store holding records in insertion order.
//
// Sorting follows document-store semantics: null or missing values come
// before numbers, numbers before strings, and ties keep insertion order.
type MemoryStore struct {
	mu      sync.RWMutex
	records []university.Record
	closed  bool
}

// NewMemoryStore creates a MemoryStore.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert appends records. Each record is copied so later caller mutations
// do not leak into the store.
func (s *MemoryStore) Insert(_ context.Context, records ...university.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for _, r := range records {
		s.records = append(s.records, r.Clone())
	}
	return nil
}

// Find implements Store.
func (s *MemoryStore) Find(ctx context.Context, q Query) ([]university.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, ErrClosed
	}
	matched := make([]university.Record, 0, len(s.records))
	for _, r := range s.records {
		if q.Filter.Matches(r) {
			matched = append(matched, r)
		}
	}
	s.mu.RUnlock()

	if q.SortField != "" {
		sortRecords(matched, q.SortField, q.SortDir)
	}

	start := min(q.SkipN, len(matched))
	end := len(matched)
	if q.LimitN > 0 && start+q.LimitN < end {
		end = start + q.LimitN
	}

	out := make([]university.Record, 0, end-start)
	for _, r := range matched[start:end] {
		out = append(out, r.Clone())
	}
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(ctx context.Context, f Filter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	n := 0
	for _, r := range s.records {
		if f.Matches(r) {
			n++
		}
	}
	return n, nil
}

// Ping implements Store.
func (s *MemoryStore) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close releases the records; later calls fail with ErrClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.records = nil
	return nil
}

func sortRecords(records []university.Record, field string, dir Direction) {
	sort.SliceStable(records, func(i, j int) bool {
		c := compareValues(records[i], records[j], field)
		if dir == Descending {
			return c > 0
		}
		return c < 0
	})
}

// Type classes in ascending order.
const (
	classNull = iota
	classNumber
	classString
	classOther
)

func valueClass(rec university.Record, field string) int {
	if _, ok := rec.Number(field); ok {
		return classNumber
	}
	switch rec[field].(type) {
	case nil:
		return classNull
	case string:
		return classString
	default:
		return classOther
	}
}

func compareValues(a, b university.Record, field string) int {
	ca, cb := valueClass(a, field), valueClass(b, field)
	if ca != cb {
		if ca < cb {
			return -1
		}
		return 1
	}
	switch ca {
	case classNumber:
		x, _ := a.Number(field)
		y, _ := b.Number(field)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	case classString:
		x, y := a.String(field), b.String(field)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return 0
}
