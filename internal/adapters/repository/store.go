// Package repository is the read side of the university document store.
package repository

import (
	"context"

	"github.com/okian/unirank/internal/domain/university"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks . Store

// Store provides read access to university records.
type Store interface {
	// Find runs q and returns the matching page of records.
	Find(ctx context.Context, q Query) ([]university.Record, error)

	// Count returns the number of records matching f, ignoring skip and limit.
	Count(ctx context.Context, f Filter) (int, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}
