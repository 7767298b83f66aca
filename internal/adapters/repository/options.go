package repository

import "github.com/okian/unirank/internal/domain/university"

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithRecords preloads the store.
func WithRecords(records ...university.Record) MemoryOption {
	return func(s *MemoryStore) {
		for _, r := range records {
			s.records = append(s.records, r.Clone())
		}
	}
}

// PostgresOption applies a configuration option to the PostgresStore.
type PostgresOption func(*PostgresStore)

// WithTable sets the table holding the documents. Empty names are ignored.
func WithTable(table string) PostgresOption {
	return func(s *PostgresStore) {
		if table != "" {
			s.table = table
		}
	}
}
