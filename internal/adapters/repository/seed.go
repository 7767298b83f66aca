package repository

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/okian/unirank/internal/domain/university"
)

// LoadRecords decodes a JSON array of university documents.
func LoadRecords(r io.Reader) ([]university.Record, error) {
	var records []university.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	for i, rec := range records {
		if rec == nil {
			return nil, fmt.Errorf("%w: element %d is null", ErrInvalidSeed, i)
		}
	}
	return records, nil
}

// LoadFile reads seed records from a JSON file.
func LoadFile(path string) ([]university.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadRecords(f)
}
