package service

import (
	"errors"
)

// ErrFetchFailed marks a failure of the document store while serving a query.
var ErrFetchFailed = errors.New("fetch failed")

// FetchError reports a store failure. Its message is the underlying error's,
// which is what clients see.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return e.Op + " failed"
	}
	return e.Err.Error()
}

// Is reports ErrFetchFailed.
func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }

func (e *FetchError) Unwrap() error { return e.Err }
