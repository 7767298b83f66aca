package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrQuery       = errors.New("query records failed")
	ErrCount       = errors.New("count records failed")
	ErrPing        = errors.New("store unreachable")
	ErrInvalidSeed = errors.New("invalid seed data")
	ErrClosed      = errors.New("store closed")
)
