package config

import "errors"

var (
	// ErrInvalidConfig wraps every Validate failure.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig wraps failures reading the config file or environment.
	ErrLoadConfig = errors.New("load config failed")
	// ErrUnknownStore is joined to ErrInvalidConfig when store names no backend.
	ErrUnknownStore = errors.New("unknown store")
)
