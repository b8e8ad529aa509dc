// Package common provides shared constants, types, and utilities
// used across the SusOps tray application.
package common

import "errors"

// Sentinel errors for proxy and configuration operations.
// These can be checked with errors.Is() for proper error handling.
var (
	// Command errors.
	ErrCLINotFound = errors.New("susops CLI not found")
	ErrTimeout     = errors.New("operation timed out")

	// Configuration errors.
	ErrConfigQuery = errors.New("config query failed")
	ErrConfigWrite = errors.New("config write failed")

	// UI errors.
	ErrIconNotFound = errors.New("icon asset not found")
	ErrInvalidPort  = errors.New("port must be between 1 and 65535")
)

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}
