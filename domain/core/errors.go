package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	// Load errors
	ErrDataUnavailable = errors.New("data source unavailable")
	ErrSchemaMismatch  = errors.New("schema mismatch")

	// Lifecycle errors
	ErrNotLoaded = errors.New("dataset not loaded")

	// Lookup errors
	ErrNotFound     = errors.New("resource not found")
	ErrViewNotFound = fmt.Errorf("%w: view", ErrNotFound)
)

// Error constructors with context
func NewDataUnavailableError(source string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrDataUnavailable, source)
	}
	return fmt.Errorf("%w: %s: %v", ErrDataUnavailable, source, err)
}

func NewMissingColumnsError(columns []string) error {
	return fmt.Errorf("%w: missing columns %s", ErrSchemaMismatch, strings.Join(columns, ", "))
}

func NewColumnTypeError(column string, row int, value string) error {
	return fmt.Errorf("%w: column %s row %d: %q is not numeric", ErrSchemaMismatch, column, row, value)
}

// NewNonIntegerError reports a numeric cell in a whole-number column that has a fraction
func NewNonIntegerError(column string, row int, value string) error {
	return fmt.Errorf("%w: column %s row %d: %q is not a whole number", ErrSchemaMismatch, column, row, value)
}

// Error checking helpers
func IsDataUnavailable(err error) bool {
	return errors.Is(err, ErrDataUnavailable)
}

func IsSchemaMismatch(err error) bool {
	return errors.Is(err, ErrSchemaMismatch)
}

func IsNotLoaded(err error) bool {
	return errors.Is(err, ErrNotLoaded)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
