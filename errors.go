package neardup

import (
	"errors"
	"fmt"

	"github.com/hupe1980/neardup/lsh"
	"github.com/hupe1980/neardup/minhash"
)

var (
	// ErrInvalidConfig matches every *ConfigError.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrClosed is returned by operations on a closed index.
	ErrClosed = errors.New("index is closed")

	// ErrNotFound is returned when an id has not been inserted.
	ErrNotFound = errors.New("id not found")

	// ErrSignaturesNotRetained is returned by operations that need stored
	// signatures on an index built without WithRetainSignatures.
	ErrSignaturesNotRetained = errors.New("signatures are not retained")

	// ErrDuplicateID is returned when inserting an id twice.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrLengthMismatch indicates a signature whose length differs from k.
	ErrLengthMismatch = errors.New("signature length mismatch")

	// ErrMemoryLimitExceeded is returned when an insert would exceed the memory budget.
	ErrMemoryLimitExceeded = errors.New("memory limit exceeded")
)

// ConfigError describes a rejected configuration value.
//
// It matches ErrInvalidConfig with errors.Is. The underlying error (if any)
// can be accessed via errors.Unwrap.
type ConfigError struct {
	Field string
	Value any
	cause error
}

func newConfigError(field string, value any, cause error) *ConfigError {
	return &ConfigError{Field: field, Value: value, cause: cause}
}

func (e *ConfigError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("invalid configuration: %s=%v", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid configuration: %s=%v: %v", e.Field, e.Value, e.cause)
}

func (e *ConfigError) Unwrap() error { return e.cause }

// Is reports whether target is ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfig }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, lsh.ErrDuplicateID):
		return fmt.Errorf("%w: %w", ErrDuplicateID, err)
	case errors.Is(err, lsh.ErrLengthMismatch), errors.Is(err, minhash.ErrLengthMismatch):
		return fmt.Errorf("%w: %w", ErrLengthMismatch, err)
	case errors.Is(err, lsh.ErrMemoryLimitExceeded):
		return fmt.Errorf("%w: %w", ErrMemoryLimitExceeded, err)
	}

	return err
}
