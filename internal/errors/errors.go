// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors. All of these are local validation failures
// surfaced to the caller for correction; none are retried.
var (
	ErrInvalidPrice           = errors.New("price must be a positive number")
	ErrInvalidPercentage      = errors.New("percentage must be within (0, 100]")
	ErrMissingClosingNote     = errors.New("a closing note is required for a full close")
	ErrNothingToClose         = errors.New("no position size remaining to close")
	ErrTradeNotOpen           = errors.New("trade is not open")
	ErrTradeNotFound          = errors.New("trade not found")
	ErrAccountNotFound        = errors.New("account not found")
	ErrInvalidPositionSize    = errors.New("position size is invalid")
	ErrPersistenceUnavailable = errors.New("persistence is unavailable: changes were not saved")
	ErrProfileMissing         = errors.New("no user profile configured")
	ErrCoachUnavailable       = errors.New("coach is not configured")
	ErrConfigInvalid          = errors.New("invalid configuration")
)

// InsufficientSizeError is returned when a partial or full close requests
// more units than remain. It carries the remaining percentage of the
// original position so the caller can re-prompt with a valid value.
type InsufficientSizeError struct {
	RequestedPercent float64
	RemainingPercent float64
}

func (e *InsufficientSizeError) Error() string {
	return fmt.Sprintf("insufficient remaining size: only %.1f%% of the original position is available", e.RemainingPercent)
}

// NewInsufficientSizeError creates a new InsufficientSizeError.
func NewInsufficientSizeError(requested, remaining float64) *InsufficientSizeError {
	return &InsufficientSizeError{
		RequestedPercent: requested,
		RemainingPercent: remaining,
	}
}

// ValidationError represents a validation error on a single field.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// StoreError represents an error from the persistence layer.
type StoreError struct {
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [%s]: %v", e.Operation, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(operation string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Err:       err,
	}
}

// CoachError represents an error from the AI coach collaborator.
type CoachError struct {
	Operation string
	Err       error
}

func (e *CoachError) Error() string {
	return fmt.Sprintf("coach error [%s]: %v", e.Operation, e.Err)
}

func (e *CoachError) Unwrap() error {
	return e.Err
}

// NewCoachError creates a new CoachError.
func NewCoachError(operation string, err error) *CoachError {
	return &CoachError{
		Operation: operation,
		Err:       err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
