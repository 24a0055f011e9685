package models

import (
	"errors"
	"fmt"
)

// ValidationError reports missing or invalid input.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError returns a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports a referenced record that does not exist or is of the
// wrong kind.
type NotFoundError struct {
	Kind string
	ID   string
}

// NewNotFoundError returns a NotFoundError for the kind record with id.
func NewNotFoundError(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// UnitFailure records why one unit of a batch failed.
type UnitFailure struct {
	// Index is the position of the unit in the batch.
	Index int

	// Unit identifies the unit for humans, e.g. a guest name or id.
	Unit string

	Err error
}

func (f UnitFailure) String() string {
	if f.Unit == "" {
		return f.Err.Error()
	}
	return fmt.Sprintf("%s: %v", f.Unit, f.Err)
}

// DefaultSummaryLimit is how many individual failures a summary lists.
const DefaultSummaryLimit = 3

// BatchError reports a batch where some units failed. The batch itself still
// completed; the successful units are committed.
type BatchError struct {
	Op       string
	Total    int
	Failures []UnitFailure
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s: %d of %d units failed", e.Op, len(e.Failures), e.Total)
}

// Summary lists the first limit failure messages followed by a count of the
// remainder.
func (e *BatchError) Summary(limit int) []string {
	if limit <= 0 {
		limit = DefaultSummaryLimit
	}
	lines := make([]string, 0, limit+1)
	for i, f := range e.Failures {
		if i == limit {
			lines = append(lines, fmt.Sprintf("... and %d more errors", len(e.Failures)-limit))
			break
		}
		lines = append(lines, f.String())
	}
	return lines
}
