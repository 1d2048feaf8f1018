package domain

import (
	"fmt"
	"time"
)

// ReferenceNotFoundError indicates a {label} reference that no node carries.
type ReferenceNotFoundError struct {
	Label string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("no node labeled %q", e.Label)
}

// ReferenceEmptyError indicates a referenced node that exists but has no
// cached results (zero rows, or never executed).
type ReferenceEmptyError struct {
	Label string
}

func (e *ReferenceEmptyError) Error() string {
	return fmt.Sprintf("node %q has no results; run it first", e.Label)
}

// MaterializationError indicates the engine rejected creation of the
// ephemeral relation for a label.
type MaterializationError struct {
	Label string
	Cause error
}

func (e *MaterializationError) Error() string {
	return fmt.Sprintf("materialize %q: %v", e.Label, e.Cause)
}

func (e *MaterializationError) Unwrap() error { return e.Cause }

// ExecutionError carries the engine's error text verbatim. It usually
// reflects a user authoring mistake, so Error() does not add context.
type ExecutionError struct {
	Cause error
}

func (e *ExecutionError) Error() string { return e.Cause.Error() }

func (e *ExecutionError) Unwrap() error { return e.Cause }

// ExecutionTimeoutError indicates the request-level timeout elapsed while
// the query was executing.
type ExecutionTimeoutError struct {
	Timeout time.Duration
}

func (e *ExecutionTimeoutError) Error() string {
	if e.Timeout > 0 {
		return fmt.Sprintf("query execution exceeded %s", e.Timeout)
	}
	return "query execution timed out"
}

// ErrReferenceNotFound creates a ReferenceNotFoundError for a label.
func ErrReferenceNotFound(label string) *ReferenceNotFoundError {
	return &ReferenceNotFoundError{Label: label}
}

// ErrReferenceEmpty creates a ReferenceEmptyError for a label.
func ErrReferenceEmpty(label string) *ReferenceEmptyError {
	return &ReferenceEmptyError{Label: label}
}

// ErrMaterialization creates a MaterializationError for a label.
func ErrMaterialization(label string, cause error) *MaterializationError {
	return &MaterializationError{Label: label, Cause: cause}
}

// ErrExecution wraps an engine execution error.
func ErrExecution(cause error) *ExecutionError {
	return &ExecutionError{Cause: cause}
}

// ErrExecutionTimeout creates an ExecutionTimeoutError.
func ErrExecutionTimeout(timeout time.Duration) *ExecutionTimeoutError {
	return &ExecutionTimeoutError{Timeout: timeout}
}
