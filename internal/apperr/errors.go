package apperr

import (
	"fmt"
	"time"
)

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// LaunchError reports a target process that could not be spawned.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("error when executing benchmark: %s: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// MetricParseError reports captured output without a bracketed metric.
// Output holds everything the target wrote to stdout.
type MetricParseError struct {
	Dir     string
	Command string
	Output  string
}

func (e *MetricParseError) Error() string {
	return fmt.Sprintf("no embedded metric in output of %q (dir %s):\n%s", e.Command, e.Dir, e.Output)
}

// TimeoutError reports a trial killed after exceeding its time budget.
type TimeoutError struct {
	Command string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("benchmark %q killed after %s", e.Command, e.Timeout)
}

// ShapeMismatchError reports source tables that cannot be merged.
type ShapeMismatchError struct {
	Source string
	Reason string
}

func (e *ShapeMismatchError) Error() string {
	if e.Source == "" {
		return "shape mismatch: " + e.Reason
	}
	return fmt.Sprintf("shape mismatch in %s: %s", e.Source, e.Reason)
}

func NewShapeMismatch(source, format string, args ...any) *ShapeMismatchError {
	return &ShapeMismatchError{Source: source, Reason: fmt.Sprintf(format, args...)}
}
