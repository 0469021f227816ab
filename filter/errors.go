package filter

import (
	"errors"
	"fmt"
)

// ErrUnknownFilter is returned for a filter name that was never registered
var ErrUnknownFilter = errors.New("unknown filter")

type (
	// CompilationError indicates a filter expression could not be compiled
	CompilationError struct {
		Expression string
		Reason     string
		Err        error
	}

	// EvaluationError indicates a filter could not be evaluated for a contact
	EvaluationError struct {
		Expression string
		Email      string
		Err        error
	}
)

func (e *CompilationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("compilation error in '%s': %s: %v", e.Expression, e.Reason, e.Err)
	}
	return fmt.Sprintf("compilation error in '%s': %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation error for '%s' on contact '%s': %v", e.Expression, e.Email, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
