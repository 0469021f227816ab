package result

import "encoding/json"

// Result is either a value or a Failure, never both
type Result[T any] struct {
	value   T
	failure *Failure
}

// Ok wraps a successful value
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Err wraps a failure. A nil failure is still reported as a failure.
func Err[T any](f *Failure) Result[T] {
	if f == nil {
		f = Fail(RequestFailed, "operation failed without an error")
	}
	return Result[T]{failure: f}
}

// IsOk reports whether the result holds a value
func (r Result[T]) IsOk() bool {
	return r.failure == nil
}

// Value returns the value, or the zero value for a failure
func (r Result[T]) Value() T {
	return r.value
}

// Failure returns the failure, or nil for a success
func (r Result[T]) Failure() *Failure {
	return r.failure
}

// Unwrap returns the result as a Go (value, error) pair
func (r Result[T]) Unwrap() (T, error) {
	if r.failure != nil {
		var zero T
		return zero, r.failure
	}
	return r.value, nil
}

// Payload renders the result in the shape handed to the host
func (r Result[T]) Payload() map[string]any {
	if r.failure != nil {
		return map[string]any{
			"success":      false,
			"errorMessage": r.failure.Message,
		}
	}
	return map[string]any{
		"success": true,
		"data":    r.value,
	}
}

// MarshalJSON implements json.Marshaler
func (r Result[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Payload())
}
