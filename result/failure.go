package result

import (
	"errors"
	"fmt"
)

// Kind classifies a failed operation
type Kind int

const (
	// KindUnknown is the zero value and never produced on purpose
	KindUnknown Kind = iota
	MissingCredentials
	InvalidCredentials
	LoginFailed
	TransportError
	ValidationFailed
	APIError
	RequestFailed
	LogoutFailed
	InvalidInput
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case MissingCredentials:
		return "MissingCredentials"
	case InvalidCredentials:
		return "InvalidCredentials"
	case LoginFailed:
		return "LoginFailed"
	case TransportError:
		return "TransportError"
	case ValidationFailed:
		return "ValidationFailed"
	case APIError:
		return "APIError"
	case RequestFailed:
		return "RequestFailed"
	case LogoutFailed:
		return "LogoutFailed"
	case InvalidInput:
		return "InvalidInput"
	default:
		return "Unknown"
	}
}

// Validation is a structured field rejection reported by the API
type Validation struct {
	Field  string `json:"field"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Failure is a classified operation error
type Failure struct {
	Kind       Kind
	Message    string
	Code       string
	Validation *Validation
	Err        error
}

// Error implements the error interface
func (f *Failure) Error() string {
	return f.Message
}

// Unwrap returns the underlying cause, if any
func (f *Failure) Unwrap() error {
	return f.Err
}

// Fail creates a failure of the given kind
func Fail(kind Kind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err under kind, keeping err's text as the message
func Wrap(kind Kind, err error) *Failure {
	if err == nil {
		return &Failure{Kind: kind, Message: kind.String()}
	}
	return &Failure{Kind: kind, Message: err.Error(), Err: err}
}

// From returns the Failure inside err, or wraps err under fallback when err
// has not been classified yet.
func From(err error, fallback Kind) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return Wrap(fallback, err)
}

// IsKind reports whether err is a Failure of the given kind
func IsKind(err error, kind Kind) bool {
	var f *Failure
	return errors.As(err, &f) && f.Kind == kind
}
