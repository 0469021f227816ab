// Package normalize turns raw API answers and call errors into results with
// uniform, user-facing messages.
package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/s0up4200/listnode/remote"
	"github.com/s0up4200/listnode/result"
)

// Decoder maps a successful response to an output value
type Decoder[T any] func(resp *remote.Response) (T, error)

// Response resolves the outcome of one API call. err is the error returned
// by the call, if any; a response whose body carries an error marker is a
// failure even with a 2xx status.
func Response[T any](resp *remote.Response, err error, decode Decoder[T]) result.Result[T] {
	if err != nil {
		return result.Err[T](Error(err))
	}
	if resp == nil {
		return result.Err[T](result.Fail(result.RequestFailed, "empty response from API"))
	}
	if marker, ok := Marker(resp.Body); ok {
		return result.Err[T](FromMarker(marker))
	}

	v, err := decode(resp)
	if err != nil {
		return result.Err[T](result.Wrap(result.RequestFailed, err))
	}
	return result.Ok(v)
}

// Value is a Decoder returning the body as generic Go values
func Value(resp *remote.Response) (any, error) {
	return resp.Value(), nil
}

// Into returns a Decoder that unmarshals the body into T
func Into[T any]() Decoder[T] {
	return func(resp *remote.Response) (T, error) {
		var v T
		err := resp.Decode(&v)
		return v, err
	}
}

// Error classifies an error raised while talking to the API. Transport
// errors whose body carries an error marker are resolved like an in-body
// error; other transport errors keep their transport message.
func Error(err error) *result.Failure {
	var f *result.Failure
	if errors.As(err, &f) {
		return f
	}

	var te *remote.TransportError
	if errors.As(err, &te) {
		if marker, ok := Marker(te.Body); ok {
			f := FromMarker(marker)
			f.Err = te
			return f
		}
		return result.Wrap(result.TransportError, te)
	}

	return result.Wrap(result.RequestFailed, err)
}

// Marker finds the error marker in a JSON body: a non-empty "error" or
// "errors" member of a top-level object.
func Marker(body []byte) (gjson.Result, bool) {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return gjson.Result{}, false
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return gjson.Result{}, false
	}

	for _, key := range []string{"error", "errors"} {
		if m := root.Get(key); present(m) {
			return m, true
		}
	}
	return gjson.Result{}, false
}

func present(m gjson.Result) bool {
	if !m.Exists() {
		return false
	}
	switch m.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return m.Int() != 0
	case gjson.String:
		return strings.TrimSpace(m.Str) != ""
	}
	if m.IsArray() {
		return len(m.Array()) > 0
	}
	return true
}

// FromMarker turns an error marker into a classified failure
func FromMarker(m gjson.Result) *result.Failure {
	switch {
	case m.IsArray():
		items := m.Array()
		if len(items) == 0 {
			return result.Fail(result.APIError, Message("unknown"))
		}
		return FromMarker(items[0])

	case m.IsObject():
		if m.Get("field").Exists() || m.Get("reason").Exists() {
			return validationFailure(result.Validation{
				Field:  m.Get("field").String(),
				Name:   m.Get("name").String(),
				Reason: m.Get("reason").String(),
			})
		}
		if code := m.Get("code"); code.Exists() {
			return codeFailure(code.String())
		}
		if msg := m.Get("message"); msg.Exists() {
			return result.Fail(result.APIError, "%s", msg.String())
		}
		return codeFailure(m.Raw)

	case m.Type == gjson.Number:
		return codeFailure(m.Raw)

	case m.Type == gjson.String:
		if _, err := strconv.Atoi(m.Str); err == nil {
			return codeFailure(m.Str)
		}
		return result.Fail(result.APIError, "%s", m.Str)
	}

	return codeFailure(m.Raw)
}

// ValidationMessage formats a structured field rejection
func ValidationMessage(v result.Validation) string {
	return fmt.Sprintf(`Validation error: %s "%s" %s`, v.Field, v.Name, v.Reason)
}

func validationFailure(v result.Validation) *result.Failure {
	return &result.Failure{
		Kind:       result.ValidationFailed,
		Message:    ValidationMessage(v),
		Validation: &v,
	}
}

func codeFailure(code string) *result.Failure {
	kind := result.APIError
	if n, err := strconv.Atoi(code); err == nil && (n == 21 || n == 22 || n == 23) {
		kind = result.InvalidCredentials
	}
	return &result.Failure{
		Kind:    kind,
		Message: Message(code),
		Code:    code,
	}
}
