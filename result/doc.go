// Package result holds the outcome type shared by every listnode operation.
//
// An operation ends in exactly one of two shapes: a successful value, or a
// classified Failure carrying a human-readable message. Nodes turn a Result
// into the output payload the host sees:
//
//	{"success": true, "data": ...}
//	{"success": false, "errorMessage": "..."}
//
// # Failure kinds
//
//   - MissingCredentials: login or password not configured, no call made
//   - InvalidCredentials: login answered without a session identifier pair
//   - LoginFailed: the login call itself failed at the transport level
//   - TransportError: network failure or non-2xx answer from the API
//   - ValidationFailed: the API rejected a field (field/name/reason)
//   - APIError: the API answered with a numeric error code
//   - RequestFailed: any other error raised inside an operation
//   - LogoutFailed: logged only, never returned as an outcome
//   - InvalidInput: a node input was missing or malformed, no call made
package result
