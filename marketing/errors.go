package marketing

import "errors"

// ErrContactNotFound is returned when a lookup matches no subscriber
var ErrContactNotFound = errors.New("subscriber not found")
