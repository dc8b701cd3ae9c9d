package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the store.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. empty tag, tag too long, malformed widget id).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrReadOnly is returned by service functions when a mutation is attempted
// on a widget that is locked read-only. The widget itself ignores such
// mutations; the service reports them so API callers can tell.
// Handlers should map this to HTTP 409 Conflict.
var ErrReadOnly = errors.New("widget is read-only")
