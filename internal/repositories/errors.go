package repositories

import "errors"

// ErrNotFound is wrapped by lookups that match nothing.
var ErrNotFound = errors.New("not found")
