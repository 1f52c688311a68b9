package repositories

import "errors"

// ErrNotFound is returned (wrapped) when a lookup matches no record.
// Handlers map it to a 404-style response.
var ErrNotFound = errors.New("record not found")
