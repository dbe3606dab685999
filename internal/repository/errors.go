// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.  For
// example, ErrForbidden indicates that the current user is not
// authorized to read a booking owned by someone else, while
// ErrConflict signals that an operation cannot proceed because of
// existing dependent records.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own.  Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot be performed because
// of conflicting state, such as scheduling a show in a slot that is
// already taken.  Handlers should translate this into HTTP 409.
var ErrConflict = errors.New("conflict")
