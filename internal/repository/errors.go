// Package repository defines error types that are reused across
// multiple repositories.  These sentinel values allow higher layers
// such as services and handlers to distinguish between failure
// scenarios: ErrEventNotFound maps to HTTP 404, ErrForbidden to 403,
// ErrTxConflict signals a serialization failure (deadlock or lock
// wait timeout) that the caller may retry.
package repository

import "errors"

// ErrEventNotFound is returned when an event id does not resolve.
var ErrEventNotFound = errors.New("event not found")

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own, e.g. editing another organizer's
// event.  Handlers translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrTxConflict is returned when a transaction was aborted by the
// database because of a conflicting concurrent commit.  The whole
// read-merge-write sequence may be retried from the start.
var ErrTxConflict = errors.New("transaction conflict")
