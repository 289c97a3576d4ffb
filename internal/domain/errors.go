package domain

import "errors"

// Error kinds shared by every layer. Operations wrap these with context, so
// callers should test with errors.Is.
var (
	// ErrDuplicate indicates the switchboard, phone or trunk already exists.
	ErrDuplicate = errors.New("already exists")
	// ErrNotFound indicates an area code or phone number could not be resolved.
	ErrNotFound = errors.New("not found")
	// ErrInvalidOperation covers self-connections, identical call endpoints and
	// ending a call on an idle phone.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrBusy indicates a phone taking part in a call is already connected.
	ErrBusy = errors.New("phone is busy")
	// ErrUnreachable indicates no trunk path joins the two switchboards.
	ErrUnreachable = errors.New("no trunk route")
	// ErrIO indicates a persisted snapshot could not be read or written.
	ErrIO = errors.New("i/o failure")
	// ErrFormat indicates a persisted snapshot is malformed.
	ErrFormat = errors.New("malformed snapshot")
)
