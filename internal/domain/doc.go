// Package domain defines the core types of the phonenet telephone network.
//
// # Core Types
//
// Switchboard is a node in the trunk graph, identified by its area code. It
// owns a set of local phones and records its trunk neighbours by area code,
// never by pointer, so the network remains the single owner of every board.
//
// Phone is a local line identified by a number unique within its board. A
// phone is either idle or connected to exactly one peer, referenced by
// PhoneID.
//
// Call records an active or finished connection between two phones together
// with the trunk route it was established over.
//
// Topology is the persisted snapshot of a network: area codes, trunks and
// phone numbers. It never includes call state.
//
// # Call State
//
// Connect and Hangup are the only operations that change a phone's
// connection. Both lock the two switchboards involved in ascending area-code
// order and change both phones or neither.
//
// # Errors
//
// Every failure wraps one of the sentinel kinds in errors.go (ErrDuplicate,
// ErrNotFound, ErrInvalidOperation, ErrBusy, ErrUnreachable, ErrIO,
// ErrFormat) and should be tested with errors.Is.
package domain
