package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Call records a connection between two phones
type Call struct {
	ID        uuid.UUID  `json:"id"`
	Caller    PhoneID    `json:"caller"`
	Callee    PhoneID    `json:"callee"`
	Route     []int      `json:"route"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// NewCall creates an active call record
func NewCall(caller, callee PhoneID, route []int, at time.Time) *Call {
	return &Call{
		ID:        uuid.New(),
		Caller:    caller,
		Callee:    callee,
		Route:     append([]int(nil), route...),
		StartedAt: at,
	}
}

// Clone returns a deep copy, so the record can be handed out while the
// original keeps changing.
func (c *Call) Clone() *Call {
	cp := *c
	cp.Route = append([]int(nil), c.Route...)
	if c.EndedAt != nil {
		ended := *c.EndedAt
		cp.EndedAt = &ended
	}
	return &cp
}

// Active reports whether the call has not ended
func (c *Call) Active() bool {
	return c.EndedAt == nil
}

// Involves reports whether id is one of the call's endpoints
func (c *Call) Involves(id PhoneID) bool {
	return c.Caller == id || c.Callee == id
}

// End marks the call as finished
func (c *Call) End(at time.Time) {
	if c.EndedAt == nil {
		c.EndedAt = &at
	}
}

// Duration returns the call length so far, or in total once ended
func (c *Call) Duration(now time.Time) time.Duration {
	if c.EndedAt != nil {
		return c.EndedAt.Sub(c.StartedAt)
	}
	return now.Sub(c.StartedAt)
}

// lockPair locks a and b in ascending area-code order, once if they are the
// same board, and returns the matching unlock.
func lockPair(a, b *Switchboard) func() {
	if a == b {
		a.mu.Lock()
		return a.mu.Unlock
	}
	first, second := a, b
	if second.areaCode < first.areaCode {
		first, second = second, first
	}
	first.mu.Lock()
	second.mu.Lock()
	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}

// Connect puts phone na on board a and phone nb on board b into a call with
// each other. Either both phones change state or neither does.
func Connect(a *Switchboard, na int, b *Switchboard, nb int) error {
	if a == b && na == nb {
		return fmt.Errorf("%w: phone %d-%d cannot call itself", ErrInvalidOperation, a.areaCode, na)
	}

	unlock := lockPair(a, b)
	defer unlock()

	pa, ok := a.phones[na]
	if !ok {
		return fmt.Errorf("%w: phone %d-%d", ErrNotFound, a.areaCode, na)
	}
	pb, ok := b.phones[nb]
	if !ok {
		return fmt.Errorf("%w: phone %d-%d", ErrNotFound, b.areaCode, nb)
	}

	if pa.connection != nil {
		return fmt.Errorf("%w: %s is connected to %s", ErrBusy, pa.ID(), pa.connection)
	}
	if pb.connection != nil {
		return fmt.Errorf("%w: %s is connected to %s", ErrBusy, pb.ID(), pb.connection)
	}

	idA, idB := pa.ID(), pb.ID()
	pa.connection = &idB
	pb.connection = &idA
	return nil
}

// Hangup ends the call phone number on board a is in, returning the peer that
// was disconnected. resolve looks up the peer's switchboard.
func Hangup(a *Switchboard, number int, resolve func(areaCode int) (*Switchboard, bool)) (PhoneID, error) {
	a.mu.RLock()
	p, ok := a.phones[number]
	var peer PhoneID
	connected := ok && p.connection != nil
	if connected {
		peer = *p.connection
	}
	a.mu.RUnlock()

	if !ok {
		return PhoneID{}, fmt.Errorf("%w: phone %d-%d", ErrNotFound, a.areaCode, number)
	}
	if !connected {
		return PhoneID{}, fmt.Errorf("%w: phone %d-%d is idle", ErrInvalidOperation, a.areaCode, number)
	}

	b, ok := resolve(peer.AreaCode)
	if !ok {
		return PhoneID{}, fmt.Errorf("%w: switchboard %d of peer %s", ErrNotFound, peer.AreaCode, peer)
	}

	unlock := lockPair(a, b)
	defer unlock()

	// The call may have changed between the two lock acquisitions.
	if p.connection == nil || *p.connection != peer {
		return PhoneID{}, fmt.Errorf("%w: phone %d-%d is idle", ErrInvalidOperation, a.areaCode, number)
	}

	p.connection = nil
	if pb, ok := b.phones[peer.Number]; ok && pb.connection != nil && *pb.connection == p.ID() {
		pb.connection = nil
	}
	return peer, nil
}
