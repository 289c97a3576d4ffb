package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// PhoneID identifies a phone across the whole network
type PhoneID struct {
	AreaCode int `json:"area_code"`
	Number   int `json:"number"`
}

// String renders the id as "<area>-<number>"
func (id PhoneID) String() string {
	return fmt.Sprintf("%d-%d", id.AreaCode, id.Number)
}

// Less orders ids by area code, then number
func (id PhoneID) Less(other PhoneID) bool {
	if id.AreaCode != other.AreaCode {
		return id.AreaCode < other.AreaCode
	}
	return id.Number < other.Number
}

// ParsePhoneID parses "<area>-<number>". Any further hyphenated groups are
// joined into the number, so "410-123-1111" is area 410, number 1231111.
func ParsePhoneID(s string) (PhoneID, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) < 2 {
		return PhoneID{}, fmt.Errorf("%w: phone %q must look like area-number", ErrInvalidOperation, s)
	}

	area, err := strconv.Atoi(parts[0])
	if err != nil {
		return PhoneID{}, fmt.Errorf("%w: bad area code in %q", ErrInvalidOperation, s)
	}

	number, err := strconv.Atoi(strings.Join(parts[1:], ""))
	if err != nil {
		return PhoneID{}, fmt.Errorf("%w: bad phone number in %q", ErrInvalidOperation, s)
	}

	return PhoneID{AreaCode: area, Number: number}, nil
}

// Phone is a local line hosted by a switchboard.
//
// A phone is idle when it has no connection. Connections are only changed by
// the owning switchboard while the network holds the call locks.
type Phone struct {
	Number   int
	AreaCode int

	connection *PhoneID
}

// ID returns the network-wide identifier of the phone
func (p *Phone) ID() PhoneID {
	return PhoneID{AreaCode: p.AreaCode, Number: p.Number}
}

// IsConnected reports whether the phone is in a call
func (p *Phone) IsConnected() bool {
	return p.connection != nil
}

// Peer returns the phone on the other end of the call, if any
func (p *Phone) Peer() (PhoneID, bool) {
	if p.connection == nil {
		return PhoneID{}, false
	}
	return *p.connection, true
}
