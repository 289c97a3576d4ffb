package domain

import (
	"fmt"
	"sort"
	"sync"
)

// Switchboard is a node in the trunk graph. It owns its local phones and
// records trunk neighbours by area code.
//
// AddTrunk only maintains this board's side of a trunk. Keeping trunks
// mutual is the network's responsibility.
type Switchboard struct {
	mu       sync.RWMutex
	areaCode int
	trunks   map[int]struct{}
	phones   map[int]*Phone
}

// NewSwitchboard creates a switchboard with no trunks and no phones
func NewSwitchboard(areaCode int) *Switchboard {
	return &Switchboard{
		areaCode: areaCode,
		trunks:   make(map[int]struct{}),
		phones:   make(map[int]*Phone),
	}
}

// AreaCode returns the switchboard's area code
func (s *Switchboard) AreaCode() int {
	return s.areaCode
}

// AddPhone creates a local phone with the given number
func (s *Switchboard) AddPhone(number int) (*Phone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.phones[number]; exists {
		return nil, fmt.Errorf("%w: phone %d-%d", ErrDuplicate, s.areaCode, number)
	}

	phone := &Phone{Number: number, AreaCode: s.areaCode}
	s.phones[number] = phone
	return phone, nil
}

// AddTrunk adds a trunk from this switchboard to the one with areaCode
func (s *Switchboard) AddTrunk(areaCode int) error {
	if areaCode == s.areaCode {
		return fmt.Errorf("%w: switchboard %d cannot trunk to itself", ErrInvalidOperation, areaCode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.trunks[areaCode]; exists {
		return fmt.Errorf("%w: trunk %d-%d", ErrDuplicate, s.areaCode, areaCode)
	}
	s.trunks[areaCode] = struct{}{}
	return nil
}

// HasTrunk reports whether a trunk to areaCode exists
func (s *Switchboard) HasTrunk(areaCode int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.trunks[areaCode]
	return ok
}

// Trunks returns the sorted area codes of trunk neighbours
func (s *Switchboard) Trunks() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trunks := make([]int, 0, len(s.trunks))
	for code := range s.trunks {
		trunks = append(trunks, code)
	}
	sort.Ints(trunks)
	return trunks
}

// Phone returns a copy of the phone with the given number
func (s *Switchboard) Phone(number int) (Phone, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.phones[number]
	if !ok {
		return Phone{}, false
	}
	return p.snapshot(), true
}

// Phones returns copies of all local phones ordered by number
func (s *Switchboard) Phones() []Phone {
	s.mu.RLock()
	defer s.mu.RUnlock()

	phones := make([]Phone, 0, len(s.phones))
	for _, p := range s.phones {
		phones = append(phones, p.snapshot())
	}
	sort.Slice(phones, func(i, j int) bool { return phones[i].Number < phones[j].Number })
	return phones
}

// PhoneNumbers returns the sorted local phone numbers
func (s *Switchboard) PhoneNumbers() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	numbers := make([]int, 0, len(s.phones))
	for number := range s.phones {
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)
	return numbers
}

// snapshot copies the phone, including its connection, so callers never
// share mutable state with the switchboard. The owning board must be locked.
func (p *Phone) snapshot() Phone {
	cp := Phone{Number: p.Number, AreaCode: p.AreaCode}
	if p.connection != nil {
		peer := *p.connection
		cp.connection = &peer
	}
	return cp
}
