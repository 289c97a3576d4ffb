package domain

import (
	"fmt"
	"sort"
)

// SwitchboardRecord is the persisted form of one switchboard
type SwitchboardRecord struct {
	Trunks []int `json:"trunks,omitempty" yaml:"trunks,omitempty"`
	Phones []int `json:"phones,omitempty" yaml:"phones,omitempty"`
}

// Topology is a persisted snapshot of a network keyed by area code. It never
// carries call state.
type Topology struct {
	Switchboards map[int]SwitchboardRecord
}

// NewTopology creates an empty topology
func NewTopology() *Topology {
	return &Topology{Switchboards: make(map[int]SwitchboardRecord)}
}

// AddSwitchboard records a switchboard if it is not already present
func (t *Topology) AddSwitchboard(areaCode int) {
	if t.Switchboards == nil {
		t.Switchboards = make(map[int]SwitchboardRecord)
	}
	if _, ok := t.Switchboards[areaCode]; !ok {
		t.Switchboards[areaCode] = SwitchboardRecord{}
	}
}

// AddTrunk records both directions of a trunk, creating either board as needed
func (t *Topology) AddTrunk(a, b int) {
	t.AddSwitchboard(a)
	t.AddSwitchboard(b)
	t.addDirected(a, b)
	t.addDirected(b, a)
}

func (t *Topology) addDirected(from, to int) {
	rec := t.Switchboards[from]
	for _, existing := range rec.Trunks {
		if existing == to {
			return
		}
	}
	rec.Trunks = append(rec.Trunks, to)
	t.Switchboards[from] = rec
}

// AddPhone records a phone on a switchboard, creating the board as needed
func (t *Topology) AddPhone(areaCode, number int) {
	t.AddSwitchboard(areaCode)
	rec := t.Switchboards[areaCode]
	for _, existing := range rec.Phones {
		if existing == number {
			return
		}
	}
	rec.Phones = append(rec.Phones, number)
	t.Switchboards[areaCode] = rec
}

// AreaCodes returns the sorted area codes in the snapshot
func (t *Topology) AreaCodes() []int {
	codes := make([]int, 0, len(t.Switchboards))
	for code := range t.Switchboards {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// Validate checks the snapshot can be applied to a network
func (t *Topology) Validate() error {
	for code, rec := range t.Switchboards {
		for _, trunk := range rec.Trunks {
			if trunk == code {
				return fmt.Errorf("%w: switchboard %d lists a trunk to itself", ErrFormat, code)
			}
		}
		seen := make(map[int]struct{}, len(rec.Phones))
		for _, number := range rec.Phones {
			if _, dup := seen[number]; dup {
				return fmt.Errorf("%w: switchboard %d lists phone %d twice", ErrFormat, code, number)
			}
			seen[number] = struct{}{}
		}
	}
	return nil
}

// Normalize returns a canonical copy: every trunk recorded in both
// directions, referenced boards present, and all lists sorted.
func (t *Topology) Normalize() *Topology {
	out := NewTopology()
	for _, code := range t.AreaCodes() {
		rec := t.Switchboards[code]
		out.AddSwitchboard(code)
		for _, trunk := range rec.Trunks {
			if trunk != code {
				out.AddTrunk(code, trunk)
			}
		}
		for _, number := range rec.Phones {
			out.AddPhone(code, number)
		}
	}
	for code, rec := range out.Switchboards {
		sort.Ints(rec.Trunks)
		sort.Ints(rec.Phones)
		out.Switchboards[code] = rec
	}
	return out
}

// Edges returns each trunk once as an ordered pair (low, high), sorted
func (t *Topology) Edges() [][2]int {
	var edges [][2]int
	seen := make(map[[2]int]struct{})
	for code, rec := range t.Switchboards {
		for _, trunk := range rec.Trunks {
			e := [2]int{code, trunk}
			if e[0] > e[1] {
				e[0], e[1] = e[1], e[0]
			}
			if _, ok := seen[e]; ok || e[0] == e[1] {
				continue
			}
			seen[e] = struct{}{}
			edges = append(edges, e)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})
	return edges
}
