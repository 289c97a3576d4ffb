package routing

import (
	"errors"
	"fmt"
)

// Sentinel errors for route search.
var (
	// ErrGraphNil is returned if a nil graph is passed.
	ErrGraphNil = errors.New("routing: graph is nil")

	// ErrStartNotFound is returned when the origin switchboard is absent.
	ErrStartNotFound = errors.New("routing: origin switchboard not found")

	// ErrTargetNotFound is returned when the destination switchboard is absent.
	ErrTargetNotFound = errors.New("routing: destination switchboard not found")

	// ErrUnreachable is returned when no trunk route joins the two switchboards.
	ErrUnreachable = errors.New("routing: destination unreachable")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("routing: invalid option supplied")
)

// Graph is the view of the trunk network the search walks.
//
// Trunks returns the neighbours of areaCode and whether the switchboard
// exists. Implementations must be safe to call while the search runs.
type Graph interface {
	Trunks(areaCode int) ([]int, bool)
}

// Strategy selects the traversal order.
type Strategy string

const (
	BreadthFirst Strategy = "bfs"
	DepthFirst   Strategy = "dfs"
)

// ParseStrategy maps a config value onto a Strategy, defaulting to BreadthFirst
func ParseStrategy(s string) Strategy {
	switch Strategy(s) {
	case DepthFirst:
		return DepthFirst
	default:
		return BreadthFirst
	}
}

// Result is the outcome of a successful search.
type Result struct {
	// Path lists the area codes from origin to destination inclusive.
	Path []int

	// Visited lists switchboards in the order they were expanded. Without a
	// hop limit each appears at most once.
	Visited []int
}

// Hops returns the number of trunks on the path
func (r *Result) Hops() int {
	if len(r.Path) == 0 {
		return 0
	}
	return len(r.Path) - 1
}

// Option configures a search.
type Option func(*Options)

// Options holds search parameters.
type Options struct {
	Strategy Strategy

	// MaxHops, if > 0, rejects routes with more trunks than this.
	MaxHops int

	// OnVisit runs as each switchboard is expanded with its hop distance
	// from the origin. A non-nil error aborts the search.
	OnVisit func(areaCode, hops int) error

	err error
}

// DefaultOptions returns breadth-first search with no hop limit
func DefaultOptions() Options {
	return Options{
		Strategy: BreadthFirst,
		OnVisit:  func(int, int) error { return nil },
	}
}

// WithStrategy selects the traversal order
func WithStrategy(s Strategy) Option {
	return func(o *Options) {
		switch s {
		case BreadthFirst, DepthFirst:
			o.Strategy = s
		default:
			o.err = fmt.Errorf("%w: unknown strategy %q", ErrOptionViolation, s)
		}
	}
}

// WithMaxHops limits the route length in trunks. 0 disables the limit.
//
// Breadth-first search still expands each switchboard once. Depth-first
// search may expand a switchboard again when it is reached over fewer
// trunks than before, since the first, longer path can exceed the limit
// where a shorter one does not. Result.Visited then lists it more than once.
func WithMaxHops(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxHops cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxHops = n
	}
}

// WithOnVisit registers a hook run as each switchboard is expanded
func WithOnVisit(fn func(areaCode, hops int) error) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}
