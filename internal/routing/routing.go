package routing

import (
	"context"
	"fmt"
)

// Find searches g for a trunk route from one switchboard to another.
// Returns ErrUnreachable when none exists within the configured limits.
func Find(ctx context.Context, g Graph, from, to int, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	if _, ok := g.Trunks(from); !ok {
		return nil, fmt.Errorf("%w: %d", ErrStartNotFound, from)
	}
	if _, ok := g.Trunks(to); !ok {
		return nil, fmt.Errorf("%w: %d", ErrTargetNotFound, to)
	}

	if from == to {
		if err := o.OnVisit(from, 0); err != nil {
			return nil, fmt.Errorf("routing: OnVisit error at %d: %w", from, err)
		}
		return &Result{Path: []int{from}, Visited: []int{from}}, nil
	}

	switch o.Strategy {
	case DepthFirst:
		return newDepthWalker(ctx, g, o, to).run(from)
	default:
		return newBreadthWalker(ctx, g, o, to).run(from)
	}
}

// queueItem pairs an area code with its hop distance from the origin.
type queueItem struct {
	code int
	hops int
}

// breadthWalker holds mutable breadth-first state.
type breadthWalker struct {
	ctx     context.Context
	graph   Graph
	opts    Options
	target  int
	queue   []queueItem
	visited map[int]bool
	parent  map[int]int
	res     *Result
}

func newBreadthWalker(ctx context.Context, g Graph, o Options, target int) *breadthWalker {
	return &breadthWalker{
		ctx:     ctx,
		graph:   g,
		opts:    o,
		target:  target,
		visited: make(map[int]bool),
		parent:  make(map[int]int),
		res:     &Result{},
	}
}

func (w *breadthWalker) run(start int) (*Result, error) {
	w.visited[start] = true
	w.queue = append(w.queue, queueItem{code: start})

	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return nil, w.ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]

		w.res.Visited = append(w.res.Visited, item.code)
		if err := w.opts.OnVisit(item.code, item.hops); err != nil {
			return nil, fmt.Errorf("routing: OnVisit error at %d: %w", item.code, err)
		}

		neighbors, ok := w.graph.Trunks(item.code)
		if !ok {
			continue
		}
		next := item.hops + 1
		if w.opts.MaxHops > 0 && next > w.opts.MaxHops {
			continue
		}
		for _, nbr := range neighbors {
			if w.visited[nbr] {
				continue
			}
			w.visited[nbr] = true
			w.parent[nbr] = item.code
			if nbr == w.target {
				w.res.Path = w.path(start)
				return w.res, nil
			}
			w.queue = append(w.queue, queueItem{code: nbr, hops: next})
		}
	}
	return nil, ErrUnreachable
}

// path walks parent links back from the target.
func (w *breadthWalker) path(start int) []int {
	var rev []int
	for code := w.target; ; code = w.parent[code] {
		rev = append(rev, code)
		if code == start {
			break
		}
	}
	path := make([]int, len(rev))
	for i, code := range rev {
		path[len(rev)-1-i] = code
	}
	return path
}

// depthWalker holds mutable depth-first state. best records the fewest hops
// at which each switchboard has been expanded; without a hop limit the first
// expansion is final.
type depthWalker struct {
	ctx    context.Context
	graph  Graph
	opts   Options
	target int
	best   map[int]int
	stack  []int
	res    *Result
}

func newDepthWalker(ctx context.Context, g Graph, o Options, target int) *depthWalker {
	return &depthWalker{
		ctx:    ctx,
		graph:  g,
		opts:   o,
		target: target,
		best:   make(map[int]int),
		res:    &Result{},
	}
}

func (w *depthWalker) run(start int) (*Result, error) {
	found, err := w.walk(start, 0)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrUnreachable
	}
	return w.res, nil
}

func (w *depthWalker) walk(code, hops int) (bool, error) {
	select {
	case <-w.ctx.Done():
		return false, w.ctx.Err()
	default:
	}

	w.best[code] = hops
	w.stack = append(w.stack, code)
	w.res.Visited = append(w.res.Visited, code)
	if err := w.opts.OnVisit(code, hops); err != nil {
		return false, fmt.Errorf("routing: OnVisit error at %d: %w", code, err)
	}

	neighbors, ok := w.graph.Trunks(code)
	next := hops + 1
	if ok && (w.opts.MaxHops == 0 || next <= w.opts.MaxHops) {
		for _, nbr := range neighbors {
			if nbr == w.target {
				w.res.Path = append(append([]int(nil), w.stack...), nbr)
				return true, nil
			}
		}
		for _, nbr := range neighbors {
			if !w.shouldExpand(nbr, next) {
				continue
			}
			found, err := w.walk(nbr, next)
			if err != nil || found {
				return found, err
			}
		}
	}

	w.stack = w.stack[:len(w.stack)-1]
	return false, nil
}

func (w *depthWalker) shouldExpand(code, hops int) bool {
	prev, seen := w.best[code]
	if !seen {
		return true
	}
	return w.opts.MaxHops > 0 && hops < prev
}
