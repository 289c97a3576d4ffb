// Package routing decides whether a call can be carried between two
// switchboards over the trunk graph.
//
// The trunk graph is undirected and may contain cycles or components that are
// disconnected from the target. Both search strategies keep a visited set
// keyed by area code, so every switchboard is expanded at most once (see
// WithMaxHops for the one exception) and the search terminates on any finite
// graph.
//
// Strategies:
//
//   - BreadthFirst (default): returns a path with the fewest trunk hops.
//   - DepthFirst: recursive walk that carries the codes already tried, the
//     same shape as routing a call board-to-board.
//
// Options:
//
//   - WithStrategy(s)     selects the search strategy.
//   - WithMaxHops(n)      rejects routes longer than n trunks (0 = unlimited).
//     Depth-first search may then expand a switchboard more than once.
//   - WithOnVisit(fn)     hook run as each switchboard is expanded; an error aborts.
//
// Errors:
//
//   - ErrGraphNil          if the graph is nil.
//   - ErrStartNotFound     if the origin is not in the graph.
//   - ErrTargetNotFound    if the destination is not in the graph.
//   - ErrUnreachable       if no route exists within the limits.
//   - ErrOptionViolation   for invalid options.
//   - context.Canceled     if ctx is done.
package routing
