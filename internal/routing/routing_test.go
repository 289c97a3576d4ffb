package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// adjacency is an in-memory undirected trunk graph for tests.
type adjacency map[int][]int

func (a adjacency) Trunks(code int) ([]int, bool) {
	n, ok := a[code]
	return n, ok
}

func link(edges ...[2]int) adjacency {
	g := adjacency{}
	for _, e := range edges {
		g[e[0]] = append(g[e[0]], e[1])
		g[e[1]] = append(g[e[1]], e[0])
	}
	return g
}

var strategies = []Strategy{BreadthFirst, DepthFirst}

func TestFindDirectNeighbor(t *testing.T) {
	g := link([2]int{410, 510})
	for _, s := range strategies {
		t.Run(string(s), func(t *testing.T) {
			res, err := Find(context.Background(), g, 410, 510, WithStrategy(s))
			require.NoError(t, err)
			assert.Equal(t, []int{410, 510}, res.Path)
			assert.Equal(t, 1, res.Hops())
		})
	}
}

func TestFindTransitive(t *testing.T) {
	// 410 - 510 - 610, no direct trunk 410 - 610
	g := link([2]int{410, 510}, [2]int{510, 610})
	for _, s := range strategies {
		t.Run(string(s), func(t *testing.T) {
			res, err := Find(context.Background(), g, 410, 610, WithStrategy(s))
			require.NoError(t, err)
			assert.Equal(t, []int{410, 510, 610}, res.Path)
		})
	}
}

func TestFindCycleWithoutTarget(t *testing.T) {
	// triangle A-B-C-A, D isolated
	g := link([2]int{1, 2}, [2]int{2, 3}, [2]int{3, 1})
	g[4] = nil

	for _, s := range strategies {
		t.Run(string(s), func(t *testing.T) {
			visits := 0
			_, err := Find(context.Background(), g, 1, 4, WithStrategy(s),
				WithOnVisit(func(int, int) error {
					visits++
					return nil
				}))
			require.ErrorIs(t, err, ErrUnreachable)
			assert.Equal(t, 3, visits, "each board in the triangle is expanded once")
		})
	}
}

func TestFindSameSwitchboard(t *testing.T) {
	g := adjacency{410: nil}
	res, err := Find(context.Background(), g, 410, 410)
	require.NoError(t, err)
	assert.Equal(t, []int{410}, res.Path)
	assert.Equal(t, 0, res.Hops())
}

func TestFindUnknownEndpoints(t *testing.T) {
	g := link([2]int{410, 510})

	_, err := Find(context.Background(), g, 999, 510)
	assert.ErrorIs(t, err, ErrStartNotFound)

	_, err = Find(context.Background(), g, 410, 999)
	assert.ErrorIs(t, err, ErrTargetNotFound)

	_, err = Find(context.Background(), nil, 410, 510)
	assert.ErrorIs(t, err, ErrGraphNil)
}

func TestFindBreadthFirstShortest(t *testing.T) {
	// long way 1-2-3-4-5, shortcut 1-6-5
	g := link([2]int{1, 2}, [2]int{2, 3}, [2]int{3, 4}, [2]int{4, 5}, [2]int{1, 6}, [2]int{6, 5})

	res, err := Find(context.Background(), g, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 6, 5}, res.Path)
}

func TestFindMaxHops(t *testing.T) {
	g := link([2]int{1, 2}, [2]int{2, 3}, [2]int{3, 4}, [2]int{4, 5}, [2]int{1, 6}, [2]int{6, 7}, [2]int{7, 5})

	for _, s := range strategies {
		t.Run(string(s), func(t *testing.T) {
			res, err := Find(context.Background(), g, 1, 5, WithStrategy(s), WithMaxHops(3))
			require.NoError(t, err)
			assert.LessOrEqual(t, res.Hops(), 3)

			_, err = Find(context.Background(), g, 1, 5, WithStrategy(s), WithMaxHops(2))
			assert.ErrorIs(t, err, ErrUnreachable)
		})
	}
}

func TestFindDepthFirstRevisitsUnderHopLimit(t *testing.T) {
	// DFS walks 1-2-3-4 first and expands 4 at three hops, where the limit
	// stops it; 4 must be expanded again when reached directly from 1.
	g := adjacency{
		1: {2, 4},
		2: {1, 3},
		3: {2, 4},
		4: {3, 1, 5},
		5: {4},
	}
	res, err := Find(context.Background(), g, 1, 5, WithStrategy(DepthFirst), WithMaxHops(3))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 5}, res.Path)
	assert.Equal(t, []int{1, 2, 3, 4, 4}, res.Visited)

	// Without a limit every switchboard is expanded once.
	res, err = Find(context.Background(), g, 1, 5, WithStrategy(DepthFirst))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, res.Path)
	assert.Equal(t, []int{1, 2, 3, 4}, res.Visited)
}

func TestFindOptions(t *testing.T) {
	g := link([2]int{1, 2})

	_, err := Find(context.Background(), g, 1, 2, WithMaxHops(-1))
	assert.ErrorIs(t, err, ErrOptionViolation)

	_, err = Find(context.Background(), g, 1, 2, WithStrategy("astar"))
	assert.ErrorIs(t, err, ErrOptionViolation)

	assert.Equal(t, DepthFirst, ParseStrategy("dfs"))
	assert.Equal(t, BreadthFirst, ParseStrategy(""))
}

func TestFindOnVisitAborts(t *testing.T) {
	g := link([2]int{1, 2}, [2]int{2, 3})
	stop := errors.New("stop")

	for _, s := range strategies {
		t.Run(string(s), func(t *testing.T) {
			_, err := Find(context.Background(), g, 1, 3, WithStrategy(s),
				WithOnVisit(func(code, _ int) error {
					if code == 2 {
						return stop
					}
					return nil
				}))
			assert.ErrorIs(t, err, stop)
		})
	}
}

func TestFindCancelled(t *testing.T) {
	g := link([2]int{1, 2}, [2]int{2, 3})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, s := range strategies {
		_, err := Find(ctx, g, 1, 3, WithStrategy(s))
		assert.ErrorIs(t, err, context.Canceled)
	}
}
