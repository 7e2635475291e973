package grid

import (
	"container/heap"

	"github.com/cory-johannsen/skirmish/internal/game/geom"
)

// MovementRange returns every cell reachable from start within the given
// speed budget, mapped to its cheapest accumulated entry cost. Entering a
// floor or door cell costs 1, a crate cell costs 2; walls and occupied
// cells are impassable. The start cell is excluded.
//
// This is a uniform-cost (Dijkstra) expansion over the 8-connected grid,
// not plain BFS: once terrain costs vary, a cell first reached through a
// crate may later be reached cheaper around it, so the frontier must be
// cost-ordered.
//
// Precondition: g must be non-nil; start must be in bounds; speed >= 0.
// Postcondition: every key has cost in [1, speed]; start is absent.
func MovementRange(g *Grid, start geom.Point, speed int, occupied map[geom.Point]bool) map[geom.Point]int {
	reach := make(map[geom.Point]int)
	if speed <= 0 {
		return reach
	}

	best := map[geom.Point]int{start: 0}
	frontier := &costHeap{{pos: start, cost: 0}}

	for frontier.Len() > 0 {
		cur := heap.Pop(frontier).(costNode)
		if cur.cost > best[cur.pos] {
			continue // stale entry superseded by a cheaper path
		}
		for _, n := range geom.Adjacent(cur.pos, g.width, g.height) {
			t := g.At(n)
			if t.BlocksMove() || occupied[n] {
				continue
			}
			cost := cur.cost + t.MoveCost()
			if cost > speed {
				continue
			}
			if prev, ok := best[n]; ok && prev <= cost {
				continue
			}
			best[n] = cost
			reach[n] = cost
			heap.Push(frontier, costNode{pos: n, cost: cost})
		}
	}
	return reach
}

type costNode struct {
	pos  geom.Point
	cost int
}

// costHeap is a min-heap of frontier nodes ordered by accumulated cost.
type costHeap []costNode

func (h costHeap) Len() int            { return len(h) }
func (h costHeap) Less(i, j int) bool  { return h[i].cost < h[j].cost }
func (h costHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *costHeap) Push(x any) { *h = append(*h, x.(costNode)) }
func (h *costHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
