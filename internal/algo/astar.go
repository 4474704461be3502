package algo

import (
	"container/heap"

	"github.com/elektrokombinacija/gridnav/internal/core"
)

// astarNode for priority queue.
type astarNode struct {
	cell  core.Cell
	g     int    // Cost so far
	f     int    // g + h
	seq   uint64 // insertion order, breaks f ties
	index int    // heap index
}

// astarHeap implements heap.Interface.
type astarHeap []*astarNode

func (h astarHeap) Len() int { return len(h) }
func (h astarHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h astarHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *astarHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *astarHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// Heuristic estimates remaining cost from a cell to the goal.
type Heuristic func(c, goal core.Cell) int

// AStar is the informed strategy: best-first on f = g + h.
type AStar struct {
	h Heuristic
}

// NewAStar creates an A* searcher using the Manhattan heuristic, which is
// admissible and consistent for unit-cost 4-connected grids.
func NewAStar() *AStar {
	return &AStar{h: core.Manhattan}
}

func (a *AStar) Name() string { return "A*" }

func (a *AStar) Strategy() core.Strategy { return core.Heuristic }

// Search implements Searcher.
func (a *AStar) Search(g *core.Grid, start, goal core.Cell) (core.Path, Stats) {
	var stats Stats
	var seq uint64

	open := &astarHeap{}
	heap.Init(open)

	gScore := map[core.Cell]int{start: 0}
	cameFrom := make(map[core.Cell]core.Cell)

	heap.Push(open, &astarNode{cell: start, g: 0, f: a.h(start, goal), seq: seq})
	stats.Pushed++

	for open.Len() > 0 {
		current := heap.Pop(open).(*astarNode)

		if current.cell == goal {
			return reconstructPath(cameFrom, current.cell), stats
		}
		// Stale entry: a cheaper route to this cell was pushed later.
		if current.g > gScore[current.cell] {
			continue
		}
		stats.Expanded++

		for _, neighbor := range Neighbors(g, current.cell) {
			tentative := gScore[current.cell] + 1 // unit edge cost

			if best, seen := gScore[neighbor]; seen && tentative >= best {
				continue
			}
			cameFrom[neighbor] = current.cell
			gScore[neighbor] = tentative
			seq++
			heap.Push(open, &astarNode{
				cell: neighbor,
				g:    tentative,
				f:    tentative + a.h(neighbor, goal),
				seq:  seq,
			})
			stats.Pushed++
		}
	}

	return nil, stats // No path found
}

func reconstructPath(cameFrom map[core.Cell]core.Cell, end core.Cell) core.Path {
	path := core.Path{end}
	for c, ok := cameFrom[end]; ok; c, ok = cameFrom[c] {
		path = append(path, c)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
