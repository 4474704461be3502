package algo

import (
	"container/heap"

	"github.com/elektrokombinacija/gridnav/internal/core"
)

// ucsEntry carries the full path so far; no back-pointers are kept.
type ucsEntry struct {
	cost int
	cell core.Cell
	path core.Path
	seq  uint64
}

type ucsHeap []ucsEntry

func (h ucsHeap) Len() int { return len(h) }
func (h ucsHeap) Less(i, j int) bool {
	if h[i].cost != h[j].cost {
		return h[i].cost < h[j].cost
	}
	return h[i].seq < h[j].seq
}
func (h ucsHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *ucsHeap) Push(x any)   { *h = append(*h, x.(ucsEntry)) }
func (h *ucsHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = ucsEntry{}
	*h = old[0 : n-1]
	return x
}

// UCS is the uninformed strategy: uniform-cost search, A* with h = 0.
type UCS struct{}

// NewUCS creates a uniform-cost searcher.
func NewUCS() *UCS { return &UCS{} }

func (u *UCS) Name() string { return "UCS" }

func (u *UCS) Strategy() core.Strategy { return core.LeastCost }

// Search implements Searcher. A cell is finalized the first time it is
// popped; the goal is detected at pop time.
func (u *UCS) Search(g *core.Grid, start, goal core.Cell) (core.Path, Stats) {
	var stats Stats
	var seq uint64

	queue := &ucsHeap{{cost: 0, cell: start, path: core.Path{start}}}
	heap.Init(queue)
	stats.Pushed++

	visited := make(map[core.Cell]bool)

	for queue.Len() > 0 {
		e := heap.Pop(queue).(ucsEntry)
		if visited[e.cell] {
			continue
		}
		visited[e.cell] = true

		if e.cell == goal {
			return e.path, stats
		}
		stats.Expanded++

		for _, neighbor := range Neighbors(g, e.cell) {
			if visited[neighbor] {
				continue
			}
			next := make(core.Path, len(e.path), len(e.path)+1)
			copy(next, e.path)
			seq++
			heap.Push(queue, ucsEntry{
				cost: e.cost + 1,
				cell: neighbor,
				path: append(next, neighbor),
				seq:  seq,
			})
			stats.Pushed++
		}
	}
	return nil, stats
}
