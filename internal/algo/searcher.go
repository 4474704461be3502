// Package algo implements the grid searches used to reach tasks.
package algo

import (
	"fmt"

	"github.com/elektrokombinacija/gridnav/internal/core"
)

// Searcher finds a shortest start→goal path on a grid.
type Searcher interface {
	// Search returns the path from start to goal, both inclusive, or nil
	// if the goal is unreachable.
	Search(g *core.Grid, start, goal core.Cell) (core.Path, Stats)

	// Name returns the algorithm name.
	Name() string

	// Strategy returns the strategy this searcher implements.
	Strategy() core.Strategy
}

// Stats counts search work.
type Stats struct {
	Expanded int `json:"expanded"` // Cells popped and expanded
	Pushed   int `json:"pushed"`   // Queue insertions
}

// Add returns the element-wise sum.
func (s Stats) Add(o Stats) Stats {
	return Stats{Expanded: s.Expanded + o.Expanded, Pushed: s.Pushed + o.Pushed}
}

// New returns the searcher for a strategy.
func New(s core.Strategy) (Searcher, error) {
	switch s {
	case core.Heuristic:
		return NewAStar(), nil
	case core.LeastCost:
		return NewUCS(), nil
	}
	return nil, fmt.Errorf("no searcher for %v", s)
}

// directions in expansion order: up, down, left, right.
var directions = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// Neighbors returns the walkable 4-connected neighbors of c in the fixed
// order up, down, left, right.
func Neighbors(g *core.Grid, c core.Cell) []core.Cell {
	out := make([]core.Cell, 0, 4)
	for _, d := range directions {
		n := c.Add(d[0], d[1])
		if g.Walkable(n) {
			out = append(out, n)
		}
	}
	return out
}
