package core

import "fmt"

// Cell is a grid coordinate. Cells have no per-cell object; they are
// addressed by value.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Origin is the spawn cell of every agent.
var Origin = Cell{X: 0, Y: 0}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Add returns c offset by (dx, dy).
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Manhattan returns |a.X-b.X| + |a.Y-b.Y|.
func Manhattan(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Path is an ordered sequence of cells.
type Path []Cell

// Len returns the number of cells in the path.
func (p Path) Len() int { return len(p) }

// Moves returns the number of single-cell moves the path represents.
func (p Path) Moves() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Clone returns a copy that does not alias p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}
