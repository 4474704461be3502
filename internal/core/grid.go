package core

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned by guarded queries on off-grid coordinates.
var ErrOutOfRange = errors.New("cell out of range")

// Grid is the static topology: dimensions and the barrier set.
// It is immutable after NewGrid and safe to share between strategies.
type Grid struct {
	Cols, Rows int
	barriers   map[Cell]struct{}
}

// NewGrid creates a cols x rows grid with the given barriers.
// Barriers outside the grid are ignored.
func NewGrid(cols, rows int, barriers []Cell) *Grid {
	g := &Grid{
		Cols:     cols,
		Rows:     rows,
		barriers: make(map[Cell]struct{}, len(barriers)),
	}
	for _, b := range barriers {
		if g.InBounds(b) {
			g.barriers[b] = struct{}{}
		}
	}
	return g
}

// InBounds reports whether 0 <= X < Cols and 0 <= Y < Rows.
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.Cols && c.Y >= 0 && c.Y < g.Rows
}

// IsBarrier reports whether c is a barrier. Callers bounds-check first.
func (g *Grid) IsBarrier(c Cell) bool {
	_, ok := g.barriers[c]
	return ok
}

// Barrier is the guarded variant of IsBarrier.
func (g *Grid) Barrier(c Cell) (bool, error) {
	if !g.InBounds(c) {
		return false, fmt.Errorf("%w: %v in %dx%d grid", ErrOutOfRange, c, g.Cols, g.Rows)
	}
	return g.IsBarrier(c), nil
}

// Walkable reports whether an agent may occupy c.
func (g *Grid) Walkable(c Cell) bool {
	return g.InBounds(c) && !g.IsBarrier(c)
}

// Barriers returns the barrier cells in row-major order.
func (g *Grid) Barriers() []Cell {
	out := make([]Cell, 0, len(g.barriers))
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			c := Cell{X: x, Y: y}
			if g.IsBarrier(c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// Area returns Cols * Rows.
func (g *Grid) Area() int {
	return g.Cols * g.Rows
}
