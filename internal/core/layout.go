package core

import (
	"errors"
	"fmt"
)

// ErrInvalidLayout wraps every layout validation failure.
var ErrInvalidLayout = errors.New("invalid layout")

// Layout is the construction-time description of a run: grid dimensions,
// barrier cells and task placements.
type Layout struct {
	Cols     int         `json:"cols"`
	Rows     int         `json:"rows"`
	Barriers []Cell      `json:"barriers"`
	Tasks    []Placement `json:"tasks"`
}

// Validate checks layout consistency.
func (l *Layout) Validate() error {
	if l.Cols <= 0 || l.Rows <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidLayout, l.Cols, l.Rows)
	}
	g := &Grid{Cols: l.Cols, Rows: l.Rows}
	// The origin is reserved for the agent spawn.
	if free := g.Area() - 1; len(l.Barriers)+len(l.Tasks) > free {
		return fmt.Errorf("%w: %d barriers and %d tasks exceed %d free cells",
			ErrInvalidLayout, len(l.Barriers), len(l.Tasks), free)
	}

	used := make(map[Cell]string, len(l.Barriers)+len(l.Tasks))

	for _, b := range l.Barriers {
		if !g.InBounds(b) {
			return fmt.Errorf("%w: barrier %v out of range", ErrInvalidLayout, b)
		}
		if b == Origin {
			return fmt.Errorf("%w: barrier on origin", ErrInvalidLayout)
		}
		if _, dup := used[b]; dup {
			return fmt.Errorf("%w: duplicate barrier %v", ErrInvalidLayout, b)
		}
		used[b] = "barrier"
	}

	ids := make(map[TaskID]bool, len(l.Tasks))
	for _, t := range l.Tasks {
		if t.ID <= 0 {
			return fmt.Errorf("%w: task id %d must be positive", ErrInvalidLayout, t.ID)
		}
		if ids[t.ID] {
			return fmt.Errorf("%w: duplicate task id %d", ErrInvalidLayout, t.ID)
		}
		ids[t.ID] = true
		if !g.InBounds(t.Cell) {
			return fmt.Errorf("%w: task %d at %v out of range", ErrInvalidLayout, t.ID, t.Cell)
		}
		if t.Cell == Origin {
			return fmt.Errorf("%w: task %d on origin", ErrInvalidLayout, t.ID)
		}
		if kind, dup := used[t.Cell]; dup {
			return fmt.Errorf("%w: task %d at %v overlaps %s", ErrInvalidLayout, t.ID, t.Cell, kind)
		}
		used[t.Cell] = "task"
	}
	return nil
}

// Grid builds the shared immutable grid.
func (l *Layout) Grid() *Grid {
	return NewGrid(l.Cols, l.Rows, l.Barriers)
}

// NewEnvironment builds a fresh environment over g. Each strategy gets its
// own so the registries shrink independently.
func (l *Layout) NewEnvironment(g *Grid) *Environment {
	return NewEnvironment(g, l.Tasks)
}
