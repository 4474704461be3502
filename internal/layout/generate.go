// Package layout generates, loads and saves grid layouts.
package layout

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/elektrokombinacija/gridnav/internal/algo"
	"github.com/elektrokombinacija/gridnav/internal/core"
)

// ErrUnsatisfiable is returned when no layout meeting the parameters was
// found.
var ErrUnsatisfiable = errors.New("layout parameters cannot be satisfied")

// Params defines parameters for layout generation.
type Params struct {
	Seed      int64 `json:"seed"`
	Cols      int   `json:"cols"`
	Rows      int   `json:"rows"`
	TaskCount int   `json:"task_count"`
	Barriers  int   `json:"barriers"`
	// Reachable rejects layouts where some task cannot be reached from
	// the origin.
	Reachable   bool `json:"reachable"`
	MaxAttempts int  `json:"max_attempts,omitempty"`
}

// DefaultParams matches the classic 800x600 window at 40px cells with
// 5 tasks and 15 barriers.
func DefaultParams() Params {
	return Params{
		Seed:        1,
		Cols:        800 / 40,
		Rows:        600 / 40,
		TaskCount:   5,
		Barriers:    15,
		MaxAttempts: 100,
	}
}

// GridFromWindow converts a pixel window and cell size to grid dimensions.
func GridFromWindow(width, height, cellSize int) (cols, rows int) {
	if cellSize <= 0 {
		return 0, 0
	}
	return width / cellSize, height / cellSize
}

// Generate creates a deterministic layout from params. Barriers and tasks
// go on distinct random cells, never on the origin; tasks are numbered
// 1..TaskCount in placement order.
func Generate(p Params) (*core.Layout, error) {
	if p.Cols <= 0 || p.Rows <= 0 {
		return nil, fmt.Errorf("%w: grid %dx%d", ErrUnsatisfiable, p.Cols, p.Rows)
	}
	if p.TaskCount < 0 || p.Barriers < 0 || p.TaskCount+p.Barriers > p.Cols*p.Rows-1 {
		return nil, fmt.Errorf("%w: %d tasks and %d barriers on %dx%d",
			ErrUnsatisfiable, p.TaskCount, p.Barriers, p.Cols, p.Rows)
	}
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	rng := rand.New(rand.NewSource(p.Seed))
	for i := 0; i < attempts; i++ {
		l := place(rng, p)
		if !p.Reachable || allReachable(l) {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: no reachable layout in %d attempts", ErrUnsatisfiable, attempts)
}

func place(rng *rand.Rand, p Params) *core.Layout {
	// Shuffle every non-origin cell and take the prefix.
	free := make([]core.Cell, 0, p.Cols*p.Rows-1)
	for y := 0; y < p.Rows; y++ {
		for x := 0; x < p.Cols; x++ {
			c := core.Cell{X: x, Y: y}
			if c != core.Origin {
				free = append(free, c)
			}
		}
	}
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	l := &core.Layout{
		Cols:     p.Cols,
		Rows:     p.Rows,
		Barriers: make([]core.Cell, p.Barriers),
		Tasks:    make([]core.Placement, p.TaskCount),
	}
	copy(l.Barriers, free[:p.Barriers])
	for i := 0; i < p.TaskCount; i++ {
		l.Tasks[i] = core.Placement{ID: core.TaskID(i + 1), Cell: free[p.Barriers+i]}
	}
	return l
}

// allReachable flood-fills from the origin.
func allReachable(l *core.Layout) bool {
	g := l.Grid()
	seen := map[core.Cell]bool{core.Origin: true}
	queue := []core.Cell{core.Origin}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, n := range algo.Neighbors(g, c) {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	for _, t := range l.Tasks {
		if !seen[t.Cell] {
			return false
		}
	}
	return true
}
