package algo

import (
	"testing"

	"github.com/elektrokombinacija/gridnav/internal/core"
)

// openGrid creates a cols x rows grid with the given barriers.
func openGrid(cols, rows int, barriers ...core.Cell) *core.Grid {
	return core.NewGrid(cols, rows, barriers)
}

func searchers() []Searcher {
	return []Searcher{NewAStar(), NewUCS()}
}

// checkPath verifies endpoints, adjacency and walkability.
func checkPath(t *testing.T, g *core.Grid, path core.Path, start, goal core.Cell) {
	t.Helper()
	if len(path) == 0 {
		t.Fatal("empty path")
	}
	if path[0] != start || path[len(path)-1] != goal {
		t.Fatalf("path runs %v -> %v, want %v -> %v", path[0], path[len(path)-1], start, goal)
	}
	for i, c := range path {
		if !g.Walkable(c) {
			t.Errorf("path[%d] = %v is not walkable", i, c)
		}
		if i > 0 && core.Manhattan(path[i-1], c) != 1 {
			t.Errorf("path[%d] %v -> %v is not a single axis move", i, path[i-1], c)
		}
	}
}

func TestNeighborsOrderAndFiltering(t *testing.T) {
	g := openGrid(3, 3, core.Cell{X: 1, Y: 0})

	got := Neighbors(g, core.Cell{X: 1, Y: 1})
	want := []core.Cell{{X: 1, Y: 2}, {X: 0, Y: 1}, {X: 2, Y: 1}} // up is a barrier
	if len(got) != len(want) {
		t.Fatalf("Neighbors = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Neighbors[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	corner := Neighbors(g, core.Origin)
	if len(corner) != 1 || corner[0] != (core.Cell{X: 0, Y: 1}) {
		t.Errorf("corner neighbors = %v, want [(0, 1)]", corner)
	}
}

func TestOpenGridScenarioA(t *testing.T) {
	g := openGrid(5, 5)
	goal := core.Cell{X: 4, Y: 4}

	for _, s := range searchers() {
		t.Run(s.Name(), func(t *testing.T) {
			path, stats := s.Search(g, core.Origin, goal)
			checkPath(t, g, path, core.Origin, goal)
			if len(path) != 9 {
				t.Errorf("len(path) = %d, want 9", len(path))
			}
			if stats.Expanded == 0 || stats.Pushed == 0 {
				t.Errorf("stats not recorded: %+v", stats)
			}
		})
	}
}

func TestStartIsGoal(t *testing.T) {
	g := openGrid(3, 3)
	for _, s := range searchers() {
		path, _ := s.Search(g, core.Cell{X: 1, Y: 1}, core.Cell{X: 1, Y: 1})
		if len(path) != 1 {
			t.Errorf("%s: path = %v, want single cell", s.Name(), path)
		}
	}
}

func TestUnreachableGoal(t *testing.T) {
	// Wall on column 2 separates the left and right halves.
	g := openGrid(5, 3,
		core.Cell{X: 2, Y: 0}, core.Cell{X: 2, Y: 1}, core.Cell{X: 2, Y: 2})

	for _, s := range searchers() {
		path, stats := s.Search(g, core.Origin, core.Cell{X: 4, Y: 2})
		if path != nil {
			t.Errorf("%s: expected no path, got %v", s.Name(), path)
		}
		// Left half has 6 cells, all expanded before exhaustion.
		if stats.Expanded != 6 {
			t.Errorf("%s: expanded %d cells, want 6", s.Name(), stats.Expanded)
		}
	}
}

func TestDetourAroundWall(t *testing.T) {
	// Wall with a gap at the bottom forces a detour.
	g := openGrid(5, 5,
		core.Cell{X: 2, Y: 0}, core.Cell{X: 2, Y: 1}, core.Cell{X: 2, Y: 2}, core.Cell{X: 2, Y: 3})
	goal := core.Cell{X: 4, Y: 0}

	for _, s := range searchers() {
		path, _ := s.Search(g, core.Origin, goal)
		checkPath(t, g, path, core.Origin, goal)
		// Down 4, across 4, up 4.
		if path.Moves() != 12 {
			t.Errorf("%s: %d moves, want 12", s.Name(), path.Moves())
		}
		if path.Moves() <= core.Manhattan(core.Origin, goal) {
			t.Errorf("%s: blocked route should exceed Manhattan distance", s.Name())
		}
	}
}

// TestStrategiesAgree checks both searches are optimal on every reachable
// pair of a fixed obstacle map, and never beat the Manhattan bound.
func TestStrategiesAgree(t *testing.T) {
	g := openGrid(6, 5,
		core.Cell{X: 1, Y: 1}, core.Cell{X: 2, Y: 1}, core.Cell{X: 3, Y: 1},
		core.Cell{X: 3, Y: 2}, core.Cell{X: 3, Y: 3}, core.Cell{X: 5, Y: 1},
		core.Cell{X: 0, Y: 3}, core.Cell{X: 1, Y: 3})

	astar, ucs := NewAStar(), NewUCS()
	var cells []core.Cell
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			if c := (core.Cell{X: x, Y: y}); g.Walkable(c) {
				cells = append(cells, c)
			}
		}
	}

	for _, start := range cells {
		for _, goal := range cells {
			pa, _ := astar.Search(g, start, goal)
			pu, _ := ucs.Search(g, start, goal)
			if (pa == nil) != (pu == nil) {
				t.Fatalf("%v -> %v: reachability differs (astar=%v ucs=%v)", start, goal, pa, pu)
			}
			if pa == nil {
				continue
			}
			if len(pa) != len(pu) {
				t.Errorf("%v -> %v: astar %d cells, ucs %d cells", start, goal, len(pa), len(pu))
			}
			if pa.Moves() < core.Manhattan(start, goal) {
				t.Errorf("%v -> %v: %d moves beats Manhattan %d", start, goal, pa.Moves(), core.Manhattan(start, goal))
			}
		}
	}
}

func TestAStarExpandsLessThanUCS(t *testing.T) {
	g := openGrid(20, 20)
	goal := core.Cell{X: 19, Y: 0}

	_, as := NewAStar().Search(g, core.Origin, goal)
	_, us := NewUCS().Search(g, core.Origin, goal)
	if as.Expanded >= us.Expanded {
		t.Errorf("A* expanded %d, UCS %d; heuristic should prune", as.Expanded, us.Expanded)
	}
}

func TestDeterministicTieBreak(t *testing.T) {
	g := openGrid(4, 4)
	goal := core.Cell{X: 3, Y: 3}

	for _, s := range searchers() {
		first, _ := s.Search(g, core.Origin, goal)
		for i := 0; i < 20; i++ {
			again, _ := s.Search(g, core.Origin, goal)
			for j := range first {
				if again[j] != first[j] {
					t.Fatalf("%s: run %d differs at %d: %v vs %v", s.Name(), i, j, again, first)
				}
			}
		}
	}
}

func TestNew(t *testing.T) {
	for _, st := range core.AllStrategies() {
		s, err := New(st)
		if err != nil {
			t.Fatalf("New(%v): %v", st, err)
		}
		if s.Strategy() != st {
			t.Errorf("New(%v).Strategy() = %v", st, s.Strategy())
		}
	}
	if _, err := New(core.Strategy(7)); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
