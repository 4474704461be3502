package layout

import (
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/elektrokombinacija/gridnav/internal/core"
)

func TestGenerateDeterministic(t *testing.T) {
	p := DefaultParams()
	a, err := Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, _ := Generate(p)

	if len(a.Barriers) != 15 || len(a.Tasks) != 5 {
		t.Fatalf("got %d barriers, %d tasks", len(a.Barriers), len(a.Tasks))
	}
	for i := range a.Tasks {
		if a.Tasks[i] != b.Tasks[i] {
			t.Errorf("task %d differs between runs: %v vs %v", i, a.Tasks[i], b.Tasks[i])
		}
	}
	for i := range a.Barriers {
		if a.Barriers[i] != b.Barriers[i] {
			t.Errorf("barrier %d differs between runs", i)
		}
	}
}

func TestGenerateValidLayouts(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		p := Params{Seed: seed, Cols: 6, Rows: 5, TaskCount: 4, Barriers: 8}
		l, err := Generate(p)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if err := l.Validate(); err != nil {
			t.Errorf("seed %d: invalid layout: %v", seed, err)
		}
		for i, task := range l.Tasks {
			if task.ID != core.TaskID(i+1) {
				t.Errorf("seed %d: task %d has id %d", seed, i, task.ID)
			}
		}
	}
}

func TestGenerateReachable(t *testing.T) {
	p := Params{Seed: 3, Cols: 6, Rows: 6, TaskCount: 5, Barriers: 14, Reachable: true, MaxAttempts: 500}
	l, err := Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !allReachable(l) {
		t.Error("Reachable layout has an unreachable task")
	}
}

func TestGenerateUnsatisfiable(t *testing.T) {
	tests := []Params{
		{Cols: 0, Rows: 3},
		{Cols: 2, Rows: 2, TaskCount: 2, Barriers: 2},
		{Cols: 2, Rows: 2, TaskCount: -1},
	}
	for i, p := range tests {
		if _, err := Generate(p); !errors.Is(err, ErrUnsatisfiable) {
			t.Errorf("case %d: err = %v, want ErrUnsatisfiable", i, err)
		}
	}
}

func TestGenerateGivesUpOnUnreachable(t *testing.T) {
	// 1x3 corridor: a barrier at (0, 1) seals the task at (0, 2).
	p := Params{Cols: 1, Rows: 3, TaskCount: 1, Barriers: 1, Reachable: true, MaxAttempts: 1}
	found := false
	for seed := int64(0); seed < 100; seed++ {
		l := place(rand.New(rand.NewSource(seed)), p)
		if l.Barriers[0] == (core.Cell{X: 0, Y: 1}) {
			p.Seed = seed
			found = true
			break
		}
	}
	if !found {
		t.Skip("no blocking seed in range")
	}
	if _, err := Generate(p); !errors.Is(err, ErrUnsatisfiable) {
		t.Errorf("err = %v, want ErrUnsatisfiable", err)
	}
}

func TestGridFromWindow(t *testing.T) {
	cols, rows := GridFromWindow(800, 600, 40)
	if cols != 20 || rows != 15 {
		t.Errorf("GridFromWindow = %d x %d, want 20 x 15", cols, rows)
	}
	if c, r := GridFromWindow(800, 600, 0); c != 0 || r != 0 {
		t.Error("zero cell size should yield an empty grid")
	}
}

func TestSaveLoad(t *testing.T) {
	l, err := Generate(DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := Save(path, l); err != nil {
		t.Fatalf("Save: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Cols != l.Cols || len(back.Tasks) != len(l.Tasks) || back.Tasks[0] != l.Tasks[0] {
		t.Errorf("loaded layout differs: %+v", back)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	bad := &core.Layout{Cols: 3, Rows: 3, Tasks: []core.Placement{{ID: 1, Cell: core.Origin}}}
	if err := Save(path, bad); !errors.Is(err, core.ErrInvalidLayout) {
		t.Fatalf("Save invalid err = %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
