// Package main generates deterministic gridnav layouts for benchmarks.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/elektrokombinacija/gridnav/internal/layout"
)

func main() {
	seed := flag.Int64("seed", 42, "Random seed of the first layout")
	count := flag.Int("count", 1, "Number of layouts (seeds seed..seed+count-1)")
	cols := flag.Int("cols", 20, "Grid columns")
	rows := flag.Int("rows", 15, "Grid rows")
	tasks := flag.Int("tasks", 5, "Number of tasks")
	barriers := flag.Int("barriers", 15, "Number of barriers")
	reachable := flag.Bool("reachable", false, "Only emit layouts where every task is reachable")
	outputDir := flag.String("output", "testdata", "Output directory")
	scalingMode := flag.Bool("scaling", false, "Generate a scaling suite (10x10 .. 80x80, density 15%)")

	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	var params []layout.Params
	if *scalingMode {
		for _, size := range []int{10, 20, 40, 80} {
			params = append(params, layout.Params{
				Seed:        *seed,
				Cols:        size,
				Rows:        size,
				TaskCount:   size / 2,
				Barriers:    size * size * 15 / 100,
				Reachable:   *reachable,
				MaxAttempts: 1000,
			})
		}
	} else {
		for i := 0; i < *count; i++ {
			params = append(params, layout.Params{
				Seed:        *seed + int64(i),
				Cols:        *cols,
				Rows:        *rows,
				TaskCount:   *tasks,
				Barriers:    *barriers,
				Reachable:   *reachable,
				MaxAttempts: 1000,
			})
		}
	}

	for _, p := range params {
		l, err := layout.Generate(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating seed %d: %v\n", p.Seed, err)
			continue
		}
		name := fmt.Sprintf("gridnav_%dx%d_t%d_b%d_%d.json", p.Cols, p.Rows, p.TaskCount, p.Barriers, p.Seed)
		filename := filepath.Join(*outputDir, name)
		if err := layout.Save(filename, l); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing layout %s: %v\n", filename, err)
			continue
		}
		fmt.Printf("Generated: %s (%d tasks, %d barriers, %dx%d grid)\n",
			filename, len(l.Tasks), len(l.Barriers), l.Cols, l.Rows)
	}
}
