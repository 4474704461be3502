// Package main compares search strategies over a directory of layouts.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/elektrokombinacija/gridnav/internal/config"
	"github.com/elektrokombinacija/gridnav/internal/core"
	"github.com/elektrokombinacija/gridnav/internal/layout"
	"github.com/elektrokombinacija/gridnav/internal/nav"
	"github.com/elektrokombinacija/gridnav/internal/sim"
)

// BenchmarkResult stores results from a single strategy run.
type BenchmarkResult struct {
	Timestamp      string
	CommitHash     string
	GoVersion      string
	OS             string
	Arch           string
	Layout         string
	NumTasks       int
	NumBarriers    int
	GridSize       string
	Strategy       string
	RuntimeMs      float64
	Ticks          int
	Status         string
	TasksCompleted int
	TotalCost      int
	NodesExpanded  int
	NodesPushed    int
}

// StrategyMetrics holds per-strategy aggregated metrics.
type StrategyMetrics struct {
	Name          string
	TotalRuns     int
	Finished      int
	TotalRuntime  float64
	TotalCost     int
	TotalExpanded int
}

func getGitCommit() string {
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(output))
}

// runStrategy simulates one strategy alone on a layout.
func runStrategy(name string, l *core.Layout, st core.Strategy, timeout time.Duration) (*BenchmarkResult, error) {
	result := &BenchmarkResult{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		CommitHash:  getGitCommit(),
		GoVersion:   runtime.Version(),
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
		Layout:      name,
		NumTasks:    len(l.Tasks),
		NumBarriers: len(l.Barriers),
		GridSize:    fmt.Sprintf("%dx%d", l.Cols, l.Rows),
		Strategy:    st.Label(),
	}

	cfg := sim.DefaultConfig()
	cfg.Layout = l
	cfg.Strategies = []core.Strategy{st}
	cfg.TickInterval = 0
	cfg.MaxTicks = 0

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	startTime := time.Now()
	m, err := sim.RunSimulation(ctx, cfg)
	result.RuntimeMs = float64(time.Since(startTime).Microseconds()) / 1000.0
	if m == nil {
		return nil, err
	}

	sm := m.Strategies[0]
	result.Ticks = m.Ticks
	result.Status = sm.Status.String()
	result.TasksCompleted = sm.TasksCompleted
	result.TotalCost = sm.TotalCost
	result.NodesExpanded = sm.Search.Expanded
	result.NodesPushed = sm.Search.Pushed
	return result, err
}

func writeCSV(results []*BenchmarkResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"timestamp", "commit_hash", "go_version", "os", "arch",
		"layout", "num_tasks", "num_barriers", "grid_size", "strategy",
		"runtime_ms", "ticks", "status", "tasks_completed", "total_cost",
		"nodes_expanded", "nodes_pushed",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		row := []string{
			r.Timestamp, r.CommitHash, r.GoVersion, r.OS, r.Arch,
			r.Layout, fmt.Sprintf("%d", r.NumTasks), fmt.Sprintf("%d", r.NumBarriers),
			r.GridSize, r.Strategy,
			fmt.Sprintf("%.3f", r.RuntimeMs), fmt.Sprintf("%d", r.Ticks), r.Status,
			fmt.Sprintf("%d", r.TasksCompleted), fmt.Sprintf("%d", r.TotalCost),
			fmt.Sprintf("%d", r.NodesExpanded), fmt.Sprintf("%d", r.NodesPushed),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func printSummary(results []*BenchmarkResult) {
	metrics := make(map[string]*StrategyMetrics)
	for _, r := range results {
		m, ok := metrics[r.Strategy]
		if !ok {
			m = &StrategyMetrics{Name: r.Strategy}
			metrics[r.Strategy] = m
		}
		m.TotalRuns++
		if r.Status == nav.Done.String() {
			m.Finished++
		}
		m.TotalRuntime += r.RuntimeMs
		m.TotalCost += r.TotalCost
		m.TotalExpanded += r.NodesExpanded
	}

	fmt.Println("\n=== BENCHMARK SUMMARY ===")
	fmt.Printf("%-10s %8s %8s %12s %10s %14s\n",
		"Strategy", "Runs", "Done", "Avg Time(ms)", "Avg Cost", "Avg Expanded")
	fmt.Println(strings.Repeat("-", 66))

	var names []string
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m := metrics[name]
		n := float64(m.TotalRuns)
		fmt.Printf("%-10s %8d %8d %12.2f %10.2f %14.1f\n",
			m.Name, m.TotalRuns, m.Finished, m.TotalRuntime/n,
			float64(m.TotalCost)/n, float64(m.TotalExpanded)/n)
	}
}

func main() {
	inputDir := flag.String("input", "testdata", "Directory containing layout JSON files")
	outputFile := flag.String("output", "evidence/benchmark_results.csv", "Output CSV file")
	timeout := flag.Duration("timeout", time.Minute, "Timeout per strategy run")
	strategyFilter := flag.String("strategy", "astar,ucs", "Strategies to run (comma-separated)")
	verbose := flag.Bool("verbose", false, "Verbose output")

	flag.Parse()
	log.SetLevel(log.WarnLevel)

	strategies, err := config.ParseStrategies(*strategyFilter)
	if err != nil || len(strategies) == 0 {
		fmt.Fprintf(os.Stderr, "Error parsing strategies: %v\n", err)
		os.Exit(1)
	}

	outputDir := filepath.Dir(*outputFile)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	files, err := filepath.Glob(filepath.Join(*inputDir, "*.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding layout files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "No layout files found in %s\n", *inputDir)
		fmt.Fprintf(os.Stderr, "Run gen_layouts first: go run ./tools/gen_layouts -count 20 -output %s\n", *inputDir)
		os.Exit(1)
	}

	var results []*BenchmarkResult
	totalRuns := len(files) * len(strategies)
	currentRun := 0

	fmt.Printf("Running benchmarks: %d layouts x %d strategies = %d runs\n",
		len(files), len(strategies), totalRuns)

	for _, file := range files {
		l, err := layout.Load(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", file, err)
			continue
		}
		name := strings.TrimSuffix(filepath.Base(file), ".json")

		for _, st := range strategies {
			currentRun++
			if *verbose {
				fmt.Printf("[%d/%d] %s / %s ... ", currentRun, totalRuns, name, st.Label())
			} else {
				fmt.Printf("\r[%d/%d] Running...", currentRun, totalRuns)
			}

			result, err := runStrategy(name, l, st, *timeout)
			if result == nil {
				fmt.Fprintf(os.Stderr, "\nError running %s on %s: %v\n", st.Label(), name, err)
				continue
			}
			results = append(results, result)

			if *verbose {
				fmt.Printf("%s (%.2fms, cost=%d, tasks=%d)\n",
					result.Status, result.RuntimeMs, result.TotalCost, result.TasksCompleted)
			}
		}
	}

	fmt.Println()

	if err := writeCSV(results, *outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing results: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Results written to: %s\n", *outputFile)

	printSummary(results)
}
