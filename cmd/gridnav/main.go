// Command gridnav runs the task-collecting agent headless under every
// configured strategy and prints the status panels.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/elektrokombinacija/gridnav/internal/config"
	"github.com/elektrokombinacija/gridnav/internal/sim"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "gridnav.json", "Path to JSON config")
	layoutFile := flag.String("layout", "", "Layout file (overrides generation)")
	seed := flag.Int64("seed", -1, "Layout seed (-1 keeps the configured seed)")
	strategies := flag.String("strategies", "", "Comma-separated strategies, e.g. astar,ucs")
	tickMs := flag.Int("tick", -1, "Milliseconds between ticks (-1 keeps config)")
	metrics := flag.String("metrics", "", "Write run metrics JSON to this file")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalln(err)
	}
	if *layoutFile != "" {
		cfg.LayoutFile = *layoutFile
	}
	if *seed >= 0 {
		cfg.Seed = *seed
	}
	if *strategies != "" {
		if cfg.Strategies, err = config.ParseStrategies(*strategies); err != nil {
			log.Fatalln(err)
		}
	}
	if *tickMs >= 0 {
		cfg.TickMs = *tickMs
	}
	if *metrics != "" {
		cfg.MetricsFile = *metrics
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalln(err)
	}
	cfg.SetupLogging()

	if err := run(cfg); err != nil {
		log.Fatalln(err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cfg *config.Config) error {
	l, err := cfg.Layout()
	if err != nil {
		return err
	}

	simCfg := sim.DefaultConfig()
	simCfg.Layout = l
	simCfg.Strategies = cfg.Strategies
	simCfg.TickInterval = cfg.TickInterval()
	simCfg.MaxTicks = cfg.MaxTicks

	s, err := sim.NewSimulator(simCfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	m, err := s.Run(ctx)
	if err != nil {
		log.Warn(err)
	}

	fmt.Printf("=== gridnav run %s: %dx%d grid, %d tasks, %d barriers ===\n\n",
		s.RunID(), l.Cols, l.Rows, len(l.Tasks), len(l.Barriers))
	if err := s.Report(os.Stdout); err != nil {
		return err
	}
	if m != nil {
		fmt.Printf("\nTicks: %d, wall time %v\n", m.Ticks, time.Since(start).Round(time.Millisecond))
		for _, sm := range m.Strategies {
			fmt.Printf("  %-4s plans=%d failed=%d expanded=%d pushed=%d planning=%.2fms\n",
				sm.Strategy.Label(), sm.PlansAttempted, sm.PlansFailed,
				sm.Search.Expanded, sm.Search.Pushed, sm.PlanningTimeMs)
		}
	}

	if cfg.MetricsFile != "" {
		if err := s.ExportMetrics(cfg.MetricsFile); err != nil {
			return fmt.Errorf("export metrics: %w", err)
		}
		log.Infof("metrics written to %s", cfg.MetricsFile)
	}
	return nil
}
