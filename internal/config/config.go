// Package config loads gridnav run configuration from JSON and the
// environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/elektrokombinacija/gridnav/internal/core"
	"github.com/elektrokombinacija/gridnav/internal/layout"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GRIDNAV_"

// ErrInvalidConfig wraps validation failures.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds run settings.
type Config struct {
	Cols        int             `json:"cols"`
	Rows        int             `json:"rows"`
	Tasks       int             `json:"tasks"`
	Barriers    int             `json:"barriers"`
	Seed        int64           `json:"seed"`
	Reachable   bool            `json:"reachable"`             // Regenerate until every task is reachable
	LayoutFile  string          `json:"layout_file,omitempty"` // Overrides generation when set
	TickMs      int             `json:"tick_ms"`               // Delay between ticks; 0 runs flat out
	MaxTicks    int             `json:"max_ticks"`             // 0 = unlimited
	Strategies  []core.Strategy `json:"strategies"`
	Addr        string          `json:"addr"`
	LogLevel    string          `json:"log_level"`
	MetricsFile string          `json:"metrics_file,omitempty"`
}

// Default mirrors the classic simulation: 20x15 grid, 5 tasks,
// 15 barriers, 200ms between moves, both strategies.
func Default() *Config {
	p := layout.DefaultParams()
	return &Config{
		Cols:       p.Cols,
		Rows:       p.Rows,
		Tasks:      p.TaskCount,
		Barriers:   p.Barriers,
		Seed:       p.Seed,
		TickMs:     200,
		MaxTicks:   10000,
		Strategies: core.AllStrategies(),
		Addr:       ":8080",
		LogLevel:   "info",
	}
}

// Load reads the configuration from path on top of the defaults.
// A missing file yields the defaults and no error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config json: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from GRIDNAV_* variables. PORT is honoured
// for the listen address when GRIDNAV_ADDR is unset.
func (c *Config) ApplyEnv() error {
	ints := map[string]*int{
		"COLS":      &c.Cols,
		"ROWS":      &c.Rows,
		"TASKS":     &c.Tasks,
		"BARRIERS":  &c.Barriers,
		"TICK_MS":   &c.TickMs,
		"MAX_TICKS": &c.MaxTicks,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
	}

	if v, ok := os.LookupEnv(EnvPrefix + "SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sSEED: %w", EnvPrefix, err)
		}
		c.Seed = n
	}
	if v, ok := os.LookupEnv(EnvPrefix + "REACHABLE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sREACHABLE: %w", EnvPrefix, err)
		}
		c.Reachable = b
	}
	if v, ok := os.LookupEnv(EnvPrefix + "STRATEGIES"); ok {
		s, err := ParseStrategies(v)
		if err != nil {
			return fmt.Errorf("%sSTRATEGIES: %w", EnvPrefix, err)
		}
		c.Strategies = s
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LAYOUT_FILE"); ok {
		c.LayoutFile = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "METRICS_FILE"); ok {
		c.MetricsFile = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "ADDR"); ok {
		c.Addr = v
	} else if port := os.Getenv("PORT"); port != "" {
		c.Addr = ":" + port
	}
	return nil
}

// ParseStrategies parses a comma-separated list such as "astar,ucs".
func ParseStrategies(list string) ([]core.Strategy, error) {
	var out []core.Strategy
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		s, err := core.ParseStrategy(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Validate checks ranges.
func (c *Config) Validate() error {
	if c.LayoutFile == "" {
		if c.Cols <= 0 || c.Rows <= 0 {
			return fmt.Errorf("%w: grid %dx%d", ErrInvalidConfig, c.Cols, c.Rows)
		}
		if c.Tasks < 0 || c.Barriers < 0 {
			return fmt.Errorf("%w: negative task or barrier count", ErrInvalidConfig)
		}
		if c.Tasks+c.Barriers > c.Cols*c.Rows-1 {
			return fmt.Errorf("%w: %d tasks and %d barriers do not fit %dx%d",
				ErrInvalidConfig, c.Tasks, c.Barriers, c.Cols, c.Rows)
		}
	}
	if c.TickMs < 0 || c.MaxTicks < 0 {
		return fmt.Errorf("%w: negative tick settings", ErrInvalidConfig)
	}
	if len(c.Strategies) == 0 {
		return fmt.Errorf("%w: no strategies", ErrInvalidConfig)
	}
	seen := make(map[core.Strategy]bool)
	for _, s := range c.Strategies {
		if seen[s] {
			return fmt.Errorf("%w: duplicate strategy %v", ErrInvalidConfig, s)
		}
		seen[s] = true
	}
	return nil
}

// TickInterval returns TickMs as a duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// Layout loads LayoutFile when set, otherwise generates one.
func (c *Config) Layout() (*core.Layout, error) {
	if c.LayoutFile != "" {
		return layout.Load(c.LayoutFile)
	}
	return layout.Generate(layout.Params{
		Seed:        c.Seed,
		Cols:        c.Cols,
		Rows:        c.Rows,
		TaskCount:   c.Tasks,
		Barriers:    c.Barriers,
		Reachable:   c.Reachable,
		MaxAttempts: 100,
	})
}

// SetupLogging applies LogLevel to the standard logger. An unknown level
// falls back to info with a warning.
func (c *Config) SetupLogging() {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Warnf("unknown log level %q, using info", c.LogLevel)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
