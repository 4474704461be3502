// Package sim drives navigators tick by tick and collects run metrics.
//
// Each started strategy gets its own environment over a shared grid, so
// strategies can be compared from identical initial conditions in one
// session. Per tick, an idle navigator with tasks left plans; a moving one
// steps.
package sim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/elektrokombinacija/gridnav/internal/algo"
	"github.com/elektrokombinacija/gridnav/internal/core"
	"github.com/elektrokombinacija/gridnav/internal/nav"
)

// ErrUnknownStrategy is returned for strategies the simulator was not
// configured with.
var ErrUnknownStrategy = errors.New("unknown strategy")

// ErrNoStrategies is returned by NewSimulator when no strategy is configured.
var ErrNoStrategies = errors.New("no strategies configured")

// SimulationConfig configures the simulation parameters
type SimulationConfig struct {
	// Layout to simulate
	Layout *core.Layout

	// Strategies to prepare; each gets its own navigator
	Strategies []core.Strategy

	// Delay between ticks in Run; zero runs as fast as possible
	TickInterval time.Duration

	// Run stops after this many ticks; zero means no limit
	MaxTicks int

	// Start every strategy immediately instead of waiting for Start
	AutoStart bool
}

// DefaultConfig returns default simulation configuration
func DefaultConfig() SimulationConfig {
	return SimulationConfig{
		Strategies:   core.AllStrategies(),
		TickInterval: 200 * time.Millisecond,
		MaxTicks:     10000,
		AutoStart:    true,
	}
}

// StrategyMetrics collects per-strategy counters.
type StrategyMetrics struct {
	Strategy       core.Strategy     `json:"strategy"`
	PlansAttempted int               `json:"plans_attempted"`
	PlansFound     int               `json:"plans_found"`
	PlansFailed    int               `json:"plans_failed"`
	Steps          int               `json:"steps"`
	TotalCost      int               `json:"total_cost"`
	TasksCompleted int               `json:"tasks_completed"`
	Completed      []core.Completion `json:"completed"`
	Search         algo.Stats        `json:"search"`
	PlanningTimeMs float64           `json:"planning_time_ms"`
	Status         nav.Status        `json:"status"`
	FinishedAtTick int               `json:"finished_at_tick,omitempty"`
}

// SimulationMetrics collects metrics during simulation
type SimulationMetrics struct {
	RunID      string             `json:"run_id"`
	StartTime  time.Time          `json:"start_time"`
	EndTime    time.Time          `json:"end_time"`
	Ticks      int                `json:"ticks"`
	TotalTasks int                `json:"total_tasks"`
	Strategies []*StrategyMetrics `json:"strategies"`
}

// agent is one strategy's navigator plus bookkeeping.
type agent struct {
	nav     *nav.Navigator
	started bool
	metrics *StrategyMetrics
}

// Simulator runs navigators over a shared grid.
type Simulator struct {
	mu sync.Mutex

	config SimulationConfig
	runID  string
	grid   *core.Grid

	agents map[core.Strategy]*agent
	order  []core.Strategy

	tick    int
	metrics SimulationMetrics

	subs map[chan Snapshot]struct{}
}

// NewSimulator creates a new simulation instance
func NewSimulator(config SimulationConfig) (*Simulator, error) {
	if config.Layout == nil {
		return nil, fmt.Errorf("simulation needs a layout")
	}
	if err := config.Layout.Validate(); err != nil {
		return nil, err
	}
	if len(config.Strategies) == 0 {
		return nil, fmt.Errorf("simulation: %w", ErrNoStrategies)
	}

	sim := &Simulator{
		config: config,
		runID:  uuid.NewString(),
		grid:   config.Layout.Grid(),
		agents: make(map[core.Strategy]*agent),
		subs:   make(map[chan Snapshot]struct{}),
	}
	sim.metrics = SimulationMetrics{
		RunID:      sim.runID,
		TotalTasks: len(config.Layout.Tasks),
	}

	for _, st := range config.Strategies {
		if _, dup := sim.agents[st]; dup {
			continue
		}
		searcher, err := algo.New(st)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownStrategy, err)
		}
		m := &StrategyMetrics{Strategy: st, Status: nav.Idle}
		sim.agents[st] = &agent{
			nav:     nav.New(config.Layout.NewEnvironment(sim.grid), searcher),
			started: config.AutoStart,
			metrics: m,
		}
		sim.order = append(sim.order, st)
		sim.metrics.Strategies = append(sim.metrics.Strategies, m)
	}

	log.WithFields(log.Fields{
		"run":        sim.runID,
		"grid":       fmt.Sprintf("%dx%d", config.Layout.Cols, config.Layout.Rows),
		"tasks":      len(config.Layout.Tasks),
		"barriers":   len(config.Layout.Barriers),
		"strategies": sim.order,
	}).Info("simulation created")

	return sim, nil
}

// RunID returns the unique identifier of this run.
func (s *Simulator) RunID() string { return s.runID }

// Start enables a strategy; it takes part in ticks from then on.
func (s *Simulator) Start(st core.Strategy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.agents[st]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownStrategy, st)
	}
	if !a.started {
		a.started = true
		log.WithField("strategy", st).Info("strategy started")
	}
	return nil
}

// Plan asks one navigator to plan outside the tick loop.
func (s *Simulator) Plan(st core.Strategy) (algo.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.agents[st]
	if !ok {
		return algo.Plan{}, fmt.Errorf("%w: %v", ErrUnknownStrategy, st)
	}
	return s.plan(a)
}

// Step asks one navigator to advance one cell outside the tick loop.
func (s *Simulator) Step(st core.Strategy) (nav.StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.agents[st]
	if !ok {
		return nav.Halted, fmt.Errorf("%w: %v", ErrUnknownStrategy, st)
	}
	return s.step(a), nil
}

// Tick advances every started strategy once and notifies subscribers.
func (s *Simulator) Tick() {
	s.mu.Lock()
	s.tick++
	s.metrics.Ticks = s.tick
	for _, st := range s.order {
		a := s.agents[st]
		if !a.started {
			continue
		}
		switch a.nav.Status() {
		case nav.Idle:
			_, _ = s.plan(a)
		case nav.Moving:
			s.step(a)
		}
	}
	snap := s.snapshot()
	s.mu.Unlock()

	s.publish(snap)
}

// plan runs the navigator's multi-goal search. Caller holds mu.
func (s *Simulator) plan(a *agent) (algo.Plan, error) {
	start := time.Now()
	plan, err := a.nav.Plan()
	if err != nil {
		return plan, err
	}

	m := a.metrics
	m.PlansAttempted++
	m.PlanningTimeMs += float64(time.Since(start).Microseconds()) / 1000
	m.Search = a.nav.SearchStats()

	fields := log.Fields{"run": s.runID, "strategy": a.nav.Strategy(), "tick": s.tick}
	switch plan.Outcome {
	case algo.Found:
		m.PlansFound++
		log.WithFields(fields).Debugf("planned to task %d at %v, %d moves",
			plan.Task, plan.Target, plan.Path.Moves())
	case algo.NoPath:
		m.PlansFailed++
		log.WithFields(fields).Warnf("no reachable task from %v, %d remaining",
			a.nav.Position(), a.nav.Environment().Tasks.Len())
	case algo.NoCandidates:
		log.WithFields(fields).Debug("no tasks left")
	}
	s.syncStatus(a)
	return plan, nil
}

// step advances the navigator one cell. Caller holds mu.
func (s *Simulator) step(a *agent) nav.StepResult {
	before := a.nav.CompletedCount()
	res := a.nav.Step()
	if res != nav.Advanced {
		s.syncStatus(a)
		return res
	}

	m := a.metrics
	m.Steps++
	m.TotalCost = a.nav.TotalCost()
	if a.nav.CompletedCount() > before {
		m.Completed = a.nav.Completed()
		m.TasksCompleted = a.nav.CompletedCount()
		last := m.Completed[len(m.Completed)-1]
		log.WithFields(log.Fields{
			"run":      s.runID,
			"strategy": a.nav.Strategy(),
			"tick":     s.tick,
		}).Infof("completed task %s at %v", last, a.nav.Position())
	}
	s.syncStatus(a)
	return res
}

func (s *Simulator) syncStatus(a *agent) {
	prev := a.metrics.Status
	a.metrics.Status = a.nav.Status()
	if prev == a.metrics.Status {
		return
	}
	switch a.metrics.Status {
	case nav.Done, nav.Stuck:
		a.metrics.FinishedAtTick = s.tick
		log.WithFields(log.Fields{
			"run":      s.runID,
			"strategy": a.nav.Strategy(),
			"cost":     a.nav.TotalCost(),
			"tasks":    a.nav.CompletedCount(),
		}).Infof("strategy %s", a.metrics.Status)
	}
}

// Done reports whether every started strategy is done or stuck. The map is
// static, so a stuck navigator never makes progress again.
func (s *Simulator) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done()
}

func (s *Simulator) anyStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.agents {
		if a.started {
			return true
		}
	}
	return false
}

func (s *Simulator) done() bool {
	started := 0
	for _, a := range s.agents {
		if !a.started {
			continue
		}
		started++
		if st := a.nav.Status(); st != nav.Done && st != nav.Stuck {
			return false
		}
	}
	return started > 0
}

// Run executes the simulation until every started strategy finishes,
// MaxTicks is reached or ctx is cancelled. With a TickInterval, Run waits
// for Start when nothing is started yet; without one it returns at once.
func (s *Simulator) Run(ctx context.Context) (*SimulationMetrics, error) {
	s.mu.Lock()
	s.metrics.StartTime = time.Now()
	s.mu.Unlock()

	var ticker *time.Ticker
	if s.config.TickInterval > 0 {
		ticker = time.NewTicker(s.config.TickInterval)
		defer ticker.Stop()
	}

	var runErr error
loop:
	for {
		if s.Done() {
			break
		}
		if ticker == nil && !s.anyStarted() {
			log.WithField("run", s.runID).Warn("no strategy started")
			break
		}
		if s.config.MaxTicks > 0 && s.Ticks() >= s.config.MaxTicks {
			log.WithField("run", s.runID).Warnf("tick limit %d reached", s.config.MaxTicks)
			break
		}
		if ticker != nil {
			select {
			case <-ctx.Done():
				runErr = ctx.Err()
				break loop
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			runErr = err
			break loop
		}
		s.Tick()
	}

	s.mu.Lock()
	s.metrics.EndTime = time.Now()
	m := s.copyMetrics()
	s.mu.Unlock()

	if runErr != nil {
		return &m, fmt.Errorf("simulation interrupted: %w", runErr)
	}
	return &m, nil
}

// Ticks returns the number of ticks run so far.
func (s *Simulator) Ticks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Metrics returns current simulation metrics
func (s *Simulator) Metrics() SimulationMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyMetrics()
}

func (s *Simulator) copyMetrics() SimulationMetrics {
	m := s.metrics
	m.Strategies = make([]*StrategyMetrics, len(s.metrics.Strategies))
	for i, sm := range s.metrics.Strategies {
		c := *sm
		c.Completed = append([]core.Completion(nil), sm.Completed...)
		m.Strategies[i] = &c
	}
	return m
}

// ExportMetrics writes metrics to a JSON file
func (s *Simulator) ExportMetrics(path string) error {
	metrics := s.Metrics()

	data, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// RunSimulation is a convenience function to run a complete simulation
func RunSimulation(ctx context.Context, config SimulationConfig) (*SimulationMetrics, error) {
	sim, err := NewSimulator(config)
	if err != nil {
		return nil, err
	}
	return sim.Run(ctx)
}
