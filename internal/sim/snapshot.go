package sim

import (
	"fmt"
	"io"

	"github.com/elektrokombinacija/gridnav/internal/core"
	"github.com/elektrokombinacija/gridnav/internal/nav"
)

// AgentView is the observable state of one strategy.
type AgentView struct {
	Strategy  core.Strategy     `json:"strategy"`
	Started   bool              `json:"started"`
	Status    nav.Status        `json:"status"`
	Position  core.Cell         `json:"position"`
	Path      core.Path         `json:"path"`
	Target    core.TaskID       `json:"target,omitempty"`
	TotalCost int               `json:"total_cost"`
	Completed []core.Completion `json:"completed"`
	Remaining []core.Placement  `json:"remaining"`
}

// Snapshot is a point-in-time view of the whole simulation.
type Snapshot struct {
	RunID    string      `json:"run_id"`
	Tick     int         `json:"tick"`
	Cols     int         `json:"cols"`
	Rows     int         `json:"rows"`
	Barriers []core.Cell `json:"barriers"`
	Agents   []AgentView `json:"agents"`
	Done     bool        `json:"done"`
}

// Snapshot returns the current state.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Simulator) snapshot() Snapshot {
	snap := Snapshot{
		RunID:    s.runID,
		Tick:     s.tick,
		Cols:     s.grid.Cols,
		Rows:     s.grid.Rows,
		Barriers: s.grid.Barriers(),
		Done:     s.done(),
	}
	for _, st := range s.order {
		a := s.agents[st]
		n := a.nav
		snap.Agents = append(snap.Agents, AgentView{
			Strategy:  st,
			Started:   a.started,
			Status:    n.Status(),
			Position:  n.Position(),
			Path:      n.Path(),
			Target:    n.Target(),
			TotalCost: n.TotalCost(),
			Completed: n.Completed(),
			Remaining: n.Environment().Tasks.Placements(),
		})
	}
	return snap
}

// Subscribe returns a channel receiving a snapshot after every tick.
// Slow subscribers miss snapshots rather than block the tick loop.
func (s *Simulator) Subscribe() chan Snapshot {
	ch := make(chan Snapshot, 16)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes ch.
func (s *Simulator) Unsubscribe(ch chan Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(ch)
	}
}

func (s *Simulator) publish(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Report writes the per-strategy status panel.
func (s *Simulator) Report(w io.Writer) error {
	snap := s.Snapshot()
	for i, a := range snap.Agents {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w,
			"%s Details:\nTasks Completed: %d\nPosition: %v\nCompleted Tasks: %s\nTotal Path Cost: %d\nStatus: %s\n",
			a.Strategy.Label(), len(a.Completed), a.Position,
			core.FormatCompletions(a.Completed), a.TotalCost, a.Status)
		if err != nil {
			return err
		}
	}
	return nil
}
