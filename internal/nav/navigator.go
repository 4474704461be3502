// Package nav implements the task-collecting agent: planning to the
// nearest task, moving one cell per step and accounting costs.
package nav

import (
	"errors"
	"fmt"

	"github.com/elektrokombinacija/gridnav/internal/algo"
	"github.com/elektrokombinacija/gridnav/internal/core"
)

// ErrAlreadyMoving is returned by Plan while a path is being consumed.
var ErrAlreadyMoving = errors.New("navigator is already moving")

// Status is the observable navigator state.
type Status int

const (
	Idle   Status = iota // No path; may plan
	Moving               // Consuming a path
	Stuck                // Idle, tasks remain, last plan reached none
	Done                 // Registry empty
)

func (s Status) String() string {
	return [...]string{"idle", "moving", "stuck", "done"}[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(b []byte) error {
	for _, v := range []Status{Idle, Moving, Stuck, Done} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", b)
}

// StepResult reports whether Step consumed a cell.
type StepResult int

const (
	Advanced StepResult = iota
	Halted              // Nothing to consume; no state changed
)

func (r StepResult) String() string {
	if r == Advanced {
		return "advanced"
	}
	return "idle"
}

// Navigator is one agent running one search strategy against its own
// environment. It is not safe for concurrent use.
type Navigator struct {
	env      *core.Environment
	searcher algo.Searcher

	position   core.Cell
	path       core.Path // cells still to visit, excluding position
	moving     bool
	stuck      bool
	totalCost  int
	checkpoint int // totalCost at the previous completion
	completed  []core.Completion
	count      int
	stats      algo.Stats
	target     core.TaskID
}

// New creates a navigator at the origin.
func New(env *core.Environment, s algo.Searcher) *Navigator {
	return &Navigator{
		env:      env,
		searcher: s,
		position: core.Origin,
	}
}

// Plan selects the nearest reachable task and prepares the path to it.
// It never discards an in-progress path.
func (n *Navigator) Plan() (algo.Plan, error) {
	if n.moving {
		return algo.Plan{}, ErrAlreadyMoving
	}

	plan := algo.Nearest(n.searcher, n.env, n.position)
	n.stats = n.stats.Add(plan.Stats)

	switch plan.Outcome {
	case algo.NoCandidates:
		n.path = nil
		n.stuck = false
		return plan, nil
	case algo.NoPath:
		n.stuck = true
		return plan, nil
	}

	n.path = plan.Path[1:].Clone() // movement consumes successor cells only
	n.moving = true
	n.stuck = false
	n.target = plan.Task
	return plan, nil
}

// Step moves one cell along the path and checks arrival.
func (n *Navigator) Step() StepResult {
	if len(n.path) == 0 {
		n.moving = false
		return Halted
	}

	n.position = n.path[0]
	n.path = n.path[1:]
	n.totalCost++

	if id, ok := n.env.RetireTask(n.position); ok {
		n.count++
		n.completed = append(n.completed, core.Completion{
			Task: id,
			Cost: n.totalCost - n.checkpoint,
		})
		n.checkpoint = n.totalCost
	}

	if len(n.path) == 0 {
		n.path = nil
		n.moving = false
		n.target = 0
	}
	return Advanced
}

// Status returns the current state.
func (n *Navigator) Status() Status {
	switch {
	case n.moving:
		return Moving
	case !n.env.HasTasks():
		return Done
	case n.stuck:
		return Stuck
	default:
		return Idle
	}
}

// Moving reports whether a path is being consumed.
func (n *Navigator) Moving() bool { return n.moving }

// Position returns the current cell.
func (n *Navigator) Position() core.Cell { return n.position }

// Path returns a copy of the remaining path.
func (n *Navigator) Path() core.Path { return n.path.Clone() }

// Target returns the task the current path was planned for, or 0 when idle.
// Other tasks on the way are still collected.
func (n *Navigator) Target() core.TaskID { return n.target }

// TotalCost returns the number of moves made so far.
func (n *Navigator) TotalCost() int { return n.totalCost }

// Completed returns a copy of the completion log.
func (n *Navigator) Completed() []core.Completion {
	out := make([]core.Completion, len(n.completed))
	copy(out, n.completed)
	return out
}

// CompletedCount returns the number of retired tasks.
func (n *Navigator) CompletedCount() int { return n.count }

// LastCompletionCost returns the marginal cost of the most recent
// completion, and false if nothing has been completed.
func (n *Navigator) LastCompletionCost() (int, bool) {
	if len(n.completed) == 0 {
		return 0, false
	}
	return n.completed[len(n.completed)-1].Cost, true
}

// Strategy returns the strategy of the underlying searcher.
func (n *Navigator) Strategy() core.Strategy { return n.searcher.Strategy() }

// SearchStats returns search work accumulated over every plan.
func (n *Navigator) SearchStats() algo.Stats { return n.stats }

// Environment returns the navigator's environment.
func (n *Navigator) Environment() *core.Environment { return n.env }
