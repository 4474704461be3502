package algo

import (
	"github.com/elektrokombinacija/gridnav/internal/core"
)

// Outcome classifies a multi-goal planning attempt.
type Outcome int

const (
	Found        Outcome = iota // A reachable task was selected
	NoPath                      // Tasks exist but none is reachable
	NoCandidates                // The registry is empty
)

func (o Outcome) String() string {
	return [...]string{"found", "no_path", "no_candidates"}[o]
}

// Plan is the result of nearest-task selection. Path and Task are set only
// when Outcome is Found; Path runs start→target inclusive.
type Plan struct {
	Outcome Outcome
	Task    core.TaskID
	Target  core.Cell
	Path    core.Path
	Stats   Stats
}

// Nearest runs one search per task cell from start, in registry order, and
// keeps the shortest path. Only strictly shorter paths replace the current
// best, so equal-length candidates resolve to the first evaluated task.
// A task on start is skipped: arrival is only awarded after a move.
func Nearest(s Searcher, env *core.Environment, start core.Cell) Plan {
	placements := env.Tasks.Placements()
	if len(placements) == 0 {
		return Plan{Outcome: NoCandidates}
	}

	best := Plan{Outcome: NoPath}
	for _, p := range placements {
		if p.Cell == start {
			continue
		}
		path, stats := s.Search(env.Grid, start, p.Cell)
		best.Stats = best.Stats.Add(stats)
		if path == nil {
			continue
		}
		if best.Path == nil || len(path) < len(best.Path) {
			best.Outcome = Found
			best.Task = p.ID
			best.Target = p.Cell
			best.Path = path
		}
	}
	return best
}
