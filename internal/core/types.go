// Package core defines the grid, task and layout models for gridnav.
package core

import "fmt"

// Strategy selects the search used to reach tasks.
type Strategy int

const (
	Heuristic Strategy = iota // A*, Manhattan heuristic
	LeastCost                 // Uniform-cost search
)

func (s Strategy) String() string {
	switch s {
	case Heuristic:
		return "astar"
	case LeastCost:
		return "ucs"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Label returns the display name used in reports.
func (s Strategy) Label() string {
	switch s {
	case Heuristic:
		return "A*"
	case LeastCost:
		return "UCS"
	default:
		return s.String()
	}
}

// AllStrategies returns every known strategy in report order.
func AllStrategies() []Strategy {
	return []Strategy{Heuristic, LeastCost}
}

// ParseStrategy maps a name such as "astar" or "ucs" to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "astar", "a*", "heuristic":
		return Heuristic, nil
	case "ucs", "leastcost", "least-cost":
		return LeastCost, nil
	}
	return 0, fmt.Errorf("unknown strategy %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(b []byte) error {
	v, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
