package core

import (
	"fmt"
	"strings"
)

// Completion records a retired task and the moves spent since the
// previous completion.
type Completion struct {
	Task TaskID `json:"task"`
	Cost int    `json:"cost"`
}

func (c Completion) String() string {
	return fmt.Sprintf("%d (Cost %d)", c.Task, c.Cost)
}

// FormatCompletions renders a log as "1 (Cost 8), 3 (Cost 4)".
func FormatCompletions(log []Completion) string {
	parts := make([]string, len(log))
	for i, c := range log {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}
