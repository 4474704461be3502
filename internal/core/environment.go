package core

// Environment pairs the shared static grid with one strategy's live task
// registry.
type Environment struct {
	Grid  *Grid
	Tasks *Registry
}

// NewEnvironment creates an environment over g with its own registry.
func NewEnvironment(g *Grid, placements []Placement) *Environment {
	return &Environment{
		Grid:  g,
		Tasks: NewRegistry(placements),
	}
}

// RetireTask removes the task at c. It is the only mutator of the registry
// and must be called at most once per arrival.
func (e *Environment) RetireTask(c Cell) (TaskID, bool) {
	return e.Tasks.Remove(c)
}

// TaskCells returns the current task cells in placement order.
func (e *Environment) TaskCells() []Cell {
	return e.Tasks.Cells()
}

// HasTasks reports whether any task remains.
func (e *Environment) HasTasks() bool {
	return e.Tasks.Len() > 0
}
