package core

// TaskID is a unique task identifier (1..n).
type TaskID int

// Placement puts a task on a cell.
type Placement struct {
	ID   TaskID `json:"id"`
	Cell Cell   `json:"cell"`
}

// Registry maps task cells to task IDs. Iteration follows placement order,
// which is what makes nearest-task tie-breaks reproducible.
type Registry struct {
	byCell map[Cell]TaskID
	order  []Cell
}

// NewRegistry creates a registry holding the given placements.
// Later duplicates of a cell are ignored.
func NewRegistry(placements []Placement) *Registry {
	r := &Registry{
		byCell: make(map[Cell]TaskID, len(placements)),
		order:  make([]Cell, 0, len(placements)),
	}
	for _, p := range placements {
		if _, dup := r.byCell[p.Cell]; dup {
			continue
		}
		r.byCell[p.Cell] = p.ID
		r.order = append(r.order, p.Cell)
	}
	return r
}

// Remove deletes the task at c and returns its ID. A second call for the
// same cell returns (0, false).
func (r *Registry) Remove(c Cell) (TaskID, bool) {
	id, ok := r.byCell[c]
	if !ok {
		return 0, false
	}
	delete(r.byCell, c)
	for i, oc := range r.order {
		if oc == c {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return id, true
}

// Cells returns the remaining task cells in placement order.
func (r *Registry) Cells() []Cell {
	out := make([]Cell, len(r.order))
	copy(out, r.order)
	return out
}

// Placements returns the remaining tasks in placement order.
func (r *Registry) Placements() []Placement {
	out := make([]Placement, len(r.order))
	for i, c := range r.order {
		out[i] = Placement{ID: r.byCell[c], Cell: c}
	}
	return out
}

// Len returns the number of remaining tasks.
func (r *Registry) Len() int {
	return len(r.order)
}
