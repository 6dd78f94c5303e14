// Package registry maintains the ordered collection of analysis points
// for one editing session.
//
// The registry owns identity assignment: IDs increase monotonically and
// are never reused within a session, regardless of deletions. The only
// way to renumber is the explicit bulk ResetIDs operation.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"lasermark/internal/point"
)

// ErrNotFound is returned when no point has the requested ID.
var ErrNotFound = errors.New("point not found")

// Registry is the ordered set of all points currently active.
// Insertion order is preserved for stable export and for most-recent-wins
// selection by the interaction layer.
type Registry struct {
	points []point.Point
	// maxID tracks the highest ID handed out or observed, so a later
	// auto-assigned ID can never collide with an explicit one taken
	// from an instrument file.
	maxID int
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

// Add validates p and appends it to the registry. The label is folded
// to its canonical spelling so lookups by label always match. A zero ID
// means the registry assigns the next available one; an explicit ID
// (e.g. from an instrument file) is kept as given and advances the
// counter past it.
func (r *Registry) Add(p point.Point) (point.Point, error) {
	label, err := point.ParseLabel(string(p.Label))
	if err != nil {
		return point.Point{}, err
	}
	p.Label = label

	if err := p.Validate(); err != nil {
		return point.Point{}, err
	}

	if p.ID == 0 {
		r.maxID++
		p.ID = r.maxID
	} else if p.ID > r.maxID {
		r.maxID = p.ID
	}
	r.points = append(r.points, p)
	return p, nil
}

// Remove deletes the point with the given ID.
func (r *Registry) Remove(id int) error {
	for i, p := range r.points {
		if p.ID == id {
			r.points = append(r.points[:i], r.points[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// Clear empties the registry. The ID counter is left untouched so IDs are
// not reused later in the session.
func (r *Registry) Clear() {
	r.points = nil
}

// ResetIDs renumbers all current points starting at 1, in ascending
// original-ID order, and resets the counter to one past the highest new
// ID. This is a destructive, irreversible renumbering.
func (r *Registry) ResetIDs() {
	order := make([]int, len(r.points))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return r.points[order[a]].ID < r.points[order[b]].ID
	})

	for rank, idx := range order {
		r.points[idx].ID = rank + 1
	}
	r.maxID = len(r.points)
}

// Lookup returns the point with the given ID.
func (r *Registry) Lookup(id int) (point.Point, error) {
	for _, p := range r.points {
		if p.ID == id {
			return p, nil
		}
	}
	return point.Point{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// ReferencePoints returns all RefMark points in insertion order.
// The first three are the destination correspondences used by
// recoordination.
func (r *Registry) ReferencePoints() []point.Point {
	var refs []point.Point
	for _, p := range r.points {
		if p.Label == point.LabelRefMark {
			refs = append(refs, p)
		}
	}
	return refs
}

// HasReferenceTriplet reports whether at least three RefMark points exist,
// the precondition for recoordination and the export sanity check.
func (r *Registry) HasReferenceTriplet() bool {
	n := 0
	for _, p := range r.points {
		if p.Label == point.LabelRefMark {
			n++
			if n == 3 {
				return true
			}
		}
	}
	return false
}

// Points returns a copy of all points in insertion order.
func (r *Registry) Points() []point.Point {
	out := make([]point.Point, len(r.points))
	copy(out, r.points)
	return out
}

// Len returns the number of points currently registered.
func (r *Registry) Len() int {
	return len(r.points)
}
