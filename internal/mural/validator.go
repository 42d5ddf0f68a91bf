package mural

import "errors"

// Placement rejections. These are normal outcomes, not failures.
var (
	ErrOutOfBounds   = errors.New("placement is outside the grid")
	ErrStraddlesHalf = errors.New("placement straddles the centre seam")
	ErrOverlap       = errors.New("placement overlaps another badge")
)

// Check reports the first rule a candidate placement breaks, or nil.
// The item's own entry in items is ignored.
func (g Grid) Check(itemID string, x, y, w, h int, items []Item) error {
	if x < 0 || y < 0 || x+w > g.Cols || y+h > g.Rows {
		return ErrOutOfBounds
	}

	// applies on every viewport so both layouts stay interchangeable
	if (x < g.Half()) != (x+w-1 < g.Half()) {
		return ErrStraddlesHalf
	}

	for _, other := range items {
		if other.ID == itemID {
			continue
		}
		if overlaps(x, y, w, h, other) {
			return ErrOverlap
		}
	}
	return nil
}

// IsValid reports whether a candidate placement may be committed.
func (g Grid) IsValid(itemID string, x, y, w, h int, items []Item) bool {
	return g.Check(itemID, x, y, w, h, items) == nil
}

// overlaps treats rectangles as open: shared edges do not collide.
func overlaps(x, y, w, h int, o Item) bool {
	disjoint := x+w <= o.X ||
		o.X+o.Width <= x ||
		y+h <= o.Y ||
		o.Y+o.Height <= y
	return !disjoint
}
