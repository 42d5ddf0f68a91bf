package mural

// Violation is an at-rest invariant that a stored mural breaks. Overlaps can
// appear when two sessions validate against the same stale snapshot.
type Violation struct {
	ItemID  string `json:"itemId"`
	OtherID string `json:"otherId,omitempty"`
	Reason  string `json:"reason"`
}

// Audit re-checks every stored item against the grid and against each other.
func Audit(g Grid, items []Item) []Violation {
	var out []Violation
	for i, it := range items {
		if err := g.Check(it.ID, it.X, it.Y, it.Width, it.Height, nil); err != nil {
			out = append(out, Violation{ItemID: it.ID, Reason: err.Error()})
		}
		for _, other := range items[i+1:] {
			if overlaps(it.X, it.Y, it.Width, it.Height, other) {
				out = append(out, Violation{ItemID: it.ID, OtherID: other.ID, Reason: ErrOverlap.Error()})
			}
		}
	}
	return out
}
