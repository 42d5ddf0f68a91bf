package mural

type PointerKind string

const (
	PointerMouse PointerKind = "mouse"
	PointerTouch PointerKind = "touch"
)

// PointerEvent is a mouse or touch event in client coordinates. Mouse events
// carry ClientX/ClientY; touch events carry their active touch points.
type PointerEvent struct {
	Kind    PointerKind `json:"kind"`
	ClientX float64     `json:"clientX"`
	ClientY float64     `json:"clientY"`
	Touches []Point     `json:"touches,omitempty"`
}

func (e PointerEvent) IsTouch() bool {
	return e.Kind == PointerTouch
}

// PointerPosition extracts the client position of an event regardless of its
// source. Touch events use the first touch point; a touch-end with no
// remaining touches has no position.
func PointerPosition(ev PointerEvent) (Point, bool) {
	if ev.IsTouch() {
		if len(ev.Touches) == 0 {
			return Point{}, false
		}
		return ev.Touches[0], true
	}
	return Point{X: ev.ClientX, Y: ev.ClientY}, true
}
