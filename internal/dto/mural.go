package dto

import (
	"github.com/GregMSThompson/mural-backend/internal/mural"
)

type ViewportRequest struct {
	Width     float64    `json:"width" validate:"gte=0"`
	Container mural.Rect `json:"container"`
}

func (v ViewportRequest) Viewport() mural.Viewport {
	return mural.Viewport{Width: v.Width, Container: v.Container}
}

type PointerEventRequest struct {
	Kind    string        `json:"kind" validate:"required,oneof=mouse touch"`
	ClientX float64       `json:"clientX"`
	ClientY float64       `json:"clientY"`
	Touches []mural.Point `json:"touches" validate:"max=10"`
}

func (p PointerEventRequest) Event() mural.PointerEvent {
	return mural.PointerEvent{
		Kind:    mural.PointerKind(p.Kind),
		ClientX: p.ClientX,
		ClientY: p.ClientY,
		Touches: p.Touches,
	}
}

// DropRequest is one recorded drag gesture. A nil Release means the pointer
// capture was lost and the gesture ends at the last move.
type DropRequest struct {
	BadgeID  string                `json:"badgeId" validate:"required"`
	Viewport ViewportRequest       `json:"viewport"`
	Grab     PointerEventRequest   `json:"grab"`
	Moves    []PointerEventRequest `json:"moves" validate:"max=500,dive"`
	Release  *PointerEventRequest  `json:"release"`
}

type MoveBadgeRequest struct {
	X *int `json:"x" validate:"required"`
	Y *int `json:"y" validate:"required"`
}

type DropResponse struct {
	SessionID string          `json:"sessionId"`
	BadgeID   string          `json:"badgeId"`
	From      mural.Cell      `json:"from"`
	To        mural.Cell      `json:"to"`
	Accepted  bool            `json:"accepted"`
	Reason    string          `json:"reason,omitempty"`
	Previews  []mural.Preview `json:"previews"`
}

// LayoutBadge is a badge positioned for one viewport. X/Y stay logical;
// VisualX/VisualY and the pixel box are derived.
type LayoutBadge struct {
	BadgeID  string  `json:"badgeId"`
	Name     string  `json:"name"`
	ImageURL string  `json:"imageUrl"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
	VisualX  int     `json:"visualX"`
	VisualY  int     `json:"visualY"`
	Left     float64 `json:"left"`
	Top      float64 `json:"top"`
	PxWidth  float64 `json:"pxWidth"`
	PxHeight float64 `json:"pxHeight"`
}

// LayoutResponse describes how to render a mural. Ready is false until the
// container has been measured; pixel fields are zero until then.
type LayoutResponse struct {
	Ready      bool          `json:"ready"`
	Narrow     bool          `json:"narrow"`
	TileSize   float64       `json:"tileSize"`
	Grid       mural.Grid    `json:"grid"`
	Cols       int           `json:"cols"`
	Rows       int           `json:"rows"`
	DividerRow *int          `json:"dividerRow,omitempty"`
	Badges     []LayoutBadge `json:"badges"`
}

type AuditResponse struct {
	Badges     int               `json:"badges"`
	Violations []mural.Violation `json:"violations"`
}

// StreamEvent is one server-sent event on the mural stream.
type StreamEvent struct {
	State  string          `json:"state"`
	Layout *LayoutResponse `json:"layout,omitempty"`
	Error  string          `json:"error,omitempty"`
}
