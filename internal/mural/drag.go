package mural

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/GregMSThompson/mural-backend/pkg/logger"
)

var (
	ErrDragActive  = errors.New("a drag is already in progress")
	ErrNoDrag      = errors.New("no drag in progress")
	ErrUnknownItem = errors.New("item is not on the mural")
	ErrNotReady    = errors.New("mural container has not been measured")
	ErrNoPointer   = errors.New("event carries no pointer position")
)

type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Session is the state of one gesture, from grab to release.
type Session struct {
	ID     string
	Item   Item
	Offset Point // pointer minus the item's visual origin, container space
	Live   Point
	Touch  bool
}

// Preview is the live feedback for the cell currently under the dragged tile.
type Preview struct {
	ItemID         string `json:"itemId"`
	Visual         Cell   `json:"visual"`
	Logical        Cell   `json:"logical"`
	Valid          bool   `json:"valid"`
	SuppressScroll bool   `json:"suppressScroll"`
}

// Drop is the outcome of a finished gesture. Reason is set when the
// candidate was rejected.
type Drop struct {
	SessionID string
	ItemID    string
	From      Cell
	To        Cell
	Accepted  bool
	Reason    error
}

// Controller runs drag sessions for one mounted mural. At most one session
// is active at a time. Validation always uses the latest snapshot given to
// SetItems; positions only change when the store pushes a new snapshot.
type Controller struct {
	grid   Grid
	writer PositionWriter

	mu       sync.Mutex
	items    []Item
	viewport Viewport
	session  *Session

	writes sync.WaitGroup
}

func NewController(grid Grid, writer PositionWriter) *Controller {
	return &Controller{grid: grid, writer: writer}
}

func (c *Controller) SetItems(items []Item) {
	snapshot := make([]Item, len(items))
	copy(snapshot, items)

	c.mu.Lock()
	c.items = snapshot
	c.mu.Unlock()
}

func (c *Controller) SetViewport(v Viewport) {
	c.mu.Lock()
	c.viewport = v
	c.mu.Unlock()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		return Dragging
	}
	return Idle
}

// Begin starts dragging itemID from the pointer position in ev.
func (c *Controller) Begin(itemID string, ev PointerEvent) (Session, error) {
	p, ok := PointerPosition(ev)
	if !ok {
		return Session{}, ErrNoPointer
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return Session{}, ErrDragActive
	}
	if !c.viewport.Ready() {
		return Session{}, ErrNotReady
	}
	item, ok := findItem(c.items, itemID)
	if !ok {
		return Session{}, ErrUnknownItem
	}

	tile := c.viewport.TileSize(c.grid)
	origin := c.viewport.Container.Origin()
	vx, vy := c.grid.ToVisual(item.X, item.Y, c.viewport.Narrow())

	s := &Session{
		ID:   uuid.NewString(),
		Item: item,
		Offset: Point{
			X: (p.X - origin.X) - float64(vx)*tile,
			Y: (p.Y - origin.Y) - float64(vy)*tile,
		},
		Live:  p,
		Touch: ev.IsTouch(),
	}
	c.session = s
	return *s, nil
}

// Move tracks the pointer and reports where the tile would land. It never
// writes to the store.
func (c *Controller) Move(ev PointerEvent) (Preview, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil {
		return Preview{}, ErrNoDrag
	}
	if p, ok := PointerPosition(ev); ok {
		s.Live = p
	}

	visual, logical, err := c.resolve(s)
	return Preview{
		ItemID:         s.Item.ID,
		Visual:         visual,
		Logical:        logical,
		Valid:          err == nil,
		SuppressScroll: s.Touch,
	}, nil
}

// End finishes the gesture at the pointer position in ev (or the last known
// position when ev has none). The controller is idle again before any write
// is issued; an accepted drop dispatches exactly one position update.
func (c *Controller) End(ctx context.Context, ev PointerEvent) (Drop, error) {
	c.mu.Lock()
	s := c.session
	if s == nil {
		c.mu.Unlock()
		return Drop{}, ErrNoDrag
	}
	if p, ok := PointerPosition(ev); ok {
		s.Live = p
	}
	c.session = nil
	_, logical, err := c.resolve(s)
	c.mu.Unlock()

	drop := Drop{
		SessionID: s.ID,
		ItemID:    s.Item.ID,
		From:      Cell{X: s.Item.X, Y: s.Item.Y},
		To:        logical,
		Accepted:  err == nil,
		Reason:    err,
	}
	if drop.Accepted {
		c.dispatch(ctx, drop)
	}
	return drop, nil
}

// Cancel ends the gesture at the last known pointer position, as when the
// pointer capture is lost.
func (c *Controller) Cancel(ctx context.Context) (Drop, error) {
	return c.End(ctx, PointerEvent{Kind: PointerTouch})
}

// Wait blocks until every dispatched position update has finished.
func (c *Controller) Wait() {
	c.writes.Wait()
}

// resolve computes the candidate cells for the session's live pointer and
// validates the logical one. Callers hold c.mu.
func (c *Controller) resolve(s *Session) (Cell, Cell, error) {
	tile := c.viewport.TileSize(c.grid)
	if tile <= 0 {
		return Cell{}, Cell{X: s.Item.X, Y: s.Item.Y}, ErrNotReady
	}

	narrow := c.viewport.Narrow()
	origin := c.viewport.Container.Origin()
	visual := Cell{
		X: int(math.Round((s.Live.X - origin.X - s.Offset.X) / tile)),
		Y: int(math.Round((s.Live.Y - origin.Y - s.Offset.Y) / tile)),
	}
	lx, ly := c.grid.ToLogical(visual.X, visual.Y, narrow)
	logical := Cell{X: lx, Y: ly}

	if narrow {
		cols, rows := c.grid.VisualSize(true)
		if visual.X < 0 || visual.Y < 0 || visual.X+s.Item.Width > cols || visual.Y+s.Item.Height > rows {
			return visual, logical, ErrOutOfBounds
		}
	}
	return visual, logical, c.grid.Check(s.Item.ID, lx, ly, s.Item.Width, s.Item.Height, c.items)
}

func (c *Controller) dispatch(ctx context.Context, d Drop) {
	// the gesture is over; the write must outlive whatever delivered it
	ctx = context.WithoutCancel(ctx)
	c.writes.Add(1)
	go func() {
		defer c.writes.Done()
		log := logger.FromContext(ctx).With("item_id", d.ItemID, "session_id", d.SessionID)
		if err := c.writer.UpdatePosition(ctx, d.ItemID, d.To.X, d.To.Y); err != nil {
			log.Error("failed to update badge position", "x", d.To.X, "y", d.To.Y, "error", err)
			return
		}
		log.Debug("badge position updated", "x", d.To.X, "y", d.To.Y)
	}()
}
