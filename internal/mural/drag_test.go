package mural

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/GregMSThompson/mural-backend/pkg/helpers"
)

type positionCall struct {
	itemID string
	x, y   int
}

type fakeWriter struct {
	mu    sync.Mutex
	calls []positionCall
	err   error
}

func (f *fakeWriter) UpdatePosition(_ context.Context, itemID string, x, y int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, positionCall{itemID: itemID, x: x, y: y})
	return f.err
}

func (f *fakeWriter) Calls() []positionCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]positionCall(nil), f.calls...)
}

// container at (100,50), 1000px wide on a desktop viewport: 50px tiles.
var wideViewport = Viewport{Width: 1280, Container: Rect{Left: 100, Top: 50, Width: 1000, Height: 300}}

func mouseAt(x, y float64) PointerEvent {
	return PointerEvent{Kind: PointerMouse, ClientX: x, ClientY: y}
}

func touchAt(x, y float64) PointerEvent {
	return PointerEvent{Kind: PointerTouch, Touches: []Point{{X: x, Y: y}}}
}

func scenario() (*Controller, *fakeWriter) {
	w := &fakeWriter{}
	c := NewController(DefaultGrid, w)
	c.SetViewport(wideViewport)
	c.SetItems([]Item{
		{ID: "A", X: 0, Y: 0, Width: 2, Height: 1},
		{ID: "B", X: 5, Y: 0, Width: 1, Height: 1},
	})
	return c, w
}

func TestController_DropOnFreeCellCommits(t *testing.T) {
	c, w := scenario()
	ctx := helpers.TestCtx()

	if _, err := c.Begin("A", mouseAt(110, 60)); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	// +3 columns
	drop, err := c.End(ctx, mouseAt(260, 60))
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	c.Wait()

	if !drop.Accepted {
		t.Fatalf("expected drop to be accepted, reason: %v", drop.Reason)
	}
	if drop.To != (Cell{X: 3, Y: 0}) {
		t.Fatalf("expected (3,0), got %+v", drop.To)
	}
	calls := w.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected exactly one write, got %d", len(calls))
	}
	if calls[0] != (positionCall{itemID: "A", x: 3, y: 0}) {
		t.Fatalf("unexpected write: %+v", calls[0])
	}
	if c.State() != Idle {
		t.Fatalf("expected idle after drop, got %s", c.State())
	}
}

func TestController_DropOnOccupiedCellIsNoop(t *testing.T) {
	c, w := scenario()

	if _, err := c.Begin("A", mouseAt(110, 60)); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	// +5 columns lands on B
	drop, err := c.End(helpers.TestCtx(), mouseAt(360, 60))
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	c.Wait()

	if drop.Accepted {
		t.Fatal("expected drop to be rejected")
	}
	if !errors.Is(drop.Reason, ErrOverlap) {
		t.Fatalf("expected overlap, got %v", drop.Reason)
	}
	if n := len(w.Calls()); n != 0 {
		t.Fatalf("expected no writes, got %d", n)
	}
	if c.State() != Idle {
		t.Fatalf("expected idle after rejected drop, got %s", c.State())
	}
}

func TestController_MovePreview(t *testing.T) {
	c, w := scenario()

	if _, err := c.Begin("A", mouseAt(110, 60)); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	p, err := c.Move(mouseAt(230, 60)) // 2.4 columns rounds to 2
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if p.Logical != (Cell{X: 2, Y: 0}) || !p.Valid {
		t.Errorf("expected valid preview at (2,0), got %+v", p)
	}
	if p.SuppressScroll {
		t.Error("mouse drags should not suppress scrolling")
	}

	p, err = c.Move(mouseAt(340, 60)) // 4.6 columns rounds to 5
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if p.Logical != (Cell{X: 5, Y: 0}) || p.Valid {
		t.Errorf("expected invalid preview at (5,0), got %+v", p)
	}

	if n := len(w.Calls()); n != 0 {
		t.Fatalf("moves must not write, got %d writes", n)
	}
	if c.State() != Dragging {
		t.Fatalf("expected dragging, got %s", c.State())
	}
}

func TestController_OffsetKeepsTileUnderPointer(t *testing.T) {
	c, _ := scenario()

	// grab A near its right edge
	s, err := c.Begin("A", mouseAt(195, 90))
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if s.Offset != (Point{X: 95, Y: 40}) {
		t.Fatalf("unexpected offset %+v", s.Offset)
	}

	p, err := c.Move(mouseAt(195, 90))
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if p.Logical != (Cell{X: 0, Y: 0}) {
		t.Fatalf("tile should not jump on grab, got %+v", p.Logical)
	}
}

func TestController_BeginErrors(t *testing.T) {
	c, _ := scenario()

	if _, err := c.Begin("missing", mouseAt(110, 60)); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("expected ErrUnknownItem, got %v", err)
	}
	if _, err := c.Begin("A", PointerEvent{Kind: PointerTouch}); !errors.Is(err, ErrNoPointer) {
		t.Errorf("expected ErrNoPointer, got %v", err)
	}
	if _, err := c.Begin("A", mouseAt(110, 60)); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := c.Begin("B", mouseAt(360, 60)); !errors.Is(err, ErrDragActive) {
		t.Errorf("expected ErrDragActive, got %v", err)
	}
}

func TestController_NotReady(t *testing.T) {
	w := &fakeWriter{}
	c := NewController(DefaultGrid, w)
	c.SetItems([]Item{{ID: "A", Width: 1, Height: 1}})
	c.SetViewport(Viewport{Width: 1280})

	if _, err := c.Begin("A", mouseAt(10, 10)); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}

	// container collapses mid-drag
	c.SetViewport(wideViewport)
	if _, err := c.Begin("A", mouseAt(110, 60)); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	c.SetViewport(Viewport{Width: 1280})
	drop, err := c.End(helpers.TestCtx(), mouseAt(260, 60))
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	c.Wait()
	if drop.Accepted || !errors.Is(drop.Reason, ErrNotReady) {
		t.Fatalf("expected not-ready rejection, got %+v", drop)
	}
	if n := len(w.Calls()); n != 0 {
		t.Fatalf("expected no writes, got %d", n)
	}
}

func TestController_EndWithoutDrag(t *testing.T) {
	c, _ := scenario()
	if _, err := c.End(helpers.TestCtx(), mouseAt(0, 0)); !errors.Is(err, ErrNoDrag) {
		t.Fatalf("expected ErrNoDrag, got %v", err)
	}
	if _, err := c.Move(mouseAt(0, 0)); !errors.Is(err, ErrNoDrag) {
		t.Fatalf("expected ErrNoDrag, got %v", err)
	}
}

func TestController_TouchDragUsesLastKnownPosition(t *testing.T) {
	c, w := scenario()
	ctx := helpers.TestCtx()

	if _, err := c.Begin("A", touchAt(110, 60)); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	p, err := c.Move(touchAt(210, 110))
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if !p.SuppressScroll {
		t.Error("touch drags should suppress scrolling")
	}

	// touchend carries no touches
	drop, err := c.End(ctx, PointerEvent{Kind: PointerTouch})
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	c.Wait()

	if !drop.Accepted || drop.To != (Cell{X: 2, Y: 1}) {
		t.Fatalf("expected accepted drop at (2,1), got %+v", drop)
	}
	if calls := w.Calls(); len(calls) != 1 || calls[0] != (positionCall{itemID: "A", x: 2, y: 1}) {
		t.Fatalf("unexpected writes: %+v", calls)
	}
}

func TestController_CancelCommitsLastPosition(t *testing.T) {
	c, w := scenario()

	if _, err := c.Begin("A", mouseAt(110, 60)); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := c.Move(mouseAt(110, 160)); err != nil {
		t.Fatalf("Move: %v", err)
	}
	drop, err := c.Cancel(helpers.TestCtx())
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	c.Wait()

	if !drop.Accepted || drop.To != (Cell{X: 0, Y: 2}) {
		t.Fatalf("expected accepted drop at (0,2), got %+v", drop)
	}
	if n := len(w.Calls()); n != 1 {
		t.Fatalf("expected one write, got %d", n)
	}
}

func TestController_NarrowViewport(t *testing.T) {
	w := &fakeWriter{}
	c := NewController(DefaultGrid, w)
	// 500px container on a phone: 50px tiles, right half stacked below.
	c.SetViewport(Viewport{Width: 390, Container: Rect{Width: 500}})
	c.SetItems([]Item{
		{ID: "C", X: 12, Y: 1, Width: 1, Height: 1},
		{ID: "D", X: 8, Y: 0, Width: 2, Height: 1},
	})

	// C renders at visual (2,7)
	if _, err := c.Begin("C", mouseAt(105, 355)); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	drop, err := c.End(helpers.TestCtx(), mouseAt(205, 405))
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	c.Wait()
	if !drop.Accepted || drop.To != (Cell{X: 14, Y: 2}) {
		t.Fatalf("expected accepted drop at logical (14,2), got %+v", drop)
	}

	// D dragged past the right edge of the narrow canvas
	if _, err := c.Begin("D", mouseAt(405, 5)); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	drop, err = c.End(helpers.TestCtx(), mouseAt(505, 5))
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	c.Wait()
	if drop.Accepted {
		t.Fatalf("expected rejection off the narrow canvas, got %+v", drop)
	}

	if calls := w.Calls(); len(calls) != 1 || calls[0] != (positionCall{itemID: "C", x: 14, y: 2}) {
		t.Fatalf("unexpected writes: %+v", calls)
	}
}

func TestController_WriteFailureIsSwallowed(t *testing.T) {
	c, w := scenario()
	w.err = errors.New("permission denied")

	if _, err := c.Begin("A", mouseAt(110, 60)); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	drop, err := c.End(helpers.TestCtx(), mouseAt(260, 60))
	if err != nil {
		t.Fatalf("End should not surface write failures: %v", err)
	}
	c.Wait()

	if !drop.Accepted {
		t.Fatalf("drop should have been dispatched, got %+v", drop)
	}
	if n := len(w.Calls()); n != 1 {
		t.Fatalf("expected a single attempt and no retry, got %d", n)
	}
	if c.State() != Idle {
		t.Fatalf("expected idle, got %s", c.State())
	}
}

func TestController_ValidatesAgainstLatestSnapshot(t *testing.T) {
	c, w := scenario()

	if _, err := c.Begin("A", mouseAt(110, 60)); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	// another session moved B onto the target meanwhile
	c.SetItems([]Item{
		{ID: "A", X: 0, Y: 0, Width: 2, Height: 1},
		{ID: "B", X: 3, Y: 0, Width: 1, Height: 1},
	})
	drop, err := c.End(helpers.TestCtx(), mouseAt(260, 60))
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	c.Wait()
	if drop.Accepted {
		t.Fatalf("expected rejection against the new snapshot, got %+v", drop)
	}
	if n := len(w.Calls()); n != 0 {
		t.Fatalf("expected no writes, got %d", n)
	}
}
