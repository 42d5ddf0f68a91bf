package services

import (
	"context"
	"errors"

	"github.com/GregMSThompson/mural-backend/internal/dto"
	"github.com/GregMSThompson/mural-backend/internal/errs"
	"github.com/GregMSThompson/mural-backend/internal/models"
	"github.com/GregMSThompson/mural-backend/internal/mural"
	"github.com/GregMSThompson/mural-backend/pkg/helpers"
	"github.com/GregMSThompson/mural-backend/pkg/logger"
)

type muralService struct {
	store badgeStore
	grid  mural.Grid
}

func NewMuralService(store badgeStore, grid mural.Grid) *muralService {
	return &muralService{store: store, grid: grid}
}

// --- Public service methods ---

func (s *muralService) Layout(ctx context.Context, uid string, vp mural.Viewport) (dto.LayoutResponse, error) {
	badges, err := s.store.List(ctx, uid)
	if err != nil {
		return dto.LayoutResponse{}, err
	}
	return s.layout(toItems(badges), vp), nil
}

// MoveBadge places a badge at a logical cell chosen by the client, applying
// the same rules as a drag.
func (s *muralService) MoveBadge(ctx context.Context, uid, badgeID string, req dto.MoveBadgeRequest) (*models.Badge, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	log, ctx := logger.With(ctx, "badge_id", badgeID)

	badges, err := s.store.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	badge := findBadge(badges, badgeID)
	if badge == nil {
		return nil, errs.NewNotFoundError("badge not found")
	}

	x, y := helpers.Value(req.X), helpers.Value(req.Y)
	item := toItem(badge)
	if err := s.grid.Check(badgeID, x, y, item.Width, item.Height, toItems(badges)); err != nil {
		return nil, errs.NewPlacementError(err)
	}

	if err := s.store.UpdatePosition(ctx, uid, badgeID, x, y); err != nil {
		log.Error("failed to move badge", "error", err)
		return nil, err
	}

	log.Info("badge moved", "from_x", badge.X, "from_y", badge.Y, "x", x, "y", y)
	badge.X, badge.Y = x, y
	return badge, nil
}

// Drop replays one recorded gesture through a fresh drag session against the
// current mural. An accepted drop issues a single position write; a rejected
// one writes nothing. Write failures are logged, not returned.
func (s *muralService) Drop(ctx context.Context, uid string, req dto.DropRequest) (dto.DropResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.DropResponse{}, err
	}
	vp := req.Viewport.Viewport()
	if !vp.Ready() {
		return dto.DropResponse{}, errs.NewNotReadyError("mural container has not been measured")
	}

	badges, err := s.store.List(ctx, uid)
	if err != nil {
		return dto.DropResponse{}, err
	}

	ctrl := mural.NewController(s.grid, newMuralAdapter(s.store, uid))
	ctrl.SetViewport(vp)
	ctrl.SetItems(toItems(badges))
	// dispatched writes finish before the response reports the outcome
	defer ctrl.Wait()

	session, err := ctrl.Begin(req.BadgeID, req.Grab.Event())
	if err != nil {
		return dto.DropResponse{}, beginError(err)
	}
	log, ctx := logger.With(ctx, "badge_id", req.BadgeID, "session_id", session.ID)

	previews := make([]mural.Preview, 0, len(req.Moves))
	for _, mv := range req.Moves {
		p, err := ctrl.Move(mv.Event())
		if err != nil {
			return dto.DropResponse{}, err
		}
		previews = append(previews, p)
	}

	var drop mural.Drop
	if req.Release != nil {
		drop, err = ctrl.End(ctx, req.Release.Event())
	} else {
		drop, err = ctrl.Cancel(ctx)
	}
	if err != nil {
		return dto.DropResponse{}, err
	}

	resp := dto.DropResponse{
		SessionID: drop.SessionID,
		BadgeID:   drop.ItemID,
		From:      drop.From,
		To:        drop.To,
		Accepted:  drop.Accepted,
		Previews:  previews,
	}
	if drop.Reason != nil {
		resp.Reason = drop.Reason.Error()
	}

	log.Info("drop resolved", "accepted", drop.Accepted, "x", drop.To.X, "y", drop.To.Y, "moves", len(previews))
	if logger.IsDebugEnabled(ctx) {
		log.Debug("drop previews", "previews", previews)
	}
	return resp, nil
}

// Watch streams a layout for every mural snapshot until ctx is done or the
// subscription fails. Only the newest pending snapshot is emitted.
func (s *muralService) Watch(ctx context.Context, uid string, vp mural.Viewport, emit func(dto.StreamEvent) error) error {
	log := logger.FromContext(ctx)
	pending := make(chan mural.Snapshot, 1)

	feed := mural.OpenFeed(ctx, newMuralAdapter(s.store, uid), func(snap mural.Snapshot) {
		select {
		case <-pending:
		default:
		}
		pending <- snap
	})
	defer feed.Close()

	if err := emit(dto.StreamEvent{State: mural.FeedLoading.String()}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-pending:
			if snap.State == mural.FeedFailed {
				log.Error("mural subscription failed", "error", snap.Err)
				return emit(dto.StreamEvent{State: snap.State.String(), Error: "mural is unavailable"})
			}
			layout := s.layout(snap.Items, vp)
			if err := emit(dto.StreamEvent{State: snap.State.String(), Layout: &layout}); err != nil {
				return err
			}
		}
	}
}

func (s *muralService) Audit(ctx context.Context, uid string) (dto.AuditResponse, error) {
	badges, err := s.store.List(ctx, uid)
	if err != nil {
		return dto.AuditResponse{}, err
	}

	violations := mural.Audit(s.grid, toItems(badges))
	if len(violations) > 0 {
		logger.FromContext(ctx).Warn("mural has invariant violations", "count", len(violations))
	}
	if violations == nil {
		violations = []mural.Violation{}
	}
	return dto.AuditResponse{Badges: len(badges), Violations: violations}, nil
}

// --- Helpers ---

func (s *muralService) layout(items []mural.Item, vp mural.Viewport) dto.LayoutResponse {
	narrow := vp.Narrow()
	tile := vp.TileSize(s.grid)
	cols, rows := s.grid.VisualSize(narrow)

	resp := dto.LayoutResponse{
		Ready:    vp.Ready(),
		Narrow:   narrow,
		TileSize: tile,
		Grid:     s.grid,
		Cols:     cols,
		Rows:     rows,
		Badges:   make([]dto.LayoutBadge, 0, len(items)),
	}
	if row := s.grid.DividerRow(narrow); row >= 0 {
		resp.DividerRow = helpers.Ptr(row)
	}

	for _, it := range items {
		vx, vy := s.grid.ToVisual(it.X, it.Y, narrow)
		resp.Badges = append(resp.Badges, dto.LayoutBadge{
			BadgeID:  it.ID,
			Name:     it.Name,
			ImageURL: it.ImageURL,
			Width:    it.Width,
			Height:   it.Height,
			X:        it.X,
			Y:        it.Y,
			VisualX:  vx,
			VisualY:  vy,
			Left:     float64(vx) * tile,
			Top:      float64(vy) * tile,
			PxWidth:  float64(it.Width) * tile,
			PxHeight: float64(it.Height) * tile,
		})
	}
	return resp
}

func beginError(err error) error {
	switch {
	case errors.Is(err, mural.ErrUnknownItem):
		return errs.NewNotFoundError("badge not found")
	case errors.Is(err, mural.ErrNotReady):
		return errs.NewNotReadyError(err.Error())
	case errors.Is(err, mural.ErrNoPointer):
		return errs.NewValidationError("grab event has no pointer position")
	default:
		return err
	}
}

func findBadge(badges []*models.Badge, id string) *models.Badge {
	for _, b := range badges {
		if b.BadgeID == id {
			return b
		}
	}
	return nil
}
