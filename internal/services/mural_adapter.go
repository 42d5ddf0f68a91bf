package services

import (
	"context"

	"github.com/GregMSThompson/mural-backend/internal/models"
	"github.com/GregMSThompson/mural-backend/internal/mural"
)

// badgeStore is the Firestore storage interface for mural badges.
type badgeStore interface {
	List(ctx context.Context, uid string) ([]*models.Badge, error)
	UpdatePosition(ctx context.Context, uid, badgeID string, x, y int) error
	SubscribeAll(ctx context.Context, uid string, onUpdate func([]*models.Badge), onError func(error)) func()
}

// muralAdapter binds the badge store to one mural owner so the placement
// engine can read and move items without knowing about users.
type muralAdapter struct {
	store badgeStore
	uid   string
}

func newMuralAdapter(store badgeStore, uid string) *muralAdapter {
	return &muralAdapter{store: store, uid: uid}
}

func (a *muralAdapter) SubscribeAll(ctx context.Context, onUpdate func([]mural.Item), onError func(error)) func() {
	return a.store.SubscribeAll(ctx, a.uid, func(badges []*models.Badge) {
		onUpdate(toItems(badges))
	}, onError)
}

func (a *muralAdapter) UpdatePosition(ctx context.Context, itemID string, x, y int) error {
	return a.store.UpdatePosition(ctx, a.uid, itemID, x, y)
}

func toItem(b *models.Badge) mural.Item {
	w, h := b.Width, b.Height
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return mural.Item{
		ID:       b.BadgeID,
		X:        b.X,
		Y:        b.Y,
		Width:    w,
		Height:   h,
		Name:     b.Name,
		ImageURL: b.ImageURL,
	}
}

func toItems(badges []*models.Badge) []mural.Item {
	items := make([]mural.Item, len(badges))
	for i, b := range badges {
		items[i] = toItem(b)
	}
	return items
}
