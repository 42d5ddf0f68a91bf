package mural

import "context"

// Source streams the full set of placed items for one mural. onUpdate is
// called with a complete snapshot on every change. The returned func stops
// the subscription and must be called on teardown.
type Source interface {
	SubscribeAll(ctx context.Context, onUpdate func([]Item), onError func(error)) (unsubscribe func())
}

// PositionWriter persists a new logical position for one item.
type PositionWriter interface {
	UpdatePosition(ctx context.Context, itemID string, x, y int) error
}
