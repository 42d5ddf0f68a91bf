package store

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/mural-backend/internal/errs"
	"github.com/GregMSThompson/mural-backend/internal/models"
	"github.com/GregMSThompson/mural-backend/pkg/logger"
)

type badgeStore struct {
	client *firestore.Client
}

func NewBadgeStore(client *firestore.Client) *badgeStore {
	return &badgeStore{client: client}
}

func (s *badgeStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("badges")
}

// ordered by creation so tiles render in a stable order
func (s *badgeStore) query(uid string) firestore.Query {
	return s.collection(uid).OrderBy("createdAt", firestore.Asc)
}

func (s *badgeStore) List(ctx context.Context, uid string) ([]*models.Badge, error) {
	iter := s.query(uid).Documents(ctx)
	badges, err := decodeBadges(iter)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list badges", err)
	}
	return badges, nil
}

// UpdatePosition writes only x, y and updatedAt; concurrent writers are
// last-write-wins.
func (s *badgeStore) UpdatePosition(ctx context.Context, uid, badgeID string, x, y int) error {
	_, err := s.collection(uid).Doc(badgeID).Update(ctx, []firestore.Update{
		{Path: "x", Value: x},
		{Path: "y", Value: y},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("badge not found")
		}
		return errs.NewDatabaseError("update", "failed to update badge position", err)
	}
	return nil
}

// SubscribeAll streams the full badge set of a mural. onUpdate receives a
// complete snapshot on every change; onError is called at most once, after
// which the subscription is over. The returned func stops the listener and
// waits for it to exit.
func (s *badgeStore) SubscribeAll(ctx context.Context, uid string, onUpdate func([]*models.Badge), onError func(error)) func() {
	ctx, cancel := context.WithCancel(ctx)
	snaps := s.query(uid).Snapshots(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer snaps.Stop()
		log := logger.FromContext(ctx).With("uid", uid)

		for {
			snap, err := snaps.Next()
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, iterator.Done) || status.Code(err) == codes.Canceled {
					log.Debug("badge subscription stopped")
					return
				}
				onError(errs.NewDatabaseError("subscribe", "badge subscription failed", err))
				return
			}

			badges, err := decodeBadges(snap.Documents)
			if err != nil {
				onError(errs.NewDatabaseError("subscribe", "failed to parse badge snapshot", err))
				return
			}
			onUpdate(badges)
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func decodeBadges(iter *firestore.DocumentIterator) ([]*models.Badge, error) {
	defer iter.Stop()

	badges := make([]*models.Badge, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		b, err := decodeBadge(doc)
		if err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	return badges, nil
}

func decodeBadge(doc *firestore.DocumentSnapshot) (*models.Badge, error) {
	var b models.Badge
	if err := doc.DataTo(&b); err != nil {
		return nil, err
	}
	b.BadgeID = doc.Ref.ID
	b.ApplyDefaults()
	return &b, nil
}
