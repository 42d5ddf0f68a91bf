package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/mural-backend/internal/errs"
	"github.com/GregMSThompson/mural-backend/internal/models"
	"github.com/GregMSThompson/mural-backend/pkg/helpers"
)

func emulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	client, err := firestore.NewClient(context.Background(), "test-project")
	if err != nil {
		t.Fatalf("firestore client error: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func seedBadges(t *testing.T, client *firestore.Client, uid string, badges map[string]map[string]any) {
	t.Helper()
	for id, data := range badges {
		_, err := client.Collection("users").Doc(uid).Collection("badges").Doc(id).Set(context.Background(), data)
		if err != nil {
			t.Fatalf("seed badge error: %v", err)
		}
	}
}

func TestBadgeStoreWithEmulator(t *testing.T) {
	client := emulatorClient(t)
	ctx := helpers.TestCtx()
	uid := "user-" + time.Now().Format("150405.000000")
	base := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

	seedBadges(t, client, uid, map[string]map[string]any{
		"b": {"name": "Hackathon", "width": 2, "height": 1, "x": 3, "y": 0, "createdAt": base.Add(time.Minute)},
		"a": {"name": "Orientation", "x": 0, "y": 0, "createdAt": base}, // no size stored
	})

	st := NewBadgeStore(client)

	badges, err := st.List(ctx, uid)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(badges) != 2 {
		t.Fatalf("expected 2 badges, got %d", len(badges))
	}
	if badges[0].BadgeID != "a" || badges[1].BadgeID != "b" {
		t.Fatalf("expected creation order a,b got %s,%s", badges[0].BadgeID, badges[1].BadgeID)
	}
	if badges[0].Width != 1 || badges[0].Height != 1 {
		t.Errorf("expected defaulted 1x1 size, got %dx%d", badges[0].Width, badges[0].Height)
	}

	if err := st.UpdatePosition(ctx, uid, "b", 12, 4); err != nil {
		t.Fatalf("update error: %v", err)
	}
	badges, err = st.List(ctx, uid)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	b := badges[1]
	if b.X != 12 || b.Y != 4 || b.Name != "Hackathon" {
		t.Fatalf("unexpected badge after update: %+v", b)
	}

	var nf *errs.NotFoundError
	if err := st.UpdatePosition(ctx, uid, "missing", 0, 0); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
}

func TestBadgeStoreSubscribeWithEmulator(t *testing.T) {
	client := emulatorClient(t)
	ctx := helpers.TestCtx()
	uid := "sub-" + time.Now().Format("150405.000000")

	seedBadges(t, client, uid, map[string]map[string]any{
		"a": {"width": 1, "height": 1, "x": 0, "y": 0, "createdAt": time.Now()},
	})

	st := NewBadgeStore(client)
	updates := make(chan []*models.Badge, 4)
	unsubscribe := st.SubscribeAll(ctx, uid, func(b []*models.Badge) { updates <- b }, func(err error) {
		t.Errorf("unexpected subscription error: %v", err)
	})
	defer unsubscribe()

	select {
	case snap := <-updates:
		if len(snap) != 1 || snap[0].X != 0 {
			t.Fatalf("unexpected initial snapshot: %+v", snap)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for initial snapshot")
	}

	if err := st.UpdatePosition(ctx, uid, "a", 5, 2); err != nil {
		t.Fatalf("update error: %v", err)
	}

	select {
	case snap := <-updates:
		if len(snap) != 1 || snap[0].X != 5 || snap[0].Y != 2 {
			t.Fatalf("unexpected snapshot after move: %+v", snap[0])
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for snapshot after move")
	}
}
