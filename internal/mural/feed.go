package mural

import (
	"context"
	"sync"
)

type FeedState int

const (
	FeedLoading FeedState = iota
	FeedReady
	FeedFailed
)

func (s FeedState) String() string {
	switch s {
	case FeedReady:
		return "ready"
	case FeedFailed:
		return "failed"
	default:
		return "loading"
	}
}

// Snapshot is the feed's view of the mural at one moment.
type Snapshot struct {
	State FeedState
	Items []Item
	Err   error
}

// Feed holds one live subscription to a mural. A failed feed stays failed;
// open a new one to retry.
type Feed struct {
	mu          sync.Mutex
	state       FeedState
	items       []Item
	err         error
	onChange    func(Snapshot)
	unsubscribe func()
	closed      bool
	closeOnce   sync.Once
}

// OpenFeed subscribes to src. onChange, if set, is called after every state
// change. Close must be called when the feed is no longer needed.
func OpenFeed(ctx context.Context, src Source, onChange func(Snapshot)) *Feed {
	f := &Feed{onChange: onChange}
	unsubscribe := src.SubscribeAll(ctx, f.update, f.fail)

	f.mu.Lock()
	f.unsubscribe = unsubscribe
	closed := f.closed
	f.mu.Unlock()

	if closed {
		unsubscribe()
	}
	return f
}

func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Feed) Close() {
	f.closeOnce.Do(func() {
		f.mu.Lock()
		f.closed = true
		unsubscribe := f.unsubscribe
		f.mu.Unlock()

		if unsubscribe != nil {
			unsubscribe()
		}
	})
}

func (f *Feed) update(items []Item) {
	f.mu.Lock()
	if f.closed || f.state == FeedFailed {
		f.mu.Unlock()
		return
	}
	f.items = items
	f.state = FeedReady
	snap := f.snapshotLocked()
	f.mu.Unlock()

	f.notify(snap)
}

func (f *Feed) fail(err error) {
	f.mu.Lock()
	if f.closed || f.state == FeedFailed {
		f.mu.Unlock()
		return
	}
	f.err = err
	f.state = FeedFailed
	snap := f.snapshotLocked()
	f.mu.Unlock()

	f.notify(snap)
}

func (f *Feed) notify(snap Snapshot) {
	if f.onChange != nil {
		f.onChange(snap)
	}
}

func (f *Feed) snapshotLocked() Snapshot {
	items := make([]Item, len(f.items))
	copy(items, f.items)
	return Snapshot{State: f.state, Items: items, Err: f.err}
}
