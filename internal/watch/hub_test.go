package watch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrlokans/readtrack/internal/entities"
)

func TestHub_PublishReachesSubscriber(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	sub := hub.Subscribe(1)
	defer sub.Cancel()

	hub.Publish(1, Snapshot{Books: []entities.Book{{ID: "b1", Title: "Dune"}}})

	select {
	case snap := <-sub.Snapshots:
		require.Len(t, snap.Books, 1)
		assert.Equal(t, "Dune", snap.Books[0].Title)
	case <-time.After(time.Second):
		t.Fatal("no snapshot received")
	}
}

func TestHub_PublishScopedToUser(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	sub := hub.Subscribe(2)
	defer sub.Cancel()

	hub.Publish(1, Snapshot{})

	select {
	case <-sub.Snapshots:
		t.Fatal("snapshot leaked across users")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_SlowSubscriberGetsLatest(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	sub := hub.Subscribe(1)
	defer sub.Cancel()

	hub.Publish(1, Snapshot{Books: []entities.Book{{Title: "stale"}}})
	hub.Publish(1, Snapshot{Books: []entities.Book{{Title: "fresh"}}})

	snap := <-sub.Snapshots
	assert.Equal(t, "fresh", snap.Books[0].Title)
}

func TestSubscription_CancelClosesChannel(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	sub := hub.Subscribe(1)
	sub.Cancel()
	sub.Cancel() // idempotent

	_, open := <-sub.Snapshots
	assert.False(t, open)

	// Publishing after cancel must not panic or deliver.
	hub.Publish(1, Snapshot{})
}

func TestHub_Close(t *testing.T) {
	hub := NewHub(zap.NewNop())

	sub := hub.Subscribe(1)
	hub.Close()

	_, open := <-sub.Snapshots
	assert.False(t, open)

	late := hub.Subscribe(1)
	_, open = <-late.Snapshots
	assert.False(t, open, "subscriptions after close are closed immediately")

	hub.Publish(1, Snapshot{}) // no-op, no panic
}
