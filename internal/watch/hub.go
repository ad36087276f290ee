// Package watch delivers full refreshed library snapshots to subscribers
// after every mutation. Subscriptions are explicit channel + cancel pairs,
// so teardown is visible in the type signature rather than hidden in a
// callback closure.
package watch

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mrlokans/readtrack/internal/entities"
)

// Snapshot is the full refreshed view pushed on each change.
type Snapshot struct {
	Books []entities.Book     `json:"books"`
	Stats entities.Statistics `json:"stats"`
}

// Subscription is one registered listener. Snapshots closes after Cancel;
// no further values are delivered once Cancel returns.
type Subscription struct {
	Snapshots <-chan Snapshot

	id     string
	userID uint
	hub    *Hub
	once   sync.Once
}

// Cancel unregisters the subscription and closes its channel.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.hub.remove(s.userID, s.id)
	})
}

// Hub fans snapshots out to per-user subscribers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint]map[string]chan Snapshot
	logger *zap.Logger
	closed bool
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:   make(map[uint]map[string]chan Snapshot),
		logger: logger,
	}
}

// Subscribe registers a listener for one user's snapshots. Each subscriber
// holds a buffer of one: a slow consumer sees the latest snapshot, not a
// backlog.
func (h *Hub) Subscribe(userID uint) *Subscription {
	ch := make(chan Snapshot, 1)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(ch)
		return &Subscription{Snapshots: ch, hub: h}
	}

	id := uuid.NewString()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[string]chan Snapshot)
	}
	h.subs[userID][id] = ch

	h.logger.Debug("watch subscription opened",
		zap.Uint("user_id", userID),
		zap.String("subscription_id", id),
	)

	return &Subscription{Snapshots: ch, id: id, userID: userID, hub: h}
}

// Publish pushes a snapshot to every subscriber of the user. Publishing
// never blocks: a full buffer is drained so the subscriber always receives
// the freshest snapshot next.
func (h *Hub) Publish(userID uint, snap Snapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}
	for _, ch := range h.subs[userID] {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// Close cancels every subscription. Subsequent Subscribe calls return
// already-closed subscriptions.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for _, userSubs := range h.subs {
		for _, ch := range userSubs {
			close(ch)
		}
	}
	h.subs = make(map[uint]map[string]chan Snapshot)
}

func (h *Hub) remove(userID uint, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	if userSubs, ok := h.subs[userID]; ok {
		if ch, ok := userSubs[id]; ok {
			delete(userSubs, id)
			close(ch)
		}
		if len(userSubs) == 0 {
			delete(h.subs, userID)
		}
	}
}
