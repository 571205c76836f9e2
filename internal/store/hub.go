package store

import (
	"sync"

	"mobiflow/internal/core"
)

// Hub fans complete transaction snapshots out to per-user subscribers.
// Every push hands each subscriber its own copy of the list, so snapshots
// stay immutable across component boundaries.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]hubSubscriber
}

type hubSubscriber struct {
	onUpdate func([]core.Transaction)
	onError  func(error)
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]hubSubscriber)}
}

// Subscribe registers callbacks for userID and returns an idempotent
// unsubscribe handle. The caller is responsible for the initial snapshot.
func (h *Hub) Subscribe(userID string, onUpdate func([]core.Transaction), onError func(error)) UnsubscribeFunc {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[int]hubSubscriber)
	}
	h.subs[userID][id] = hubSubscriber{onUpdate: onUpdate, onError: onError}
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[userID], id)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
		})
	}
}

// Publish pushes a fresh copy of list to every subscriber for userID.
func (h *Hub) Publish(userID string, list []core.Transaction) {
	for _, s := range h.snapshot(userID) {
		s.onUpdate(append([]core.Transaction(nil), list...))
	}
}

// PublishError reports a store failure: each error callback fires and the
// visible list resets to empty, trading availability for never showing
// stale-but-wrong data.
func (h *Hub) PublishError(userID string, err error) {
	for _, s := range h.snapshot(userID) {
		if s.onError != nil {
			s.onError(err)
		}
		s.onUpdate(nil)
	}
}

// SubscriberCount reports active subscriptions for userID.
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}

func (h *Hub) snapshot(userID string) []hubSubscriber {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]hubSubscriber, 0, len(h.subs[userID]))
	for _, s := range h.subs[userID] {
		out = append(out, s)
	}
	return out
}
