// Package hub provides best-effort fan-out of events to connected
// subscribers, pruning subscribers whose delivery fails.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/agentstationhq/station/internal/metrics"
	"go.uber.org/zap"
)

// SubscriberID is an opaque handle issued on Connect. IDs are
// monotonically increasing, so lookup and removal never depend on
// subscriber reference identity.
type SubscriberID uint64

// Subscriber receives raw event payloads. Send must not block: a
// delivery that cannot be accepted immediately should fail, which marks
// the subscriber stale and removes it from the hub.
type Subscriber interface {
	Send(data []byte) error
}

// Hub maintains the live subscriber set. Its lock is held only across
// structural changes and snapshots, never across sends, so one slow or
// dead subscriber cannot block connects, disconnects, or other sends.
type Hub struct {
	mu     sync.Mutex
	nextID SubscriberID
	subs   map[SubscriberID]Subscriber

	logger  *zap.Logger
	metrics *metrics.Metrics
}

func New(logger *zap.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		subs:    make(map[SubscriberID]Subscriber),
		logger:  logger,
		metrics: m,
	}
}

// Connect registers a subscriber and returns its handle. Subsequent
// broadcasts include it.
func (h *Hub) Connect(s Subscriber) SubscriberID {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	h.subs[id] = s
	h.metrics.SubscribersConnected.Set(float64(len(h.subs)))
	h.logger.Info("subscriber connected", zap.Uint64("subscriber_id", uint64(id)))
	return id
}

// Disconnect removes a subscriber. Removing an absent id is a no-op.
func (h *Hub) Disconnect(id SubscriberID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[id]; !ok {
		return
	}
	delete(h.subs, id)
	h.metrics.SubscribersConnected.Set(float64(len(h.subs)))
	h.logger.Info("subscriber disconnected", zap.Uint64("subscriber_id", uint64(id)))
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Publish marshals the event once and broadcasts it. The hub is
// event-type-agnostic; it only needs a serializable payload.
func (h *Hub) Publish(event any) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal event", zap.Error(err))
		return
	}
	h.Broadcast(data)
}

// Broadcast delivers data to every connected subscriber. Failed
// deliveries mark the subscriber stale; stale subscribers are removed
// after the delivery pass. Broadcast never fails from the caller's point
// of view.
func (h *Hub) Broadcast(data []byte) {
	h.mu.Lock()
	snapshot := make(map[SubscriberID]Subscriber, len(h.subs))
	for id, s := range h.subs {
		snapshot[id] = s
	}
	h.mu.Unlock()

	h.metrics.EventsPublished.Inc()

	var stale []SubscriberID
	for id, s := range snapshot {
		if err := s.Send(data); err != nil {
			h.logger.Warn("delivery failed, dropping subscriber",
				zap.Uint64("subscriber_id", uint64(id)), zap.Error(err))
			h.metrics.DeliveryFailures.Inc()
			stale = append(stale, id)
		}
	}

	for _, id := range stale {
		h.Disconnect(id)
	}
}
