package hub

import (
	"errors"
	"sync"
	"testing"

	"github.com/agentstationhq/station/internal/metrics"
	"go.uber.org/zap"
)

// fakeSubscriber records deliveries and can be told to fail.
type fakeSubscriber struct {
	mu       sync.Mutex
	received [][]byte
	fail     bool
}

func (f *fakeSubscriber) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("send failed")
	}
	f.received = append(f.received, data)
	return nil
}

func (f *fakeSubscriber) messages() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.received))
	copy(out, f.received)
	return out
}

func newTestHub() *Hub {
	return New(zap.NewNop(), metrics.New(nil))
}

func TestHub_ConnectIssuesIncreasingIDs(t *testing.T) {
	h := newTestHub()

	id1 := h.Connect(&fakeSubscriber{})
	id2 := h.Connect(&fakeSubscriber{})
	if id2 <= id1 {
		t.Fatalf("expected increasing subscriber ids, got %d then %d", id1, id2)
	}
	if h.Count() != 2 {
		t.Fatalf("expected 2 subscribers, got %d", h.Count())
	}
}

func TestHub_DisconnectIdempotent(t *testing.T) {
	h := newTestHub()

	id := h.Connect(&fakeSubscriber{})
	h.Disconnect(id)
	h.Disconnect(id)
	if h.Count() != 0 {
		t.Fatalf("expected 0 subscribers, got %d", h.Count())
	}
}

func TestHub_BroadcastDelivers(t *testing.T) {
	h := newTestHub()

	sub := &fakeSubscriber{}
	h.Connect(sub)

	h.Broadcast([]byte("hello"))
	got := sub.messages()
	if len(got) != 1 || string(got[0]) != "hello" {
		t.Fatalf("expected one delivery of 'hello', got %v", got)
	}
}

func TestHub_BroadcastPrunesFailedSubscribers(t *testing.T) {
	h := newTestHub()

	healthy := []*fakeSubscriber{{}, {}, {}}
	for _, s := range healthy {
		h.Connect(s)
	}
	h.Connect(&fakeSubscriber{fail: true})
	h.Connect(&fakeSubscriber{fail: true})

	h.Broadcast([]byte("event"))

	if h.Count() != 3 {
		t.Fatalf("expected 3 subscribers after pruning, got %d", h.Count())
	}
	for i, s := range healthy {
		if len(s.messages()) != 1 {
			t.Fatalf("expected healthy subscriber %d to receive the event", i)
		}
	}
}

func TestHub_BroadcastAfterPruneSkipsRemoved(t *testing.T) {
	h := newTestHub()

	bad := &fakeSubscriber{fail: true}
	good := &fakeSubscriber{}
	h.Connect(bad)
	h.Connect(good)

	h.Broadcast([]byte("first"))
	h.Broadcast([]byte("second"))

	if h.Count() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", h.Count())
	}
	got := good.messages()
	if len(got) != 2 || string(got[0]) != "first" || string(got[1]) != "second" {
		t.Fatalf("expected ordered deliveries, got %v", got)
	}
}

func TestHub_PublishMarshalsEvent(t *testing.T) {
	h := newTestHub()

	sub := &fakeSubscriber{}
	h.Connect(sub)

	h.Publish(map[string]string{"type": "test"})

	got := sub.messages()
	if len(got) != 1 {
		t.Fatalf("expected one delivery, got %d", len(got))
	}
	if string(got[0]) != `{"type":"test"}` {
		t.Fatalf("unexpected payload: %s", got[0])
	}
}

func TestHub_PublishUnserializableIsContained(t *testing.T) {
	h := newTestHub()

	sub := &fakeSubscriber{}
	h.Connect(sub)

	// Channels cannot be marshaled; the publisher must not see a failure
	// and nothing should be delivered.
	h.Publish(make(chan int))

	if len(sub.messages()) != 0 {
		t.Fatal("expected no delivery for unserializable event")
	}
	if h.Count() != 1 {
		t.Fatalf("expected subscriber to stay connected, got %d", h.Count())
	}
}
