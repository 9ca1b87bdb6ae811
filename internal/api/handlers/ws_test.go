package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agentstationhq/station/internal/domain"
	"github.com/agentstationhq/station/internal/hub"
	"github.com/agentstationhq/station/internal/metrics"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func TestWSHandler_SubscriberReceivesBroadcast(t *testing.T) {
	eventHub := hub.New(zap.NewNop(), metrics.New(nil))
	h := NewWSHandler(eventHub, zap.NewNop())

	srv := httptest.NewServer(http.HandlerFunc(h.Serve))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("expected websocket dial to succeed, got %v", err)
	}
	defer conn.Close()

	// Wait for the hub to register the subscriber.
	deadline := time.Now().Add(2 * time.Second)
	for eventHub.Count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected subscriber to connect")
		}
		time.Sleep(10 * time.Millisecond)
	}

	agent := &domain.Agent{ID: "a1", Name: "Worker1", Endpoint: "http://localhost:9001", Status: domain.StatusActive}
	eventHub.Publish(domain.NewAgentStatusChanged(agent))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("expected event delivery, got %v", err)
	}

	var ev domain.AgentStatusChangedEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("expected event JSON, got %v: %s", err, data)
	}
	if ev.Type != domain.EventAgentStatusChanged || ev.Agent.ID != "a1" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestWSHandler_DisconnectPrunesSubscriber(t *testing.T) {
	eventHub := hub.New(zap.NewNop(), metrics.New(nil))
	h := NewWSHandler(eventHub, zap.NewNop())

	srv := httptest.NewServer(http.HandlerFunc(h.Serve))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("expected websocket dial to succeed, got %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for eventHub.Count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected subscriber to connect")
		}
		time.Sleep(10 * time.Millisecond)
	}

	_ = conn.Close()

	deadline = time.Now().Add(2 * time.Second)
	for eventHub.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected subscriber to be pruned after close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
