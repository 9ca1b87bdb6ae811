package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agentstationhq/station/internal/domain"
	"github.com/agentstationhq/station/internal/hub"
	"github.com/agentstationhq/station/internal/metrics"
	"github.com/agentstationhq/station/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newChatRouter(t *testing.T) *chi.Mux {
	t.Helper()
	eventHub := hub.New(zap.NewNop(), metrics.New(nil))
	h := NewChatHandler(service.NewChatService(nil, eventHub, zap.NewNop()))

	r := chi.NewRouter()
	r.Post("/chat/messages", h.Post)
	r.Get("/chat/messages", h.History)
	return r
}

func TestChatHandler_Post(t *testing.T) {
	r := newChatRouter(t)

	body := `{"sid":"s1","sender":"alice","message":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/chat/messages", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var m domain.ChatMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("expected message JSON, got %v", err)
	}
	if m.SID != "s1" || m.Sender != "alice" {
		t.Fatalf("unexpected message: %+v", m)
	}
}

func TestChatHandler_PostValidation(t *testing.T) {
	r := newChatRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/chat/messages", bytes.NewBufferString(`{"sid":"s1"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestChatHandler_HistoryUnavailableWithoutStore(t *testing.T) {
	r := newChatRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/chat/messages?sid=s1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
