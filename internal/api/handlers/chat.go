package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/agentstationhq/station/internal/domain"
	"github.com/agentstationhq/station/internal/service"
)

type ChatHandler struct {
	svc *service.ChatService
}

func NewChatHandler(svc *service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type postMessageRequest struct {
	SID     string `json:"sid"`
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

type historyResponse struct {
	Messages []domain.ChatMessage `json:"messages"`
}

// Post handles POST /chat/messages.
func (h *ChatHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.svc.Post(r.Context(), req.SID, req.Sender, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChatSIDRequired),
			errors.Is(err, service.ErrChatSenderRequired),
			errors.Is(err, service.ErrChatMessageRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to post message")
		}
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

// History handles GET /chat/messages?sid=&limit=.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	sid := r.URL.Query().Get("sid")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	messages, err := h.svc.History(r.Context(), sid, limit)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChatSIDRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrHistoryUnavailable):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to load history")
		}
		return
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}

	writeJSON(w, http.StatusOK, historyResponse{Messages: messages})
}
