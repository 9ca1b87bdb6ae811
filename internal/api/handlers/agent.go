package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/agentstationhq/station/internal/domain"
	"github.com/agentstationhq/station/internal/service"
)

type AgentHandler struct {
	svc *service.AgentService
}

func NewAgentHandler(svc *service.AgentService) *AgentHandler {
	return &AgentHandler{svc: svc}
}

type registerAgentRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
}

type agentListResponse struct {
	Agents []domain.Agent `json:"agents"`
}

// Register handles POST /agent.
func (h *AgentHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	agent, err := h.svc.Register(r.Context(), req.ID, req.Name, req.Endpoint)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAgentIDRequired),
			errors.Is(err, service.ErrAgentNameRequired),
			errors.Is(err, service.ErrInvalidEndpoint):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to register agent")
		}
		return
	}

	writeJSON(w, http.StatusOK, agent)
}

// List handles GET /agents with an optional ?status= filter.
func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter *domain.AgentStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.AgentStatus(raw)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, service.ErrInvalidStatus.Error())
			return
		}
		filter = &status
	}

	agents, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list agents")
		return
	}
	if agents == nil {
		agents = []domain.Agent{}
	}

	writeJSON(w, http.StatusOK, agentListResponse{Agents: agents})
}
