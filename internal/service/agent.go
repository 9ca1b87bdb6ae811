package service

import (
	"context"
	"errors"
	"net/url"

	"github.com/agentstationhq/station/internal/domain"
)

var (
	ErrAgentIDRequired   = errors.New("agent id is required")
	ErrAgentNameRequired = errors.New("agent name is required")
	ErrInvalidEndpoint   = errors.New("endpoint must be an absolute http(s) URL")
	ErrInvalidStatus     = errors.New("status must be active or inactive")
)

type AgentService struct {
	registry domain.AgentRegistry
}

func NewAgentService(registry domain.AgentRegistry) *AgentService {
	return &AgentService{registry: registry}
}

// Register creates or updates an agent record. Fresh registrations enter
// as inactive with no last_seen_at; re-registering an existing id
// replaces name and endpoint but leaves status and last_seen_at to the
// liveness monitor.
func (s *AgentService) Register(ctx context.Context, id, name, endpoint string) (*domain.Agent, error) {
	if id == "" {
		return nil, ErrAgentIDRequired
	}
	if name == "" {
		return nil, ErrAgentNameRequired
	}
	if err := validateEndpoint(endpoint); err != nil {
		return nil, err
	}

	agent := &domain.Agent{
		ID:       id,
		Name:     name,
		Endpoint: endpoint,
		Status:   domain.StatusInactive,
	}
	if err := s.registry.Upsert(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

// List returns all registered agents, optionally filtered by status.
func (s *AgentService) List(ctx context.Context, statusFilter *domain.AgentStatus) ([]domain.Agent, error) {
	agents, err := s.registry.List(ctx)
	if err != nil {
		return nil, err
	}
	if statusFilter == nil {
		return agents, nil
	}

	filtered := make([]domain.Agent, 0, len(agents))
	for _, a := range agents {
		if a.Status == *statusFilter {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return ErrInvalidEndpoint
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidEndpoint
	}
	return nil
}
