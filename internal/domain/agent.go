package domain

import (
	"time"
)

// AgentStatus is the liveness state of a registered agent.
type AgentStatus string

const (
	StatusActive   AgentStatus = "active"
	StatusInactive AgentStatus = "inactive"
)

// Valid reports whether s is one of the known statuses.
func (s AgentStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Agent is a remote process registered with the station and probed for
// liveness. The ID is chosen by the registrant and immutable once created.
type Agent struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Endpoint string      `json:"endpoint"`
	Status   AgentStatus `json:"status"`
	// LastSeenAt records the last successful probe. It is never cleared
	// on a transition to inactive.
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
}
