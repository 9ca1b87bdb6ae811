package domain

import (
	"context"
	"time"
)

// AgentRegistry is the durable, single-writer store of agent records.
type AgentRegistry interface {
	// List returns a snapshot of all records. Unreadable storage degrades
	// to an empty set rather than an error.
	List(ctx context.Context) ([]Agent, error)
	// Get looks up a record by id, returning store.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Agent, error)
	// Upsert inserts a new record or replaces the record with matching id.
	// Re-registration replaces name/endpoint but preserves the stored
	// status and last_seen_at; a is updated to match the stored record.
	Upsert(ctx context.Context, a *Agent) error
	// SetStatus updates a record's status and last_seen_at. It returns
	// (nil, nil) when the id is absent or the stored status already equals
	// status, so callers can treat a non-nil record as "status flipped".
	SetStatus(ctx context.Context, id string, status AgentStatus, observedAt *time.Time) (*Agent, error)
}

// ChatStore is the append-only chat message log.
type ChatStore interface {
	Append(ctx context.Context, m *ChatMessage) error
	History(ctx context.Context, sid string, limit int) ([]ChatMessage, error)
}

// EventPublisher fans an event out to all connected subscribers.
// Publish never fails from the caller's point of view; delivery errors
// are contained by the implementation.
type EventPublisher interface {
	Publish(event any)
}
