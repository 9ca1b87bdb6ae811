package domain

import "time"

// Event types carried over the notification hub. The hub itself is
// type-agnostic; these are the payload shapes the station emits.
const (
	EventAgentStatusChanged = "agent_status_changed"
	EventChatMessage        = "chat_message"
)

// AgentStatusChangedEvent is emitted whenever an agent's status flips.
type AgentStatusChangedEvent struct {
	Type  string `json:"type"`
	Agent *Agent `json:"agent"`
}

// NewAgentStatusChanged wraps an updated agent record in its event envelope.
func NewAgentStatusChanged(a *Agent) AgentStatusChangedEvent {
	return AgentStatusChangedEvent{Type: EventAgentStatusChanged, Agent: a}
}

// ChatMessageEvent is emitted for every posted chat message.
type ChatMessageEvent struct {
	Type      string    `json:"type"`
	SID       string    `json:"sid"`
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChatMessage wraps a chat message in its event envelope.
func NewChatMessage(m *ChatMessage) ChatMessageEvent {
	return ChatMessageEvent{
		Type:      EventChatMessage,
		SID:       m.SID,
		Sender:    m.Sender,
		Message:   m.Message,
		Timestamp: m.Timestamp,
	}
}
