package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is a single message in a chat session. Messages are
// broadcast through the notification hub and appended to the chat log.
type ChatMessage struct {
	ID        uuid.UUID `json:"id"`
	SID       string    `json:"sid"`
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
