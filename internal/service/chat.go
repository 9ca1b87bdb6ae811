package service

import (
	"context"
	"errors"
	"time"

	"github.com/agentstationhq/station/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultHistoryLimit = 50

var (
	ErrChatSIDRequired     = errors.New("chat sid is required")
	ErrChatSenderRequired  = errors.New("chat sender is required")
	ErrChatMessageRequired = errors.New("chat message is required")
	ErrHistoryUnavailable  = errors.New("chat history store is not configured")
)

// ChatService publishes chat messages through the notification hub and
// appends them to the chat log. The log store is optional: without one,
// messages still broadcast but history is unavailable.
type ChatService struct {
	store     domain.ChatStore
	publisher domain.EventPublisher
	logger    *zap.Logger
}

func NewChatService(store domain.ChatStore, publisher domain.EventPublisher, logger *zap.Logger) *ChatService {
	return &ChatService{store: store, publisher: publisher, logger: logger}
}

// Post validates and broadcasts a chat message. The append to the log is
// best-effort: a persistence failure is logged and the broadcast still
// happens, keeping the live conversation available.
func (s *ChatService) Post(ctx context.Context, sid, sender, message string) (*domain.ChatMessage, error) {
	if sid == "" {
		return nil, ErrChatSIDRequired
	}
	if sender == "" {
		return nil, ErrChatSenderRequired
	}
	if message == "" {
		return nil, ErrChatMessageRequired
	}

	m := &domain.ChatMessage{
		ID:        uuid.New(),
		SID:       sid,
		Sender:    sender,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}

	if s.store != nil {
		if err := s.store.Append(ctx, m); err != nil {
			s.logger.Error("failed to append chat message",
				zap.String("sid", sid), zap.Error(err))
		}
	}

	s.publisher.Publish(domain.NewChatMessage(m))
	return m, nil
}

// History returns the most recent messages for a session, newest first.
func (s *ChatService) History(ctx context.Context, sid string, limit int) ([]domain.ChatMessage, error) {
	if s.store == nil {
		return nil, ErrHistoryUnavailable
	}
	if sid == "" {
		return nil, ErrChatSIDRequired
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.store.History(ctx, sid, limit)
}
