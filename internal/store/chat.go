package store

import (
	"context"

	"github.com/agentstationhq/station/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatStore is the append-only chat message log backed by Postgres.
type ChatStore struct {
	db *pgxpool.Pool
}

func NewChatStore(db *pgxpool.Pool) *ChatStore {
	return &ChatStore{db: db}
}

func (s *ChatStore) Append(ctx context.Context, m *domain.ChatMessage) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO chat_messages (id, sid, sender, message, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.SID, m.Sender, m.Message, m.Timestamp,
	)
	return err
}

func (s *ChatStore) History(ctx context.Context, sid string, limit int) ([]domain.ChatMessage, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, sid, sender, message, created_at
		 FROM chat_messages WHERE sid = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		sid, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.SID, &m.Sender, &m.Message, &m.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
