package messaging

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"richideia/pkg/domain"
	txcontext "richideia/pkg/platform/tx"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, m Message) error {
	query := `
		INSERT INTO messages (id, idea_id, sender_id, receiver_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(m.ID), uuid.UUID(m.IdeaID), uuid.UUID(m.SenderID), uuid.UUID(m.ReceiverID), m.Content, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByIdea(ctx context.Context, ideaID domain.IdeaID) ([]Message, error) {
	query := `
		SELECT id, idea_id, sender_id, receiver_id, content, created_at
		FROM messages WHERE idea_id = $1
		ORDER BY created_at ASC
	`
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query, uuid.UUID(ideaID))
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var (
			m                            Message
			id, ideaID, sender, receiver uuid.UUID
		)
		if err := rows.Scan(&id, &ideaID, &sender, &receiver, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.ID = domain.MessageID(id)
		m.IdeaID = domain.IdeaID(ideaID)
		m.SenderID = domain.UserID(sender)
		m.ReceiverID = domain.UserID(receiver)
		out = append(out, m)
	}
	return out, rows.Err()
}
