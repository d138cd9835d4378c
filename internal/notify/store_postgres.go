package notify

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"richideia/pkg/domain"
	"richideia/pkg/platform/sentinel"
	txcontext "richideia/pkg/platform/tx"
)

// PostgresStore persists notification records. Create joins the ambient
// purchase transaction so a rolled-back purchase leaves no orphan records.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, n Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, title, message, type, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(n.ID), uuid.UUID(n.UserID), n.Title, n.Message, string(n.Type), n.IsRead, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID domain.UserID, limit int) ([]Notification, error) {
	query := `
		SELECT id, user_id, title, message, type, is_read, created_at
		FROM notifications WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2
	`
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query, uuid.UUID(userID), limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var (
			n           Notification
			id, ownerID uuid.UUID
			kind        string
		)
		if err := rows.Scan(&id, &ownerID, &n.Title, &n.Message, &kind, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.ID = domain.NotificationID(id)
		n.UserID = domain.UserID(ownerID)
		n.Type = Type(kind)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *PostgresStore) MarkRead(ctx context.Context, userID domain.UserID, id domain.NotificationID) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query, uuid.UUID(id), uuid.UUID(userID))
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notification read: rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
