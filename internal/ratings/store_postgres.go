package ratings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"richideia/pkg/domain"
	"richideia/pkg/platform/sentinel"
	txcontext "richideia/pkg/platform/tx"
)

// PostgresStore enforces one-rating-per-(rater, transaction) with the table's
// unique constraint; racing inserts lose cleanly.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, r Rating) error {
	query := `
		INSERT INTO ratings (id, transaction_id, from_user_id, to_user_id, score, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (from_user_id, transaction_id) DO NOTHING
	`
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(r.ID), uuid.UUID(r.TransactionID), uuid.UUID(r.FromUserID), uuid.UUID(r.ToUserID),
		r.Score, r.Comment, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert rating: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert rating: rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) ListForUser(ctx context.Context, userID domain.UserID) ([]Rating, error) {
	query := `
		SELECT id, transaction_id, from_user_id, to_user_id, score, comment, created_at
		FROM ratings WHERE to_user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	var out []Rating
	for rows.Next() {
		var (
			r                  Rating
			id, txID, from, to uuid.UUID
		)
		if err := rows.Scan(&id, &txID, &from, &to, &r.Score, &r.Comment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		r.ID = domain.RatingID(id)
		r.TransactionID = domain.TransactionID(txID)
		r.FromUserID = domain.UserID(from)
		r.ToUserID = domain.UserID(to)
		out = append(out, r)
	}
	return out, rows.Err()
}
