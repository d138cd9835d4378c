package nda

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"richideia/pkg/domain"
	"richideia/pkg/platform/sentinel"
	txcontext "richideia/pkg/platform/tx"
)

// PostgresStore lets the UNIQUE (user_id, idea_id) constraint arbitrate
// duplicate signs: ON CONFLICT DO NOTHING turns the loser of a race into a
// zero-row insert, which surfaces as sentinel.ErrConflict.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, record NDA) error {
	query := `
		INSERT INTO ndas (id, user_id, idea_id, signed_at, ip_address)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, idea_id) DO NOTHING
	`
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(record.ID), uuid.UUID(record.UserID), uuid.UUID(record.IdeaID),
		record.SignedAt, record.IP,
	)
	if err != nil {
		return fmt.Errorf("insert nda: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert nda: rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, userID domain.UserID, ideaID domain.IdeaID) (NDA, error) {
	query := `
		SELECT id, user_id, idea_id, signed_at, ip_address
		FROM ndas WHERE user_id = $1 AND idea_id = $2
	`
	row := txcontext.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(userID), uuid.UUID(ideaID))
	record, err := scanNDA(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NDA{}, sentinel.ErrNotFound
		}
		return NDA{}, fmt.Errorf("find nda: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID domain.UserID) ([]NDA, error) {
	query := `
		SELECT id, user_id, idea_id, signed_at, ip_address
		FROM ndas WHERE user_id = $1 ORDER BY signed_at DESC
	`
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list ndas by user: %w", err)
	}
	return collectNDAs(rows)
}

func (s *PostgresStore) ListByIdeas(ctx context.Context, ideaIDs []domain.IdeaID) ([]NDA, error) {
	if len(ideaIDs) == 0 {
		return nil, nil
	}
	raw := make([]uuid.UUID, len(ideaIDs))
	for i, id := range ideaIDs {
		raw[i] = uuid.UUID(id)
	}
	query := `
		SELECT id, user_id, idea_id, signed_at, ip_address
		FROM ndas WHERE idea_id = ANY($1) ORDER BY signed_at DESC
	`
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("list ndas by ideas: %w", err)
	}
	return collectNDAs(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNDA(row rowScanner) (NDA, error) {
	var (
		record             NDA
		id, userID, ideaID uuid.UUID
	)
	if err := row.Scan(&id, &userID, &ideaID, &record.SignedAt, &record.IP); err != nil {
		return NDA{}, err
	}
	record.ID = domain.NDAID(id)
	record.UserID = domain.UserID(userID)
	record.IdeaID = domain.IdeaID(ideaID)
	return record, nil
}

func collectNDAs(rows *sql.Rows) ([]NDA, error) {
	defer rows.Close()
	var out []NDA
	for rows.Next() {
		record, err := scanNDA(rows)
		if err != nil {
			return nil, fmt.Errorf("scan nda: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}
