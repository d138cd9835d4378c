package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"richideia/pkg/domain"
	"richideia/pkg/platform/sentinel"
	txcontext "richideia/pkg/platform/tx"
)

// PostgresStore persists ideas. Reads join an ambient transaction when one is
// carried by the context.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, idea Idea) error {
	query := `
		INSERT INTO ideas (id, creator_id, title, problem_solved, sector, price_cents, maturity_level, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(idea.ID), uuid.UUID(idea.CreatorID), idea.Title, idea.ProblemSolved,
		idea.Sector, idea.PriceCents, idea.MaturityLevel, idea.Description,
		string(idea.Status), idea.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert idea: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.IdeaID) (Idea, error) {
	query := `
		SELECT id, creator_id, title, problem_solved, sector, price_cents, maturity_level, description, status, created_at
		FROM ideas WHERE id = $1
	`
	return s.scanIdea(txcontext.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(id)))
}

func (s *PostgresStore) ListByCreator(ctx context.Context, creatorID domain.UserID) ([]Idea, error) {
	query := `
		SELECT id, creator_id, title, problem_solved, sector, price_cents, maturity_level, description, status, created_at
		FROM ideas WHERE creator_id = $1 ORDER BY created_at DESC
	`
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query, uuid.UUID(creatorID))
	if err != nil {
		return nil, fmt.Errorf("list ideas by creator: %w", err)
	}
	defer rows.Close()

	var out []Idea
	for rows.Next() {
		idea, err := s.scanIdea(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, idea)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListActive(ctx context.Context) ([]Idea, error) {
	query := `
		SELECT id, creator_id, title, problem_solved, sector, price_cents, maturity_level, description, status, created_at
		FROM ideas WHERE status = 'active' ORDER BY created_at DESC
	`
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active ideas: %w", err)
	}
	defer rows.Close()

	var out []Idea
	for rows.Next() {
		idea, err := s.scanIdea(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, idea)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) scanIdea(row rowScanner) (Idea, error) {
	var (
		idea              Idea
		id, creatorID     uuid.UUID
		status            string
		descriptionHolder sql.NullString
	)
	err := row.Scan(&id, &creatorID, &idea.Title, &idea.ProblemSolved, &idea.Sector,
		&idea.PriceCents, &idea.MaturityLevel, &descriptionHolder, &status, &idea.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Idea{}, sentinel.ErrNotFound
		}
		return Idea{}, fmt.Errorf("scan idea: %w", err)
	}
	idea.ID = domain.IdeaID(id)
	idea.CreatorID = domain.UserID(creatorID)
	idea.Status = Status(status)
	idea.Description = descriptionHolder.String
	return idea, nil
}
