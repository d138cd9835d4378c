package escrow

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

// PostgresStore persists escrow transactions and contracts. Both Create
// methods join the purchase transaction carried by ctx, so a failed unit of
// work persists neither.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateTransaction(ctx context.Context, t Transaction) error {
	query := `
		INSERT INTO transactions (id, buyer_id, seller_id, idea_id, amount_cents, commission_cents, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(t.ID), uuid.UUID(t.BuyerID), uuid.UUID(t.SellerID), uuid.UUID(t.IdeaID),
		t.AmountCents, t.CommissionCents, string(t.Status), t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateContract(ctx context.Context, c Contract) error {
	query := `
		INSERT INTO contracts (id, transaction_id, contract_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(c.ID), uuid.UUID(c.TransactionID), c.Hash, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contract: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindTransaction(ctx context.Context, id domain.TransactionID) (Transaction, error) {
	query := `
		SELECT id, buyer_id, seller_id, idea_id, amount_cents, commission_cents, status, created_at
		FROM transactions WHERE id = $1
	`
	row := txcontext.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(id))
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Transaction{}, sentinel.ErrNotFound
	}
	return t, err
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID domain.UserID) ([]Transaction, error) {
	query := `
		SELECT id, buyer_id, seller_id, idea_id, amount_cents, commission_cents, status, created_at
		FROM transactions
		WHERE buyer_id = $1 OR seller_id = $1
		ORDER BY created_at DESC
	`
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) FindContractByTransaction(ctx context.Context, txID domain.TransactionID) (Contract, error) {
	query := `
		SELECT id, transaction_id, contract_hash, created_at
		FROM contracts WHERE transaction_id = $1
	`
	var (
		c      Contract
		id     uuid.UUID
		linked uuid.UUID
	)
	err := txcontext.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(txID)).
		Scan(&id, &linked, &c.Hash, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Contract{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Contract{}, fmt.Errorf("find contract: %w", err)
	}
	c.ID = domain.ContractID(id)
	c.TransactionID = domain.TransactionID(linked)
	return c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (Transaction, error) {
	var (
		t                         Transaction
		id, buyer, seller, ideaID uuid.UUID
		status                    string
	)
	err := row.Scan(&id, &buyer, &seller, &ideaID, &t.AmountCents, &t.CommissionCents, &status, &t.CreatedAt)
	if err != nil {
		return Transaction{}, err
	}
	t.ID = domain.TransactionID(id)
	t.BuyerID = domain.UserID(buyer)
	t.SellerID = domain.UserID(seller)
	t.IdeaID = domain.IdeaID(ideaID)
	t.Status = Status(status)
	return t, nil
}
