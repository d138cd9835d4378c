package wallet

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

// PostgresStore applies each mutation as one UPDATE so the database row lock
// serializes concurrent writers on the same wallet. Methods join an ambient
// transaction when the context carries one, which is how the purchase unit of
// work makes the debit inseparable from its downstream inserts.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Credit(ctx context.Context, userID domain.UserID, amountCents int64) (int64, error) {
	query := `
		INSERT INTO wallets (user_id, balance_cents, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET
			balance_cents = wallets.balance_cents + EXCLUDED.balance_cents,
			updated_at = now()
		RETURNING balance_cents
	`
	var newBalance int64
	err := txcontext.Executor(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(userID), amountCents).Scan(&newBalance)
	if err != nil {
		return 0, fmt.Errorf("credit wallet: %w", err)
	}
	return newBalance, nil
}

func (s *PostgresStore) Debit(ctx context.Context, userID domain.UserID, amountCents int64) error {
	// The balance check lives in the WHERE clause: zero rows affected means the
	// funds were insufficient at commit time, with no window for a racing debit
	// to overdraw the row.
	query := `
		UPDATE wallets
		SET balance_cents = balance_cents - $2, updated_at = now()
		WHERE user_id = $1 AND balance_cents >= $2
	`
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, query, uuid.UUID(userID), amountCents)
	if err != nil {
		return fmt.Errorf("debit wallet: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit wallet: rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrInsufficientBalance
	}
	return nil
}

func (s *PostgresStore) Balance(ctx context.Context, userID domain.UserID) (int64, error) {
	var balance int64
	err := txcontext.Executor(ctx, s.db).
		QueryRowContext(ctx, `SELECT balance_cents FROM wallets WHERE user_id = $1`, uuid.UUID(userID)).
		Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// A user without a wallet row simply has not deposited yet.
			return 0, nil
		}
		return 0, fmt.Errorf("read balance: %w", err)
	}
	return balance, nil
}
