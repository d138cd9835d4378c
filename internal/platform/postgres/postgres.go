// Package postgres owns the database handle and schema for the service.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// schema mirrors the marketplace data model. Invariants live in the database:
// the non-negative balance check, the one-NDA-per-(user, idea) constraint, the
// 1:1 contract binding, and the one-rating-per-(rater, transaction) constraint
// are all enforced here rather than by application-level pre-reads.
const schema = `
CREATE TABLE IF NOT EXISTS wallets (
	user_id       UUID PRIMARY KEY,
	balance_cents BIGINT NOT NULL DEFAULT 0 CHECK (balance_cents >= 0),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS ideas (
	id             UUID PRIMARY KEY,
	creator_id     UUID NOT NULL,
	title          TEXT NOT NULL,
	problem_solved TEXT NOT NULL,
	sector         TEXT NOT NULL,
	price_cents    BIGINT NOT NULL CHECK (price_cents > 0),
	maturity_level TEXT NOT NULL,
	description    TEXT,
	status         TEXT NOT NULL DEFAULT 'active',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS ndas (
	id         UUID PRIMARY KEY,
	user_id    UUID NOT NULL,
	idea_id    UUID NOT NULL REFERENCES ideas(id),
	signed_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	ip_address TEXT NOT NULL DEFAULT '',
	UNIQUE (user_id, idea_id)
);

CREATE TABLE IF NOT EXISTS transactions (
	id               UUID PRIMARY KEY,
	buyer_id         UUID NOT NULL,
	seller_id        UUID NOT NULL,
	idea_id          UUID NOT NULL REFERENCES ideas(id),
	amount_cents     BIGINT NOT NULL CHECK (amount_cents > 0),
	commission_cents BIGINT NOT NULL CHECK (commission_cents >= 0),
	status           TEXT NOT NULL DEFAULT 'escrow'
		CHECK (status IN ('escrow', 'completed', 'disputed', 'cancelled')),
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS contracts (
	id             UUID PRIMARY KEY,
	transaction_id UUID NOT NULL UNIQUE REFERENCES transactions(id),
	contract_hash  TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS notifications (
	id         UUID PRIMARY KEY,
	user_id    UUID NOT NULL,
	title      TEXT NOT NULL,
	message    TEXT NOT NULL,
	type       TEXT NOT NULL DEFAULT 'info',
	is_read    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS messages (
	id          UUID PRIMARY KEY,
	idea_id     UUID NOT NULL REFERENCES ideas(id),
	sender_id   UUID NOT NULL,
	receiver_id UUID NOT NULL,
	content     TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_messages_idea ON messages (idea_id, created_at ASC);

CREATE TABLE IF NOT EXISTS ratings (
	id             UUID PRIMARY KEY,
	from_user_id   UUID NOT NULL,
	to_user_id     UUID NOT NULL,
	transaction_id UUID NOT NULL REFERENCES transactions(id),
	score          INT NOT NULL CHECK (score BETWEEN 1 AND 5),
	comment        TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (from_user_id, transaction_id)
);

CREATE TABLE IF NOT EXISTS outbox (
	id             UUID PRIMARY KEY,
	aggregate_type TEXT NOT NULL,
	aggregate_id   TEXT NOT NULL,
	event_type     TEXT NOT NULL,
	payload        JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	published_at   TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_outbox_unpublished ON outbox (created_at) WHERE published_at IS NULL;
`

// Migrate applies the schema. Statements are idempotent so repeated startup is safe.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
