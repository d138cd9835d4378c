package tx

import (
	"context"
	"database/sql"
	"sync"
	"time"

	dErrors "richideia/pkg/domain-errors"
)

// Runner is the transactional boundary for multi-write units of work. The
// callback runs with a context that carries the unit's transaction (SQL
// implementations) or under a serializing lock (memory implementation).
// The unit commits only if fn returns nil; any error rolls back every write.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// defaultTxTimeout bounds a unit of work so a stuck transaction cannot hold
// row locks indefinitely.
const defaultTxTimeout = 5 * time.Second

// SQLRunner runs units of work inside a database/sql transaction.
type SQLRunner struct {
	db      *sql.DB
	timeout time.Duration
}

func NewSQLRunner(db *sql.DB) *SQLRunner {
	return &SQLRunner{db: db}
}

func (r *SQLRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := r.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(WithTx(ctx, sqlTx)); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// numShards distributes lock contention across independent mutexes so units
// touching unrelated rows do not serialize behind each other.
const numShards = 128

// MemoryRunner serializes units of work with sharded mutexes, selected by the
// lock key carried in context (see WithLockKey). Memory stores already apply
// each individual write atomically; the runner makes the whole unit mutually
// exclusive with other units on the same key, which is what resolves two
// simultaneous purchases against one balance to exactly one winner.
//
// MemoryRunner provides isolation but not rollback: writes that completed
// before fn returned an error stay applied. Units must therefore order their
// steps so the write most likely to fail comes first (the purchase debits
// before it inserts). All-or-nothing semantics under mid-unit failure are
// guaranteed only by SQLRunner; the store integration suites cover them.
type MemoryRunner struct {
	shards [numShards]sync.Mutex
}

func NewMemoryRunner() *MemoryRunner {
	return &MemoryRunner{}
}

func (r *MemoryRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	shard := r.selectShard(ctx)
	r.shards[shard].Lock()
	defer r.shards[shard].Unlock()
	return fn(ctx)
}

func (r *MemoryRunner) selectShard(ctx context.Context) int {
	if key, ok := ctx.Value(lockKeyCtx).(string); ok && key != "" {
		return int(hashString(key) % numShards)
	}
	return 0
}

// WithLockKey marks the logical row a unit of work contends on, typically the
// buyer's user id. SQL runners ignore it; the memory runner uses it to pick a
// lock shard.
func WithLockKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, lockKeyCtx, key)
}

// hashString is FNV-1a.
func hashString(s string) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}

type lockKey struct{}

var lockKeyCtx = lockKey{}
