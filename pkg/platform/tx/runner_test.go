package tx

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "richideia/pkg/domain-errors"
)

func TestMemoryRunner_SerializesSameKey(t *testing.T) {
	runner := NewMemoryRunner()
	ctx := WithLockKey(context.Background(), "buyer-1")

	var inUnit int
	var maxInUnit int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := runner.RunInTx(ctx, func(context.Context) error {
				mu.Lock()
				inUnit++
				if inUnit > maxInUnit {
					maxInUnit = inUnit
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inUnit--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInUnit, "units sharing a lock key must never overlap")
}

func TestMemoryRunner_PropagatesError(t *testing.T) {
	runner := NewMemoryRunner()
	boom := errors.New("boom")

	err := runner.RunInTx(context.Background(), func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestMemoryRunner_CancelledContext(t *testing.T) {
	runner := NewMemoryRunner()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runner.RunInTx(ctx, func(context.Context) error {
		t.Fatal("unit must not run after cancellation")
		return nil
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
}

func TestWithLockKey_DistinctKeysUseDistinctShards(t *testing.T) {
	runner := NewMemoryRunner()
	a := runner.selectShard(WithLockKey(context.Background(), "user-a"))
	b := runner.selectShard(WithLockKey(context.Background(), "user-b"))
	def := runner.selectShard(context.Background())

	assert.Equal(t, 0, def, "missing key defaults to shard 0")
	// Not guaranteed distinct for arbitrary strings, but these two must not
	// collide for the sharding to be worth having.
	assert.NotEqual(t, a, b)
}
