package disclosure

import (
	"context"
	"time"

	platformredis "richideia/internal/platform/redis"
	"richideia/pkg/domain"
)

// Cache remembers Full verdicts in Redis. Only Full is ever cached: ownership
// is fixed, roles are fixed for a token's lifetime, and NDAs are immutable, so
// Full never regresses to Partial. Partial verdicts are recomputed every time
// because a sign can upgrade them at any moment.
//
// All methods are best effort; a nil or unreachable Redis degrades to plain
// registry lookups.
type Cache struct {
	client *platformredis.Client
	ttl    time.Duration
}

func NewCache(client *platformredis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func key(userID domain.UserID, ideaID domain.IdeaID) string {
	return "disclosure:full:" + userID.String() + ":" + ideaID.String()
}

// IsFull reports a cached Full verdict for the pair.
func (c *Cache) IsFull(ctx context.Context, userID domain.UserID, ideaID domain.IdeaID) bool {
	if c == nil || c.client == nil {
		return false
	}
	n, err := c.client.Exists(ctx, key(userID, ideaID)).Result()
	return err == nil && n > 0
}

// MarkFull records a Full verdict for the pair.
func (c *Cache) MarkFull(ctx context.Context, userID domain.UserID, ideaID domain.IdeaID) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Set(ctx, key(userID, ideaID), "1", c.ttl).Err()
}
