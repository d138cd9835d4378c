//go:build integration

package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"richideia/internal/catalog"
	"richideia/pkg/domain"
	"richideia/pkg/testutil/containers"
)

func TestPostgresMessages_CreateAndListRoundTrip(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	ctx := context.Background()
	ideas := catalog.NewPostgres(pg.DB)
	store := NewPostgres(pg.DB)

	idea := catalog.Idea{
		ID:         domain.NewIdeaID(),
		CreatorID:  domain.NewUserID(),
		Title:      "Offline-first POS",
		Sector:     "retail",
		PriceCents: 20_000,
		Status:     catalog.StatusActive,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, ideas.Create(ctx, idea))

	buyer := domain.NewUserID()
	first := Message{
		ID:         domain.NewMessageID(),
		IdeaID:     idea.ID,
		SenderID:   buyer,
		ReceiverID: idea.CreatorID,
		Content:    "does it sync over LoRa?",
		CreatedAt:  time.Now().UTC().Add(-time.Minute),
	}
	second := Message{
		ID:         domain.NewMessageID(),
		IdeaID:     idea.ID,
		SenderID:   idea.CreatorID,
		ReceiverID: buyer,
		Content:    "mesh relay, yes",
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, store.Create(ctx, first), "insert must satisfy every NOT NULL column")
	require.NoError(t, store.Create(ctx, second))

	msgs, err := store.ListByIdea(ctx, idea.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, first.ID, msgs[0].ID)
	assert.Equal(t, idea.CreatorID, msgs[0].ReceiverID)
	assert.Equal(t, second.ID, msgs[1].ID)
	assert.Equal(t, buyer, msgs[1].ReceiverID)
	assert.Equal(t, "does it sync over LoRa?", msgs[0].Content)
}

func TestPostgresMessages_ListScopedToIdea(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	ctx := context.Background()
	store := NewPostgres(pg.DB)

	msgs, err := store.ListByIdea(ctx, domain.NewIdeaID())
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
