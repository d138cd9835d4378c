package disclosure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"richideia/internal/catalog"
	"richideia/internal/nda"
	"richideia/pkg/domain"
	dErrors "richideia/pkg/domain-errors"
)

func testIdea(creatorID domain.UserID) catalog.Idea {
	return catalog.Idea{
		ID:          domain.NewIdeaID(),
		CreatorID:   creatorID,
		Title:       "Graphene water filter",
		Description: "protected process details",
		PriceCents:  1200_00,
		Status:      catalog.StatusActive,
	}
}

func TestDecide(t *testing.T) {
	creator := domain.NewUserID()
	idea := testIdea(creator)

	t.Run("creator gets full with zero NDAs", func(t *testing.T) {
		access := Decide(domain.Principal{ID: creator, Role: domain.RoleCreator}, idea, false)
		assert.Equal(t, AccessFull, access)
	})

	t.Run("admin and founder bypass the gate", func(t *testing.T) {
		for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleFounder} {
			access := Decide(domain.Principal{ID: domain.NewUserID(), Role: role}, idea, false)
			assert.Equal(t, AccessFull, access, "role %s", role)
		}
	})

	t.Run("stranger gets partial", func(t *testing.T) {
		access := Decide(domain.Principal{ID: domain.NewUserID(), Role: domain.RoleBuyer}, idea, false)
		assert.Equal(t, AccessPartial, access)
	})

	t.Run("NDA holder gets full", func(t *testing.T) {
		access := Decide(domain.Principal{ID: domain.NewUserID(), Role: domain.RoleBuyer}, idea, true)
		assert.Equal(t, AccessFull, access)
	})
}

func TestProject(t *testing.T) {
	idea := testIdea(domain.NewUserID())

	t.Run("full carries the protected description", func(t *testing.T) {
		p := Project(idea, AccessFull)
		assert.Equal(t, "protected process details", p.Description)
		assert.False(t, p.NDARequired)
	})

	t.Run("partial suppresses protected fields and raises nda_required", func(t *testing.T) {
		p := Project(idea, AccessPartial)
		assert.Empty(t, p.Description)
		assert.True(t, p.NDARequired)
		assert.Equal(t, idea.Title, p.Title, "public fields stay visible")
		assert.Equal(t, idea.PriceCents, p.PriceCents)
	})
}

func newGate(t *testing.T) (*Service, *catalog.InMemoryStore, *nda.Service) {
	t.Helper()
	ideas := catalog.NewInMemoryStore()
	ndaSvc := nda.NewService(nda.NewInMemoryStore(), ideas)
	// nil cache client: the gate must work without Redis.
	return NewService(ideas, ndaSvc, NewCache(nil, 0)), ideas, ndaSvc
}

func TestView(t *testing.T) {
	gate, ideas, ndaSvc := newGate(t)
	ctx := context.Background()

	creator := domain.NewUserID()
	idea := testIdea(creator)
	require.NoError(t, ideas.Create(ctx, idea))

	buyer := domain.Principal{ID: domain.NewUserID(), Role: domain.RoleBuyer}

	t.Run("partial before signing", func(t *testing.T) {
		p, err := gate.View(ctx, buyer, idea.ID)
		require.NoError(t, err)
		assert.True(t, p.NDARequired)
		assert.Empty(t, p.Description)
	})

	t.Run("full immediately after signing", func(t *testing.T) {
		_, err := ndaSvc.Sign(ctx, buyer.ID, idea.ID, "203.0.113.9")
		require.NoError(t, err)

		p, err := gate.View(ctx, buyer, idea.ID)
		require.NoError(t, err)
		assert.False(t, p.NDARequired)
		assert.Equal(t, idea.Description, p.Description)
	})

	t.Run("other principals remain partial after an unrelated sign", func(t *testing.T) {
		other := domain.Principal{ID: domain.NewUserID(), Role: domain.RoleBuyer}
		p, err := gate.View(ctx, other, idea.ID)
		require.NoError(t, err)
		assert.True(t, p.NDARequired)
	})

	t.Run("unknown idea is NotFound", func(t *testing.T) {
		_, err := gate.View(ctx, buyer, domain.NewIdeaID())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
