package disclosure

import (
	"context"
	"errors"

	"richideia/internal/catalog"
	"richideia/pkg/domain"
	dErrors "richideia/pkg/domain-errors"
	"richideia/pkg/platform/sentinel"
)

// IdeaReader is the slice of the catalog the gate needs.
type IdeaReader interface {
	FindByID(ctx context.Context, id domain.IdeaID) (catalog.Idea, error)
}

// NDAChecker is the slice of the registry the gate needs.
type NDAChecker interface {
	HasSigned(ctx context.Context, userID domain.UserID, ideaID domain.IdeaID) (bool, error)
}

// Service evaluates the gate for concrete principals and ideas. It runs on
// every idea-detail read and before every messaging operation.
type Service struct {
	ideas IdeaReader
	ndas  NDAChecker
	cache *Cache
}

func NewService(ideas IdeaReader, ndas NDAChecker, cache *Cache) *Service {
	return &Service{ideas: ideas, ndas: ndas, cache: cache}
}

// CanView returns the verdict and the idea it was computed over.
func (s *Service) CanView(ctx context.Context, principal domain.Principal, ideaID domain.IdeaID) (Access, catalog.Idea, error) {
	idea, err := s.ideas.FindByID(ctx, ideaID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return AccessPartial, catalog.Idea{}, dErrors.New(dErrors.CodeNotFound, "idea not found")
		}
		return AccessPartial, catalog.Idea{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load idea")
	}

	access, err := s.decide(ctx, principal, idea)
	if err != nil {
		return AccessPartial, catalog.Idea{}, err
	}
	return access, idea, nil
}

// View returns the projection the principal is entitled to.
func (s *Service) View(ctx context.Context, principal domain.Principal, ideaID domain.IdeaID) (Projection, error) {
	access, idea, err := s.CanView(ctx, principal, ideaID)
	if err != nil {
		return Projection{}, err
	}
	return Project(idea, access), nil
}

func (s *Service) decide(ctx context.Context, principal domain.Principal, idea catalog.Idea) (Access, error) {
	// Fast paths that need no NDA lookup.
	if Decide(principal, idea, false) == AccessFull {
		return AccessFull, nil
	}
	if s.cache.IsFull(ctx, principal.ID, idea.ID) {
		return AccessFull, nil
	}

	hasNDA, err := s.ndas.HasSigned(ctx, principal.ID, idea.ID)
	if err != nil {
		return AccessPartial, dErrors.Wrap(err, dErrors.CodeInternal, "failed to evaluate disclosure")
	}
	access := Decide(principal, idea, hasNDA)
	if access == AccessFull {
		s.cache.MarkFull(ctx, principal.ID, idea.ID)
	}
	return access, nil
}
