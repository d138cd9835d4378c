package catalog

import (
	"context"
	"errors"
	"time"

	"richideia/pkg/domain"
	dErrors "richideia/pkg/domain-errors"
	"richideia/pkg/platform/sentinel"
)

// Service validates idea submissions and reads for the rest of the core.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// NewIdea is the submission payload accepted from creators.
type NewIdea struct {
	Title         string
	ProblemSolved string
	Sector        string
	PriceCents    int64
	MaturityLevel string
	Description   string
}

// Create lists a new idea. Only creators may list; price must be positive.
func (s *Service) Create(ctx context.Context, principal domain.Principal, in NewIdea) (Idea, error) {
	if principal.Role != domain.RoleCreator {
		return Idea{}, dErrors.New(dErrors.CodeForbidden, "only creators can post ideas")
	}
	if in.Title == "" || in.ProblemSolved == "" || in.Sector == "" {
		return Idea{}, dErrors.New(dErrors.CodeValidation, "title, problem_solved and sector are required")
	}
	if in.PriceCents <= 0 {
		return Idea{}, dErrors.New(dErrors.CodeValidation, "price must be positive")
	}

	idea := Idea{
		ID:            domain.NewIdeaID(),
		CreatorID:     principal.ID,
		Title:         in.Title,
		ProblemSolved: in.ProblemSolved,
		Sector:        in.Sector,
		PriceCents:    in.PriceCents,
		MaturityLevel: in.MaturityLevel,
		Description:   in.Description,
		Status:        StatusActive,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.Create(ctx, idea); err != nil {
		return Idea{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create idea")
	}
	return idea, nil
}

// Get loads one idea, translating missing rows into NotFound.
func (s *Service) Get(ctx context.Context, id domain.IdeaID) (Idea, error) {
	idea, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Idea{}, dErrors.New(dErrors.CodeNotFound, "idea not found")
		}
		return Idea{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load idea")
	}
	return idea, nil
}

// ListActive returns ideas open for purchase, without protected fields applied;
// callers project per principal through the disclosure gate.
func (s *Service) ListActive(ctx context.Context) ([]Idea, error) {
	ideas, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list ideas")
	}
	return ideas, nil
}
