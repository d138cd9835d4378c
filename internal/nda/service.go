package nda

import (
	"context"
	"errors"
	"time"

	"richideia/internal/catalog"
	"richideia/internal/outbox"
	"richideia/pkg/domain"
	dErrors "richideia/pkg/domain-errors"
	"richideia/pkg/platform/sentinel"
	platformtx "richideia/pkg/platform/tx"
)

// IdeaReader is the slice of the catalog this service needs.
type IdeaReader interface {
	FindByID(ctx context.Context, id domain.IdeaID) (catalog.Idea, error)
}

type Service struct {
	store  Store
	ideas  IdeaReader
	events outbox.Store
	runner platformtx.Runner
}

// Option configures the Service.
type Option func(*Service)

// WithEvents makes every successful sign emit an nda.signed outbox event.
// The signature row and the event commit as one unit of work: if the append
// fails, the whole sign rolls back and reports failure.
func WithEvents(events outbox.Store, runner platformtx.Runner) Option {
	return func(s *Service) {
		s.events = events
		s.runner = runner
	}
}

func NewService(store Store, ideas IdeaReader, opts ...Option) *Service {
	s := &Service{store: store, ideas: ideas}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sign records a one-time consent for (user, idea). A duplicate attempt,
// including one racing another in-flight sign, returns the existing record
// with CodeAlreadySigned; the registry never holds two rows for one pair.
func (s *Service) Sign(ctx context.Context, userID domain.UserID, ideaID domain.IdeaID, ip string) (NDA, error) {
	idea, err := s.ideas.FindByID(ctx, ideaID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return NDA{}, dErrors.New(dErrors.CodeNotFound, "idea not found")
		}
		return NDA{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load idea")
	}
	if idea.CreatorID == userID {
		// The creator already has full access; a self-signed NDA would only
		// pollute the thread listing.
		return NDA{}, dErrors.New(dErrors.CodeValidation, "creators do not sign their own ideas")
	}

	record := NDA{
		ID:       domain.NewNDAID(),
		UserID:   userID,
		IdeaID:   ideaID,
		SignedAt: time.Now().UTC(),
		IP:       ip,
	}
	if err := s.persist(ctx, record); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			existing, findErr := s.store.Find(ctx, userID, ideaID)
			if findErr != nil {
				return NDA{}, dErrors.Wrap(findErr, dErrors.CodeInternal, "failed to load existing nda")
			}
			return existing, dErrors.New(dErrors.CodeAlreadySigned, "nda already signed")
		}
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			return NDA{}, err
		}
		return NDA{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record nda")
	}
	return record, nil
}

// persist writes the signature row and, when an event sink is configured, its
// nda.signed event in one transactional unit.
func (s *Service) persist(ctx context.Context, record NDA) error {
	if s.events == nil {
		return s.store.Create(ctx, record)
	}
	ctx = platformtx.WithLockKey(ctx, record.UserID.String())
	return s.runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Create(ctx, record); err != nil {
			return err
		}
		event, err := outbox.NewEvent("nda", record.ID.String(), outbox.EventNDASigned, map[string]string{
			"nda_id":  record.ID.String(),
			"user_id": record.UserID.String(),
			"idea_id": record.IdeaID.String(),
		})
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build nda event")
		}
		if err := s.events.Append(ctx, event); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to queue nda event")
		}
		return nil
	})
}

// HasSigned reports whether the pair has a signature.
func (s *Service) HasSigned(ctx context.Context, userID domain.UserID, ideaID domain.IdeaID) (bool, error) {
	_, err := s.store.Find(ctx, userID, ideaID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up nda")
	}
	return true, nil
}

// ListByUser returns every NDA the user signed, newest first.
func (s *Service) ListByUser(ctx context.Context, userID domain.UserID) ([]NDA, error) {
	records, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list ndas")
	}
	return records, nil
}

// ListByIdeas returns every NDA signed against the given ideas.
func (s *Service) ListByIdeas(ctx context.Context, ideaIDs []domain.IdeaID) ([]NDA, error) {
	if len(ideaIDs) == 0 {
		return nil, nil
	}
	records, err := s.store.ListByIdeas(ctx, ideaIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list ndas by idea")
	}
	return records, nil
}
