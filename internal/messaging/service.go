package messaging

import (
	"context"
	"sort"
	"strings"
	"time"

	"richideia/internal/catalog"
	"richideia/internal/disclosure"
	"richideia/internal/nda"
	"richideia/internal/platform/metrics"
	"richideia/pkg/domain"
	dErrors "richideia/pkg/domain-errors"
)

const maxContentLength = 4000

// Gate is the disclosure verdict the channel reuses. Messaging adds no access
// rule of its own.
type Gate interface {
	CanView(ctx context.Context, principal domain.Principal, ideaID domain.IdeaID) (disclosure.Access, catalog.Idea, error)
}

// IdeaLister is the catalog slice the thread listing needs.
type IdeaLister interface {
	FindByID(ctx context.Context, id domain.IdeaID) (catalog.Idea, error)
	ListByCreator(ctx context.Context, creatorID domain.UserID) ([]catalog.Idea, error)
}

// NDALister is the registry slice the thread listing needs.
type NDALister interface {
	ListByUser(ctx context.Context, userID domain.UserID) ([]nda.NDA, error)
	ListByIdeas(ctx context.Context, ideaIDs []domain.IdeaID) ([]nda.NDA, error)
}

type Service struct {
	store   Store
	gate    Gate
	ideas   IdeaLister
	ndas    NDALister
	metrics *metrics.Metrics
}

func NewService(store Store, gate Gate, ideas IdeaLister, ndas NDALister, m *metrics.Metrics) *Service {
	return &Service{store: store, gate: gate, ideas: ideas, ndas: ndas, metrics: m}
}

// Post appends a message to the idea's channel, addressed to the counterparty
// on the other side of the conversation. Only principals with full disclosure
// may write.
func (s *Service) Post(ctx context.Context, principal domain.Principal, ideaID domain.IdeaID, receiverID domain.UserID, content string) (Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, dErrors.New(dErrors.CodeValidation, "message content cannot be empty")
	}
	if len(content) > maxContentLength {
		return Message{}, dErrors.New(dErrors.CodeValidation, "message content too long")
	}
	if receiverID.IsNil() {
		return Message{}, dErrors.New(dErrors.CodeValidation, "message receiver is required")
	}
	if receiverID == principal.ID {
		return Message{}, dErrors.New(dErrors.CodeValidation, "cannot send a message to yourself")
	}

	if err := s.requireFull(ctx, principal, ideaID); err != nil {
		return Message{}, err
	}

	m := Message{
		ID:         domain.NewMessageID(),
		IdeaID:     ideaID,
		SenderID:   principal.ID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.Create(ctx, m); err != nil {
		return Message{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store message")
	}
	if s.metrics != nil {
		s.metrics.MessagesPosted.Inc()
	}
	return m, nil
}

// List returns the idea's channel in chronological order, gated the same way
// as Post.
func (s *Service) List(ctx context.Context, principal domain.Principal, ideaID domain.IdeaID) ([]Message, error) {
	if err := s.requireFull(ctx, principal, ideaID); err != nil {
		return nil, err
	}
	out, err := s.store.ListByIdea(ctx, ideaID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list messages")
	}
	return out, nil
}

func (s *Service) requireFull(ctx context.Context, principal domain.Principal, ideaID domain.IdeaID) error {
	access, _, err := s.gate.CanView(ctx, principal, ideaID)
	if err != nil {
		return err
	}
	if access != disclosure.AccessFull {
		return dErrors.New(dErrors.CodeForbidden, "signing the nda unlocks this conversation")
	}
	return nil
}

// ActiveThreads lists the user's open conversations from both sides: ideas
// they created that someone signed for, and ideas they signed for themselves.
func (s *Service) ActiveThreads(ctx context.Context, userID domain.UserID) ([]Thread, error) {
	var threads []Thread

	// Creator side: every NDA against one of the user's ideas.
	owned, err := s.ideas.ListByCreator(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list own ideas")
	}
	if len(owned) > 0 {
		titles := make(map[domain.IdeaID]string, len(owned))
		ids := make([]domain.IdeaID, 0, len(owned))
		for _, idea := range owned {
			titles[idea.ID] = idea.Title
			ids = append(ids, idea.ID)
		}
		signatures, err := s.ndas.ListByIdeas(ctx, ids)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list signatures on own ideas")
		}
		for _, sig := range signatures {
			threads = append(threads, Thread{
				IdeaID:         sig.IdeaID,
				IdeaTitle:      titles[sig.IdeaID],
				CounterpartyID: sig.UserID,
				SignedAt:       sig.SignedAt,
			})
		}
	}

	// Buyer side: every NDA the user signed.
	signed, err := s.ndas.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list own signatures")
	}
	for _, sig := range signed {
		idea, err := s.ideas.FindByID(ctx, sig.IdeaID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load signed idea")
		}
		threads = append(threads, Thread{
			IdeaID:         sig.IdeaID,
			IdeaTitle:      idea.Title,
			CounterpartyID: idea.CreatorID,
			SignedAt:       sig.SignedAt,
		})
	}

	sort.Slice(threads, func(i, j int) bool { return threads[i].SignedAt.After(threads[j].SignedAt) })
	return threads, nil
}
