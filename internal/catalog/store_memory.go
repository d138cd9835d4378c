package catalog

import (
	"context"
	"sort"
	"sync"

	"richideia/pkg/domain"
	"richideia/pkg/platform/sentinel"
)

// InMemoryStore backs tests and local development.
type InMemoryStore struct {
	mu    sync.RWMutex
	ideas map[domain.IdeaID]Idea
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{ideas: make(map[domain.IdeaID]Idea)}
}

func (s *InMemoryStore) Create(_ context.Context, idea Idea) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.ideas[idea.ID]; exists {
		return sentinel.ErrConflict
	}
	s.ideas[idea.ID] = idea
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.IdeaID) (Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idea, ok := s.ideas[id]
	if !ok {
		return Idea{}, sentinel.ErrNotFound
	}
	return idea, nil
}

func (s *InMemoryStore) ListByCreator(_ context.Context, creatorID domain.UserID) ([]Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Idea
	for _, idea := range s.ideas {
		if idea.CreatorID == creatorID {
			out = append(out, idea)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryStore) ListActive(_ context.Context) ([]Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Idea
	for _, idea := range s.ideas {
		if idea.Status == StatusActive {
			out = append(out, idea)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
