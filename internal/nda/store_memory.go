package nda

import (
	"context"
	"sort"
	"sync"

	"richideia/pkg/domain"
	"richideia/pkg/platform/sentinel"
)

type pairKey struct {
	userID domain.UserID
	ideaID domain.IdeaID
}

// InMemoryStore resolves the duplicate-sign race with a single mutex around
// the check-and-insert, mirroring what the unique constraint does in Postgres.
type InMemoryStore struct {
	mu    sync.RWMutex
	pairs map[pairKey]NDA
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{pairs: make(map[pairKey]NDA)}
}

func (s *InMemoryStore) Create(_ context.Context, record NDA) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{userID: record.UserID, ideaID: record.IdeaID}
	if _, exists := s.pairs[key]; exists {
		return sentinel.ErrConflict
	}
	s.pairs[key] = record
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, userID domain.UserID, ideaID domain.IdeaID) (NDA, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.pairs[pairKey{userID: userID, ideaID: ideaID}]
	if !ok {
		return NDA{}, sentinel.ErrNotFound
	}
	return record, nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID domain.UserID) ([]NDA, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []NDA
	for key, record := range s.pairs {
		if key.userID == userID {
			out = append(out, record)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryStore) ListByIdeas(_ context.Context, ideaIDs []domain.IdeaID) ([]NDA, error) {
	wanted := make(map[domain.IdeaID]bool, len(ideaIDs))
	for _, id := range ideaIDs {
		wanted[id] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []NDA
	for key, record := range s.pairs {
		if wanted[key.ideaID] {
			out = append(out, record)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(records []NDA) {
	sort.Slice(records, func(i, j int) bool { return records[i].SignedAt.After(records[j].SignedAt) })
}
