package ratings

import (
	"context"
	"sort"
	"sync"

	"richideia/pkg/domain"
	"richideia/pkg/platform/sentinel"
)

type ratingKey struct {
	from domain.UserID
	tx   domain.TransactionID
}

type InMemoryStore struct {
	mu      sync.RWMutex
	byKey   map[ratingKey]struct{}
	ratings []Rating
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byKey: make(map[ratingKey]struct{})}
}

func (s *InMemoryStore) Create(_ context.Context, r Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ratingKey{from: r.FromUserID, tx: r.TransactionID}
	if _, exists := s.byKey[key]; exists {
		return sentinel.ErrConflict
	}
	s.byKey[key] = struct{}{}
	s.ratings = append(s.ratings, r)
	return nil
}

func (s *InMemoryStore) ListForUser(_ context.Context, userID domain.UserID) ([]Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Rating
	for _, r := range s.ratings {
		if r.ToUserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
