package notify

import (
	"context"
	"sort"
	"sync"

	"richideia/pkg/domain"
	"richideia/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	records []Notification
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Create(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, n)
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID domain.UserID, limit int) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Notification
	for _, n := range s.records {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryStore) MarkRead(_ context.Context, userID domain.UserID, id domain.NotificationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id && s.records[i].UserID == userID {
			s.records[i].IsRead = true
			return nil
		}
	}
	return sentinel.ErrNotFound
}
