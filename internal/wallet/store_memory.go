package wallet

import (
	"context"
	"sync"

	"richideia/pkg/domain"
	"richideia/pkg/platform/sentinel"
)

// InMemoryStore keeps balances under one mutex, which serializes concurrent
// mutations the way the database row lock does in production.
type InMemoryStore struct {
	mu       sync.RWMutex
	balances map[domain.UserID]int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{balances: make(map[domain.UserID]int64)}
}

func (s *InMemoryStore) Credit(_ context.Context, userID domain.UserID, amountCents int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[userID] += amountCents
	return s.balances[userID], nil
}

func (s *InMemoryStore) Debit(_ context.Context, userID domain.UserID, amountCents int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balances[userID] < amountCents {
		return sentinel.ErrInsufficientBalance
	}
	s.balances[userID] -= amountCents
	return nil
}

func (s *InMemoryStore) Balance(_ context.Context, userID domain.UserID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[userID], nil
}
