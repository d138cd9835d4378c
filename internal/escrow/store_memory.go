package escrow

import (
	"context"
	"sort"
	"sync"

	"richideia/pkg/domain"
	"richideia/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu           sync.RWMutex
	transactions map[domain.TransactionID]Transaction
	contracts    map[domain.TransactionID]Contract
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		transactions: make(map[domain.TransactionID]Transaction),
		contracts:    make(map[domain.TransactionID]Contract),
	}
}

func (s *InMemoryStore) CreateTransaction(_ context.Context, t Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.transactions[t.ID]; exists {
		return sentinel.ErrConflict
	}
	s.transactions[t.ID] = t
	return nil
}

func (s *InMemoryStore) CreateContract(_ context.Context, c Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.contracts[c.TransactionID]; exists {
		return sentinel.ErrConflict
	}
	s.contracts[c.TransactionID] = c
	return nil
}

func (s *InMemoryStore) FindTransaction(_ context.Context, id domain.TransactionID) (Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transactions[id]
	if !ok {
		return Transaction{}, sentinel.ErrNotFound
	}
	return t, nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID domain.UserID) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Transaction
	for _, t := range s.transactions {
		if t.BuyerID == userID || t.SellerID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryStore) FindContractByTransaction(_ context.Context, txID domain.TransactionID) (Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contracts[txID]
	if !ok {
		return Contract{}, sentinel.ErrNotFound
	}
	return c, nil
}
