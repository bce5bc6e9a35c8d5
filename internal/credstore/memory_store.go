package credstore

import (
	"sync"

	"github.com/avrentops/rentalctl/internal/domain"
)

// MemoryStore is a process-local Store for tests and ephemeral sessions
// (e.g. --no-persist runs where credentials must not touch disk).
type MemoryStore struct {
	mu     sync.Mutex
	tokens *domain.TokenPair
	user   *domain.User
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Tokens() (*domain.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens == nil {
		return nil, nil
	}
	cp := *s.tokens
	return &cp, nil
}

func (s *MemoryStore) SetTokens(pair *domain.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pair == nil {
		s.tokens = nil
		return nil
	}
	cp := *pair
	s.tokens = &cp
	return nil
}

func (s *MemoryStore) User() (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, nil
	}
	cp := *s.user
	return &cp, nil
}

func (s *MemoryStore) SetUser(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user == nil {
		s.user = nil
		return nil
	}
	cp := *user
	s.user = &cp
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = nil
	s.user = nil
	return nil
}
