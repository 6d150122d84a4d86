package repository

import (
	"context"
	"sync"
	"time"
)

type memoryTokenDenylist struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryTokenDenylist() TokenDenylist {
	return &memoryTokenDenylist{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *memoryTokenDenylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, k)
		}
	}
	s.revoked[jti] = now.Add(ttl)
	return nil
}

func (s *memoryTokenDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.RLock()
	exp, ok := s.revoked[jti]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if s.now().After(exp) {
		s.mu.Lock()
		delete(s.revoked, jti)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}
