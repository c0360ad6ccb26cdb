package store

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/stake-plus/ideograph/src/logging"
)

// MemoryStore is the fallback used when no redis or MySQL is configured.
// Best-effort and non-durable: contents reset on process restart, which
// is acceptable because the upstream provider remains the enforcement
// authority.
type MemoryStore struct {
	mu     sync.Mutex
	states *gocache.Cache
	tokens *gocache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: gocache.New(10*time.Minute, time.Minute),
		tokens: gocache.New(gocache.NoExpiration, 0),
	}
}

func (s *MemoryStore) PutState(ctx context.Context, state string, rec StateRecord, ttl time.Duration) error {
	s.states.Set(state, rec, ttl)
	return nil
}

func (s *MemoryStore) TakeState(ctx context.Context, state string) (StateRecord, error) {
	// Lock so lookup and delete are one step, mirroring redis GETDEL.
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.states.Get(state)
	if !ok {
		return StateRecord{}, logging.State("unknown or expired state")
	}
	s.states.Delete(state)

	rec := v.(StateRecord)
	if time.Now().After(rec.ExpiresAt) {
		return StateRecord{}, logging.State("state expired")
	}
	return rec, nil
}

func (s *MemoryStore) SaveToken(ctx context.Context, installationID string, rec TokenRecord) error {
	s.tokens.Set(installationID, rec, gocache.NoExpiration)
	return nil
}

func (s *MemoryStore) GetToken(ctx context.Context, installationID string) (TokenRecord, error) {
	v, ok := s.tokens.Get(installationID)
	if !ok {
		return TokenRecord{}, logging.State("no token for installation %q", installationID)
	}
	return v.(TokenRecord), nil
}
