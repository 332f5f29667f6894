package revocation

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore implements Store in process memory. It is only correct for a single replica and
// is used for local development and tests.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates a MemoryStore whose expired entries are purged every cleanupInterval.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{cache: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (s *MemoryStore) Put(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.cache.Set(key, value, ttl)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return "", ErrNotFound
	}
	val, _ := v.(string)
	return val, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Len returns the number of entries, including expired ones not yet purged.
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}
