// Package sessionmemory keeps sessions in process memory. Sessions are lost on restart
// and are not shared between replicas, so it is meant for local dev and tests.
package sessionmemory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"storefront/internal/session"
)

type Store struct {
	cache *cache.Cache
}

func New(cleanupInterval time.Duration) *Store {
	return &Store{cache: cache.New(cache.NoExpiration, cleanupInterval)}
}

func (s *Store) Load(_ context.Context, id string) ([]byte, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, session.ErrNotFound
	}
	data, _ := v.([]byte)
	return append([]byte(nil), data...), nil
}

func (s *Store) Save(_ context.Context, id string, data []byte, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		s.cache.Delete(id)
		return nil
	}
	s.cache.Set(id, append([]byte(nil), data...), ttl)
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}
