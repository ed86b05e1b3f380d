package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Store persists encoded session values by session id.
type Store interface {
	// Load returns ErrNotFound when the id is unknown or expired.
	Load(ctx context.Context, id string) ([]byte, error)
	Save(ctx context.Context, id string, data []byte, expiresAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// Values is the read/write surface collaborators get from a session.
type Values interface {
	Get(key string, into any) (bool, error)
	Set(key string, value any) error
}

// Session is a per-browser key/value bag. Changes are only persisted by Commit.
type Session struct {
	id      string
	values  map[string]json.RawMessage
	isNew   bool
	manager *Manager
}

func (s *Session) ID() string {
	return s.id
}

// IsNew reports whether the session was created for this request.
func (s *Session) IsNew() bool {
	return s.isNew
}

func (s *Session) Get(key string, into any) (bool, error) {
	raw, ok := s.values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return true, fmt.Errorf("decoding session value %q: %w", key, err)
	}
	return true, nil
}

func (s *Session) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding session value %q: %w", key, err)
	}
	s.values[key] = raw
	return nil
}

func (s *Session) Unset(key string) {
	delete(s.values, key)
}

// Renew moves the session to a fresh id and drops the old one from the store.
func (s *Session) Renew(ctx context.Context) error {
	return s.manager.renew(ctx, s)
}

// Commit saves the session and returns the Set-Cookie header value for it.
func (s *Session) Commit(ctx context.Context) (string, error) {
	return s.manager.commit(ctx, s)
}
