package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	slogctx "github.com/veqryn/slog-context"

	"storefront/pkg/config"
)

type Manager struct {
	store  Store
	secret []byte
	cookie config.CookieConfig
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(store Store, secret string, cookie config.CookieConfig, ttl time.Duration) *Manager {
	return &Manager{
		store:  store,
		secret: []byte(secret),
		cookie: cookie,
		ttl:    ttl,
		now:    time.Now,
	}
}

// New starts an empty session with a fresh id.
func (m *Manager) New() *Session {
	return &Session{
		id:      uuid.NewString(),
		values:  map[string]json.RawMessage{},
		isNew:   true,
		manager: m,
	}
}

// FromRequest resolves the session referenced by the request cookie.
// A missing, forged, expired or evicted session yields a new one; only store failures are errors.
func (m *Manager) FromRequest(ctx context.Context, r *http.Request) (*Session, error) {
	c, err := r.Cookie(m.cookie.Name)
	if err != nil || c.Value == "" {
		return m.New(), nil
	}

	id, err := verifyToken(c.Value, m.secret, m.now())
	if err != nil {
		slogctx.Debug(ctx, "Ignoring session cookie", "error", err)
		return m.New(), nil
	}

	data, err := m.store.Load(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return m.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	values := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &values); err != nil {
		slogctx.Warn(ctx, "Discarding undecodable session", "error", err)
		return m.New(), nil
	}

	return &Session{id: id, values: values, manager: m}, nil
}

// renew gives s a new id so a cookie issued before a privilege change stops resolving to it.
func (m *Manager) renew(ctx context.Context, s *Session) error {
	old := s.id
	s.id = uuid.NewString()
	if s.isNew {
		return nil
	}
	if err := m.store.Delete(ctx, old); err != nil {
		return fmt.Errorf("deleting renewed session: %w", err)
	}
	return nil
}

func (m *Manager) commit(ctx context.Context, s *Session) (string, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	data, err := json.Marshal(s.values)
	if err != nil {
		return "", fmt.Errorf("encoding session: %w", err)
	}
	if err := m.store.Save(ctx, s.id, data, expiresAt); err != nil {
		return "", fmt.Errorf("saving session: %w", err)
	}

	token, err := signToken(m.secret, s.id, now, expiresAt)
	if err != nil {
		return "", fmt.Errorf("signing session cookie: %w", err)
	}

	cookie := m.cookie.ToCookie(token)
	cookie.Expires = expiresAt
	return cookie.String(), nil
}
