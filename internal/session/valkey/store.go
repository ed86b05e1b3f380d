package sessionvalkey

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"storefront/internal/session"
)

const objectTypeSession = "session"

type Store struct {
	valkey valkey.Client
	prefix string
}

func New(valkeyClient valkey.Client, prefix string) *Store {
	return &Store{
		valkey: valkeyClient,
		prefix: strings.TrimSuffix(prefix, ":"),
	}
}

func (s *Store) Load(ctx context.Context, id string) ([]byte, error) {
	data, err := s.valkey.Do(ctx, s.valkey.B().Get().Key(s.key(id)).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("executing get command: %w", err)
	}
	return data, nil
}

func (s *Store) Save(ctx context.Context, id string, data []byte, expiresAt time.Time) error {
	seconds := int64(time.Until(expiresAt) / time.Second)
	if seconds <= 0 {
		return s.Delete(ctx, id)
	}

	cmd := s.valkey.B().Set().Key(s.key(id)).Value(valkey.BinaryString(data)).ExSeconds(seconds).Build()
	if err := s.valkey.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("executing set command: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.valkey.Do(ctx, s.valkey.B().Del().Key(s.key(id)).Build()).Error(); err != nil {
		return fmt.Errorf("executing del command: %w", err)
	}
	return nil
}

func (s *Store) key(id string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, objectTypeSession, id)
}
