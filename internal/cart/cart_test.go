package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/session"
	sessionmemory "storefront/internal/session/memory"
	"storefront/pkg/config"
	"storefront/pkg/shopify"
)

type fakeStorefront struct {
	updated []string
	created int
	err     error
}

func (f *fakeStorefront) CartBuyerIdentityUpdate(_ context.Context, cartID string, identity shopify.BuyerIdentity) (*shopify.Cart, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updated = append(f.updated, cartID+"="+identity.CustomerAccessToken)
	return &shopify.Cart{ID: cartID}, nil
}

func (f *fakeStorefront) CartCreate(_ context.Context, identity shopify.BuyerIdentity) (*shopify.Cart, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created++
	return &shopify.Cart{ID: "gid://shopify/Cart/new"}, nil
}

func newSession() *session.Session {
	m := session.NewManager(sessionmemory.New(time.Minute), "secret", config.CookieConfig{Name: "session"}, time.Hour)
	return m.New()
}

func TestUpdateBuyerIdentity_ExistingCart(t *testing.T) {
	sf := &fakeStorefront{}
	s := newSession()
	require.NoError(t, s.Set(SessionKey, "gid://shopify/Cart/c1"))

	err := Handler{Storefront: sf}.UpdateBuyerIdentity(t.Context(), s, "cat-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"gid://shopify/Cart/c1=cat-1"}, sf.updated)
	assert.Zero(t, sf.created)
}

func TestUpdateBuyerIdentity_CreatesCartWhenMissing(t *testing.T) {
	sf := &fakeStorefront{}
	s := newSession()

	err := Handler{Storefront: sf}.UpdateBuyerIdentity(t.Context(), s, "cat-1")
	require.NoError(t, err)
	assert.Equal(t, 1, sf.created)

	var cartID string
	found, err := s.Get(SessionKey, &cartID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "gid://shopify/Cart/new", cartID)
}

func TestUpdateBuyerIdentity_PropagatesErrors(t *testing.T) {
	sf := &fakeStorefront{err: errors.New("cartBuyerIdentityUpdate user error: The specified cart does not exist.")}
	s := newSession()
	require.NoError(t, s.Set(SessionKey, "gid://shopify/Cart/gone"))

	err := Handler{Storefront: sf}.UpdateBuyerIdentity(t.Context(), s, "cat-1")
	assert.EqualError(t, err, "cartBuyerIdentityUpdate user error: The specified cart does not exist.")
}
