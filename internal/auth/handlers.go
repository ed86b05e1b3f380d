package auth

import (
	"context"
	"net/http"

	"storefront/internal/audit"
	"storefront/internal/session"
	"storefront/pkg/multipass"
	"storefront/pkg/shopify"
)

// SessionKeyCustomerAccessToken holds the shopify.CustomerAccessToken of the logged in customer.
const SessionKeyCustomerAccessToken = "customerAccessToken"

// AccountPath is where a successful login lands.
const AccountPath = "/account"

type Storefront interface {
	CustomerAccessTokenCreateWithMultipass(ctx context.Context, multipassToken string) (*shopify.CustomerAccessTokenCreateWithMultipassPayload, error)
	Customer(ctx context.Context, customerAccessToken string) (*shopify.Customer, error)
}

// Session is the part of the browser session the handlers touch.
type Session interface {
	session.Values
	ID() string
	Renew(ctx context.Context) error
	Commit(ctx context.Context) (string, error)
}

type Cart interface {
	UpdateBuyerIdentity(ctx context.Context, vals session.Values, customerAccessToken string) error
}

// Issuer generates multipass urls for a logged in customer.
type Issuer interface {
	Issue(ctx context.Context, customer multipass.Customer) (url, token string, err error)
}

type Handlers struct {
	Storefront     Storefront
	Cart           Cart
	Issuer         Issuer
	Audit          audit.Recorder
	CheckoutDomain string
}

func (h Handlers) record(ctx context.Context, e audit.Event) {
	if h.Audit == nil {
		audit.LogRecorder{}.Record(ctx, e)
		return
	}
	h.Audit.Record(ctx, e)
}

func setCookie(w http.ResponseWriter, cookie string) {
	w.Header().Add("Set-Cookie", cookie)
}
