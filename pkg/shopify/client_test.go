package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return Client{
		HTTPClient:  srv.Client(),
		BaseURL:     srv.URL,
		AccessToken: "storefront-token",
		APIVersion:  "2025-10",
	}
}

func TestCustomerAccessTokenCreateWithMultipass(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/2025-10/graphql.json" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("X-Shopify-Storefront-Access-Token"); got != "storefront-token" {
			t.Errorf("unexpected token header %q", got)
		}
		var req graphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if !strings.Contains(req.Query, "customerAccessTokenCreateWithMultipass") {
			t.Errorf("unexpected query %q", req.Query)
		}
		if req.Variables["multipassToken"] != "mp-123" {
			t.Errorf("unexpected variables %v", req.Variables)
		}
		_, _ = w.Write([]byte(`{"data":{"customerAccessTokenCreateWithMultipass":{
			"customerAccessToken":{"accessToken":"cat-1","expiresAt":"2030-01-02T03:04:05Z"},
			"customerUserErrors":[]}}}`))
	})

	got, err := c.CustomerAccessTokenCreateWithMultipass(context.Background(), "mp-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CustomerAccessToken == nil || got.CustomerAccessToken.AccessToken != "cat-1" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	want := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	if !got.CustomerAccessToken.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiresAt %s, got %s", want, got.CustomerAccessToken.ExpiresAt)
	}
}

func TestCustomerAccessTokenCreateWithMultipass_UserErrorsInPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"customerAccessTokenCreateWithMultipass":{
			"customerAccessToken":null,
			"customerUserErrors":[{"code":"INVALID_MULTIPASS_REQUEST","field":["multipassToken"],"message":"Invalid multipass request"}]}}}`))
	})

	got, err := c.CustomerAccessTokenCreateWithMultipass(context.Background(), "bad")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CustomerAccessToken != nil {
		t.Fatalf("expected no token")
	}
	if len(got.CustomerUserErrors) != 1 || got.CustomerUserErrors[0].Message != "Invalid multipass request" {
		t.Fatalf("unexpected errors: %+v", got.CustomerUserErrors)
	}
}

func TestGraphQLErrorsAndStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"Variable $multipassToken of type String! was provided invalid value"}]}`))
	})
	if _, err := c.CustomerAccessTokenCreateWithMultipass(context.Background(), ""); err == nil ||
		!strings.Contains(err.Error(), "was provided invalid value") {
		t.Fatalf("expected graphql error, got %v", err)
	}

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	if _, err := c.Customer(context.Background(), "cat"); err == nil || !strings.Contains(err.Error(), "status=401") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestClientRequiresCredentials(t *testing.T) {
	if _, err := (Client{}).Customer(context.Background(), "cat"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCartBuyerIdentityUpdate_DecodesTotal(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		identity, _ := req.Variables["buyerIdentity"].(map[string]any)
		if identity["customerAccessToken"] != "cat-1" {
			t.Errorf("unexpected buyer identity %v", req.Variables["buyerIdentity"])
		}
		_, _ = w.Write([]byte(`{"data":{"cartBuyerIdentityUpdate":{
			"cart":{"id":"gid://shopify/Cart/c1","checkoutUrl":"https://checkout.example.com/cart/c/c1",
			"cost":{"totalAmount":{"amount":"42.50","currencyCode":"EUR"}}},
			"userErrors":[]}}}`))
	})

	cart, err := c.CartBuyerIdentityUpdate(context.Background(), "gid://shopify/Cart/c1", BuyerIdentity{CustomerAccessToken: "cat-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.Cost.TotalAmount.Amount.String() != "42.5" || cart.Cost.TotalAmount.CurrencyCode != "EUR" {
		t.Fatalf("unexpected total %+v", cart.Cost.TotalAmount)
	}
}

func TestCartCreate_UserError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"cartCreate":{"cart":null,"userErrors":[{"code":"INVALID","field":["input"],"message":"Buyer identity is invalid"}]}}}`))
	})

	_, err := c.CartCreate(context.Background(), BuyerIdentity{CustomerAccessToken: "cat-1"})
	if err == nil || err.Error() != "cartCreate user error: Buyer identity is invalid" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClientWithoutHTTPClientUsesDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"customer":{"id":"gid://shopify/Customer/1","email":"ada@example.com"}}}`))
	}))
	defer srv.Close()

	c := Client{BaseURL: srv.URL, AccessToken: "storefront-token"}
	got, err := c.Customer(context.Background(), "cat-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Email != "ada@example.com" {
		t.Fatalf("unexpected customer: %+v", got)
	}
	if c.HTTPClient != nil {
		t.Fatalf("expected caller's client to stay unset")
	}
}
