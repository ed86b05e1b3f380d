package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	slogctx "github.com/veqryn/slog-context"

	"storefront/internal/api"
	"storefront/pkg/multipass"
	"storefront/pkg/shopify"
)

// Matches checkout urls such as
// https://checkout.example.com/cart/c/c1-dd274dd3e6dca2f6a6ea899e8fe9b90f?key=6900d0a8b227761f88cf2e523ae2e662
var checkoutURLPattern = regexp.MustCompile(`[\w-]{32}\?key`)

// Multipass answers POST /account/login/multipass with a multipass url for the logged
// in customer. Errors are reported in the envelope with a 200 so the client can fail open.
func (h Handlers) Multipass(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	default:
		w.Header().Set("Allow", "POST, OPTIONS")
		api.WriteJSON(w, http.StatusMethodNotAllowed, multipass.Envelope{
			Error: multipass.String("Method not allowed."),
		})
		return
	}

	ctx := r.Context()

	var body multipass.RequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		slogctx.Info(ctx, "Invalid multipass request body", "error", err)
		api.WriteJSON(w, http.StatusBadRequest, errorEnvelope(nil))
		return
	}
	returnTo := strings.TrimSpace(body.ReturnTo)

	s := api.SessionFromContext(ctx)
	if s == nil {
		api.WriteJSON(w, http.StatusOK, errorEnvelope(ErrMissingSession))
		return
	}

	var cat shopify.CustomerAccessToken
	if _, err := s.Get(SessionKeyCustomerAccessToken, &cat); err != nil {
		slogctx.Warn(ctx, "Unreadable customer access token in session", "error", err)
	}
	if cat.AccessToken == "" {
		api.WriteJSON(w, http.StatusOK, LoggedOutResponse(returnTo, h.CheckoutDomain))
		return
	}

	customer, err := h.Storefront.Customer(ctx, cat.AccessToken)
	if err != nil {
		slogctx.Error(ctx, "Could not load customer", "error", err)
		api.WriteJSON(w, http.StatusOK, errorEnvelope(ErrFailedGenerating))
		return
	}
	if customer == nil {
		// Expired or revoked token; treat like a logged out customer.
		api.WriteJSON(w, http.StatusOK, LoggedOutResponse(returnTo, h.CheckoutDomain))
		return
	}

	env, err := h.issue(ctx, multipass.Customer{Email: customer.Email, ReturnTo: returnTo})
	if err != nil {
		slogctx.Warn(ctx, "Could not generate multipass url", "error", err)
		api.WriteJSON(w, http.StatusOK, errorEnvelope(err))
		return
	}
	api.WriteJSON(w, http.StatusOK, env)
}

func (h Handlers) issue(ctx context.Context, customer multipass.Customer) (multipass.Envelope, error) {
	if customer.Email == "" {
		return multipass.Envelope{}, ErrMissingEmail
	}
	if customer.ReturnTo == "" {
		return multipass.Envelope{}, ErrMissingReturnTo
	}
	if h.Issuer == nil {
		return multipass.Envelope{}, ErrFailedGenerating
	}

	u, token, err := h.Issuer.Issue(ctx, customer)
	if errors.Is(err, ErrInvalidSecret) {
		return multipass.Envelope{}, err
	}
	if err != nil {
		return multipass.Envelope{}, fmt.Errorf("%w: %v", ErrFailedGenerating, err)
	}
	if u == "" {
		return multipass.Envelope{}, ErrFailedGenerating
	}
	return multipass.Envelope{Data: &multipass.Data{URL: &u, Token: &token}}, nil
}

// LoggedOutResponse forces a checkout session to drop a customer who logged out of the
// storefront. Only checkout urls are sent through the checkout logout page.
func LoggedOutResponse(returnTo, checkoutDomain string) multipass.Envelope {
	if returnTo == "" || !checkoutURLPattern.MatchString(returnTo) {
		return errorEnvelope(ErrNotAuthorized)
	}

	logoutURL := fmt.Sprintf("https://%s/account/logout?return_url=%s&step=contact_information",
		checkoutDomain, encodeURIComponent(returnTo))
	return multipass.Envelope{Data: &multipass.Data{URL: &logoutURL}}
}

func errorEnvelope(err error) multipass.Envelope {
	return multipass.Envelope{
		Data:  &multipass.Data{},
		Error: multipass.String(ErrorMessage(err)),
	}
}

var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent escapes everything but A-Z a-z 0-9 - _ . ! ~ * ' ( ).
func encodeURIComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
