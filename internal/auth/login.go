package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	slogctx "github.com/veqryn/slog-context"

	"storefront/internal/api"
	"storefront/internal/audit"
)

type loginRequest struct {
	MPToken string `json:"mptoken"`
}

type loginResponse struct {
	ReturnTo string `json:"return_to"`
}

type loginError struct {
	Error string `json:"error"`
}

// MultipassLogin trades a multipass token for a customer access token and stores it in
// the session. GET reads ?mptoken= and redirects to the account page, POST reads
// {"mptoken": ...} and answers {"return_to": "/account"}. Failures answer 400 without a cookie.
func (h Handlers) MultipassLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var token string
	switch r.Method {
	case http.MethodGet:
		token = r.URL.Query().Get("mptoken")
	case http.MethodPost:
		var body loginRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			h.loginFailed(ctx, w, "", fmt.Errorf("%w: %v", errInvalidLoginBody, err))
			return
		}
		token = body.MPToken
	default:
		w.Header().Set("Allow", "GET, POST")
		api.WriteJSON(w, http.StatusMethodNotAllowed, loginError{Error: "Method not allowed."})
		return
	}

	s := api.SessionFromContext(ctx)
	if s == nil {
		h.loginFailed(ctx, w, "", ErrMissingSession)
		return
	}

	cookie, err := h.exchange(ctx, s, token)
	if err != nil {
		h.loginFailed(ctx, w, s.ID(), err)
		return
	}
	h.record(ctx, audit.Event{
		SessionID: s.ID(),
		Action:    audit.ActionMultipassLogin,
		Outcome:   audit.OutcomeSuccess,
	})

	setCookie(w, cookie)
	if r.Method == http.MethodGet {
		http.Redirect(w, r, AccountPath, http.StatusFound)
		return
	}
	api.WriteJSON(w, http.StatusOK, loginResponse{ReturnTo: AccountPath})
}

// exchange runs the multipass mutation, stores the access token, rebinds the cart and
// returns the Set-Cookie header for the updated session.
func (h Handlers) exchange(ctx context.Context, s Session, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", &ExchangeError{Message: "Missing multipass token."}
	}

	payload, err := h.Storefront.CustomerAccessTokenCreateWithMultipass(ctx, token)
	if err != nil {
		return "", fmt.Errorf("exchanging multipass token: %w", err)
	}
	if payload == nil || payload.CustomerAccessToken == nil || payload.CustomerAccessToken.AccessToken == "" {
		e := &ExchangeError{Message: genericExchangeMessage}
		if payload != nil && len(payload.CustomerUserErrors) > 0 {
			ue := payload.CustomerUserErrors[0]
			e.Code = ue.Code
			e.Field = ue.Field
			if ue.Message != "" {
				e.Message = ue.Message
			}
		}
		return "", e
	}

	cat := *payload.CustomerAccessToken
	if err := s.Set(SessionKeyCustomerAccessToken, cat); err != nil {
		return "", err
	}
	if err := s.Renew(ctx); err != nil {
		return "", fmt.Errorf("renewing session: %w", err)
	}

	if h.Cart != nil {
		if err := h.Cart.UpdateBuyerIdentity(ctx, s, cat.AccessToken); err != nil {
			slogctx.Warn(ctx, "Could not update cart buyer identity", "error", err)
			h.record(ctx, audit.Event{
				SessionID: s.ID(),
				Action:    audit.ActionBuyerIdentityUpdate,
				Outcome:   audit.OutcomeFailure,
				Message:   err.Error(),
			})
		}
	}

	cookie, err := s.Commit(ctx)
	if err != nil {
		return "", fmt.Errorf("committing session: %w", err)
	}
	return cookie, nil
}

func (h Handlers) loginFailed(ctx context.Context, w http.ResponseWriter, sessionID string, err error) {
	slogctx.Info(ctx, "Multipass login failed", "error", err)

	e := audit.Event{
		SessionID: sessionID,
		Action:    audit.ActionMultipassLogin,
		Outcome:   audit.OutcomeFailure,
		Message:   err.Error(),
	}
	var xe *ExchangeError
	if errors.As(err, &xe) && xe.Code != "" {
		e.Metadata = map[string]any{"code": xe.Code, "field": xe.Field}
	}
	h.record(ctx, e)

	api.WriteJSON(w, http.StatusBadRequest, loginError{Error: loginErrorMessage(err)})
}

var errInvalidLoginBody = errors.New("invalid request body")

// loginErrorMessage is the text a failed login shows the browser. Transport and
// storage failures stay in the logs.
func loginErrorMessage(err error) string {
	var xe *ExchangeError
	switch {
	case errors.As(err, &xe):
		return xe.Message
	case errors.Is(err, ErrMissingSession):
		return ErrorMessage(ErrMissingSession)
	case errors.Is(err, errInvalidLoginBody):
		return "Invalid request body."
	default:
		return genericExchangeMessage
	}
}
