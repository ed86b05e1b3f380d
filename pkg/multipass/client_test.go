package multipass

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checkoutURL = "https://checkout.example.com/cart/c/c1-dd274dd3e6dca2f6a6ea899e8fe9b90f?key=6900d0a8b227761f88cf2e523ae2e662"

type recordingNavigator struct {
	urls []string
}

func (n *recordingNavigator) Navigate(_ context.Context, url string) {
	n.urls = append(n.urls, url)
}

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != Endpoint {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req RequestBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.ReturnTo != checkoutURL {
			t.Errorf("unexpected return_to %q", req.ReturnTo)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExchange_SuccessWithoutRedirectReturnsDataUnchanged(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"data":{"url":"https://shop.example.com/account/login/multipass/abc","token":"abc"},"error":null}`)
	nav := &recordingNavigator{}
	c := Client{HTTPClient: srv.Client(), BaseURL: srv.URL, Navigator: nav}

	got, err := c.Exchange(t.Context(), Options{ReturnTo: checkoutURL, Redirect: false})
	require.NoError(t, err)
	assert.Equal(t, Data{URL: String("https://shop.example.com/account/login/multipass/abc"), Token: String("abc")}, got)
	assert.Empty(t, nav.urls)
}

func TestExchange_SuccessWithRedirectNavigatesToURL(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"data":{"url":"https://shop.example.com/account/login/multipass/abc","token":"abc"},"error":null}`)
	nav := &recordingNavigator{}
	c := Client{HTTPClient: srv.Client(), BaseURL: srv.URL + "/", Navigator: nav}

	got, err := c.Exchange(t.Context(), Options{ReturnTo: checkoutURL, Redirect: true})
	require.NoError(t, err)
	assert.Equal(t, "abc", *got.Token)
	assert.Equal(t, []string{"https://shop.example.com/account/login/multipass/abc"}, nav.urls)
}

func TestExchange_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{
			name:    "transport status",
			status:  http.StatusInternalServerError,
			body:    `oops`,
			wantErr: "500 /multipass response not ok. Internal Server Error",
		},
		{
			name:    "envelope error",
			status:  http.StatusOK,
			body:    `{"data":{"url":null},"error":"Not authorized."}`,
			wantErr: "Not authorized.",
		},
		{
			name:    "missing url",
			status:  http.StatusOK,
			body:    `{"data":{"token":"abc"},"error":null}`,
			wantErr: "Missing multipass url",
		},
		{
			name:    "null data",
			status:  http.StatusOK,
			body:    `{"data":null,"error":null}`,
			wantErr: "Missing multipass url",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.status, tt.body)

			nav := &recordingNavigator{}
			c := Client{HTTPClient: srv.Client(), BaseURL: srv.URL, Navigator: nav}
			got, err := c.Exchange(t.Context(), Options{ReturnTo: checkoutURL, Redirect: true})
			require.EqualError(t, err, tt.wantErr)
			assert.Equal(t, Data{}, got)
			assert.Equal(t, []string{checkoutURL}, nav.urls, "fails open to return_to")

			nav = &recordingNavigator{}
			c.Navigator = nav
			_, err = c.Exchange(t.Context(), Options{ReturnTo: checkoutURL, Redirect: false})
			require.EqualError(t, err, tt.wantErr)
			assert.Empty(t, nav.urls)
		})
	}
}

func TestExchange_UnreachableServerFailsOpen(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	nav := &recordingNavigator{}
	c := Client{BaseURL: srv.URL, Navigator: nav}
	_, err := c.Exchange(t.Context(), Options{ReturnTo: checkoutURL, Redirect: true})
	require.Error(t, err)
	assert.Equal(t, []string{checkoutURL}, nav.urls)
}

func TestExchange_NoReturnToDoesNotNavigate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	nav := &recordingNavigator{}
	c := Client{HTTPClient: srv.Client(), BaseURL: srv.URL, Navigator: nav}
	_, err := c.Exchange(t.Context(), Options{Redirect: true})
	require.EqualError(t, err, "502 /multipass response not ok. Bad Gateway")
	assert.Empty(t, nav.urls)
}
