package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		name       string
		legacy     bool
		method     string
		origin     string
		wantStatus int
		wantOrigin string
		wantHeader string
	}{
		{
			name:       "allowed preflight echoes origin",
			method:     http.MethodOptions,
			origin:     "https://allowed.example.com",
			wantStatus: http.StatusNoContent,
			wantOrigin: "https://allowed.example.com",
			wantHeader: "Origin, X-Requested-With, Content-Type, Accept",
		},
		{
			name:       "unlisted origin gets no header",
			method:     http.MethodOptions,
			origin:     "https://evil.example.com",
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "legacy mode answers undefined",
			legacy:     true,
			method:     http.MethodOptions,
			origin:     "https://evil.example.com",
			wantStatus: http.StatusNoContent,
			wantOrigin: "undefined",
			wantHeader: "Origin, X-Requested-With, Content-Type, Accept",
		},
		{
			name:       "non preflight passes through",
			method:     http.MethodPost,
			origin:     "https://allowed.example.com",
			wantStatus: http.StatusTeapot,
			wantOrigin: "https://allowed.example.com",
			wantHeader: "Origin, X-Requested-With, Content-Type, Accept",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := CORSMiddleware(CORSOptions{
				AllowedOrigins:        []string{"https://allowed.example.com"},
				LegacyUndefinedOrigin: tt.legacy,
			})(next)

			r := httptest.NewRequest(tt.method, "/account/login/multipass", nil)
			r.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantHeader, w.Header().Get("Access-Control-Allow-Headers"))
		})
	}
}
