package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	slogctx "github.com/veqryn/slog-context"

	"storefront/internal/session"
)

// SessionMiddleware resolves the browser session and attaches it to the request context.
// It never writes a cookie; handlers decide whether to commit.
func SessionMiddleware(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := sessions.FromRequest(r.Context(), r)
			if err != nil {
				slogctx.Error(r.Context(), "Could not load session", "error", err)
				WriteError(w, http.StatusInternalServerError, "INTERNAL", "session unavailable")
				return
			}

			ctx := slogctx.With(r.Context(), "session_new", s.IsNew())
			next.ServeHTTP(w, r.WithContext(WithSession(ctx, s)))
		})
	}
}

// RequestLogger logs one line per request and tags the context with the chi request id.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := slogctx.With(r.Context(), "request_id", middleware.GetReqID(r.Context()))

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		slogctx.Info(ctx, "request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("remote", r.RemoteAddr),
		)
	})
}
