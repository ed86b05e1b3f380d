package api

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// undefinedOrigin is the legacy header value for origins outside the allowlist.
const undefinedOrigin = "undefined"

type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAgeSeconds  int

	// LegacyUndefinedOrigin answers unlisted origins with Access-Control-Allow-Origin: undefined
	// instead of leaving the header out.
	LegacyUndefinedOrigin bool
}

func CORSMiddleware(opts CORSOptions) func(http.Handler) http.Handler {
	allowedMethods := opts.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	allowedHeaders := opts.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{"Origin", "X-Requested-With", "Content-Type", "Accept"}
	}
	maxAge := opts.MaxAgeSeconds
	if maxAge <= 0 {
		maxAge = 600
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := origin != "" && slices.Contains(opts.AllowedOrigins, origin)
			switch {
			case allowed:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			case opts.LegacyUndefinedOrigin:
				w.Header().Set("Access-Control-Allow-Origin", undefinedOrigin)
			}
			if allowed || opts.LegacyUndefinedOrigin {
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(allowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(allowedHeaders, ", "))
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(maxAge))
			}

			if r.Method == http.MethodOptions {
				// Preflight
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
