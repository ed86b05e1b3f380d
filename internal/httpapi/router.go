package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"storefront/internal/api"
	"storefront/internal/audit"
	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/session"
	"storefront/pkg/config"
	"storefront/pkg/shopify"
)

type Dependencies struct {
	Cfg        config.Config
	Sessions   *session.Manager
	Storefront shopify.Client
	Audit      audit.Recorder
	Issuer     auth.Issuer
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(api.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	authHandlers := auth.Handlers{
		Storefront:     deps.Storefront,
		Cart:           cart.Handler{Storefront: deps.Storefront},
		Issuer:         deps.Issuer,
		Audit:          deps.Audit,
		CheckoutDomain: deps.Cfg.Shopify.CheckoutDomain,
	}

	r.Route("/account/login", func(r chi.Router) {
		r.Use(api.CORSMiddleware(api.CORSOptions{
			AllowedOrigins:        deps.Cfg.Multipass.AllowedOrigins,
			AllowedMethods:        []string{"GET", "POST", "OPTIONS"},
			LegacyUndefinedOrigin: deps.Cfg.Multipass.LegacyUndefinedOrigin,
		}))
		r.Use(api.SessionMiddleware(deps.Sessions))

		r.Get("/mp", authHandlers.MultipassLogin)
		r.Post("/mp", authHandlers.MultipassLogin)
		r.HandleFunc("/multipass", authHandlers.Multipass)
	})

	return r
}
