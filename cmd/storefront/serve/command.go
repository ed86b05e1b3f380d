package serve

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"github.com/valkey-io/valkey-go"

	slogctx "github.com/veqryn/slog-context"

	"storefront/internal/audit"
	"storefront/internal/httpapi"
	"storefront/internal/session"
	sessionmemory "storefront/internal/session/memory"
	sessionpostgres "storefront/internal/session/postgres"
	sessionvalkey "storefront/internal/session/valkey"
	"storefront/pkg/config"
	"storefront/pkg/db"
	"storefront/pkg/logger"
	"storefront/pkg/shopify"
)

const (
	shutdownTimeout       = 10 * time.Second
	sessionCleanupEvery   = 15 * time.Minute
	memoryCleanupInterval = 10 * time.Minute
)

func run(ctx context.Context, cfg config.Config) error {
	logger.InitAsDefault(cfg.LogLevel, os.Stdout)

	if err := cfg.Validate(); err != nil {
		return oops.In("serve").Wrapf(err, "invalid configuration")
	}

	if cfg.Session.Secret == "" {
		cfg.Session.Secret = randomHex(32)
		slogctx.Warn(ctx, "SESSION_SECRET not set, sessions will not survive a restart")
	}

	var pool *pgxpool.Pool
	if cfg.Session.Store == config.SessionStorePostgres || db.Configured(cfg) {
		p, err := db.Open(ctx, cfg)
		if err != nil {
			return oops.In("serve").Wrapf(err, "opening database")
		}
		defer p.Close()
		pool = p

		if err := db.Migrate(cfg); err != nil {
			return oops.In("serve").Wrapf(err, "applying migrations")
		}
	}

	store, closeStore, err := newStore(ctx, cfg, pool)
	if err != nil {
		return oops.In("serve").Wrapf(err, "creating %s session store", cfg.Session.Store)
	}
	defer closeStore()

	var recorder audit.Recorder = audit.LogRecorder{}
	if pool != nil {
		recorder = audit.NewRepository(pool)
	}

	router := httpapi.NewRouter(httpapi.Dependencies{
		Cfg:      cfg,
		Sessions: session.NewManager(store, cfg.Session.Secret, cfg.Session.Cookie, cfg.Session.TTL),
		Storefront: shopify.Client{
			StoreDomain: cfg.Shopify.StoreDomain,
			AccessToken: cfg.Shopify.StorefrontAccessToken,
			APIVersion:  cfg.Shopify.APIVersion,
		},
		Audit: recorder,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slogctx.Info(ctx, "http listening", "addr", cfg.HTTPAddr, "session_store", cfg.Session.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return oops.In("serve").Wrapf(err, "http serve")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func newStore(ctx context.Context, cfg config.Config, pool *pgxpool.Pool) (session.Store, func(), error) {
	switch cfg.Session.Store {
	case config.SessionStoreValkey:
		client, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{cfg.Valkey.Addr},
			Username:    cfg.Valkey.User,
			Password:    cfg.Valkey.Password,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to valkey %s: %w", cfg.Valkey.Addr, err)
		}
		return sessionvalkey.New(client, cfg.Valkey.Prefix), client.Close, nil

	case config.SessionStorePostgres:
		store := sessionpostgres.New(pool)
		go cleanupExpired(ctx, store)
		return store, func() {}, nil

	default:
		return sessionmemory.New(memoryCleanupInterval), func() {}, nil
	}
}

func cleanupExpired(ctx context.Context, store *sessionpostgres.Store) {
	ticker := time.NewTicker(sessionCleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.DeleteExpired(ctx)
			if err != nil {
				slogctx.Warn(ctx, "Could not delete expired sessions", "error", err)
				continue
			}
			if n > 0 {
				slogctx.Debug(ctx, "Deleted expired sessions", "count", n)
			}
		}
	}
}

func randomHex(nBytes int) string {
	b := make([]byte, nBytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the multipass login endpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), config.Load())
		},
	}
}
