package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	LogLevel       string
	MigrationsPath string

	// Supabase/hosted Postgres convenience:
	// - DATABASE_URL: runtime connection (often PgBouncer/pooler)
	// - DIRECT_URL: direct connection for migrations
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	Shopify ShopifyConfig

	Multipass MultipassConfig

	Session SessionConfig

	Valkey ValkeyConfig
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type ShopifyConfig struct {
	// StoreDomain is the {shop}.myshopify.com (or custom) domain serving the Storefront API.
	StoreDomain string

	// StorefrontAccessToken is the public Storefront API token.
	StorefrontAccessToken string

	APIVersion string

	// CheckoutDomain hosts checkout and its /account/logout endpoint.
	// For example `checkout.hydrogen.shop`, `shop.example.com` or `{shop}.myshopify.com`.
	CheckoutDomain string
}

type MultipassConfig struct {
	// AllowedOrigins is the CORS allowlist for the multipass endpoints.
	AllowedOrigins []string

	// LegacyUndefinedOrigin answers unlisted origins with the literal "undefined"
	// instead of omitting Access-Control-Allow-Origin.
	LegacyUndefinedOrigin bool
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
	// Store is one of memory, valkey, postgres.
	Store  string
	Cookie CookieConfig
}

type ValkeyConfig struct {
	Addr     string
	User     string
	Password string
	Prefix   string
}

const (
	SessionStoreMemory   = "memory"
	SessionStoreValkey   = "valkey"
	SessionStorePostgres = "postgres"
)

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	// Cloud Run / Oxygen style hosts set PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	appEnv := env("APP_ENV", "dev")
	storeDomain := os.Getenv("SHOPIFY_STORE_DOMAIN")

	return Config{
		AppEnv:         appEnv,
		HTTPAddr:       httpAddr,
		LogLevel:       env("LOG_LEVEL", "info"),
		MigrationsPath: env("MIGRATIONS_PATH", "file://migrations"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "storefront"),
			User:     env("DB_USER", "storefront"),
			Password: env("DB_PASSWORD", "storefront"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Shopify: ShopifyConfig{
			StoreDomain:           storeDomain,
			StorefrontAccessToken: os.Getenv("SHOPIFY_STOREFRONT_ACCESS_TOKEN"),
			APIVersion:            env("SHOPIFY_STOREFRONT_API_VERSION", "2025-10"),
			CheckoutDomain:        env("SHOPIFY_CHECKOUT_DOMAIN", storeDomain),
		},
		Multipass: MultipassConfig{
			AllowedOrigins:        envList("MULTIPASS_ALLOWED_ORIGINS", ""),
			LegacyUndefinedOrigin: envBool("MULTIPASS_CORS_LEGACY_UNDEFINED", false),
		},
		Session: SessionConfig{
			Secret: os.Getenv("SESSION_SECRET"),
			TTL:    envDuration("SESSION_TTL", 30*24*time.Hour),
			Store:  env("SESSION_STORE", SessionStoreMemory),
			Cookie: CookieConfig{
				Name:     env("SESSION_COOKIE_NAME", "session"),
				Path:     "/",
				Domain:   os.Getenv("SESSION_COOKIE_DOMAIN"),
				Secure:   appEnv == "prod",
				HTTPOnly: true,
				SameSite: CookieSameSiteLax,
			},
		},
		Valkey: ValkeyConfig{
			Addr:     env("VALKEY_ADDR", "localhost:6379"),
			User:     os.Getenv("VALKEY_USER"),
			Password: os.Getenv("VALKEY_PASSWORD"),
			Prefix:   env("VALKEY_PREFIX", "storefront"),
		},
	}
}

// Validate reports settings the server cannot run without.
func (c Config) Validate() error {
	var errs []error
	if c.Shopify.StoreDomain == "" {
		errs = append(errs, errors.New("SHOPIFY_STORE_DOMAIN is required"))
	}
	if c.Shopify.StorefrontAccessToken == "" {
		errs = append(errs, errors.New("SHOPIFY_STOREFRONT_ACCESS_TOKEN is required"))
	}
	if c.AppEnv == "prod" && c.Session.Secret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required in prod"))
	}
	switch c.Session.Store {
	case SessionStoreMemory, SessionStoreValkey, SessionStorePostgres:
	default:
		errs = append(errs, errors.New("SESSION_STORE must be one of memory, valkey, postgres"))
	}
	return errors.Join(errs...)
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
