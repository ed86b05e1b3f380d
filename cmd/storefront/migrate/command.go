package migrate

import (
	"context"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	slogctx "github.com/veqryn/slog-context"

	"storefront/pkg/config"
	"storefront/pkg/db"
	"storefront/pkg/logger"
)

func run(ctx context.Context, cfg config.Config) error {
	logger.InitAsDefault(cfg.LogLevel, os.Stdout)

	// DIRECT_URL is used when set.
	if err := db.Migrate(cfg); err != nil {
		return oops.In("migrate").Wrapf(err, "applying migrations")
	}

	// Make sure the runtime connection (DATABASE_URL) opens too.
	pool, err := db.Open(ctx, cfg)
	if err != nil {
		return oops.In("migrate").Wrapf(err, "opening runtime database connection")
	}
	pool.Close()

	slogctx.Info(ctx, "migrations applied", "source", cfg.MigrationsPath)
	return nil
}

func Cmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the sessions and login audit migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if path != "" {
				cfg.MigrationsPath = path
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "migrations source url, overrides MIGRATIONS_PATH")
	return cmd
}
