package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	slogctx "github.com/veqryn/slog-context"

	"storefront/cmd/storefront/checkout"
	"storefront/cmd/storefront/migrate"
	"storefront/cmd/storefront/serve"
)

// Version is set by the build system.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the storefront version",
	Run: func(cmd *cobra.Command, _ []string) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), Version)
	},
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "storefront",
		Short:        "Storefront multipass login service",
		SilenceUsage: true,
	}

	cmd.AddCommand(
		versionCmd,
		serve.Cmd(),
		migrate.Cmd(),
		checkout.Cmd(),
	)

	return cmd
}

func execute() error {
	ctx, cancelOnSignal := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancelOnSignal()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		slogctx.Error(ctx, "storefront failed", "error", err)
		_, _ = fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
