package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shivanikabu/agentic-governance-suite/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON-RPC engine over stdin and stdout",
	Long: `Serve reads newline-delimited JSON-RPC 2.0 requests from stdin and writes
one response per line to stdout until shutdown is called or stdin closes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		analyzer, store, err := newAnalyzer(cfg.HistoryPath)
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
		}

		s := server.NewWithConcurrency(cmd.InOrStdin(), cmd.OutOrStdout(), logger, cfg.MaxConcurrent)
		s.SetRateLimit(cfg.RequestsPerSecond, cfg.MaxConcurrent)
		server.RegisterBuiltinHandlers(s, analyzer, cfg.AggregatorSource, cfg.Weights)

		logger.Info("engine started", "max_concurrent", cfg.MaxConcurrent, "requests_per_second", cfg.RequestsPerSecond)
		err = s.Run(ctx)
		if errors.Is(err, context.Canceled) {
			logger.Info("engine stopped by signal")
			return nil
		}
		if err != nil {
			logger.Error("engine stopped", "err", err)
			return err
		}
		logger.Info("engine stopped")
		return nil
	},
}
