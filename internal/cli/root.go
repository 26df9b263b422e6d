// Package cli implements the trajscope CLI commands.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shivanikabu/agentic-governance-suite/internal/analysis"
	"github.com/shivanikabu/agentic-governance-suite/internal/config"
	"github.com/shivanikabu/agentic-governance-suite/internal/history"
	"github.com/shivanikabu/agentic-governance-suite/internal/trajectory"
	"github.com/shivanikabu/agentic-governance-suite/pkg/types"
)

var (
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "trajscope",
	Short: "Extract and score agent trajectories from multi-agent interaction logs",
	Long: `Trajscope segments a multi-agent interaction log into user-initiated
trajectories, scores each one for goal achievement, cost and latency,
and renders the result as a report or a Graphviz graph.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.LogLevel = logLevel
		}
		level, err := config.ParseLevel(loaded.LogLevel)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// readLog reads and decodes an interaction log from path, or from in when
// path is "-".
func readLog(path string, in io.Reader) ([]types.LogEntry, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read log %s: %w", path, err)
	}
	entries, err := trajectory.DecodeLog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// newAnalyzer builds an analyzer from the loaded config. When historyPath is
// set the returned store must be closed by the caller.
func newAnalyzer(historyPath string) (*analysis.Analyzer, *history.Store, error) {
	opts := []analysis.Option{analysis.WithScoring(cfg.Scoring())}
	if historyPath == "" {
		return analysis.New(logger, opts...), nil, nil
	}
	store, err := history.Open(historyPath)
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, analysis.WithHistory(store, cfg.Dynamic()))
	logger.Debug("score history enabled", "path", historyPath)
	return analysis.New(logger, opts...), store, nil
}
