package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/shivanikabu/agentic-governance-suite/internal/history"
	"github.com/shivanikabu/agentic-governance-suite/internal/scoring"
)

var historyDBPath string

var historyCmd = &cobra.Command{
	Use:   "history [path-key]",
	Short: "Show recorded convergence scores",
	Long: `History lists every recorded trajectory path, or shows the recent scores
and statistics of one path, e.g. "User → Planner → Reply_Agent".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyDBPath, "history", "", "SQLite score history database (overrides history_path)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := cfg.HistoryPath
	if cmd.Flags().Changed("history") {
		path = historyDBPath
	}
	if path == "" {
		return errors.New("no history database: set history_path or pass --history")
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		paths, err := store.Paths()
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Fprintln(out, "No scores recorded.")
			return nil
		}
		keys := make([]string, 0, len(paths))
		for k := range paths {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "%5d  %s\n", paths[k], k)
		}
		return nil
	}

	key := args[0]
	mean, stddev, count, err := store.Stats(key)
	if err != nil {
		return err
	}
	if count == 0 {
		fmt.Fprintf(out, "No scores recorded for %s.\n", key)
		return nil
	}
	dyn := cfg.Dynamic()
	window, err := store.QueryWindow(key, dyn.WindowSize)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Path:    %s\n", key)
	fmt.Fprintf(out, "Runs:    %d\n", count)
	fmt.Fprintf(out, "Mean:    %.1f\n", mean)
	fmt.Fprintf(out, "Stddev:  %.1f\n", stddev)
	fmt.Fprintf(out, "Latest:  %.1f (%s)\n", window[0], scoring.RateDynamic(window[0], window[1:], dyn))
	fmt.Fprintf(out, "Window:  %v\n", window)
	return nil
}
