package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shivanikabu/agentic-governance-suite/internal/report"
	"github.com/shivanikabu/agentic-governance-suite/internal/scoring"
)

var (
	analyzeFormat        string
	analyzeTitle         string
	analyzeHistoryPath   string
	analyzeGoalWeight    float64
	analyzeCostWeight    float64
	analyzeLatencyWeight float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <log.json>",
	Short: "Score every trajectory of an interaction log",
	Long: `Analyze extracts the trajectories of an interaction log, scores and ranks
them, and prints a Markdown or JSON report. Use "-" to read the log from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "markdown", "report format: markdown or json")
	analyzeCmd.Flags().StringVar(&analyzeTitle, "title", "", "report title (markdown only)")
	analyzeCmd.Flags().StringVar(&analyzeHistoryPath, "history", "", "SQLite score history database (overrides history_path)")
	analyzeCmd.Flags().Float64Var(&analyzeGoalWeight, "goal-weight", 0, "weight of goal achievement")
	analyzeCmd.Flags().Float64Var(&analyzeCostWeight, "cost-weight", 0, "weight of cost efficiency")
	analyzeCmd.Flags().Float64Var(&analyzeLatencyWeight, "latency-weight", 0, "weight of latency efficiency")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeFormat != "markdown" && analyzeFormat != "json" {
		return fmt.Errorf("unknown format %q: use markdown or json", analyzeFormat)
	}

	weights := cfg.Weights
	if cmd.Flags().Changed("goal-weight") {
		weights.Goal = analyzeGoalWeight
	}
	if cmd.Flags().Changed("cost-weight") {
		weights.Cost = analyzeCostWeight
	}
	if cmd.Flags().Changed("latency-weight") {
		weights.Latency = analyzeLatencyWeight
	}
	if _, err := scoring.CheckWeights(weights); err != nil {
		return err
	}

	entries, err := readLog(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	historyPath := cfg.HistoryPath
	if cmd.Flags().Changed("history") {
		historyPath = analyzeHistoryPath
	}
	analyzer, store, err := newAnalyzer(historyPath)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	result, err := analyzer.Analyze(entries, weights)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if analyzeFormat == "json" {
		data, err := report.GenerateJSONReport(result)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	return report.GenerateMarkdown(out, &report.MarkdownReport{
		Title:    analyzeTitle,
		RunAt:    time.Now(),
		Analysis: result,
	})
}
