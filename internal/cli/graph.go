package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shivanikabu/agentic-governance-suite/internal/graph"
	"github.com/shivanikabu/agentic-governance-suite/internal/trajectory"
)

var graphCmd = &cobra.Command{
	Use:   "graph <log.json>",
	Short: "Print the trajectories of an interaction log as Graphviz DOT",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := readLog(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
		trajectories, stats := trajectory.Extract(entries)
		logger.Info("trajectories extracted", "user_messages", stats.UserMessages, "kept", stats.Kept)
		_, err = fmt.Fprint(cmd.OutOrStdout(), graph.Render(trajectories))
		return err
	},
}
