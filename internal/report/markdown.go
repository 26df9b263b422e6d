package report

import (
	"fmt"
	"io"
	"time"

	"github.com/shivanikabu/agentic-governance-suite/internal/trajectory"
	"github.com/shivanikabu/agentic-governance-suite/pkg/types"
)

// MarkdownReport holds data for a Markdown analysis report.
type MarkdownReport struct {
	Title    string
	RunAt    time.Time
	Analysis *types.Analysis
}

// GenerateMarkdown writes a Markdown-formatted report to w.
func GenerateMarkdown(w io.Writer, r *MarkdownReport) error {
	title := r.Title
	if title == "" {
		title = "Trajectory Convergence Report"
	}
	a := r.Analysis
	if a == nil {
		a = &types.Analysis{}
	}

	if _, err := fmt.Fprintf(w, "## %s\n\n", title); err != nil {
		return err
	}

	if !r.RunAt.IsZero() {
		if _, err := fmt.Fprintf(w, "**Run at:** %s\n\n", r.RunAt.UTC().Format(time.RFC3339)); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "**Weights:** goal %.2f, cost %.2f, latency %.2f\n\n",
		a.Weights.Goal, a.Weights.Cost, a.Weights.Latency); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "**User messages:** %d, **trajectories:** %d\n\n",
		a.Stats.UserMessages, len(a.Trajectories)); err != nil {
		return err
	}

	for _, msg := range a.Warnings {
		if _, err := fmt.Fprintf(w, "> :warning: %s\n\n", msg); err != nil {
			return err
		}
	}

	if len(a.Trajectories) == 0 {
		_, err := fmt.Fprintln(w, "_No trajectories extracted._")
		return err
	}

	if _, err := fmt.Fprint(w, "### Trajectories\n\n"); err != nil {
		return err
	}
	for _, t := range a.Trajectories {
		if _, err := fmt.Fprintf(w, "%d. %s\n", t.Index, trajectory.FormatPath(t.Path)); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprint(w, "\n### Metric Summary\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "| Trajectory | Tokens | Cost | Latency |"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "|------------|--------|------|---------|"); err != nil {
		return err
	}
	for _, m := range a.Summaries {
		if _, err := fmt.Fprintf(w, "| %d | %d | $%.4f | %.2f |\n", m.Trajectory, m.Tokens, m.Cost, m.Latency); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprint(w, "\n### Convergence Scores\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "| Trajectory | Length | Goal % | Cost Eff. % | Latency Eff. % | Score | Rating |"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "|------------|--------|--------|-------------|----------------|-------|--------|"); err != nil {
		return err
	}
	for _, s := range a.Scores {
		if _, err := fmt.Fprintf(w, "| %d | %d | %.1f | %.1f | %.1f | %.1f | %s %s |\n",
			s.Trajectory, s.Length, s.GoalAchievement, s.CostEfficiency, s.LatencyEfficiency,
			s.ConvergenceScore, ratingIcon(s.Rating), s.Rating); err != nil {
			return err
		}
	}

	if a.Best != nil {
		if _, err := fmt.Fprintf(w, "\n**Best trajectory:** %d (%s) with score %.1f\n",
			a.Best.Trajectory, pathOf(a, a.Best.Trajectory), a.Best.ConvergenceScore); err != nil {
			return err
		}
	}

	return nil
}

func ratingIcon(rating string) string {
	switch rating {
	case types.RatingConverged:
		return ":white_check_mark:"
	case types.RatingPartial:
		return ":warning:"
	case types.RatingDiverged:
		return ":x:"
	default:
		return ":grey_question:"
	}
}
