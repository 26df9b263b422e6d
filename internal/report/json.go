// Package report renders analysis results for people and machines.
package report

import (
	"fmt"
	"time"

	"github.com/segmentio/encoding/json"

	"github.com/shivanikabu/agentic-governance-suite/internal/trajectory"
	"github.com/shivanikabu/agentic-governance-suite/pkg/types"
)

type JSONReport struct {
	Version   string                  `json:"version"`
	Timestamp string                  `json:"timestamp"`
	RunID     string                  `json:"run_id"`
	Weights   types.Weights           `json:"weights"`
	Paths     []string                `json:"paths"`
	Summaries []types.MetricSummary   `json:"summaries"`
	Scores    []types.TrajectoryScore `json:"scores"`
	Best      *JSONBest               `json:"best,omitempty"`
	Summary   JSONSummary             `json:"summary"`
	Warnings  []string                `json:"warnings,omitempty"`
}

type JSONBest struct {
	Trajectory       int     `json:"trajectory"`
	Path             string  `json:"path"`
	ConvergenceScore float64 `json:"convergence_score"`
}

type JSONSummary struct {
	UserMessages int     `json:"user_messages"`
	Trajectories int     `json:"trajectories"`
	Converged    int     `json:"converged"`
	Partial      int     `json:"partial"`
	Diverged     int     `json:"diverged"`
	TotalCost    float64 `json:"total_cost"`
	TotalLatency float64 `json:"total_latency"`
	TotalTokens  int     `json:"total_tokens"`
}

// GenerateJSONReport generates a structured JSON report from an analysis.
func GenerateJSONReport(a *types.Analysis) ([]byte, error) {
	report := JSONReport{
		Version:   "1.0",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RunID:     a.RunID,
		Weights:   a.Weights,
		Paths:     make([]string, 0, len(a.Trajectories)),
		Summaries: nonNil(a.Summaries),
		Scores:    nonNil(a.Scores),
		Summary:   summarize(a),
		Warnings:  a.Warnings,
	}
	for _, t := range a.Trajectories {
		report.Paths = append(report.Paths, trajectory.FormatPath(t.Path))
	}
	if a.Best != nil {
		report.Best = &JSONBest{
			Trajectory:       a.Best.Trajectory,
			Path:             pathOf(a, a.Best.Trajectory),
			ConvergenceScore: a.Best.ConvergenceScore,
		}
	}

	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return output, nil
}

func summarize(a *types.Analysis) JSONSummary {
	s := JSONSummary{
		UserMessages: a.Stats.UserMessages,
		Trajectories: len(a.Trajectories),
	}
	for _, sc := range a.Scores {
		switch sc.Rating {
		case types.RatingConverged:
			s.Converged++
		case types.RatingPartial:
			s.Partial++
		case types.RatingDiverged:
			s.Diverged++
		}
	}
	for _, m := range a.Summaries {
		s.TotalCost += m.Cost
		s.TotalLatency += m.Latency
		s.TotalTokens += m.Tokens
	}
	return s
}

// pathOf returns the formatted path of the trajectory with the given 1-based index.
func pathOf(a *types.Analysis, index int) string {
	if index < 1 || index > len(a.Trajectories) {
		return ""
	}
	return trajectory.FormatPath(a.Trajectories[index-1].Path)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
