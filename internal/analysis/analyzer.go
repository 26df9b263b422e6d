// Package analysis runs the full trajectory pipeline over an interaction log:
// extraction, metric summaries, scoring, rating, ranking and graph rendering.
package analysis

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/shivanikabu/agentic-governance-suite/internal/graph"
	"github.com/shivanikabu/agentic-governance-suite/internal/history"
	"github.com/shivanikabu/agentic-governance-suite/internal/scoring"
	"github.com/shivanikabu/agentic-governance-suite/internal/trajectory"
	"github.com/shivanikabu/agentic-governance-suite/pkg/types"
)

// Analyzer runs analyses. It is safe for concurrent use as long as the
// history store, when set, is.
type Analyzer struct {
	scorer   *scoring.Scorer
	history  *history.Store
	dynamic  scoring.DynamicConfig
	logger   *slog.Logger
	newRunID func() string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithScoring sets the scorer configuration.
func WithScoring(cfg scoring.Config) Option {
	return func(a *Analyzer) {
		a.scorer = scoring.NewScorer(cfg)
	}
}

// WithHistory enables history-based rating and records every analysed
// trajectory's score in store.
func WithHistory(store *history.Store, cfg scoring.DynamicConfig) Option {
	return func(a *Analyzer) {
		a.history = store
		a.dynamic = cfg
	}
}

// New creates an Analyzer. A nil logger discards log output.
func New(logger *slog.Logger, opts ...Option) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &Analyzer{
		scorer:   scoring.NewScorer(scoring.DefaultConfig),
		dynamic:  scoring.DefaultDynamicConfig,
		logger:   logger,
		newRunID: uuid.NewString,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Extract segments entries into trajectories and logs what it found.
func (a *Analyzer) Extract(entries []types.LogEntry) ([]types.Trajectory, types.ExtractStats) {
	trajectories, stats := trajectory.Extract(entries)
	a.logger.Info("trajectories extracted",
		"entries", len(entries),
		"user_messages", stats.UserMessages,
		"closed", stats.Closed,
		"kept", stats.Kept,
	)
	return trajectories, stats
}

// Score scores and rates trajectories and returns them ranked best first,
// together with weight warnings. It fails only for invalid weights.
func (a *Analyzer) Score(trajectories []types.Trajectory, w types.Weights) ([]types.TrajectoryScore, []string, error) {
	warnings, err := scoring.CheckWeights(w)
	if err != nil {
		return nil, nil, err
	}
	for _, msg := range warnings {
		a.logger.Warn("scoring weights", "warning", msg)
	}

	scores := a.scorer.Score(trajectory.Blocks(trajectories), w)
	for i := range scores {
		scores[i].Rating = a.rate(trajectories[i].Path, scores[i].ConvergenceScore)
	}
	return scoring.Rank(scores), warnings, nil
}

// rate rates a score against the path's recorded history when a store is
// configured, falling back to static thresholds otherwise.
func (a *Analyzer) rate(path []string, score float64) string {
	if a.history == nil {
		return scoring.Rate(score)
	}
	window, err := a.history.QueryWindow(trajectory.FormatPath(path), a.dynamic.WindowSize)
	if err != nil {
		a.logger.Warn("failed to query score history", "path", trajectory.FormatPath(path), "err", err)
		return scoring.Rate(score)
	}
	return scoring.RateDynamic(score, window, a.dynamic)
}

// Analyze runs the full pipeline over entries with weights w.
func (a *Analyzer) Analyze(entries []types.LogEntry, w types.Weights) (*types.Analysis, error) {
	trajectories, stats := a.Extract(entries)

	scores, warnings, err := a.Score(trajectories, w)
	if err != nil {
		return nil, err
	}
	if len(trajectories) == 0 {
		warnings = append(warnings, "no valid trajectories found starting from a 'User' entry")
	}

	result := &types.Analysis{
		RunID:        a.newRunID(),
		Weights:      w,
		Stats:        stats,
		Trajectories: trajectories,
		Summaries:    trajectory.Summarize(trajectories, a.scorer.Config().AggregatorSource),
		Scores:       scores,
		Graph:        graph.Render(trajectories),
		Warnings:     warnings,
	}
	if best, ok := scoring.Best(scores); ok {
		result.Best = &best
		a.logger.Info("best trajectory",
			"trajectory", best.Trajectory,
			"convergence_score", best.ConvergenceScore,
			"path", trajectory.FormatPath(trajectories[best.Trajectory-1].Path),
		)
	}

	a.record(result)
	return result, nil
}

// record stores the run's scores. Failures are logged, not returned: the
// analysis itself is complete without them.
func (a *Analyzer) record(result *types.Analysis) {
	if a.history == nil {
		return
	}
	for _, s := range result.Scores {
		key := trajectory.FormatPath(result.Trajectories[s.Trajectory-1].Path)
		if err := a.history.Record(result.RunID, key, s); err != nil {
			a.logger.Warn("failed to record trajectory score", "run_id", result.RunID, "path", key, "err", err)
		}
	}
}
