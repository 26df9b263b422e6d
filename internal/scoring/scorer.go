// Package scoring computes weighted convergence scores for trajectories and
// ranks them.
package scoring

import (
	"cmp"
	"math"
	"slices"

	"github.com/shivanikabu/agentic-governance-suite/internal/trajectory"
	"github.com/shivanikabu/agentic-governance-suite/pkg/types"
)

// Config holds the normalization parameters of a Scorer.
type Config struct {
	// AggregatorSource names the role whose entries carry time and cost totals.
	AggregatorSource string
	// GoalLength is the block length at which goal achievement saturates.
	GoalLength float64
	// MaxLatencyFloor and MaxCostFloor are the normalization baselines used
	// unless an observed maximum exceeds them.
	MaxLatencyFloor float64
	MaxCostFloor    float64
}

// DefaultConfig holds the documented scoring defaults.
var DefaultConfig = Config{
	AggregatorSource: trajectory.DefaultAggregatorSource,
	GoalLength:       5,
	MaxLatencyFloor:  1000,
	MaxCostFloor:     0.625,
}

// Scorer scores trajectory blocks. It holds no state between calls.
type Scorer struct {
	cfg Config
}

// NewScorer creates a Scorer. An empty aggregator source or a non-positive
// goal length falls back to DefaultConfig.
func NewScorer(cfg Config) *Scorer {
	if cfg.AggregatorSource == "" {
		cfg.AggregatorSource = DefaultConfig.AggregatorSource
	}
	if cfg.GoalLength <= 0 {
		cfg.GoalLength = DefaultConfig.GoalLength
	}
	return &Scorer{cfg: cfg}
}

// Config returns the scorer's effective configuration.
func (s *Scorer) Config() Config {
	return s.cfg
}

type blockMetrics struct {
	length  int
	latency float64
	cost    float64
	tokens  int
}

// Score returns one score per block, in block order; scores are numbered
// from 1. Percentages and the convergence score are rounded to one decimal.
// When all weights are zero the convergence score is 0.
func (s *Scorer) Score(blocks []types.Block, w types.Weights) []types.TrajectoryScore {
	metrics := make([]blockMetrics, len(blocks))
	var actualMaxLatency, actualMaxCost float64
	for i, b := range blocks {
		latency, cost, tokens := trajectory.BlockMetrics(b, s.cfg.AggregatorSource)
		metrics[i] = blockMetrics{length: len(b), latency: latency, cost: cost, tokens: tokens}
		actualMaxLatency = max(actualMaxLatency, latency)
		actualMaxCost = max(actualMaxCost, cost)
	}

	maxLatency := s.cfg.MaxLatencyFloor
	if actualMaxLatency > 0 {
		maxLatency = max(maxLatency, actualMaxLatency)
	}
	maxCost := s.cfg.MaxCostFloor
	if actualMaxCost > 0 {
		maxCost = max(maxCost, actualMaxCost)
	}

	totalWeight := w.Sum()
	scores := make([]types.TrajectoryScore, 0, len(metrics))
	for i, m := range metrics {
		normGoal := math.Min(float64(m.length)/s.cfg.GoalLength, 1)
		normCost := efficiency(m.cost, maxCost)
		normLatency := efficiency(m.latency, maxLatency)

		var convergence float64
		if totalWeight > 0 {
			convergence = (normGoal*w.Goal + normCost*w.Cost + normLatency*w.Latency) / totalWeight * 100
		}

		scores = append(scores, types.TrajectoryScore{
			Trajectory:        i + 1,
			Length:            m.length,
			Tokens:            m.tokens,
			Cost:              m.cost,
			Latency:           m.latency,
			GoalAchievement:   round1(normGoal * 100),
			CostEfficiency:    round1(normCost * 100),
			LatencyEfficiency: round1(normLatency * 100),
			ConvergenceScore:  round1(convergence),
		})
	}
	return scores
}

// efficiency maps a value onto 1 - value/limit; lower values score higher.
func efficiency(value, limit float64) float64 {
	if limit <= 0 {
		return 1
	}
	return 1 - value/limit
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Rank returns a copy of scores ordered by convergence score, highest first.
// Equal scores keep their original relative order.
func Rank(scores []types.TrajectoryScore) []types.TrajectoryScore {
	ranked := slices.Clone(scores)
	slices.SortStableFunc(ranked, func(a, b types.TrajectoryScore) int {
		return cmp.Compare(b.ConvergenceScore, a.ConvergenceScore)
	})
	return ranked
}

// Best returns the highest-ranked score, or false when scores is empty.
func Best(scores []types.TrajectoryScore) (types.TrajectoryScore, bool) {
	ranked := Rank(scores)
	if len(ranked) == 0 {
		return types.TrajectoryScore{}, false
	}
	return ranked[0], true
}
