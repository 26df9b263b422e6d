package scoring

import (
	"math"

	"github.com/shivanikabu/agentic-governance-suite/pkg/types"
)

// Thresholds defines convergence score boundaries on the 0-100 scale.
type Thresholds struct {
	Converged float64
	Partial   float64
}

// DefaultThresholds are the standard rating thresholds.
var DefaultThresholds = Thresholds{Converged: 80, Partial: 50}

// Rate maps a convergence score to a rating using default thresholds.
// score < 50  → diverged
// score < 80  → partial
// score >= 80 → converged
func Rate(score float64) string {
	return RateWithThresholds(score, DefaultThresholds)
}

// RateWithThresholds maps a convergence score to a rating using t.
func RateWithThresholds(score float64, t Thresholds) string {
	switch {
	case score >= t.Converged:
		return types.RatingConverged
	case score >= t.Partial:
		return types.RatingPartial
	default:
		return types.RatingDiverged
	}
}

// DynamicConfig holds parameters for history-based rating.
type DynamicConfig struct {
	WindowSize int
	SigmaScale float64
	MinRuns    int
}

// DefaultDynamicConfig provides sensible defaults for dynamic rating.
var DefaultDynamicConfig = DynamicConfig{WindowSize: 50, SigmaScale: 2.0, MinRuns: 10}

// RateDynamic rates a score against earlier scores of the same path.
// When len(history) < cfg.MinRuns, falls back to Rate.
// Otherwise: converged if score >= mean - sigmaScale*stddev, diverged otherwise.
func RateDynamic(score float64, history []float64, cfg DynamicConfig) string {
	if len(history) < cfg.MinRuns {
		return Rate(score)
	}
	mean, stddev := computeStats(history)
	if score >= mean-cfg.SigmaScale*stddev {
		return types.RatingConverged
	}
	return types.RatingDiverged
}

// computeStats returns the mean and population standard deviation of data.
func computeStats(data []float64) (mean, stddev float64) {
	if len(data) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	mean = sum / float64(len(data))

	sumSqDiff := 0.0
	for _, v := range data {
		diff := v - mean
		sumSqDiff += diff * diff
	}
	stddev = math.Sqrt(sumSqDiff / float64(len(data)))
	return mean, stddev
}
