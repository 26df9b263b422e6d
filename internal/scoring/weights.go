package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/shivanikabu/agentic-governance-suite/pkg/types"
)

// ErrInvalidWeights is returned for negative or non-finite weights.
var ErrInvalidWeights = errors.New("invalid scoring weights")

// CheckWeights validates w and returns advisory warnings for a degenerate
// (all zero) or unnormalized (sum above 1) weighting.
func CheckWeights(w types.Weights) ([]string, error) {
	for _, f := range []struct {
		name  string
		value float64
	}{{"goal", w.Goal}, {"cost", w.Cost}, {"latency", w.Latency}} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return nil, fmt.Errorf("%w: %s weight must be a non-negative number, got %v", ErrInvalidWeights, f.name, f.value)
		}
	}

	var warnings []string
	switch sum := w.Sum(); {
	case sum == 0:
		warnings = append(warnings, "at least one weight must be greater than 0 for meaningful scoring; every convergence score is 0")
	case sum > 1:
		warnings = append(warnings, fmt.Sprintf("weights sum to %.1f; consider normalizing to 1.0 for easier interpretation", sum))
	}
	return warnings, nil
}
