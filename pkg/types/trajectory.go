package types

const (
	RatingConverged = "converged"
	RatingPartial   = "partial"
	RatingDiverged  = "diverged"
)

// Block is the ordered list of log entries that produced one trajectory.
type Block []LogEntry

// Trajectory is one user-initiated round of interaction: the duplicate-free
// sequence of participant names starting with the user marker, paired with
// the entries it was built from.
type Trajectory struct {
	Index int      `json:"index"`
	Path  []string `json:"path"`
	Block Block    `json:"block"`
}

// ExtractStats reports what the extractor saw while folding over a log.
type ExtractStats struct {
	UserMessages int `json:"user_messages"`
	Closed       int `json:"closed"`
	Kept         int `json:"kept"`
}

// MetricSummary holds the raw totals reported by aggregator entries of a trajectory.
type MetricSummary struct {
	Trajectory int     `json:"trajectory"`
	Tokens     int     `json:"total_tokens"`
	Cost       float64 `json:"total_cost"`
	Latency    float64 `json:"total_latency"`
}

// Weights sets the relative importance of each factor in the convergence score.
type Weights struct {
	Goal    float64 `json:"goal" yaml:"goal"`
	Cost    float64 `json:"cost" yaml:"cost"`
	Latency float64 `json:"latency" yaml:"latency"`
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Goal + w.Cost + w.Latency
}

// DefaultWeights favours goal achievement, then cost, then latency.
var DefaultWeights = Weights{Goal: 0.5, Cost: 0.3, Latency: 0.2}

// TrajectoryScore is the derived, read-only score of one trajectory.
// Percentages and the convergence score are on a 0-100 scale rounded to one decimal.
type TrajectoryScore struct {
	Trajectory        int     `json:"trajectory"`
	Length            int     `json:"length"`
	Tokens            int     `json:"total_tokens"`
	Cost              float64 `json:"total_cost"`
	Latency           float64 `json:"total_latency"`
	GoalAchievement   float64 `json:"goal_achievement"`
	CostEfficiency    float64 `json:"cost_efficiency"`
	LatencyEfficiency float64 `json:"latency_efficiency"`
	ConvergenceScore  float64 `json:"convergence_score"`
	Rating            string  `json:"rating,omitempty"`
}

// Analysis is the complete result of analysing one interaction log.
type Analysis struct {
	RunID        string            `json:"run_id"`
	Weights      Weights           `json:"weights"`
	Stats        ExtractStats      `json:"stats"`
	Trajectories []Trajectory      `json:"trajectories"`
	Summaries    []MetricSummary   `json:"summaries"`
	Scores       []TrajectoryScore `json:"scores"`
	Best         *TrajectoryScore  `json:"best,omitempty"`
	Graph        string            `json:"graph"`
	Warnings     []string          `json:"warnings,omitempty"`
}
