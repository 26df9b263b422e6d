package trajectory

import "github.com/shivanikabu/agentic-governance-suite/pkg/types"

// DefaultAggregatorSource is the role whose entries carry per-trajectory totals.
const DefaultAggregatorSource = "Reply_Agent"

// BlockMetrics sums total_time, total_cost and total_tokens over the entries
// of block whose source is aggregator. Fields that are missing or not numeric
// contribute nothing.
func BlockMetrics(block types.Block, aggregator string) (latency, cost float64, tokens int) {
	for _, e := range block {
		if e.Source != aggregator {
			continue
		}
		latency += ParseNumericOrZero(e.TotalTime)
		cost += ParseNumericOrZero(e.TotalCost)
		tokens += ParseIntOrZero(e.TotalTokens)
	}
	return latency, cost, tokens
}

// Summarize returns the metric totals of each trajectory, in trajectory order.
func Summarize(ts []types.Trajectory, aggregator string) []types.MetricSummary {
	summaries := make([]types.MetricSummary, 0, len(ts))
	for _, t := range ts {
		latency, cost, tokens := BlockMetrics(t.Block, aggregator)
		summaries = append(summaries, types.MetricSummary{
			Trajectory: t.Index,
			Tokens:     tokens,
			Cost:       cost,
			Latency:    latency,
		})
	}
	return summaries
}
