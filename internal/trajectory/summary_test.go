package trajectory

import (
	"math"
	"testing"
)

func TestBlockMetrics_SumsAggregatorEntries(t *testing.T) {
	log := testLog(t, `[
		{"source":"user"},
		{"source":"Reply_Agent","total_time":"2.5","total_cost":"0.01","total_tokens":"100"},
		{"source":"Planner","total_time":50,"total_cost":5,"total_tokens":9999},
		{"source":"Reply_Agent","total_time":1.5,"total_cost":0.02,"total_tokens":50},
		{"source":"Reply_Agent","total_time":"slow","total_cost":"$1","total_tokens":"lots"}
	]`)

	latency, cost, tokens := BlockMetrics(log, DefaultAggregatorSource)
	if latency != 4 {
		t.Errorf("latency: got %v, want 4", latency)
	}
	if math.Abs(cost-0.03) > 1e-12 {
		t.Errorf("cost: got %v, want 0.03", cost)
	}
	if tokens != 150 {
		t.Errorf("tokens: got %d, want 150", tokens)
	}
}

func TestSummarize(t *testing.T) {
	log := testLog(t, `[
		{"source":"user"},
		{"source":"AgentA"},
		{"source":"Reply_Agent","total_time":10,"total_cost":0.5,"total_tokens":700},
		{"source":"user"},
		{"source":"AgentB"}
	]`)

	trajectories, _ := Extract(log)
	summaries := Summarize(trajectories, DefaultAggregatorSource)
	if len(summaries) != 2 {
		t.Fatalf("summaries: got %d, want 2", len(summaries))
	}
	if summaries[0].Trajectory != 1 || summaries[0].Tokens != 700 || summaries[0].Cost != 0.5 || summaries[0].Latency != 10 {
		t.Errorf("summary 1: got %+v", summaries[0])
	}
	if summaries[1].Trajectory != 2 || summaries[1].Tokens != 0 || summaries[1].Cost != 0 || summaries[1].Latency != 0 {
		t.Errorf("summary 2: got %+v, want zero totals", summaries[1])
	}
}
