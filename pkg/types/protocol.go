package types

import "encoding/json"

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC error object.
type RPCError struct {
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Data    *ErrorData `json:"data,omitempty"`
}

// ErrorData holds structured error detail.
type ErrorData struct {
	ErrorType string `json:"error_type"`
	Retryable bool   `json:"retryable"`
	Detail    string `json:"detail"`
}

// InitializeParams holds parameters for the initialize method.
type InitializeParams struct {
	ClientName      string `json:"client_name"`
	ClientVersion   string `json:"client_version"`
	ProtocolVersion int    `json:"protocol_version"`
}

// InitializeResult holds the result of the initialize method.
type InitializeResult struct {
	EngineVersion    string   `json:"engine_version"`
	ProtocolVersion  int      `json:"protocol_version"`
	Capabilities     []string `json:"capabilities"`
	AggregatorSource string   `json:"aggregator_source"`
	DefaultWeights   Weights  `json:"default_weights"`
}

// LogParams carries an interaction log, the JSON array exactly as recorded.
type LogParams struct {
	Log json.RawMessage `json:"log"`
}

// ScoreParams holds parameters for score_trajectories and analyze_log.
// Nil weights select the engine's configured defaults.
type ScoreParams struct {
	Log     json.RawMessage `json:"log"`
	Weights *Weights        `json:"weights,omitempty"`
}

// ExtractResult holds the result of the extract_trajectories method.
type ExtractResult struct {
	Trajectories []Trajectory `json:"trajectories"`
	Stats        ExtractStats `json:"stats"`
}

// ScoreResult holds the result of the score_trajectories method.
// Scores are ranked by convergence score, best first.
type ScoreResult struct {
	Scores   []TrajectoryScore `json:"scores"`
	Best     *TrajectoryScore  `json:"best,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
}

// RenderGraphResult holds the Graphviz DOT source of all trajectories.
type RenderGraphResult struct {
	DOT string `json:"dot"`
}

// ShutdownResult holds the result of the shutdown method.
type ShutdownResult struct {
	LogsAnalyzed   int `json:"logs_analyzed"`
	RequestsServed int `json:"requests_served"`
}
