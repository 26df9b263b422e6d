package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shivanikabu/agentic-governance-suite/internal/analysis"
	"github.com/shivanikabu/agentic-governance-suite/internal/graph"
	"github.com/shivanikabu/agentic-governance-suite/internal/scoring"
	"github.com/shivanikabu/agentic-governance-suite/internal/trajectory"
	"github.com/shivanikabu/agentic-governance-suite/pkg/types"
)

const (
	engineVersion   = "0.1.0"
	protocolVersion = 1
)

var capabilities = []string{
	"extract_trajectories",
	"score_trajectories",
	"analyze_log",
	"render_graph",
}

// RegisterBuiltinHandlers registers the built-in JSON-RPC handlers on s.
// Requests that omit weights are scored with defaults.
func RegisterBuiltinHandlers(s *Server, a *analysis.Analyzer, aggregator string, defaults types.Weights) {
	s.RegisterHandler("initialize", handleInitialize(aggregator, defaults))
	s.RegisterHandler("shutdown", handleShutdown)
	s.RegisterHandler("extract_trajectories", handleExtractTrajectories(a))
	s.RegisterHandler("score_trajectories", handleScoreTrajectories(a, defaults))
	s.RegisterHandler("analyze_log", handleAnalyzeLog(a, defaults))
	s.RegisterHandler("render_graph", handleRenderGraph(a))
}

func handleInitialize(aggregator string, defaults types.Weights) Handler {
	return func(session *Session, params json.RawMessage) (any, *types.RPCError) {
		if session.State() != StateUninitialized {
			return nil, types.NewRPCError(
				types.ErrSessionError,
				"initialize called on already-initialized session",
				types.ErrTypeSessionError,
				false,
				"initialize may only be called once per session",
			)
		}

		var p types.InitializeParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, types.NewRPCError(
				types.ErrSessionError,
				"invalid initialize params",
				types.ErrTypeSessionError,
				false,
				err.Error(),
			)
		}

		if p.ProtocolVersion != protocolVersion {
			return nil, types.NewRPCError(
				types.ErrSessionError,
				fmt.Sprintf("protocol version %d not supported; engine supports version %d", p.ProtocolVersion, protocolVersion),
				types.ErrTypeSessionError,
				false,
				"Upgrade the engine binary or downgrade the client protocol_version",
			)
		}

		session.SetState(StateInitialized)

		return &types.InitializeResult{
			EngineVersion:    engineVersion,
			ProtocolVersion:  protocolVersion,
			Capabilities:     capabilities,
			AggregatorSource: aggregator,
			DefaultWeights:   defaults,
		}, nil
	}
}

func handleShutdown(session *Session, _ json.RawMessage) (any, *types.RPCError) {
	if session.State() != StateInitialized {
		return nil, types.NewRPCError(
			types.ErrSessionError,
			"shutdown called on uninitialized or already-shutting-down session",
			types.ErrTypeSessionError,
			false,
			"call initialize before shutdown",
		)
	}

	session.SetState(StateShuttingDown)

	logs, requests := session.Counters()
	return &types.ShutdownResult{
		LogsAnalyzed:   logs,
		RequestsServed: requests,
	}, nil
}

func handleExtractTrajectories(a *analysis.Analyzer) Handler {
	return func(session *Session, params json.RawMessage) (any, *types.RPCError) {
		if rpcErr := requireInitialized(session, "extract_trajectories"); rpcErr != nil {
			return nil, rpcErr
		}

		var p types.LogParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, invalidParams("extract_trajectories", err)
		}
		entries, rpcErr := decodeLog(p.Log)
		if rpcErr != nil {
			return nil, rpcErr
		}

		trajectories, stats := a.Extract(entries)
		session.IncrementLogs(1)

		if trajectories == nil {
			trajectories = []types.Trajectory{}
		}
		return &types.ExtractResult{Trajectories: trajectories, Stats: stats}, nil
	}
}

func handleScoreTrajectories(a *analysis.Analyzer, defaults types.Weights) Handler {
	return func(session *Session, params json.RawMessage) (any, *types.RPCError) {
		if rpcErr := requireInitialized(session, "score_trajectories"); rpcErr != nil {
			return nil, rpcErr
		}

		var p types.ScoreParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, invalidParams("score_trajectories", err)
		}
		entries, rpcErr := decodeLog(p.Log)
		if rpcErr != nil {
			return nil, rpcErr
		}

		trajectories, _ := a.Extract(entries)
		scores, warnings, err := a.Score(trajectories, weightsOrDefault(p.Weights, defaults))
		if err != nil {
			return nil, scoringError(err)
		}
		session.IncrementLogs(1)

		result := &types.ScoreResult{Scores: scores, Warnings: warnings}
		if result.Scores == nil {
			result.Scores = []types.TrajectoryScore{}
		}
		if best, ok := scoring.Best(scores); ok {
			result.Best = &best
		}
		return result, nil
	}
}

func handleAnalyzeLog(a *analysis.Analyzer, defaults types.Weights) Handler {
	return func(session *Session, params json.RawMessage) (any, *types.RPCError) {
		if rpcErr := requireInitialized(session, "analyze_log"); rpcErr != nil {
			return nil, rpcErr
		}

		var p types.ScoreParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, invalidParams("analyze_log", err)
		}
		entries, rpcErr := decodeLog(p.Log)
		if rpcErr != nil {
			return nil, rpcErr
		}

		result, err := a.Analyze(entries, weightsOrDefault(p.Weights, defaults))
		if err != nil {
			return nil, scoringError(err)
		}
		session.IncrementLogs(1)
		return result, nil
	}
}

func handleRenderGraph(a *analysis.Analyzer) Handler {
	return func(session *Session, params json.RawMessage) (any, *types.RPCError) {
		if rpcErr := requireInitialized(session, "render_graph"); rpcErr != nil {
			return nil, rpcErr
		}

		var p types.LogParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, invalidParams("render_graph", err)
		}
		entries, rpcErr := decodeLog(p.Log)
		if rpcErr != nil {
			return nil, rpcErr
		}

		trajectories, _ := a.Extract(entries)
		session.IncrementLogs(1)
		return &types.RenderGraphResult{DOT: graph.Render(trajectories)}, nil
	}
}

func requireInitialized(session *Session, method string) *types.RPCError {
	if session.State() == StateInitialized {
		return nil
	}
	return types.NewRPCError(
		types.ErrSessionError,
		method+" called before initialize",
		types.ErrTypeSessionError,
		false,
		"call initialize first to establish a session",
	)
}

func decodeLog(raw json.RawMessage) ([]types.LogEntry, *types.RPCError) {
	entries, err := trajectory.DecodeLog(raw)
	if err != nil {
		return nil, types.NewRPCError(
			types.ErrInvalidLog,
			err.Error(),
			types.ErrTypeInvalidLog,
			false,
			"log must be a JSON array of message objects",
		)
	}
	return entries, nil
}

func invalidParams(method string, err error) *types.RPCError {
	return types.NewRPCError(
		types.ErrInvalidParams,
		fmt.Sprintf("invalid %s params: %v", method, err),
		types.ErrTypeInvalidParams,
		false,
		"Check the request format matches the protocol.",
	)
}

func scoringError(err error) *types.RPCError {
	if errors.Is(err, scoring.ErrInvalidWeights) {
		return types.NewRPCError(
			types.ErrInvalidParams,
			err.Error(),
			types.ErrTypeInvalidParams,
			false,
			"weights must be non-negative finite numbers",
		)
	}
	return types.NewRPCError(
		types.ErrEngineError,
		fmt.Sprintf("analysis failed: %v", err),
		types.ErrTypeEngineError,
		false,
		"Internal engine error during analysis.",
	)
}

func weightsOrDefault(w *types.Weights, defaults types.Weights) types.Weights {
	if w == nil {
		return defaults
	}
	return *w
}
