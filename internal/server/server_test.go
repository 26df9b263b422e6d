package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shivanikabu/agentic-governance-suite/internal/analysis"
	"github.com/shivanikabu/agentic-governance-suite/internal/trajectory"
	"github.com/shivanikabu/agentic-governance-suite/pkg/types"
)

func newTestServer(t *testing.T, configure ...func(*Server)) (*io.PipeWriter, *bufio.Reader, *Server) {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	logger := slog.New(slog.DiscardHandler)
	s := New(inR, outW, logger)
	RegisterBuiltinHandlers(s, analysis.New(logger), trajectory.DefaultAggregatorSource, types.DefaultWeights)
	for _, c := range configure {
		c(s)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Run(ctx)
		outW.Close()
	}()

	t.Cleanup(func() {
		cancel()
		inW.Close()
		outR.Close()
		<-done
	})
	return inW, bufio.NewReader(outR), s
}

func sendRequest(t *testing.T, w io.Writer, id int64, method string, params any) {
	t.Helper()
	raw, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	sendRaw(t, w, mustMarshal(t, types.Request{JSONRPC: "2.0", ID: id, Method: method, Params: raw}))
}

func sendRaw(t *testing.T, w io.Writer, line []byte) {
	t.Helper()
	if _, err := w.Write(append(line, '\n')); err != nil {
		t.Fatalf("write request: %v", err)
	}
}

func readResponse(t *testing.T, r *bufio.Reader) *types.Response {
	t.Helper()
	type result struct {
		line []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := r.ReadBytes('\n')
		ch <- result{line, err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			t.Fatalf("read response: %v", res.err)
		}
		var resp types.Response
		if err := json.Unmarshal(res.line, &resp); err != nil {
			t.Fatalf("unmarshal response %q: %v", res.line, err)
		}
		return &resp
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for response")
		return nil
	}
}

func initializeParams() types.InitializeParams {
	return types.InitializeParams{ClientName: "test", ClientVersion: "0.0.1", ProtocolVersion: protocolVersion}
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func TestServer_ParseError(t *testing.T) {
	stdin, stdout, _ := newTestServer(t)

	sendRaw(t, stdin, []byte(`{not json`))
	resp := readResponse(t, stdout)
	if resp.Error == nil || resp.Error.Code != -32700 {
		t.Fatalf("expected parse error, got %+v", resp.Error)
	}
}

func TestServer_InvalidRequest(t *testing.T) {
	stdin, stdout, _ := newTestServer(t)

	sendRaw(t, stdin, []byte(`{"jsonrpc":"1.0","id":4,"method":"initialize"}`))
	resp := readResponse(t, stdout)
	if resp.Error == nil || resp.Error.Code != -32600 {
		t.Fatalf("expected invalid request, got %+v", resp.Error)
	}
	if resp.ID != 4 {
		t.Errorf("ID = %d, want 4", resp.ID)
	}
}

func TestServer_MethodNotFound(t *testing.T) {
	stdin, stdout, _ := newTestServer(t)

	sendRequest(t, stdin, 2, "evaluate_batch", map[string]any{})
	resp := readResponse(t, stdout)
	if resp.Error == nil || resp.Error.Code != -32601 {
		t.Fatalf("expected method not found, got %+v", resp.Error)
	}
}

func TestServer_InitializeTwice(t *testing.T) {
	stdin, stdout, _ := newTestServer(t)

	sendRequest(t, stdin, 1, "initialize", initializeParams())
	if resp := readResponse(t, stdout); resp.Error != nil {
		t.Fatalf("initialize: %+v", resp.Error)
	}
	sendRequest(t, stdin, 2, "initialize", initializeParams())
	resp := readResponse(t, stdout)
	if resp.Error == nil || resp.Error.Code != types.ErrSessionError {
		t.Fatalf("expected session error, got %+v", resp.Error)
	}
}

func TestServer_ProtocolVersionMismatch(t *testing.T) {
	stdin, stdout, _ := newTestServer(t)

	p := initializeParams()
	p.ProtocolVersion = 99
	sendRequest(t, stdin, 1, "initialize", p)
	resp := readResponse(t, stdout)
	if resp.Error == nil || resp.Error.Code != types.ErrSessionError {
		t.Fatalf("expected session error, got %+v", resp.Error)
	}
}

func TestServer_ShutdownStopsRun(t *testing.T) {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	t.Cleanup(func() { inW.Close(); outR.Close() })

	s := New(inR, outW, slog.New(slog.DiscardHandler))
	RegisterBuiltinHandlers(s, analysis.New(nil), trajectory.DefaultAggregatorSource, types.DefaultWeights)

	errc := make(chan error, 1)
	go func() { errc <- s.Run(context.Background()) }()

	stdout := bufio.NewReader(outR)
	sendRequest(t, inW, 1, "initialize", initializeParams())
	readResponse(t, stdout)
	sendRequest(t, inW, 2, "shutdown", nil)

	resp := readResponse(t, stdout)
	if resp.Error != nil {
		t.Fatalf("shutdown: %+v", resp.Error)
	}
	var result types.ShutdownResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.RequestsServed != 2 {
		t.Errorf("RequestsServed = %d, want 2", result.RequestsServed)
	}

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after shutdown")
	}
}

func TestServer_RateLimit(t *testing.T) {
	stdin, stdout, _ := newTestServer(t, func(s *Server) { s.SetRateLimit(20, 1) })

	sendRequest(t, stdin, 1, "initialize", initializeParams())
	readResponse(t, stdout)

	start := time.Now()
	for i := int64(2); i < 6; i++ {
		sendRequest(t, stdin, i, "render_graph", types.LogParams{Log: json.RawMessage(`[{"source":"user"}]`)})
		if resp := readResponse(t, stdout); resp.Error != nil {
			t.Fatalf("request %d: %+v", i, resp.Error)
		}
	}
	// Four requests at 20/s with burst 1 need at least three 50ms waits.
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("requests completed in %v, expected throttling", elapsed)
	}
}

func TestSession_Counters(t *testing.T) {
	s := NewSession()
	if s.State() != StateUninitialized {
		t.Fatalf("initial state = %v", s.State())
	}
	s.IncrementLogs(2)
	s.IncrementRequests()
	s.IncrementRequests()
	s.IncrementRequests()
	logs, requests := s.Counters()
	if logs != 2 || requests != 3 {
		t.Errorf("Counters() = %d, %d; want 2, 3", logs, requests)
	}
	if got := StateShuttingDown.String(); got != "shutting_down" {
		t.Errorf("String() = %q", got)
	}
}
