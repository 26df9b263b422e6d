package server

import "sync"

// State is the lifecycle state of a server session.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateShuttingDown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateShuttingDown:
		return "shutting_down"
	default:
		return "unknown"
	}
}

// Session tracks the lifecycle and counters of one client connection.
type Session struct {
	mu             sync.Mutex
	state          State
	logsAnalyzed   int
	requestsServed int
}

// NewSession returns an uninitialized session.
func NewSession() *Session {
	return &Session{state: StateUninitialized}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetState moves the session to state.
func (s *Session) SetState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// IncrementLogs records that n more logs were processed.
func (s *Session) IncrementLogs(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logsAnalyzed += n
}

// IncrementRequests records one more dispatched request.
func (s *Session) IncrementRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestsServed++
}

// Counters returns the number of logs processed and requests served so far.
func (s *Session) Counters() (logs, requests int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logsAnalyzed, s.requestsServed
}
