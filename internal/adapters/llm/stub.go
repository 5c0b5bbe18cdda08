package llm

import (
	"context"
	"sync"
)

// StubTransport is the deterministic Transport used in stub mode and tests.
// It replays scripted responses in order, repeating the last one, and
// records every request it receives.
type StubTransport struct {
	mu        sync.Mutex
	responses []string
	next      int
	err       error
	calls     []ChatRequest
}

// NewStubTransport creates a StubTransport replaying the given responses.
func NewStubTransport(responses ...string) *StubTransport {
	return &StubTransport{responses: responses}
}

// FailWith makes every subsequent call return err, simulating an
// unreachable endpoint. Passing nil restores normal replay.
func (s *StubTransport) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Complete records the request and returns the next scripted response.
func (s *StubTransport) Complete(ctx context.Context, req ChatRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)

	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", ErrEmptyResponse
	}
	resp := s.responses[s.next]
	if s.next < len(s.responses)-1 {
		s.next++
	}
	return resp, nil
}

// Calls returns a copy of every request seen so far.
func (s *StubTransport) Calls() []ChatRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatRequest, len(s.calls))
	copy(out, s.calls)
	return out
}
