package runner

import (
	"context"
	"strings"
	"sync"
)

// Call records one invocation seen by Stub.
type Call struct {
	Name string
	Args []string
}

// Line renders the call the way a shell would show it.
func (c Call) Line() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Stub is an Executor that returns canned output. Responses are consumed in
// order; once exhausted, Default is returned for every further call.
type Stub struct {
	mu        sync.Mutex
	Responses []Result
	Default   Result
	// Err, when set, is returned instead of any result.
	Err error
	// RunFunc, when set, overrides everything else.
	RunFunc func(ctx context.Context, name string, args ...string) (*Result, error)

	calls []Call
}

// NewStub returns a Stub that always answers with lines and exitCode.
func NewStub(lines []string, exitCode int) *Stub {
	return &Stub{Default: Result{Lines: lines, ExitCode: exitCode}}
}

// Run implements Executor.
func (s *Stub) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	s.mu.Lock()
	s.calls = append(s.calls, Call{Name: name, Args: append([]string(nil), args...)})
	if s.RunFunc != nil {
		fn := s.RunFunc
		s.mu.Unlock()
		return fn(ctx, name, args...)
	}
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	res := s.Default
	if len(s.Responses) > 0 {
		res = s.Responses[0]
		s.Responses = s.Responses[1:]
	}
	res.Lines = append([]string(nil), res.Lines...)
	return &res, nil
}

// Calls returns a copy of the recorded invocations.
func (s *Stub) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}
