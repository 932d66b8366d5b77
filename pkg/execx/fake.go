package execx

import (
	"context"
	"strings"
	"sync"
)

// FakeResult is a canned response for a FakeRunner call.
type FakeResult struct {
	Stdout []byte
	Err    error
}

// FakeRunner is a Runner for tests. Responses are keyed by the command
// name plus arguments joined with spaces; unmatched commands succeed with
// empty output. Every invocation is recorded in order.
type FakeRunner struct {
	mu        sync.Mutex
	Responses map[string]FakeResult
	Calls     []Command
}

// NewFake creates a FakeRunner with no canned responses.
func NewFake() *FakeRunner {
	return &FakeRunner{Responses: make(map[string]FakeResult)}
}

// Respond registers a canned result for the given command line.
func (r *FakeRunner) Respond(cmdline string, stdout []byte, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Responses[cmdline] = FakeResult{Stdout: stdout, Err: err}
}

func (r *FakeRunner) Run(_ context.Context, cmd Command) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, cmd)

	key := cmd.Name
	if len(cmd.Args) > 0 {
		key += " " + strings.Join(cmd.Args, " ")
	}
	if res, ok := r.Responses[key]; ok {
		return res.Stdout, res.Err
	}
	return nil, nil
}

// CommandLines returns the recorded invocations as joined strings, in
// call order.
func (r *FakeRunner) CommandLines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := make([]string, 0, len(r.Calls))
	for _, c := range r.Calls {
		line := c.Name
		if len(c.Args) > 0 {
			line += " " + strings.Join(c.Args, " ")
		}
		lines = append(lines, line)
	}
	return lines
}
