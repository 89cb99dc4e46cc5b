package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/hookwarden/hookwarden/internal/session"
)

// MockRunner is a CommandRunner for tests: it records every spec it is
// asked to run and replays canned results keyed by command name, in
// order. An unprimed command succeeds with empty output.
type MockRunner struct {
	mu      sync.Mutex
	Calls   []CommandSpec
	results map[string][]MockResult
	// Block, when set, makes Run wait for the context to end and
	// return its error, simulating a hung external tool.
	Block bool
}

// MockResult is one canned outcome for MockRunner.
type MockResult struct {
	Result CommandResult
	Err    error
}

// Prime queues a result for the next Run of the named command.
func (m *MockRunner) Prime(name string, res CommandResult, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.results == nil {
		m.results = map[string][]MockResult{}
	}
	m.results[name] = append(m.results[name], MockResult{Result: res, Err: err})
}

// Run implements CommandRunner.
func (m *MockRunner) Run(ctx context.Context, spec CommandSpec) (CommandResult, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, spec)
	var next *MockResult
	if queue := m.results[spec.Name]; len(queue) > 0 {
		next = &queue[0]
		m.results[spec.Name] = queue[1:]
	}
	block := m.Block
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return CommandResult{}, ctx.Err()
	}
	if next != nil {
		return next.Result, next.Err
	}
	return CommandResult{}, nil
}

// CallCount returns how many times the named command was run.
func (m *MockRunner) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// NewTestHookContext returns a HookContext wired for tests: a mock
// runner, a store under dir, a frozen clock, a discarded logger, and a
// LookPath that resolves everything.
func NewTestHookContext(dir string) (*HookContext, *MockRunner) {
	runner := &MockRunner{}
	ctx := &HookContext{
		Runner:   runner,
		Store:    session.NewStore(dir),
		Now:      func() time.Time { return time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC) },
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		LookPath: func(name string) (string, error) { return "/usr/bin/" + name, nil },
	}
	return ctx, runner
}

// MissingBinary is a LookPath that fails for every name, for exercising
// the tool-unavailable skip path.
func MissingBinary(name string) (string, error) {
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}
