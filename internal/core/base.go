// Package core provides the hook contract, execution context, registry,
// and the dispatcher that runs hooks against host events.
package core

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/hookwarden/hookwarden/internal/config"
	"github.com/hookwarden/hookwarden/internal/session"
)

// Hook defines the interface that all hook implementations must satisfy.
type Hook interface {
	// Key returns the unique identifier for this hook.
	Key() string
	// Name returns the human-readable name for this hook.
	Name() string
	// Description returns a description of what this hook does.
	Description() string
	// Validate is a cheap structural check against the parsed event.
	// A false return skips the hook silently for this dispatch; it
	// must not touch the filesystem or run commands.
	Validate(ev *Event) bool
	// Execute runs the hook against one event. The context carries
	// the per-hook deadline; implementations must respect it.
	Execute(ctx context.Context, req *Request) Result
}

// Request bundles everything one execution may consult.
type Request struct {
	Event   *Event
	Options config.Options
	// Root is the project root for this dispatch: the payload's cwd
	// when present, otherwise the dispatcher's working directory.
	Root string
	// SessionID is the resolved session identity for this dispatch.
	SessionID string
	// Logging carries the effective rotation settings for hooks that
	// append to rotating log files.
	Logging config.RotationConfig
}

// BaseHook provides common functionality for all hooks.
type BaseHook struct {
	key         string
	name        string
	description string
	context     *HookContext
}

// Key returns the hook key.
func (h *BaseHook) Key() string {
	return h.key
}

// Name returns the hook name.
func (h *BaseHook) Name() string {
	return h.name
}

// Description returns the hook description.
func (h *BaseHook) Description() string {
	return h.description
}

// Context returns the hook context.
func (h *BaseHook) Context() *HookContext {
	return h.context
}

// Logger returns the context's logger.
func (h *BaseHook) Logger() *slog.Logger {
	return h.context.Logger
}

// NewBaseHook creates a new BaseHook with the given metadata.
func NewBaseHook(key, name, description string, ctx *HookContext) *BaseHook {
	if ctx == nil {
		ctx = DefaultHookContext()
	}
	return &BaseHook{
		key:         key,
		name:        name,
		description: description,
		context:     ctx,
	}
}

// CommandSpec describes one child process to run.
type CommandSpec struct {
	Name string
	Args []string
	Dir  string
	// Env entries are appended to the inherited environment.
	Env []string
	// Stdin is piped to the process when non-empty.
	Stdin []byte
}

// CommandResult is the captured outcome of a completed process.
type CommandResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// CommandRunner interface for dependency injection in testing.
type CommandRunner interface {
	Run(ctx context.Context, spec CommandSpec) (CommandResult, error)
}

// ExecRunner implements CommandRunner using real system commands.
// Each child runs in its own process group so a deadline kill takes
// any grandchildren down with it.
type ExecRunner struct{}

// Run executes the command and captures stdout and stderr separately.
// A normal non-zero exit is reported through ExitCode, not the error;
// the error is reserved for start failures and context cancellation.
func (r *ExecRunner) Run(ctx context.Context, spec CommandSpec) (CommandResult, error) {
	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...) // #nosec G204 - command comes from hook configuration, not tool input
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	if len(spec.Stdin) > 0 {
		cmd.Stdin = bytes.NewReader(spec.Stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	setProcGroup(cmd)
	cmd.Cancel = func() error {
		return killProcGroup(cmd)
	}
	cmd.WaitDelay = 2 * time.Second

	runErr := cmd.Run()
	res := CommandResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, runErr
	}
	return res, nil
}

// HookContext provides dependencies that hooks may need.
type HookContext struct {
	Runner CommandRunner
	Store  *session.Store
	Now    func() time.Time
	Logger *slog.Logger
	// LookPath resolves a binary on PATH; injectable so tests do not
	// depend on the machine's toolchain.
	LookPath func(string) (string, error)
	// DispatchLog records per-hook decisions when non-nil.
	DispatchLog *DispatchLogger
}

// DefaultHookContext returns a context with real implementations.
func DefaultHookContext() *HookContext {
	return &HookContext{
		Runner:   &ExecRunner{},
		Store:    session.NewStore(config.SessionsDir()),
		Now:      time.Now,
		Logger:   slog.Default(),
		LookPath: exec.LookPath,
	}
}
