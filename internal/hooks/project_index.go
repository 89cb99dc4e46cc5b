package hooks

import (
	"context"
	"time"

	"github.com/hookwarden/hookwarden/internal/core"
)

const defaultIndexCooldownSeconds = 300

// ProjectIndexHook refreshes a project index (or any other configured
// command) at most once per cooldown window per session. The last run
// time lives in the session state, so the debounce survives across the
// host's one-process-per-event invocations.
type ProjectIndexHook struct {
	*core.BaseHook
}

// NewProjectIndexHook creates a new project index hook instance.
func NewProjectIndexHook(ctx *core.HookContext) core.Hook {
	base := core.NewBaseHook("project-index", "Project Indexer",
		"Runs a configured index-refresh command, debounced per session", ctx)
	return &ProjectIndexHook{BaseHook: base}
}

// Validate accepts every bound event.
func (h *ProjectIndexHook) Validate(_ *core.Event) bool {
	return true
}

// Execute runs the configured command unless a run happened within the
// cooldown window. A fresh timestamp is a silent allow.
func (h *ProjectIndexHook) Execute(ctx context.Context, req *core.Request) core.Result {
	command := req.Options.String("command", "")
	if command == "" {
		return core.Allow()
	}
	cooldown := time.Duration(req.Options.Int("cooldown", defaultIndexCooldownSeconds)) * time.Second

	store := h.Context().Store
	state, err := store.Load(req.SessionID)
	if err != nil {
		return core.Errorf("project-index: %v", err)
	}
	now := h.Context().Now()
	if last, ok := state.Timestamp(h.Key()); ok && now.Sub(last) < cooldown {
		h.Logger().Debug("project index debounced", "last_run", last, "cooldown", cooldown)
		return core.Allow()
	}

	if _, err := h.Context().LookPath("bash"); err != nil {
		return core.Allow()
	}
	res, err := h.Context().Runner.Run(ctx, core.CommandSpec{
		Name: "bash",
		Args: []string{"-c", command},
		Dir:  req.Root,
	})
	if err != nil {
		return core.Errorf("project-index: %v", err)
	}
	if res.ExitCode != 0 {
		return core.Errorf("project-index: command exited %d: %s", res.ExitCode, stderrTail(res.Stderr))
	}

	state.SetTimestamp(h.Key(), now)
	if err := store.Save(req.SessionID, state); err != nil {
		return core.Errorf("project-index: recording run time: %v", err)
	}
	return core.Allow()
}
