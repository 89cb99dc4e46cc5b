// Package hooks provides the built-in hook implementations: the file
// access guard, audit logging, user-defined jobs, the debounced project
// indexer, and git context injection.
package hooks

import (
	"context"

	"github.com/hookwarden/hookwarden/internal/constants"
	"github.com/hookwarden/hookwarden/internal/core"
	"github.com/hookwarden/hookwarden/internal/guard"
)

// FileGuardHook blocks tool access to protected files before it
// happens. It is registered fail-closed: any internal error is turned
// into a denial by the dispatcher rather than waved through.
type FileGuardHook struct {
	*core.BaseHook
}

// NewFileGuardHook creates a new file guard instance.
func NewFileGuardHook(ctx *core.HookContext) core.Hook {
	base := core.NewBaseHook("file-guard", "File Access Guard",
		"Blocks access to files matched by the project's ignore patterns", ctx)
	return &FileGuardHook{BaseHook: base}
}

// Validate applies the guard to tools that carry a file path and to
// Bash command strings; everything else is not its business.
func (h *FileGuardHook) Validate(ev *core.Event) bool {
	if ev.Type() != core.PreToolUseEvent {
		return false
	}
	switch ev.ToolName {
	case constants.ToolBash:
		cmd, ok := ev.BashCommand()
		return ok && cmd != ""
	case constants.ToolRead, constants.ToolEdit, constants.ToolWrite, constants.ToolNotebookEdit:
		path, ok := ev.FilePath()
		return ok && path != ""
	}
	return false
}

// Execute builds the merged pattern set for this invocation and checks
// the access the event describes.
func (h *FileGuardHook) Execute(_ context.Context, req *core.Request) core.Result {
	g, err := guard.New(req.Root, req.Options.StringSlice("extraPatterns"))
	if err != nil {
		return core.Errorf("file-guard: %v", err)
	}

	var verdict guard.Verdict
	if req.Event.ToolName == constants.ToolBash {
		cmd, _ := req.Event.BashCommand()
		verdict = g.CheckCommand(cmd)
	} else {
		path, _ := req.Event.FilePath()
		verdict = g.CheckPath(path)
	}

	if !verdict.Allowed {
		return core.Deny(verdict.Reason)
	}
	return core.Allow()
}
