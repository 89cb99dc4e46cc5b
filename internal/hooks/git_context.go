package hooks

import (
	"context"
	"fmt"
	"strings"

	"github.com/hookwarden/hookwarden/internal/core"
)

// GitContextHook injects a short version-control summary (branch,
// dirty-file count, last commit subject) as additional context when a
// prompt is submitted or a session starts. Outside a git repository,
// or without a git binary, it stays silent.
type GitContextHook struct {
	*core.BaseHook
}

// NewGitContextHook creates a new git context hook instance.
func NewGitContextHook(ctx *core.HookContext) core.Hook {
	base := core.NewBaseHook("git-context", "Git Context",
		"Injects branch, dirty-file count and last commit into the session", ctx)
	return &GitContextHook{BaseHook: base}
}

// Validate limits the hook to the context-carrying events.
func (h *GitContextHook) Validate(ev *core.Event) bool {
	t := ev.Type()
	return t == core.UserPromptSubmitEvent || t == core.SessionStartEvent
}

// Execute gathers the summary. Every failure path is a silent allow:
// missing binary and not-a-repository are ordinary project states, and
// context injection is never worth surfacing an error for.
func (h *GitContextHook) Execute(ctx context.Context, req *core.Request) core.Result {
	if _, err := h.Context().LookPath("git"); err != nil {
		return core.Allow()
	}

	branch, ok := h.git(ctx, req.Root, "rev-parse", "--abbrev-ref", "HEAD")
	if !ok {
		return core.Allow()
	}

	parts := []string{fmt.Sprintf("branch %s", branch)}
	if status, ok := h.git(ctx, req.Root, "status", "--porcelain"); ok {
		parts = append(parts, fmt.Sprintf("%d dirty files", countLines(status)))
	}
	if subject, ok := h.git(ctx, req.Root, "log", "-1", "--format=%s"); ok && subject != "" {
		parts = append(parts, fmt.Sprintf("last commit: %s", subject))
	}

	return core.AllowContext("git: " + strings.Join(parts, ", "))
}

func (h *GitContextHook) git(ctx context.Context, dir string, args ...string) (string, bool) {
	res, err := h.Context().Runner.Run(ctx, core.CommandSpec{Name: "git", Args: args, Dir: dir})
	if err != nil || res.ExitCode != 0 {
		return "", false
	}
	return strings.TrimSpace(string(res.Stdout)), true
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return len(strings.Split(s, "\n"))
}
