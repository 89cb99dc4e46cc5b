package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hookwarden/hookwarden/internal/config"
	"github.com/hookwarden/hookwarden/internal/core"
)

// CustomHook runs the user-defined jobs from the project and global
// jobs files for the current event. Jobs run sequentially through
// `bash -c` with the raw event JSON on stdin; the first failing job
// blocks the action with its stderr tail as the reason.
type CustomHook struct {
	*core.BaseHook
}

// NewCustomHook creates a new custom jobs hook instance.
func NewCustomHook(ctx *core.HookContext) core.Hook {
	base := core.NewBaseHook("custom", "Custom Jobs",
		"Runs user-defined commands from the jobs file for each event", ctx)
	return &CustomHook{BaseHook: base}
}

// Validate accepts every bound event; whether any jobs exist is a
// filesystem question answered in Execute, where an empty job list is
// an equally silent allow.
func (h *CustomHook) Validate(_ *core.Event) bool {
	return true
}

// Execute runs the jobs bound to this event in file order.
func (h *CustomHook) Execute(ctx context.Context, req *core.Request) core.Result {
	jobs, err := config.LoadJobs(req.Root)
	if err != nil {
		return core.Errorf("custom: %v", err)
	}
	bound := jobs[req.Event.HookEventName]
	if len(bound) == 0 {
		return core.Allow()
	}

	payload, err := json.Marshal(req.Event)
	if err != nil {
		return core.Errorf("custom: encoding event: %v", err)
	}

	for _, job := range bound {
		if !h.jobApplies(job, req.Event) {
			continue
		}
		if res := h.runJob(ctx, job, payload, req); res.Decision != core.DecisionAllow {
			return res
		}
	}
	return core.Allow()
}

// jobApplies filters by the job's glob against the payload file path.
// A job with a glob never fires on events without a file path.
func (h *CustomHook) jobApplies(job config.Job, ev *core.Event) bool {
	if job.Glob == "" {
		return true
	}
	path, ok := ev.FilePath()
	if !ok || path == "" {
		return false
	}
	if ok, err := filepath.Match(job.Glob, filepath.Base(path)); err == nil && ok {
		return true
	}
	ok2, err := filepath.Match(job.Glob, filepath.ToSlash(path))
	return err == nil && ok2
}

func (h *CustomHook) runJob(ctx context.Context, job config.Job, payload []byte, req *core.Request) core.Result {
	// A job whose binary is not installed is opt-in tooling this
	// project does not have; skip silently.
	if binary := commandBinary(job.Run); binary != "" {
		if _, err := h.Context().LookPath(binary); err != nil {
			h.Logger().Debug("custom job binary not found", "job", job.Name, "binary", binary)
			return core.Allow()
		}
	}

	jctx := ctx
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		jctx, cancel = context.WithTimeout(ctx, time.Duration(job.Timeout)*time.Second)
		defer cancel()
	}

	dir := job.Dir
	if dir == "" {
		dir = req.Root
	}
	var env []string
	for k, v := range job.Env {
		env = append(env, k+"="+v)
	}

	res, err := h.Context().Runner.Run(jctx, core.CommandSpec{
		Name:  "bash",
		Args:  []string{"-c", job.Run},
		Dir:   dir,
		Env:   env,
		Stdin: payload,
	})
	if err != nil {
		if jctx.Err() != nil && ctx.Err() == nil {
			return core.Errorf("custom: job %q timed out after %ds", job.Name, job.Timeout)
		}
		return core.Errorf("custom: job %q: %v", job.Name, err)
	}
	if res.ExitCode != 0 {
		return core.Deny(fmt.Sprintf("job %q failed (exit %d): %s",
			job.Name, res.ExitCode, stderrTail(res.Stderr)))
	}
	return core.Allow()
}

// commandBinary extracts the first word of a job command for the
// binary-present check. Commands opening with shell syntax (variable
// assignments, subshells) are left to bash.
func commandBinary(run string) string {
	fields := strings.Fields(run)
	if len(fields) == 0 {
		return ""
	}
	first := fields[0]
	if strings.ContainsAny(first, "=$(){}|&;<>") {
		return ""
	}
	return first
}

// stderrTail keeps the last few lines of a job's stderr so deny
// reasons stay readable.
func stderrTail(stderr []byte) string {
	text := strings.TrimSpace(string(stderr))
	if text == "" {
		return "no output"
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, "\n")
}
