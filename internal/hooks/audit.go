package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/hookwarden/hookwarden/internal/config"
	"github.com/hookwarden/hookwarden/internal/constants"
	"github.com/hookwarden/hookwarden/internal/core"
)

// AuditHook appends one JSONL row per observed event to a rotating log
// under the project's app directory. It never blocks: a failed write
// degrades to a non-blocking error.
type AuditHook struct {
	*core.BaseHook
}

// AuditEntry is one row of the audit trail.
type AuditEntry struct {
	Timestamp string         `json:"timestamp"`
	SessionID string         `json:"session_id,omitempty"`
	Event     string         `json:"event"`
	ToolName  string         `json:"tool_name,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// NewAuditHook creates a new audit hook instance.
func NewAuditHook(ctx *core.HookContext) core.Hook {
	base := core.NewBaseHook("audit", "Audit Trail",
		"Appends every observed event to a rotating JSONL audit log", ctx)
	return &AuditHook{BaseHook: base}
}

// Validate accepts every event the hook is bound to.
func (h *AuditHook) Validate(_ *core.Event) bool {
	return true
}

// Execute appends the entry for this event.
func (h *AuditHook) Execute(_ context.Context, req *core.Request) core.Result {
	entry := AuditEntry{
		Timestamp: h.Context().Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		SessionID: req.SessionID,
		Event:     req.Event.HookEventName,
		ToolName:  req.Event.ToolName,
		Details:   salientDetails(req.Event),
	}

	writer, err := config.NewRotatingWriter(config.AuditLogPath(req.Root), req.Logging)
	if err != nil {
		return core.Errorf("audit: %v", err)
	}
	defer writer.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return core.Errorf("audit: marshaling entry: %v", err)
	}
	if _, err := writer.Write(append(data, '\n')); err != nil {
		return core.Errorf("audit: %v", err)
	}
	return core.Allow()
}

// salientDetails pulls the fields worth keeping per tool; whole
// payloads are not copied, both for size and because file contents do
// not belong in an audit trail.
func salientDetails(ev *core.Event) map[string]any {
	details := map[string]any{}
	switch ev.ToolName {
	case constants.ToolBash:
		if cmd, ok := ev.BashCommand(); ok {
			details["command"] = clip(cmd, 500)
		}
	case constants.ToolEdit, constants.ToolWrite, constants.ToolRead, constants.ToolNotebookEdit:
		if path, ok := ev.FilePath(); ok {
			details["file_path"] = path
		}
	case constants.ToolGlob, constants.ToolGrep:
		if pattern, ok := ev.InputField("pattern"); ok {
			details["pattern"] = pattern
		}
	}
	if ev.Prompt != "" {
		details["prompt"] = clip(ev.Prompt, 200)
	}
	if ev.Source != "" {
		details["source"] = ev.Source
	}
	if ev.Reason != "" {
		details["reason"] = ev.Reason
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return fmt.Sprintf("%s… (%d bytes)", s[:cut], len(s))
}
