package hooks

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/hookwarden/hookwarden/internal/config"
	"github.com/hookwarden/hookwarden/internal/core"
)

func TestAuditAppendsEntry(t *testing.T) {
	root := t.TempDir()
	hctx, _ := core.NewTestHookContext(t.TempDir())
	h := NewAuditHook(hctx)

	res := h.Execute(context.Background(), &core.Request{
		Event:     toolEvent("PreToolUse", "Bash", map[string]any{"command": "go build ./..."}),
		Root:      root,
		SessionID: "sess-1",
		Logging:   config.DefaultRotationConfig(),
	})
	if res.Decision != core.DecisionAllow {
		t.Fatalf("audit should allow, got %+v", res)
	}

	data, err := os.ReadFile(config.AuditLogPath(root))
	if err != nil {
		t.Fatalf("reading audit log: %v", err)
	}
	var entry AuditEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
		t.Fatalf("audit log should be one JSON object per line: %v", err)
	}
	if entry.Event != "PreToolUse" || entry.ToolName != "Bash" || entry.SessionID != "sess-1" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Details["command"] != "go build ./..." {
		t.Errorf("salient command missing, details = %v", entry.Details)
	}
	if entry.Timestamp == "" {
		t.Error("timestamp must be set")
	}
}

func TestAuditRecordsMultipleEvents(t *testing.T) {
	root := t.TempDir()
	hctx, _ := core.NewTestHookContext(t.TempDir())
	h := NewAuditHook(hctx)

	events := []*core.Event{
		toolEvent("PreToolUse", "Edit", map[string]any{"file_path": "a.go"}),
		{SessionID: "s", HookEventName: "UserPromptSubmit", Prompt: "refactor the store"},
		{SessionID: "s", HookEventName: "Stop"},
	}
	for _, ev := range events {
		res := h.Execute(context.Background(), &core.Request{
			Event: ev, Root: root, SessionID: "s", Logging: config.DefaultRotationConfig(),
		})
		if res.Decision != core.DecisionAllow {
			t.Fatalf("audit of %s: %+v", ev.HookEventName, res)
		}
	}

	data, err := os.ReadFile(config.AuditLogPath(root))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(lines))
	}
	var second AuditEntry
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatal(err)
	}
	if second.Details["prompt"] != "refactor the store" {
		t.Errorf("prompt detail missing, got %v", second.Details)
	}
}

func TestAuditValidateAlwaysTrue(t *testing.T) {
	hctx, _ := core.NewTestHookContext(t.TempDir())
	h := NewAuditHook(hctx)
	if !h.Validate(&core.Event{HookEventName: "Stop"}) {
		t.Error("audit applies to every bound event")
	}
}
