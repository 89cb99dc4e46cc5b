package core

import (
	"strings"
	"testing"
)

func TestParseEventToleratesUnknownFields(t *testing.T) {
	raw := []byte(`{
		"session_id": "abc",
		"hook_event_name": "PreToolUse",
		"tool_name": "Bash",
		"tool_input": {"command": "ls", "description": "list"},
		"some_future_field": {"nested": true}
	}`)
	ev, err := ParseEvent(raw)
	if err != nil {
		t.Fatalf("unknown fields must be tolerated: %v", err)
	}
	if ev.SessionID != "abc" || ev.Type() != PreToolUseEvent || ev.ToolName != "Bash" {
		t.Errorf("parsed event = %+v", ev)
	}
	if cmd, ok := ev.BashCommand(); !ok || cmd != "ls" {
		t.Errorf("BashCommand = %q, %v", cmd, ok)
	}
}

func TestParseEventFailures(t *testing.T) {
	if _, err := ParseEvent([]byte("not json")); err == nil {
		t.Error("malformed JSON must error")
	}
	_, err := ParseEvent([]byte(`{"tool_name": "Bash"}`))
	if err == nil || !strings.Contains(err.Error(), "hook_event_name") {
		t.Errorf("missing hook_event_name must be named in the error, got %v", err)
	}
}

func TestInputFieldMissingOrMistyped(t *testing.T) {
	ev := &Event{ToolInput: []byte(`{"file_path": "a.go", "count": 3}`)}
	if path, ok := ev.FilePath(); !ok || path != "a.go" {
		t.Errorf("FilePath = %q, %v", path, ok)
	}
	if _, ok := ev.InputField("missing"); ok {
		t.Error("absent field must report false")
	}
	if _, ok := ev.InputField("count"); ok {
		t.Error("non-string field must report false")
	}
	if _, ok := (&Event{}).FilePath(); ok {
		t.Error("empty tool_input must report false")
	}
}

func TestEventCatalog(t *testing.T) {
	if len(AllEvents()) != 5 {
		t.Fatalf("expected 5 lifecycle events, got %d", len(AllEvents()))
	}
	info, ok := EventByName("UserPromptSubmit")
	if !ok || !info.CanBlock || !info.CarriesContext {
		t.Errorf("UserPromptSubmit info = %+v", info)
	}
	if info, _ := EventByName("PreToolUse"); !info.HasTool || info.CarriesContext {
		t.Errorf("PreToolUse info = %+v", info)
	}
	if IsValidEventName("Nonsense") {
		t.Error("unknown event names are invalid")
	}
	if len(ValidEventNames()) != 5 {
		t.Error("ValidEventNames should list the catalog")
	}
}
