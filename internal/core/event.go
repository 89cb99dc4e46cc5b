package core

import (
	"encoding/json"
	"fmt"
)

// Event is the host payload delivered on stdin for one dispatch.
// tool_input and tool_response are kept raw because their shape varies
// per tool; accessors pull out the fields hooks actually consult.
type Event struct {
	SessionID      string          `json:"session_id"`
	TranscriptPath string          `json:"transcript_path,omitempty"`
	CWD            string          `json:"cwd,omitempty"`
	PermissionMode string          `json:"permission_mode,omitempty"`
	HookEventName  string          `json:"hook_event_name"`
	ToolName       string          `json:"tool_name,omitempty"`
	ToolInput      json.RawMessage `json:"tool_input,omitempty"`
	ToolUseID      string          `json:"tool_use_id,omitempty"`
	ToolResponse   json.RawMessage `json:"tool_response,omitempty"`
	Prompt         string          `json:"prompt,omitempty"`
	Source         string          `json:"source,omitempty"`
	StopHookActive bool            `json:"stop_hook_active,omitempty"`
	Reason         string          `json:"reason,omitempty"`
	Model          string          `json:"model,omitempty"`
}

// ParseEvent decodes a host payload. Malformed JSON or a missing
// hook_event_name is an error the dispatcher must surface; an event
// name we do not recognize is not, so newer hosts degrade to a no-op
// dispatch instead of a failure.
func ParseEvent(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("invalid hook payload: %w", err)
	}
	if ev.HookEventName == "" {
		return nil, fmt.Errorf("invalid hook payload: missing hook_event_name")
	}
	return &ev, nil
}

// Type returns the payload's event type.
func (e *Event) Type() EventType {
	return EventType(e.HookEventName)
}

// InputField extracts a string field from tool_input.
func (e *Event) InputField(key string) (string, bool) {
	if len(e.ToolInput) == 0 {
		return "", false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(e.ToolInput, &fields); err != nil {
		return "", false
	}
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	return value, true
}

// BashCommand returns the command string for Bash tool calls.
func (e *Event) BashCommand() (string, bool) {
	return e.InputField("command")
}

// FilePath returns the file_path argument for file-oriented tool calls.
func (e *Event) FilePath() (string, bool) {
	return e.InputField("file_path")
}
