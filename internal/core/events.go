package core

// EventType identifies a host lifecycle point at which hooks run.
type EventType string

// All supported lifecycle events.
const (
	PreToolUseEvent       EventType = "PreToolUse"
	PostToolUseEvent      EventType = "PostToolUse"
	UserPromptSubmitEvent EventType = "UserPromptSubmit"
	SessionStartEvent     EventType = "SessionStart"
	StopEvent             EventType = "Stop"
)

// EventInfo describes one lifecycle event and its protocol capabilities.
type EventInfo struct {
	Type        EventType
	Name        string
	Description string
	// CanBlock: a deny at this event stops the pending host action.
	CanBlock bool
	// CarriesContext: the allow response may inject additionalContext.
	CarriesContext bool
	// HasTool: the payload names a tool, so matchers apply.
	HasTool bool
}

// AllEvents returns the event catalog in display order. Dispatch order
// within an event comes from hook registration, not from this list.
func AllEvents() []EventInfo {
	return []EventInfo{
		{
			Type:        PreToolUseEvent,
			Name:        string(PreToolUseEvent),
			Description: "Runs after the host prepares tool parameters and before the tool call executes",
			CanBlock:    true,
			HasTool:     true,
		},
		{
			Type:        PostToolUseEvent,
			Name:        string(PostToolUseEvent),
			Description: "Runs immediately after a tool call completes",
			CanBlock:    true,
			HasTool:     true,
		},
		{
			Type:           UserPromptSubmitEvent,
			Name:           string(UserPromptSubmitEvent),
			Description:    "Runs when the user submits a prompt, before the host processes it",
			CanBlock:       true,
			CarriesContext: true,
		},
		{
			Type:           SessionStartEvent,
			Name:           string(SessionStartEvent),
			Description:    "Runs when the host starts a new session or resumes an existing one",
			CarriesContext: true,
		},
		{
			Type:        StopEvent,
			Name:        string(StopEvent),
			Description: "Runs when the host agent is about to finish responding",
			CanBlock:    true,
		},
	}
}

// EventByName maps a payload's hook_event_name to its catalog entry.
func EventByName(name string) (EventInfo, bool) {
	for _, info := range AllEvents() {
		if info.Name == name {
			return info, true
		}
	}
	return EventInfo{}, false
}

// ValidEventNames returns the names of all recognized events.
func ValidEventNames() []string {
	events := AllEvents()
	names := make([]string, len(events))
	for i, event := range events {
		names[i] = event.Name
	}
	return names
}

// IsValidEventName reports whether name is a recognized lifecycle event.
func IsValidEventName(name string) bool {
	_, ok := EventByName(name)
	return ok
}
