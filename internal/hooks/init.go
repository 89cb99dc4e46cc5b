package hooks

import "github.com/hookwarden/hookwarden/internal/core"

// init registers the built-in hooks. Slice order is dispatch order:
// the guard goes first so a denial is decided before anything with
// side effects runs, and audit goes last so it records the event even
// when an earlier hook denied.
func init() {
	core.RegisterBuiltinHooks([]core.Registration{
		{
			Descriptor: core.Descriptor{
				Key:         "file-guard",
				Name:        "File Access Guard",
				Description: "Blocks access to files matched by the project's ignore patterns",
				Events:      []core.EventType{core.PreToolUseEvent},
				Options: []core.OptionSpec{
					{Name: "extraPatterns", Type: "[]string", Usage: "Patterns appended after all ignore files"},
				},
				Blocking:   true,
				AlwaysRun:  true,
				FailClosed: true,
			},
			Factory: NewFileGuardHook,
		},
		{
			Descriptor: core.Descriptor{
				Key:         "custom",
				Name:        "Custom Jobs",
				Description: "Runs user-defined commands from the jobs file for each event",
				Events: []core.EventType{
					core.PreToolUseEvent, core.PostToolUseEvent,
					core.UserPromptSubmitEvent, core.SessionStartEvent, core.StopEvent,
				},
				Blocking: true,
			},
			Factory: NewCustomHook,
		},
		{
			Descriptor: core.Descriptor{
				Key:         "project-index",
				Name:        "Project Indexer",
				Description: "Runs a configured index-refresh command, debounced per session",
				Events:      []core.EventType{core.SessionStartEvent, core.PostToolUseEvent},
				Options: []core.OptionSpec{
					{Name: "command", Type: "string", Usage: "Shell command refreshing the index"},
					{Name: "cooldown", Type: "int", Default: defaultIndexCooldownSeconds, Usage: "Seconds between runs per session"},
				},
			},
			Factory: NewProjectIndexHook,
		},
		{
			Descriptor: core.Descriptor{
				Key:         "git-context",
				Name:        "Git Context",
				Description: "Injects branch, dirty-file count and last commit into the session",
				Events:      []core.EventType{core.UserPromptSubmitEvent, core.SessionStartEvent},
			},
			Factory: NewGitContextHook,
		},
		{
			Descriptor: core.Descriptor{
				Key:         "audit",
				Name:        "Audit Trail",
				Description: "Appends every observed event to a rotating JSONL audit log",
				Events: []core.EventType{
					core.PreToolUseEvent, core.PostToolUseEvent,
					core.UserPromptSubmitEvent, core.SessionStartEvent, core.StopEvent,
				},
			},
			Factory: NewAuditHook,
		},
	})
}
