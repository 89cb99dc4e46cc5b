package constants

import "path/filepath"

// Application constants - single source of truth for naming throughout the codebase
const (
	// Core application identity
	AppName    = "Hookwarden"
	BinaryName = "hookwarden"

	// Module and repository
	ModulePath    = "github.com/hookwarden/hookwarden"
	RepositoryURL = "https://github.com/hookwarden/hookwarden"

	// Configuration files
	ConfigFileName     = "hookwarden.json"
	ConfigFileNameTOML = "hookwarden.toml"
	JobsFileName       = "jobs.yml"

	// Log files
	AuditLogFile    = "audit.jsonl"
	DispatchLogFile = "dispatch.jsonl"

	// Directory paths
	ClaudeDir    = ".claude"
	HooksSubDir  = "hooks"
	AppSubDir    = BinaryName
	StateDirName = BinaryName
	SessionsDir  = "sessions"
	ArchiveDir   = "archive"

	// Environment variables
	EnvSessionID     = "HOOKWARDEN_SESSION_ID"
	EnvHostSessionID = "CLAUDE_SESSION_ID"
	EnvDebug         = "HOOKWARDEN_DEBUG"
	EnvOptionPrefix  = "HOOKWARDEN_"

	// Dispatch limits
	DefaultHookTimeoutSeconds = 60
	MaxAdditionalContextBytes = 10000
	TruncationMarker          = "... [truncated]"
)

// Host tool names appearing in event payloads.
const (
	ToolBash         = "Bash"
	ToolEdit         = "Edit"
	ToolWrite        = "Write"
	ToolRead         = "Read"
	ToolNotebookEdit = "NotebookEdit"
	ToolGlob         = "Glob"
	ToolGrep         = "Grep"
)

// Process exit codes of the host hook protocol.
const (
	ExitAllow = 0
	ExitError = 1
	ExitDeny  = 2
)

// GetConfigPath returns the JSON config file path under baseDir.
func GetConfigPath(baseDir string) string {
	return filepath.Join(baseDir, ClaudeDir, HooksSubDir, ConfigFileName)
}

// GetTOMLConfigPath returns the TOML config file path under baseDir.
func GetTOMLConfigPath(baseDir string) string {
	return filepath.Join(baseDir, ClaudeDir, HooksSubDir, ConfigFileNameTOML)
}

// GetAppDir returns the per-project application directory (logs, jobs file).
func GetAppDir(baseDir string) string {
	return filepath.Join(baseDir, ClaudeDir, AppSubDir)
}
