package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hookwarden/hookwarden/internal/constants"
)

// StateDir returns the per-user state directory following the XDG Base
// Directory Specification ($XDG_STATE_HOME, default ~/.local/state).
func StateDir() string {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			base = ".local/state"
		} else {
			base = filepath.Join(homeDir, ".local", "state")
		}
	}
	return filepath.Join(base, constants.StateDirName)
}

// SessionsDir returns the directory holding one state file per session.
// Session files live outside the project tree so they are never
// version-controlled and never shared between users.
func SessionsDir() string {
	return filepath.Join(StateDir(), constants.SessionsDir)
}

// SessionArchiveDir returns where pruned session files are archived.
func SessionArchiveDir() string {
	return filepath.Join(SessionsDir(), constants.ArchiveDir)
}

// EnsureStateDirs creates the state directories user-only accessible.
func EnsureStateDirs() error {
	for _, dir := range []string{StateDir(), SessionsDir()} {
		if err := os.MkdirAll(dir, 0o750); err != nil { // #nosec G301 - state directories should be user-only accessible
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GlobalConfigCandidates returns the global-scope config paths in precedence
// order (JSON before TOML).
func GlobalConfigCandidates() []string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		constants.GetConfigPath(homeDir),
		constants.GetTOMLConfigPath(homeDir),
	}
}

// ProjectConfigCandidates returns the project-scope config paths in
// precedence order (JSON before TOML).
func ProjectConfigCandidates(root string) []string {
	return []string{
		constants.GetConfigPath(root),
		constants.GetTOMLConfigPath(root),
	}
}

// HostProjectsDir returns the host assistant's transcript root
// (~/.claude/projects).
func HostProjectsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, constants.ClaudeDir, "projects"), nil
}

// TranscriptsDir returns the host's transcript directory for a project path.
func TranscriptsDir(projectPath string) (string, error) {
	base, err := HostProjectsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, SanitizeProjectPath(projectPath)), nil
}

// SanitizeProjectPath converts an absolute project path to the host's
// transcript directory name: every byte outside [A-Za-z0-9] becomes a hyphen,
// so /home/user/my.project maps to -home-user-my-project.
func SanitizeProjectPath(projectPath string) string {
	out := make([]byte, 0, len(projectPath))
	for i := 0; i < len(projectPath); i++ {
		c := projectPath[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			out = append(out, c)
		} else {
			out = append(out, '-')
		}
	}
	// Cap the name to stay clear of filesystem limits.
	if len(out) > 200 {
		out = out[:200]
	}
	return string(out)
}
