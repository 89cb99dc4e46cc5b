// Package session owns session identity, per-session persisted state, and
// the session-scoped enable/disable resolver.
package session

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hookwarden/hookwarden/internal/config"
	"github.com/hookwarden/hookwarden/internal/constants"
)

// Strategy resolves a session id. The second return is false when the
// strategy has no opinion, letting the next strategy try.
type Strategy func() (string, bool)

// ResolveID runs the default strategy chain for a project root. The final
// strategy cannot fail, so the result is never empty.
func ResolveID(root string) string {
	for _, s := range DefaultStrategies(root) {
		if id, ok := s(); ok {
			return id
		}
	}
	// Unreachable: the fallback strategy always resolves.
	return derivedID("fallback", root)
}

// DefaultStrategies returns the ordered resolution chain: explicit
// environment variable, terminal-session-derived UUID, transcript-location
// search, then a stable hash of host and project path.
func DefaultStrategies(root string) []Strategy {
	return []Strategy{
		FromEnv,
		FromTerminal,
		FromTranscripts(root),
		StableFallback(root),
	}
}

// FromEnv reads an explicitly provided session id.
func FromEnv() (string, bool) {
	for _, key := range []string{constants.EnvSessionID, constants.EnvHostSessionID} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v, true
		}
	}
	return "", false
}

// FromTerminal derives a deterministic UUID from the surrounding terminal
// session, so every invocation inside one terminal agrees on the id.
func FromTerminal() (string, bool) {
	for _, key := range []string{"ITERM_SESSION_ID", "TERM_SESSION_ID", "TMUX_PANE", "WINDOWID"} {
		if v := os.Getenv(key); v != "" {
			return derivedID("terminal/"+key, v), true
		}
	}
	return "", false
}

// FromTranscripts looks for the newest transcript the host wrote for this
// project; transcript basenames are the host's session UUIDs.
func FromTranscripts(root string) Strategy {
	return func() (string, bool) {
		abs, err := filepath.Abs(root)
		if err != nil {
			return "", false
		}
		dir, err := config.TranscriptsDir(abs)
		if err != nil {
			return "", false
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return "", false
		}

		var newestID string
		var newestMod int64
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".jsonl" {
				continue
			}
			id := strings.TrimSuffix(entry.Name(), ".jsonl")
			if _, err := uuid.Parse(id); err != nil {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if mod := info.ModTime().UnixNano(); newestID == "" || mod > newestMod {
				newestID, newestMod = id, mod
			}
		}
		return newestID, newestID != ""
	}
}

// StableFallback hashes host and project path into a UUID. It always
// resolves, terminating the chain.
func StableFallback(root string) Strategy {
	return func() (string, bool) {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "localhost"
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			abs = root
		}
		return derivedID("host", hostname+":"+abs), true
	}
}

func derivedID(kind, value string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("hookwarden://"+kind+"/"+value)).String()
}
