package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hookwarden/hookwarden/internal/config"
)

func clearSessionEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HOOKWARDEN_SESSION_ID", "CLAUDE_SESSION_ID",
		"ITERM_SESSION_ID", "TERM_SESSION_ID", "TMUX_PANE", "WINDOWID",
	} {
		t.Setenv(key, "")
	}
}

func TestResolveIDExplicitEnvWins(t *testing.T) {
	clearSessionEnv(t)
	t.Setenv("HOOKWARDEN_SESSION_ID", "explicit-id")
	t.Setenv("CLAUDE_SESSION_ID", "host-id")

	if got := ResolveID(t.TempDir()); got != "explicit-id" {
		t.Errorf("ResolveID = %q, want explicit-id", got)
	}
}

func TestResolveIDHostEnvSecond(t *testing.T) {
	clearSessionEnv(t)
	t.Setenv("CLAUDE_SESSION_ID", "host-id")

	if got := ResolveID(t.TempDir()); got != "host-id" {
		t.Errorf("ResolveID = %q, want host-id", got)
	}
}

func TestFromTerminalDeterministic(t *testing.T) {
	clearSessionEnv(t)
	t.Setenv("TMUX_PANE", "%3")

	first, ok := FromTerminal()
	if !ok {
		t.Fatal("terminal strategy should resolve")
	}
	second, _ := FromTerminal()
	if first != second {
		t.Errorf("terminal id not deterministic: %q vs %q", first, second)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Errorf("terminal id is not a UUID: %q", first)
	}
}

func TestFromTranscriptsPicksNewest(t *testing.T) {
	clearSessionEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	root := t.TempDir()

	abs, err := filepath.Abs(root)
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(home, ".claude", "projects", config.SanitizeProjectPath(abs))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}

	oldID := uuid.NewSHA1(uuid.NameSpaceURL, []byte("old")).String()
	newID := uuid.NewSHA1(uuid.NameSpaceURL, []byte("new")).String()
	for name, age := range map[string]time.Duration{
		oldID + ".jsonl": 2 * time.Hour,
		newID + ".jsonl": time.Minute,
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("{}\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		at := time.Now().Add(-age)
		if err := os.Chtimes(path, at, at); err != nil {
			t.Fatal(err)
		}
	}
	// Non-transcript files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.jsonl"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, ok := FromTranscripts(root)()
	if !ok {
		t.Fatal("transcript strategy should resolve")
	}
	if got != newID {
		t.Errorf("transcript id = %q, want newest %q", got, newID)
	}
}

func TestStableFallback(t *testing.T) {
	a, ok := StableFallback("/work/project-a")()
	if !ok {
		t.Fatal("fallback must always resolve")
	}
	b, _ := StableFallback("/work/project-a")()
	if a != b {
		t.Errorf("fallback not stable: %q vs %q", a, b)
	}
	other, _ := StableFallback("/work/project-b")()
	if a == other {
		t.Error("different projects should get different fallback ids")
	}
}

func TestResolveIDFallsThroughToStableHash(t *testing.T) {
	clearSessionEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	root := t.TempDir()

	want, _ := StableFallback(root)()
	if got := ResolveID(root); got != want {
		t.Errorf("ResolveID = %q, want fallback %q", got, want)
	}
}
