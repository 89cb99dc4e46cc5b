package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hookwarden/hookwarden/internal/config"
	"github.com/hookwarden/hookwarden/internal/constants"
	_ "github.com/hookwarden/hookwarden/internal/hooks" // register built-ins
	"github.com/hookwarden/hookwarden/internal/session"
)

// setupProject points cwd, HOME and the state dir at temp locations so
// commands see only what the test wrote.
func setupProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Chdir(root)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv(constants.EnvSessionID, "cmd-test-session")
	return root
}

func writeProjectConfig(t *testing.T, root, content string) {
	t.Helper()
	path := constants.GetConfigPath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestDisableEnableRoundTrip(t *testing.T) {
	root := setupProject(t)
	writeProjectConfig(t, root, `{"hooks": {"file-guard": {}, "audit": {}}}`)

	if err := NewDisableCmd().Run(context.Background(), []string{"disable", "audit"}); err != nil {
		t.Fatalf("disable: %v", err)
	}
	store := session.NewStore(config.SessionsDir())
	st, err := store.Load("cmd-test-session")
	if err != nil {
		t.Fatal(err)
	}
	if !st.IsDisabled("audit") {
		t.Fatal("audit should be disabled after the command")
	}

	// Disabling again is a no-op success.
	if err := NewDisableCmd().Run(context.Background(), []string{"disable", "audit"}); err != nil {
		t.Fatalf("second disable: %v", err)
	}

	if err := NewEnableCmd().Run(context.Background(), []string{"enable", "audit"}); err != nil {
		t.Fatalf("enable: %v", err)
	}
	st, err = store.Load("cmd-test-session")
	if err != nil {
		t.Fatal(err)
	}
	if st.IsDisabled("audit") {
		t.Error("audit should be enabled again")
	}
}

func TestDisableAmbiguousPartialName(t *testing.T) {
	root := setupProject(t)
	writeProjectConfig(t, root, `{"hooks": {"typecheck-changed": {}, "typecheck-project": {}}}`)

	err := NewDisableCmd().Run(context.Background(), []string{"disable", "type"})
	var amb *session.AmbiguousError
	if !errors.As(err, &amb) {
		t.Fatalf("expected an ambiguity error, got %v", err)
	}
	if len(amb.Candidates) != 2 {
		t.Errorf("candidates = %v", amb.Candidates)
	}
}

func TestStatusUnknownName(t *testing.T) {
	root := setupProject(t)
	writeProjectConfig(t, root, `{"hooks": {"file-guard": {}}}`)

	// Registered but unconfigured resolves to not-configured; a name
	// nothing matches is not an error for status, it is the fourth state.
	if err := NewStatusCmd().Run(context.Background(), []string{"status", "git-context"}); err != nil {
		t.Errorf("status of a registered, unconfigured hook: %v", err)
	}
	if err := NewStatusCmd().Run(context.Background(), []string{"status", "no-such-hook-at-all"}); err != nil {
		t.Errorf("status of an unknown name reports not-found, not an error: %v", err)
	}
}

func TestSessionFlagOverridesResolution(t *testing.T) {
	root := setupProject(t)
	writeProjectConfig(t, root, `{"hooks": {"audit": {}}}`)

	err := NewDisableCmd().Run(context.Background(), []string{"disable", "--session", "other-session", "audit"})
	if err != nil {
		t.Fatalf("disable with --session: %v", err)
	}
	store := session.NewStore(config.SessionsDir())
	other, err := store.Load("other-session")
	if err != nil {
		t.Fatal(err)
	}
	if !other.IsDisabled("audit") {
		t.Error("--session should target the named session")
	}
	current, err := store.Load("cmd-test-session")
	if err != nil {
		t.Fatal(err)
	}
	if current.IsDisabled("audit") {
		t.Error("the resolved session must stay untouched")
	}
}
