package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, baseDir, name, content string) {
	t.Helper()
	dir := filepath.Join(baseDir, ".claude", "hooks")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadEffectiveMergeOrder(t *testing.T) {
	home := t.TempDir()
	root := t.TempDir()
	t.Setenv("HOME", home)

	writeConfig(t, home, "hookwarden.json", `{
		"hooks": {
			"file-guard": {"timeout": 10, "extraPatterns": ["*.global"]},
			"audit": {}
		}
	}`)
	writeConfig(t, root, "hookwarden.json", `{
		"hooks": {
			"file-guard": {"timeout": 20}
		}
	}`)

	eff, err := LoadEffective(root)
	if err != nil {
		t.Fatalf("LoadEffective: %v", err)
	}

	opts, ok := eff.HookOptions("file-guard", []string{"extraPatterns"})
	if !ok {
		t.Fatal("file-guard should be configured")
	}
	if got := opts.Int(OptionTimeout, 0); got != 20 {
		t.Errorf("project timeout should win, got %d", got)
	}
	if got := opts.StringSlice("extraPatterns"); len(got) != 1 || got[0] != "*.global" {
		t.Errorf("global extraPatterns should survive per-key merge, got %v", got)
	}
	if !eff.Configured("audit") {
		t.Error("audit should remain configured from the global scope")
	}
	if len(eff.Sources) != 2 {
		t.Errorf("expected two contributing scope files, got %v", eff.Sources)
	}
}

func TestEnvOverrideBeatsProject(t *testing.T) {
	home := t.TempDir()
	root := t.TempDir()
	t.Setenv("HOME", home)

	writeConfig(t, root, "hookwarden.json", `{"hooks": {"file-guard": {"timeout": 20}}}`)
	t.Setenv("HOOKWARDEN_FILE_GUARD_TIMEOUT", "30")

	eff, err := LoadEffective(root)
	if err != nil {
		t.Fatalf("LoadEffective: %v", err)
	}
	opts, _ := eff.HookOptions("file-guard", nil)
	if got := opts.Int(OptionTimeout, 0); got != 30 {
		t.Errorf("env override should win, got %d", got)
	}
}

func TestHookOptionsIgnoresUnknownKeys(t *testing.T) {
	home := t.TempDir()
	root := t.TempDir()
	t.Setenv("HOME", home)

	writeConfig(t, root, "hookwarden.json", `{
		"hooks": {"audit": {"bogus": true, "matcher": "Bash"}},
		"futureSection": {"x": 1}
	}`)

	eff, err := LoadEffective(root)
	if err != nil {
		t.Fatalf("unknown keys must not fail loading: %v", err)
	}
	opts, ok := eff.HookOptions("audit", nil)
	if !ok {
		t.Fatal("audit should be configured")
	}
	if _, present := opts["bogus"]; present {
		t.Error("undeclared option keys should be dropped")
	}
	if got := opts.String(OptionMatcher, ""); got != "Bash" {
		t.Errorf("matcher = %q, want Bash", got)
	}
}

func TestLoadEffectiveTOMLScope(t *testing.T) {
	home := t.TempDir()
	root := t.TempDir()
	t.Setenv("HOME", home)

	writeConfig(t, root, "hookwarden.toml", "[hooks.file-guard]\ntimeout = 15\n\n[logging]\nmaxSizeMB = 50\n")

	eff, err := LoadEffective(root)
	if err != nil {
		t.Fatalf("LoadEffective: %v", err)
	}
	opts, ok := eff.HookOptions("file-guard", nil)
	if !ok {
		t.Fatal("file-guard should be configured from TOML")
	}
	if got := opts.Int(OptionTimeout, 0); got != 15 {
		t.Errorf("timeout = %d, want 15", got)
	}
	if eff.Logging.MaxSizeMB != 50 {
		t.Errorf("MaxSizeMB = %d, want 50", eff.Logging.MaxSizeMB)
	}
	if eff.Logging.MaxBackups != 5 {
		t.Errorf("unset logging fields should default, MaxBackups = %d", eff.Logging.MaxBackups)
	}
}

func TestLoadEffectiveBrokenFileFails(t *testing.T) {
	home := t.TempDir()
	root := t.TempDir()
	t.Setenv("HOME", home)

	writeConfig(t, root, "hookwarden.json", `{"hooks": `)

	if _, err := LoadEffective(root); err == nil {
		t.Fatal("a present but unparseable config must not be silently ignored")
	}
}

func TestEnvKey(t *testing.T) {
	testCases := []struct {
		hook, option, want string
	}{
		{"file-guard", "timeout", "HOOKWARDEN_FILE_GUARD_TIMEOUT"},
		{"file-guard", "extraPatterns", "HOOKWARDEN_FILE_GUARD_EXTRA_PATTERNS"},
		{"audit", "matcher", "HOOKWARDEN_AUDIT_MATCHER"},
	}
	for _, tc := range testCases {
		if got := EnvKey(tc.hook, tc.option); got != tc.want {
			t.Errorf("EnvKey(%q, %q) = %q, want %q", tc.hook, tc.option, got, tc.want)
		}
	}
}

func TestOptionsTypedGetters(t *testing.T) {
	o := Options{
		"a": float64(7),
		"b": int64(8),
		"c": []any{"x", "y"},
		"d": "solo",
		"e": true,
	}
	if got := o.Int("a", 0); got != 7 {
		t.Errorf("Int(a) = %d", got)
	}
	if got := o.Int("b", 0); got != 8 {
		t.Errorf("Int(b) = %d", got)
	}
	if got := o.Int("missing", 42); got != 42 {
		t.Errorf("Int default = %d", got)
	}
	if got := o.StringSlice("c"); len(got) != 2 || got[1] != "y" {
		t.Errorf("StringSlice(c) = %v", got)
	}
	if got := o.StringSlice("d"); len(got) != 1 || got[0] != "solo" {
		t.Errorf("StringSlice(d) = %v", got)
	}
	if !o.Bool("e", false) {
		t.Error("Bool(e) = false")
	}
}
