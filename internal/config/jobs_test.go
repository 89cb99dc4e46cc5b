package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeJobs(t *testing.T, baseDir, content string) {
	t.Helper()
	dir := filepath.Join(baseDir, ".claude", "hookwarden")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "jobs.yml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadJobsProjectReplacesEvent(t *testing.T) {
	home := t.TempDir()
	root := t.TempDir()
	t.Setenv("HOME", home)

	writeJobs(t, home, `
PostToolUse:
  - name: global-fmt
    run: gofmt -l .
SessionStart:
  - name: greet
    run: echo hello
`)
	writeJobs(t, root, `
PostToolUse:
  - name: project-lint
    run: make lint
`)

	cfg, err := LoadJobs(root)
	if err != nil {
		t.Fatalf("LoadJobs: %v", err)
	}
	post := cfg["PostToolUse"]
	if len(post) != 1 || post[0].Name != "project-lint" {
		t.Errorf("project file should replace the event's job list, got %v", post)
	}
	start := cfg["SessionStart"]
	if len(start) != 1 || start[0].Name != "greet" {
		t.Errorf("untouched global events should survive, got %v", start)
	}
}

func TestLoadJobsMissingFiles(t *testing.T) {
	home := t.TempDir()
	root := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := LoadJobs(root)
	if err != nil {
		t.Fatalf("missing jobs files must not error: %v", err)
	}
	if len(cfg) != 0 {
		t.Errorf("expected empty config, got %v", cfg)
	}
}

func TestValidateJobs(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     JobsConfig
		wantErr bool
	}{
		{"valid", JobsConfig{"PreToolUse": {{Name: "a", Run: "true"}}}, false},
		{"missing name", JobsConfig{"PreToolUse": {{Run: "true"}}}, true},
		{"missing run", JobsConfig{"PreToolUse": {{Name: "a"}}}, true},
		{"duplicate name", JobsConfig{"Stop": {{Name: "a", Run: "x"}, {Name: "a", Run: "y"}}}, true},
		{"negative timeout", JobsConfig{"Stop": {{Name: "a", Run: "x", Timeout: -1}}}, true},
		{"bad glob", JobsConfig{"PostToolUse": {{Name: "a", Run: "x", Glob: "[unterminated"}}}, true},
		{"unknown event tolerated", JobsConfig{"SomeFutureEvent": {{Name: "a", Run: "x"}}}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateJobs(tc.cfg)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateJobs() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
