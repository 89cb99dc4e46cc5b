// Package config resolves Hookwarden's effective configuration by overlaying
// the global scope, then the project scope, then environment overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Universal option keys recognized for every hook in addition to its own
// declared option set.
const (
	OptionMatcher = "matcher"
	OptionTimeout = "timeout"
)

// Options is the raw option object configured for one hook. Values come from
// JSON or TOML decoding, so numbers may be float64 or int64.
type Options map[string]any

// String returns the option as a string, or def when absent or mistyped.
func (o Options) String(key, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// Int returns the option as an int, tolerating the numeric types both
// decoders produce.
func (o Options) Int(key string, def int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Bool returns the option as a bool, or def when absent or mistyped.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}

// StringSlice returns the option as a string slice. Both decoders produce
// []any for arrays; a plain string is treated as a single-element slice.
func (o Options) StringSlice(key string) []string {
	switch v := o[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{v}
	}
	return nil
}

// File is the on-disk configuration document for one scope. Unknown top-level
// fields, hook names and option keys are tolerated, never errors, so older
// binaries keep working against newer files.
type File struct {
	Hooks   map[string]Options `json:"hooks" toml:"hooks"`
	Logging *RotationConfig    `json:"logging" toml:"logging"`
}

// Effective is the merged configuration for one invocation. It is recomputed
// on every dispatch; nothing is cached across processes.
type Effective struct {
	Hooks   map[string]Options
	Logging RotationConfig
	// Sources lists the scope files that contributed, for diagnostics.
	Sources []string
}

// LoadEffective merges the global scope, then the project scope rooted at
// root. Missing files are fine; a file that exists but does not parse is an
// error (a present-but-broken config should not silently vanish).
func LoadEffective(root string) (*Effective, error) {
	eff := &Effective{
		Hooks:   map[string]Options{},
		Logging: DefaultRotationConfig(),
	}

	global, globalPath, err := loadScope(GlobalConfigCandidates())
	if err != nil {
		return nil, err
	}
	project, projectPath, err := loadScope(ProjectConfigCandidates(root))
	if err != nil {
		return nil, err
	}

	for _, scope := range []*File{global, project} {
		if scope == nil {
			continue
		}
		for name, opts := range scope.Hooks {
			merged, ok := eff.Hooks[name]
			if !ok {
				merged = Options{}
				eff.Hooks[name] = merged
			}
			for k, v := range opts {
				merged[k] = v
			}
		}
		if scope.Logging != nil {
			eff.Logging = scope.Logging.withDefaults()
		}
	}
	for _, p := range []string{globalPath, projectPath} {
		if p != "" {
			eff.Sources = append(eff.Sources, p)
		}
	}
	return eff, nil
}

// Configured reports whether any scope binds the hook.
func (e *Effective) Configured(name string) bool {
	_, ok := e.Hooks[name]
	return ok
}

// ConfiguredNames returns the bound hook names in no particular order.
func (e *Effective) ConfiguredNames() []string {
	names := make([]string, 0, len(e.Hooks))
	for name := range e.Hooks {
		names = append(names, name)
	}
	return names
}

// HookOptions resolves the effective options for one hook: configured values
// restricted to the declared keys (plus the universal matcher/timeout keys),
// then environment overrides on top. The second return is false when no scope
// binds the hook at all.
func (e *Effective) HookOptions(name string, declared []string) (Options, bool) {
	raw, ok := e.Hooks[name]
	if !ok {
		return nil, false
	}
	keys := append([]string{OptionMatcher, OptionTimeout}, declared...)
	out := Options{}
	for _, key := range keys {
		if v, exists := raw[key]; exists {
			out[key] = v
		}
		if env, exists := os.LookupEnv(EnvKey(name, key)); exists {
			out[key] = parseEnvValue(env)
		}
	}
	return out, true
}

// EnvKey returns the environment variable overriding one hook option, e.g.
// EnvKey("file-guard", "extraPatterns") = "HOOKWARDEN_FILE_GUARD_EXTRA_PATTERNS".
func EnvKey(hook, option string) string {
	return envPrefix + envToken(hook) + "_" + envToken(option)
}

const envPrefix = "HOOKWARDEN_"

func envToken(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '-' || r == '_' || r == '.':
			b.WriteByte('_')
		case r >= 'A' && r <= 'Z':
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String())
}

// parseEnvValue decodes an override value: JSON when it parses (numbers,
// booleans, arrays), otherwise the raw string.
func parseEnvValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

// loadScope reads the first candidate path that exists. JSON candidates are
// listed before TOML ones, so JSON wins when both are present.
func loadScope(candidates []string) (*File, string, error) {
	for _, path := range candidates {
		data, err := os.ReadFile(path) // #nosec G304 -- candidate paths are internally constructed
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("reading config %s: %w", path, err)
		}
		var f File
		if strings.HasSuffix(path, ".toml") {
			if err := toml.Unmarshal(data, &f); err != nil {
				return nil, "", fmt.Errorf("parsing config %s: %w", path, err)
			}
		} else {
			if err := json.Unmarshal(data, &f); err != nil {
				return nil, "", fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
		return &f, path, nil
	}
	return nil, "", nil
}
