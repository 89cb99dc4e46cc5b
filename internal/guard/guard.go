// Package guard implements the file-access guard: a merged ignore-pattern
// set evaluated against symlink-resolved paths, with traversal blocking and
// a bounded scanner for file references inside shell command strings.
package guard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hookwarden/hookwarden/internal/ignore"
)

// ExtraSource labels configuration-supplied patterns in deny reasons.
const ExtraSource = "extraPatterns configuration"

// Verdict is the guard's decision about one path or command.
type Verdict struct {
	Allowed bool
	// Reason explains a denial: which rule from which source, or why the
	// path could not be safely resolved. Empty on allow.
	Reason string
}

func allow() Verdict {
	return Verdict{Allowed: true}
}

func deny(format string, args ...any) Verdict {
	return Verdict{Reason: fmt.Sprintf(format, args...)}
}

// Guard evaluates file access against the project's merged ignore set.
// It never mutates ignore files; they are read once at construction.
type Guard struct {
	root string
	set  *ignore.Set
}

// New builds a guard for the project root. Every recognized ignore file
// present contributes to the set; extraPatterns are appended last so they
// take precedence over file rules.
func New(root string, extraPatterns []string) (*Guard, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}
	// A symlinked root (e.g. /tmp on macOS) must compare equal to the
	// resolved candidate paths.
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	set, err := ignore.LoadProject(abs)
	if err != nil {
		return nil, err
	}
	if len(extraPatterns) > 0 {
		set.AddPatterns(ExtraSource, extraPatterns)
	}
	return &Guard{root: abs, set: set}, nil
}

// Root returns the resolved project root the guard evaluates against.
func (g *Guard) Root() string { return g.root }

// Set returns the merged pattern set, for diagnostics.
func (g *Guard) Set() *ignore.Set { return g.set }

// CheckPath decides whether a file-tool access to path is allowed. The
// path is resolved (home expansion, root-relative join, symlink
// resolution) before the pattern set is consulted, and a resolved path
// escaping the project root is denied outright regardless of patterns.
func (g *Guard) CheckPath(path string) Verdict {
	resolved, err := g.resolve(path)
	if err != nil {
		return deny("cannot resolve %q: %v", path, err)
	}
	rel, inside := g.relativize(resolved)
	if !inside {
		return deny("%q resolves outside the project root (%s)", path, resolved)
	}
	return g.evaluate(path, rel, isDir(resolved))
}

// checkToken decides for a path token recovered from a shell command.
// Unlike CheckPath, a token outside the root is not denied outright
// (command arguments routinely name system paths), but it is still
// matched against the set as an absolute path, so floating rules such
// as ".ssh/" or "id_rsa*" keep covering it.
func (g *Guard) checkToken(token string) Verdict {
	resolved, err := g.resolve(token)
	if err != nil {
		return deny("cannot resolve %q: %v", token, err)
	}
	rel, inside := g.relativize(resolved)
	if !inside {
		rel = strings.TrimPrefix(filepath.ToSlash(resolved), "/")
	}
	return g.evaluate(token, rel, isDir(resolved))
}

func (g *Guard) evaluate(shown, rel string, dir bool) Verdict {
	v := g.set.Evaluate(rel, dir)
	if v.Ignored {
		return deny("%q is blocked by %s: %q", shown, v.Rule.Source, v.Rule.Rule)
	}
	return allow()
}

// resolve normalizes a candidate path: home expansion, join against the
// project root when relative, and symlink resolution through the deepest
// existing ancestor, so a symlink cannot smuggle access to a denied
// target and `..` segments cannot hide an escape.
func (g *Guard) resolve(path string) (string, error) {
	path = expandHome(path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(g.root, path)
	}
	return resolveSymlinks(filepath.Clean(path))
}

// relativize maps an absolute resolved path to its root-relative,
// slash-separated form. The second return is false when the path lies
// outside the project root.
func (g *Guard) relativize(resolved string) (string, bool) {
	rel, err := filepath.Rel(g.root, resolved)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// resolveSymlinks resolves path through its deepest existing ancestor,
// so not-yet-created files (a Write target) still get their parent
// directories resolved.
func resolveSymlinks(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	parent := filepath.Dir(path)
	if parent == path {
		return path, nil
	}
	resolvedParent, err := resolveSymlinks(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(path)), nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
