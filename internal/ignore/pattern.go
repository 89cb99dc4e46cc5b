// Package ignore implements gitignore-style pattern matching with negation,
// used to decide which project paths are off limits to the host's tools.
package ignore

import (
	"path/filepath"
	"strings"
)

// Pattern is one parsed ignore rule. Rules follow gitignore syntax: `#`
// comments, `!` negation, trailing `/` for directory-only rules, `*`/`?`/
// `[...]` globs, `**` spanning directories, and a leading or embedded `/`
// anchoring the rule to the project root.
type Pattern struct {
	// Rule is the line as written, kept for deny explanations.
	Rule string
	// Source names the ignore file (or other origin) the rule came from.
	Source  string
	Negated bool

	dirOnly  bool
	anchored bool
	segs     []string
}

// ParseLine parses a single ignore-file line. The second return is false for
// blank lines and comments, which carry no rule.
func ParseLine(line, source string) (Pattern, bool) {
	line = trimTrailingSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Pattern{}, false
	}

	p := Pattern{Rule: line, Source: source}
	if strings.HasPrefix(line, "!") {
		p.Negated = true
		line = line[1:]
	}
	// \# and \! escape a literal leading character.
	if strings.HasPrefix(line, `\#`) || strings.HasPrefix(line, `\!`) {
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.anchored = true
		line = strings.TrimPrefix(line, "/")
	} else if strings.Contains(line, "/") {
		p.anchored = true
	}
	if line == "" {
		return Pattern{}, false
	}
	p.segs = strings.Split(line, "/")
	return p, true
}

// Match reports whether the rule applies to relPath, a slash-separated path
// relative to the project root. A rule matching a directory component also
// covers everything beneath it; dirOnly rules match the path itself only when
// isDir is true.
func (p Pattern) Match(relPath string, isDir bool) bool {
	if relPath == "" || relPath == "." {
		return false
	}
	segs := strings.Split(relPath, "/")

	if p.anchored {
		for end := 1; end <= len(segs); end++ {
			if !matchSegments(p.segs, segs[:end]) {
				continue
			}
			if end < len(segs) {
				return true
			}
			return !p.dirOnly || isDir
		}
		return false
	}

	// Unanchored rules are single-segment and float to any path level.
	glob := p.segs[0]
	for i, seg := range segs {
		ok, err := filepath.Match(glob, seg)
		if err != nil || !ok {
			continue
		}
		if i < len(segs)-1 {
			return true
		}
		return !p.dirOnly || isDir
	}
	return false
}

// matchSegments matches pattern segments against path segments, with a bare
// `**` segment spanning zero or more path segments.
func matchSegments(pat, path []string) bool {
	if len(pat) == 0 {
		return len(path) == 0
	}
	if pat[0] == "**" {
		if matchSegments(pat[1:], path) {
			return true
		}
		if len(path) > 0 {
			return matchSegments(pat, path[1:])
		}
		return false
	}
	if len(path) == 0 {
		return false
	}
	ok, err := filepath.Match(pat[0], path[0])
	if err != nil || !ok {
		return false
	}
	return matchSegments(pat[1:], path[1:])
}

// trimTrailingSpace strips unescaped trailing spaces per gitignore rules.
func trimTrailingSpace(line string) string {
	for strings.HasSuffix(line, " ") && !strings.HasSuffix(line, `\ `) {
		line = strings.TrimSuffix(line, " ")
	}
	return strings.ReplaceAll(line, `\ `, " ")
}
