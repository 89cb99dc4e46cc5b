package ignore

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// RecognizedFiles lists the ignore-file names consulted in the project root,
// in merge order. Every file present contributes its rules; the merged set is
// the union of protection, not whichever file happens to be found first.
var RecognizedFiles = []string{
	".agentignore",
	".aiignore",
	".aiexclude",
	".geminiignore",
	".codeiumignore",
	".cursorignore",
}

// DefaultSource labels rules from the embedded default set in deny reasons.
const DefaultSource = "built-in defaults"

//go:embed defaults.ignore
var defaultRules string

// Set is an ordered collection of rules merged from one or more sources.
// Evaluation follows gitignore semantics: every rule is consulted in merge
// order and the last rule that matches decides.
type Set struct {
	patterns []Pattern
	sources  []string
}

// AddPatterns appends the given lines under a named source. Blank lines and
// comments are dropped.
func (s *Set) AddPatterns(source string, lines []string) {
	for _, line := range lines {
		if p, ok := ParseLine(line, source); ok {
			s.patterns = append(s.patterns, p)
		}
	}
	s.sources = append(s.sources, source)
}

// Len returns the number of rules in the set.
func (s *Set) Len() int { return len(s.patterns) }

// Sources returns the source labels in merge order.
func (s *Set) Sources() []string { return s.sources }

// Verdict is the outcome of evaluating a path against the set.
type Verdict struct {
	Ignored bool
	// Rule is the last rule that matched, negated or not; nil when no rule
	// matched at all.
	Rule *Pattern
}

// Evaluate walks all rules in merge order and returns the verdict of the last
// match. A negated rule occurring after a blocking rule re-allows the path.
func (s *Set) Evaluate(relPath string, isDir bool) Verdict {
	relPath = strings.TrimPrefix(filepath.ToSlash(relPath), "./")
	var v Verdict
	for i := range s.patterns {
		p := &s.patterns[i]
		if p.Match(relPath, isDir) {
			v.Ignored = !p.Negated
			v.Rule = p
		}
	}
	return v
}

// LoadProject builds the merged set for a project root: every recognized
// ignore file present contributes in RecognizedFiles order, and the embedded
// default set applies only when no recognized file exists.
func LoadProject(root string) (*Set, error) {
	s := &Set{}
	found := false
	for _, name := range RecognizedFiles {
		data, err := os.ReadFile(filepath.Join(root, name)) // #nosec G304 -- fixed names under the project root
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		found = true
		s.AddPatterns(name, strings.Split(string(data), "\n"))
	}
	if !found {
		s.AddPatterns(DefaultSource, strings.Split(defaultRules, "\n"))
	}
	return s, nil
}
