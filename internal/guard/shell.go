package guard

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// CheckCommand decides whether a shell command string may run, by
// recovering the file arguments it would touch and checking each one
// against the pattern set. The command is parsed into an AST; simple
// variable assignments with statically-known values are collected, and
// every call expression's non-flag arguments and every redirect target
// are expanded (literals, quoting, $VAR/${VAR} substitution, a leading
// ~) before matching. Words that cannot be resolved statically
// (command substitution, arithmetic, unknown parameters) are skipped,
// a documented gap. An unparseable command is denied: the guard cannot
// vouch for what it cannot analyze.
func (g *Guard) CheckCommand(command string) Verdict {
	if strings.TrimSpace(command) == "" {
		return allow()
	}
	file, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return deny("command could not be analyzed: %v", err)
	}

	sc := &commandScanner{guard: g, vars: map[string]string{}, verdict: allow()}
	syntax.Walk(file, sc.visit)
	return sc.verdict
}

// commandScanner walks a shell AST in source order, accumulating
// variable assignments and checking each recovered path token.
type commandScanner struct {
	guard   *Guard
	vars    map[string]string
	verdict Verdict
}

func (s *commandScanner) visit(node syntax.Node) bool {
	if !s.verdict.Allowed {
		return false
	}
	switch n := node.(type) {
	case *syntax.Stmt:
		for _, redir := range n.Redirs {
			s.checkRedirect(redir)
		}
	case *syntax.CallExpr:
		for _, assign := range n.Assigns {
			s.recordAssign(assign)
		}
		// Args[0] is the command name; the rest may name files.
		if len(n.Args) > 1 {
			for _, word := range n.Args[1:] {
				s.checkWord(word)
			}
		}
	case *syntax.DeclClause:
		// export/declare/local carry assignments too.
		for _, assign := range n.Args {
			s.recordAssign(assign)
		}
	}
	return true
}

func (s *commandScanner) recordAssign(assign *syntax.Assign) {
	if assign.Name == nil || assign.Value == nil || assign.Append || assign.Array != nil || assign.Index != nil {
		return
	}
	if value, ok := s.expandWord(assign.Value); ok {
		s.vars[assign.Name.Value] = value
	}
}

// checkRedirect checks a redirect target; heredoc bodies and fd
// duplications carry no filename.
func (s *commandScanner) checkRedirect(redir *syntax.Redirect) {
	switch redir.Op {
	case syntax.Hdoc, syntax.DashHdoc, syntax.WordHdoc, syntax.DplIn, syntax.DplOut:
		return
	}
	s.checkWord(redir.Word)
}

func (s *commandScanner) checkWord(word *syntax.Word) {
	value, ok := s.expandWord(word)
	if !ok || value == "" || strings.HasPrefix(value, "-") {
		return
	}
	if v := s.guard.checkToken(value); !v.Allowed {
		s.verdict = v
	}
}

// expandWord resolves a word to its static string value. The second
// return is false when any part cannot be resolved without running the
// shell.
func (s *commandScanner) expandWord(word *syntax.Word) (string, bool) {
	if word == nil {
		return "", false
	}
	return s.expandParts(word.Parts)
}

func (s *commandScanner) expandParts(parts []syntax.WordPart) (string, bool) {
	var b strings.Builder
	for _, part := range parts {
		switch p := part.(type) {
		case *syntax.Lit:
			b.WriteString(p.Value)
		case *syntax.SglQuoted:
			b.WriteString(p.Value)
		case *syntax.DblQuoted:
			inner, ok := s.expandParts(p.Parts)
			if !ok {
				return "", false
			}
			b.WriteString(inner)
		case *syntax.ParamExp:
			value, ok := s.expandParam(p)
			if !ok {
				return "", false
			}
			b.WriteString(value)
		default:
			return "", false
		}
	}
	return b.String(), true
}

// expandParam resolves $VAR and ${VAR} against the collected
// assignments. Anything fancier (defaults, slicing, replacement,
// indirection) is not resolved statically.
func (s *commandScanner) expandParam(p *syntax.ParamExp) (string, bool) {
	if p.Excl || p.Length || p.Width || p.Index != nil || p.Slice != nil || p.Repl != nil || p.Exp != nil {
		return "", false
	}
	if p.Param == nil {
		return "", false
	}
	value, ok := s.vars[p.Param.Value]
	return value, ok
}
