package session

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Status is the session-scoped state of one hook name.
type Status string

const (
	// StatusEnabled: configured and not disabled in this session.
	StatusEnabled Status = "enabled"
	// StatusDisabled: configured, but this session disabled it.
	StatusDisabled Status = "disabled"
	// StatusNotConfigured: registered, but no configuration scope binds it.
	StatusNotConfigured Status = "not-configured"
	// StatusNotFound: no registered hook matches, even fuzzily.
	StatusNotFound Status = "not-found"
)

// AmbiguousError reports a partial name matching several hooks. No candidate
// is ever chosen automatically.
type AmbiguousError struct {
	Input      string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("hook name %q is ambiguous: matches %s", e.Input, strings.Join(e.Candidates, ", "))
}

// NotFoundError reports a name matching nothing, with the configured names as
// a suggestion aid, most similar first.
type NotFoundError struct {
	Input       string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("no hook matches %q (none are configured)", e.Input)
	}
	return fmt.Sprintf("no hook matches %q; configured hooks: %s", e.Input, strings.Join(e.Suggestions, ", "))
}

// Controller resolves hook names and mutates the current session's
// disabled set. It only ever writes this session's state file; shared
// configuration is read-only to it.
type Controller struct {
	store      *Store
	id         string
	configured []string
	registered []string
}

// NewController builds a resolver for one session. configured holds the hook
// names bound by the effective configuration, registered the full registry.
func NewController(store *Store, id string, configured, registered []string) *Controller {
	cfg := append([]string(nil), configured...)
	sort.Strings(cfg)
	reg := append([]string(nil), registered...)
	sort.Strings(reg)
	return &Controller{store: store, id: id, configured: cfg, registered: reg}
}

// SessionID returns the session this controller operates on.
func (c *Controller) SessionID() string { return c.id }

// Resolve maps a user-supplied partial name to one configured hook name:
// exact match first, then a case-insensitive substring match that must be
// unique. Multiple candidates are an AmbiguousError; zero candidates a
// NotFoundError carrying ranked suggestions.
func (c *Controller) Resolve(input string) (string, error) {
	return resolveName(input, c.configured)
}

func resolveName(input string, names []string) (string, error) {
	if slices.Contains(names, input) {
		return input, nil
	}
	var candidates []string
	lower := strings.ToLower(input)
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), lower) {
			candidates = append(candidates, name)
		}
	}
	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return "", &NotFoundError{Input: input, Suggestions: rankSuggestions(input, names)}
	default:
		return "", &AmbiguousError{Input: input, Candidates: candidates}
	}
}

// rankSuggestions orders names by fuzzy similarity to the input, appending
// the unmatched remainder alphabetically so the full configured set is shown.
func rankSuggestions(input string, names []string) []string {
	matches := fuzzy.Find(input, names)
	ranked := make([]string, 0, len(names))
	seen := map[string]bool{}
	for _, m := range matches {
		ranked = append(ranked, m.Str)
		seen[m.Str] = true
	}
	for _, name := range names {
		if !seen[name] {
			ranked = append(ranked, name)
		}
	}
	return ranked
}

// Status computes the 4-state status for a possibly-partial hook name and
// returns the resolved name alongside it. Fuzzy ambiguity is surfaced as an
// error, never guessed through.
func (c *Controller) Status(input string) (Status, string, error) {
	resolved, err := c.Resolve(input)
	if err == nil {
		st, loadErr := c.store.Load(c.id)
		if loadErr != nil {
			return "", resolved, loadErr
		}
		if st.IsDisabled(resolved) {
			return StatusDisabled, resolved, nil
		}
		return StatusEnabled, resolved, nil
	}

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		return "", "", err
	}

	// Not configured anywhere; the registry may still know the name.
	registeredName, regErr := resolveName(input, c.registered)
	if regErr == nil {
		return StatusNotConfigured, registeredName, nil
	}
	var amb *AmbiguousError
	if errors.As(regErr, &amb) {
		return "", "", regErr
	}
	return StatusNotFound, "", nil
}

// StatusExact computes the status for an exact registry key, used by
// listings; no fuzzy resolution is applied.
func (c *Controller) StatusExact(name string) (Status, error) {
	if !slices.Contains(c.registered, name) {
		return StatusNotFound, nil
	}
	if !slices.Contains(c.configured, name) {
		return StatusNotConfigured, nil
	}
	st, err := c.store.Load(c.id)
	if err != nil {
		return "", err
	}
	if st.IsDisabled(name) {
		return StatusDisabled, nil
	}
	return StatusEnabled, nil
}

// Disable resolves the name and adds it to this session's disabled set.
// Disabling an already-disabled hook is a no-op success.
func (c *Controller) Disable(input string) (string, bool, error) {
	return c.mutate(input, (*State).Disable)
}

// Enable resolves the name and removes it from this session's disabled set.
// Enabling a hook that is not disabled is a no-op success.
func (c *Controller) Enable(input string) (string, bool, error) {
	return c.mutate(input, (*State).Enable)
}

func (c *Controller) mutate(input string, op func(*State, string) bool) (string, bool, error) {
	resolved, err := c.Resolve(input)
	if err != nil {
		return "", false, err
	}
	st, err := c.store.Load(c.id)
	if err != nil {
		return resolved, false, err
	}
	if !op(st, resolved) {
		return resolved, false, nil
	}
	if err := c.store.Save(c.id, st); err != nil {
		return resolved, false, err
	}
	return resolved, true, nil
}
