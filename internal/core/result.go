package core

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hookwarden/hookwarden/internal/constants"
)

// Decision is a hook's judgment about the action under review.
type Decision int

const (
	// DecisionAllow lets the host action proceed.
	DecisionAllow Decision = iota
	// DecisionDeny blocks the host action with a reason.
	DecisionDeny
	// DecisionError reports that the hook itself failed; the host
	// action is not blocked unless the hook is fail-closed.
	DecisionError
)

// String returns the wire name of the decision.
func (d Decision) String() string {
	switch d {
	case DecisionDeny:
		return "deny"
	case DecisionError:
		return "error"
	default:
		return "allow"
	}
}

// Result is the outcome of one hook execution.
type Result struct {
	Decision Decision
	// Reason explains a deny or error; empty on a plain allow.
	Reason string
	// Context is extra text injected into the session on allow.
	Context string
	// HookKey is stamped by the dispatcher for logging and output.
	HookKey string
}

// Allow is the plain success result.
func Allow() Result {
	return Result{Decision: DecisionAllow}
}

// AllowContext is an allow that injects additional context.
func AllowContext(context string) Result {
	return Result{Decision: DecisionAllow, Context: context}
}

// Deny blocks the host action with the given reason.
func Deny(reason string) Result {
	return Result{Decision: DecisionDeny, Reason: reason}
}

// Errorf reports a hook failure without blocking.
func Errorf(format string, args ...any) Result {
	return Result{Decision: DecisionError, Reason: fmt.Sprintf(format, args...)}
}

// Aggregate folds per-hook results into the dispatch outcome.
// Deny outranks error outranks allow; within a rank the first result
// wins so the earliest deny reason is the one reported. Contexts from
// allowing hooks are preserved even when a later hook denies.
func Aggregate(results []Result) Result {
	agg := Allow()
	var contexts []string
	for _, r := range results {
		if r.Context != "" {
			contexts = append(contexts, r.Context)
		}
		switch r.Decision {
		case DecisionDeny:
			if agg.Decision != DecisionDeny {
				agg = Result{Decision: DecisionDeny, Reason: r.Reason, HookKey: r.HookKey}
			}
		case DecisionError:
			if agg.Decision == DecisionAllow {
				agg = Result{Decision: DecisionError, Reason: r.Reason, HookKey: r.HookKey}
			}
		}
	}
	agg.Context = TruncateContext(strings.Join(contexts, "\n"))
	return agg
}

// TruncateContext caps injected context at the protocol ceiling,
// cutting on a rune boundary and appending a marker so readers can
// tell the text was shortened.
func TruncateContext(s string) string {
	limit := constants.MaxAdditionalContextBytes
	if len(s) <= limit {
		return s
	}
	cut := limit - len(constants.TruncationMarker)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + constants.TruncationMarker
}
