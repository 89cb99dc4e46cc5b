package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/hookwarden/hookwarden/internal/config"
	"github.com/hookwarden/hookwarden/internal/constants"
	"github.com/hookwarden/hookwarden/internal/session"
)

// Dispatcher runs the configured hooks for one host event and turns
// their results into the exit code and stdout JSON the host expects.
type Dispatcher struct {
	// Registry defaults to the global registry when nil.
	Registry *Registry
	Config   *config.Effective
	Store    *session.Store
	// SessionID is the fallback identity when the payload carries no
	// session_id.
	SessionID string
	// Root is the fallback project root when the payload carries no
	// cwd.
	Root string
	// Only restricts dispatch to the named hooks. Hooks named here
	// run with default options even when not configured.
	Only []string

	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	// Log records per-hook decisions when non-nil.
	Log *DispatchLogger
}

type candidate struct {
	key  string
	desc Descriptor
	opts config.Options
}

// Dispatch parses one payload and runs the hooks bound to its event.
// The return value is the process exit code.
func (d *Dispatcher) Dispatch(ctx context.Context, raw []byte) int {
	ev, err := ParseEvent(raw)
	if err != nil {
		fmt.Fprintf(d.stderr(), "%s: %v\n", constants.BinaryName, err)
		return constants.ExitError
	}
	return d.DispatchEvent(ctx, ev)
}

// DispatchEvent runs the hooks bound to an already-parsed event.
func (d *Dispatcher) DispatchEvent(ctx context.Context, ev *Event) int {
	root := ev.CWD
	if root == "" {
		root = d.Root
	}
	sessionID := ev.SessionID
	if sessionID == "" {
		sessionID = d.SessionID
	}
	state := d.sessionState(sessionID)

	var results []Result
	denied := false
	for _, c := range d.candidates(ev) {
		if state.IsDisabled(c.key) {
			d.logDecision(ev, c.key, "skip", "disabled for session")
			continue
		}
		if denied && c.desc.Blocking && !c.desc.AlwaysRun {
			d.logDecision(ev, c.key, "skip", "short-circuited by earlier deny")
			continue
		}
		hook, err := d.registry().Create(c.key)
		if err != nil {
			res := Result{Decision: DecisionError, Reason: err.Error(), HookKey: c.key}
			results = append(results, res)
			d.logDecision(ev, c.key, "error", res.Reason)
			continue
		}
		if !hook.Validate(ev) {
			d.logDecision(ev, c.key, "skip", "not applicable")
			continue
		}

		res := d.executeHook(ctx, hook, c, &Request{
			Event:     ev,
			Options:   c.opts,
			Root:      root,
			SessionID: sessionID,
			Logging:   d.logging(),
		})
		res.HookKey = c.key
		if res.Decision == DecisionDeny {
			denied = true
		}
		results = append(results, res)
		d.logDecision(ev, c.key, res.Decision.String(), res.Reason)
	}

	return d.emit(ev, Aggregate(results))
}

// candidates selects the hooks to run, in registration order: bound to
// the event, configured (or explicitly named), and matcher-matched
// against the payload's tool name.
func (d *Dispatcher) candidates(ev *Event) []candidate {
	reg := d.registry()
	var out []candidate
	for _, key := range reg.Keys() {
		explicit := slices.Contains(d.Only, key)
		if len(d.Only) > 0 && !explicit {
			continue
		}
		desc, ok := reg.Descriptor(key)
		if !ok || !desc.BoundTo(ev.Type()) {
			continue
		}
		opts, configured := d.Config.HookOptions(key, desc.OptionNames())
		if !configured && !explicit {
			continue
		}
		matcher := opts.String(config.OptionMatcher, "*")
		if !MatcherMatches(matcher, ev.ToolName) {
			d.logDecision(ev, key, "skip", fmt.Sprintf("matcher %q does not cover tool", matcher))
			continue
		}
		out = append(out, candidate{key: key, desc: desc, opts: opts})
	}
	return out
}

// executeHook runs one hook under its configured deadline and applies
// the dispatch-level reclassifications: a panic becomes an error, a
// deadline overrun becomes an error unless the hook already denied,
// and a fail-closed hook's errors become denials.
func (d *Dispatcher) executeHook(ctx context.Context, hook Hook, c candidate, req *Request) Result {
	seconds := c.opts.Int(config.OptionTimeout, constants.DefaultHookTimeoutSeconds)
	if seconds <= 0 {
		seconds = constants.DefaultHookTimeoutSeconds
	}
	timeout := time.Duration(seconds) * time.Second
	hctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res := func() (out Result) {
		defer func() {
			if r := recover(); r != nil {
				out = Errorf("hook %s panicked: %v", c.key, r)
			}
		}()
		return hook.Execute(hctx, req)
	}()

	if errors.Is(hctx.Err(), context.DeadlineExceeded) && res.Decision != DecisionDeny {
		res = Errorf("hook %s timed out after %s", c.key, timeout)
	}
	if c.desc.FailClosed && res.Decision == DecisionError {
		res = Deny(fmt.Sprintf("%s is fail-closed: %s", c.key, res.Reason))
	}
	return res
}

// emit writes the host-facing response for the aggregate result and
// returns the exit code.
func (d *Dispatcher) emit(ev *Event, agg Result) int {
	switch agg.Decision {
	case DecisionDeny:
		d.writeBlockResponse(ev, agg.Reason)
		fmt.Fprintln(d.stderr(), agg.Reason)
		return constants.ExitDeny
	case DecisionError:
		fmt.Fprintln(d.stderr(), agg.Reason)
		return constants.ExitError
	default:
		if agg.Context != "" {
			d.writeContextResponse(ev, agg.Context)
		}
		return constants.ExitAllow
	}
}

// hostResponse is the top-level JSON shape the host reads from stdout.
type hostResponse struct {
	Decision           string              `json:"decision,omitempty"`
	Reason             string              `json:"reason,omitempty"`
	HookSpecificOutput *hookSpecificOutput `json:"hookSpecificOutput,omitempty"`
}

type hookSpecificOutput struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision,omitempty"`
	PermissionDecisionReason string `json:"permissionDecisionReason,omitempty"`
	AdditionalContext        string `json:"additionalContext,omitempty"`
}

func (d *Dispatcher) writeBlockResponse(ev *Event, reason string) {
	info, ok := EventByName(ev.HookEventName)
	if !ok || !info.CanBlock {
		return
	}
	var resp hostResponse
	if ev.Type() == PreToolUseEvent {
		resp.HookSpecificOutput = &hookSpecificOutput{
			HookEventName:            ev.HookEventName,
			PermissionDecision:       "deny",
			PermissionDecisionReason: reason,
		}
	} else {
		resp.Decision = "block"
		resp.Reason = reason
	}
	d.writeResponse(resp)
}

func (d *Dispatcher) writeContextResponse(ev *Event, context string) {
	info, ok := EventByName(ev.HookEventName)
	if !ok || !info.CarriesContext {
		return
	}
	d.writeResponse(hostResponse{
		HookSpecificOutput: &hookSpecificOutput{
			HookEventName:     ev.HookEventName,
			AdditionalContext: context,
		},
	})
}

func (d *Dispatcher) writeResponse(resp hostResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		d.logger().Error("marshal host response", "error", err)
		return
	}
	fmt.Fprintln(d.stdout(), string(data))
}

// sessionState loads the session's state; an unreadable state file is
// logged and treated as empty so one corrupt file cannot wedge every
// dispatch.
func (d *Dispatcher) sessionState(id string) *session.State {
	if d.Store == nil || id == "" {
		return &session.State{}
	}
	state, err := d.Store.Load(id)
	if err != nil {
		d.logger().Warn("session state unreadable", "session", id, "error", err)
		return &session.State{}
	}
	return state
}

func (d *Dispatcher) logDecision(ev *Event, key, decision, detail string) {
	d.logger().Debug("hook decision",
		"hook", key, "event", ev.HookEventName, "decision", decision, "detail", detail)
	if d.Log == nil {
		return
	}
	d.Log.Log(LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		SessionID: ev.SessionID,
		Event:     ev.HookEventName,
		ToolName:  ev.ToolName,
		HookKey:   key,
		Decision:  decision,
		Detail:    detail,
	})
}

func (d *Dispatcher) logging() config.RotationConfig {
	if d.Config != nil {
		return d.Config.Logging
	}
	return config.DefaultRotationConfig()
}

func (d *Dispatcher) registry() *Registry {
	if d.Registry != nil {
		return d.Registry
	}
	return globalRegistry
}

func (d *Dispatcher) stdout() io.Writer {
	if d.Stdout != nil {
		return d.Stdout
	}
	return os.Stdout
}

func (d *Dispatcher) stderr() io.Writer {
	if d.Stderr != nil {
		return d.Stderr
	}
	return os.Stderr
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// MatcherMatches reports whether a pipe-separated list of glob
// patterns covers toolName. An empty or "*" matcher matches every
// tool, including the empty tool name of prompt and session events.
func MatcherMatches(matcher, toolName string) bool {
	matcher = strings.TrimSpace(matcher)
	if matcher == "" || matcher == "*" {
		return true
	}
	for _, part := range strings.Split(matcher, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if ok, err := filepath.Match(part, toolName); err == nil && ok {
			return true
		}
	}
	return false
}
