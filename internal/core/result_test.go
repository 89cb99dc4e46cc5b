package core

import (
	"strings"
	"testing"

	"github.com/hookwarden/hookwarden/internal/constants"
)

func TestAggregatePrecedence(t *testing.T) {
	tests := []struct {
		name    string
		results []Result
		want    Decision
		reason  string
	}{
		{"empty is allow", nil, DecisionAllow, ""},
		{"all allow", []Result{Allow(), Allow()}, DecisionAllow, ""},
		{"deny beats error", []Result{Errorf("boom"), Deny("no")}, DecisionDeny, "no"},
		{"error beats allow", []Result{Allow(), Errorf("boom")}, DecisionError, "boom"},
		{"first deny wins", []Result{Deny("first"), Deny("second")}, DecisionDeny, "first"},
		{"first error wins", []Result{Errorf("e1"), Errorf("e2")}, DecisionError, "e1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := Aggregate(tt.results)
			if agg.Decision != tt.want {
				t.Errorf("decision = %v, want %v", agg.Decision, tt.want)
			}
			if agg.Reason != tt.reason {
				t.Errorf("reason = %q, want %q", agg.Reason, tt.reason)
			}
		})
	}
}

func TestAggregateKeepsContextsAcrossDeny(t *testing.T) {
	agg := Aggregate([]Result{
		AllowContext("ctx-a"),
		Deny("blocked"),
		AllowContext("ctx-b"),
	})
	if agg.Decision != DecisionDeny {
		t.Fatalf("decision = %v", agg.Decision)
	}
	if agg.Context != "ctx-a\nctx-b" {
		t.Errorf("contexts = %q", agg.Context)
	}
}

func TestTruncateContext(t *testing.T) {
	short := "hello"
	if got := TruncateContext(short); got != short {
		t.Errorf("short strings pass through, got %q", got)
	}

	long := strings.Repeat("é", constants.MaxAdditionalContextBytes)
	got := TruncateContext(long)
	if len(got) > constants.MaxAdditionalContextBytes {
		t.Errorf("truncated length %d exceeds ceiling %d", len(got), constants.MaxAdditionalContextBytes)
	}
	if !strings.HasSuffix(got, constants.TruncationMarker) {
		t.Errorf("truncation must be visible, got suffix %q", got[len(got)-20:])
	}
	// The cut must not split a rune.
	if !strings.HasPrefix(got, "é") || strings.ContainsRune(strings.TrimSuffix(got, constants.TruncationMarker), '�') {
		t.Error("truncation split a rune")
	}
}

func TestDecisionString(t *testing.T) {
	if DecisionAllow.String() != "allow" || DecisionDeny.String() != "deny" || DecisionError.String() != "error" {
		t.Error("decision names are part of the log format")
	}
}
