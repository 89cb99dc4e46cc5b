package core

import (
	"strings"
	"testing"
)

func regFor(key string, events ...EventType) Registration {
	if len(events) == 0 {
		events = []EventType{PreToolUseEvent}
	}
	return Registration{
		Descriptor: Descriptor{Key: key, Name: key, Events: events},
		Factory: func(_ *HookContext) Hook {
			return &stubHook{key: key, validate: true}
		},
	}
}

func TestRegistryPreservesRegistrationOrder(t *testing.T) {
	r := NewRegistry(nil)
	for _, key := range []string{"zeta", "alpha", "mid"} {
		r.MustRegister(regFor(key))
	}
	got := strings.Join(r.Keys(), ",")
	if got != "zeta,alpha,mid" {
		t.Errorf("Keys() = %q; registration order is dispatch order", got)
	}
}

func TestRegistryRejectsDuplicatesAndBadRegistrations(t *testing.T) {
	r := NewRegistry(nil)
	r.MustRegister(regFor("one"))

	if err := r.Register(regFor("one")); err == nil {
		t.Error("duplicate key must be rejected")
	}
	if err := r.Register(regFor("")); err == nil {
		t.Error("empty key must be rejected")
	}
	if err := r.Register(Registration{Descriptor: Descriptor{Key: "no-events"}, Factory: regFor("x").Factory}); err == nil {
		t.Error("a hook bound to no events must be rejected")
	}
	if err := r.Register(Registration{Descriptor: Descriptor{Key: "no-factory", Events: []EventType{StopEvent}}}); err == nil {
		t.Error("nil factory must be rejected")
	}
}

func TestRegistryCreateAndDescriptor(t *testing.T) {
	r := NewRegistry(nil)
	r.MustRegister(regFor("guard", PreToolUseEvent))

	h, err := r.Create("guard")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if h.Key() != "guard" {
		t.Errorf("Key = %q", h.Key())
	}
	if _, err := r.Create("missing"); err == nil {
		t.Error("unknown key must error")
	}

	d, ok := r.Descriptor("guard")
	if !ok || !d.BoundTo(PreToolUseEvent) || d.BoundTo(StopEvent) {
		t.Errorf("descriptor lookup broken: %+v ok=%v", d, ok)
	}
}

func TestDescriptorOptionNames(t *testing.T) {
	d := Descriptor{Options: []OptionSpec{{Name: "command"}, {Name: "cooldown"}}}
	got := strings.Join(d.OptionNames(), ",")
	if got != "command,cooldown" {
		t.Errorf("OptionNames = %q", got)
	}
}

func TestGlobalRegistryHasBuiltinsViaBatch(t *testing.T) {
	// The hooks package registers through RegisterBuiltinHooks; here we
	// only verify batch registration keeps slice order on a fresh
	// registry, since the global one is shared process state.
	r := NewRegistry(nil)
	if err := r.RegisterBatch([]Registration{regFor("a"), regFor("b"), regFor("c")}); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(r.Keys(), ","); got != "a,b,c" {
		t.Errorf("batch order = %q", got)
	}
}

func TestSetContextFlowsIntoCreatedHooks(t *testing.T) {
	var seen *HookContext
	r := NewRegistry(nil)
	r.MustRegister(Registration{
		Descriptor: Descriptor{Key: "guard", Events: []EventType{PreToolUseEvent}},
		Factory: func(ctx *HookContext) Hook {
			seen = ctx
			return &stubHook{key: "guard", validate: true}
		},
	})
	if r.Context() == nil {
		t.Fatal("a registry built with nil must fall back to the default context")
	}

	custom := &HookContext{Runner: &MockRunner{}}
	r.SetContext(custom)
	if r.Context() != custom {
		t.Error("Context must return the context set last")
	}
	if _, err := r.Create("guard"); err != nil {
		t.Fatal(err)
	}
	if seen != custom {
		t.Error("Create must hand the updated context to the factory")
	}
}

func TestGlobalContextRoundTrip(t *testing.T) {
	orig := GlobalContext()
	t.Cleanup(func() { SetGlobalContext(orig) })

	custom := &HookContext{Runner: &MockRunner{}}
	SetGlobalContext(custom)
	if GlobalContext() != custom {
		t.Error("SetGlobalContext must be visible through GlobalContext")
	}
}
