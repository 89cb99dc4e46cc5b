package core

import (
	"fmt"
	"sync"
)

// HookFactory is a function that creates a Hook instance.
type HookFactory func(ctx *HookContext) Hook

// OptionSpec documents one configurable option a hook understands.
type OptionSpec struct {
	Name    string
	Type    string
	Default any
	Usage   string
}

// Descriptor carries the static metadata a hook registers with.
type Descriptor struct {
	Key         string
	Name        string
	Description string
	// Events lists the lifecycle events this hook is bound to.
	Events []EventType
	// Options lists the hook-specific configuration keys; universal
	// keys (matcher, timeout) apply to every hook.
	Options []OptionSpec
	// Blocking hooks are skipped once an earlier hook has denied,
	// unless they are also AlwaysRun.
	Blocking bool
	// AlwaysRun hooks execute even after an earlier deny.
	AlwaysRun bool
	// FailClosed converts this hook's errors and timeouts into
	// denials instead of non-blocking errors.
	FailClosed bool
}

// BoundTo reports whether the descriptor subscribes to the event.
func (d Descriptor) BoundTo(t EventType) bool {
	for _, e := range d.Events {
		if e == t {
			return true
		}
	}
	return false
}

// OptionNames returns the names of the hook-specific options.
func (d Descriptor) OptionNames() []string {
	names := make([]string, len(d.Options))
	for i, o := range d.Options {
		names[i] = o.Name
	}
	return names
}

// Registration pairs a descriptor with its factory.
type Registration struct {
	Descriptor Descriptor
	Factory    HookFactory
}

// Registry manages hook registration and creation. Registration order
// is preserved: it is the dispatch order within an event.
type Registry struct {
	mu          sync.RWMutex
	order       []string
	descriptors map[string]Descriptor
	factories   map[string]HookFactory
	context     *HookContext
}

// NewRegistry creates a new hook registry.
func NewRegistry(ctx *HookContext) *Registry {
	if ctx == nil {
		ctx = DefaultHookContext()
	}
	return &Registry{
		descriptors: make(map[string]Descriptor),
		factories:   make(map[string]HookFactory),
		context:     ctx,
	}
}

// Register registers a hook with the given descriptor and factory.
func (r *Registry) Register(reg Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registerLocked(reg)
}

func (r *Registry) registerLocked(reg Registration) error {
	key := reg.Descriptor.Key
	if key == "" {
		return fmt.Errorf("hook registration missing key")
	}
	if len(reg.Descriptor.Events) == 0 {
		return fmt.Errorf("hook %q registers no events", key)
	}
	if reg.Factory == nil {
		return fmt.Errorf("hook %q registers a nil factory", key)
	}
	if _, exists := r.factories[key]; exists {
		return fmt.Errorf("hook with key %q already registered", key)
	}
	r.order = append(r.order, key)
	r.descriptors[key] = reg.Descriptor
	r.factories[key] = reg.Factory
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(reg Registration) {
	if err := r.Register(reg); err != nil {
		panic(err)
	}
}

// RegisterBatch registers multiple hooks in slice order under one lock.
func (r *Registry) RegisterBatch(regs []Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range regs {
		if err := r.registerLocked(reg); err != nil {
			return err
		}
	}
	return nil
}

// MustRegisterBatch is like RegisterBatch but panics on error.
func (r *Registry) MustRegisterBatch(regs []Registration) {
	if err := r.RegisterBatch(regs); err != nil {
		panic(err)
	}
}

// Create creates a hook instance by key.
func (r *Registry) Create(key string) (Hook, error) {
	r.mu.RLock()
	factory, exists := r.factories[key]
	context := r.context
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("hook with key %q not found", key)
	}

	return factory(context), nil
}

// Descriptor returns the registered metadata for key.
func (r *Registry) Descriptor(key string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[key]
	return d, ok
}

// Keys returns all registered hook keys in registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// Descriptors returns all registered descriptors in registration order.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.descriptors[key])
	}
	return out
}

// SetContext updates the context used for creating hook instances.
func (r *Registry) SetContext(ctx *HookContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.context = ctx
}

// Context returns the context hooks are created with.
func (r *Registry) Context() *HookContext {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.context
}

// Global registry instance.
var globalRegistry = NewRegistry(nil)

// GetHookKeys returns the global registry's keys in registration order.
func GetHookKeys() []string {
	return globalRegistry.Keys()
}

// GetDescriptor returns the global registry's metadata for key.
func GetDescriptor(key string) (Descriptor, bool) {
	return globalRegistry.Descriptor(key)
}

// AllDescriptors returns the global registry's descriptors in
// registration order.
func AllDescriptors() []Descriptor {
	return globalRegistry.Descriptors()
}

// SetGlobalContext updates the global registry's context.
func SetGlobalContext(ctx *HookContext) {
	globalRegistry.SetContext(ctx)
}

// GlobalContext returns the global registry's context.
func GlobalContext() *HookContext {
	return globalRegistry.Context()
}

// RegisterBuiltinHooks is called by the hooks package to register all
// built-in hooks; slice order becomes dispatch order.
func RegisterBuiltinHooks(regs []Registration) {
	globalRegistry.MustRegisterBatch(regs)
}
