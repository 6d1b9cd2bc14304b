package capability

import (
	"fmt"
	"sort"
	"sync"

	"marvin/internal/logging"
)

// Registry is the single source of truth for which capabilities exist.
// It is thread-safe. Registration normally happens once at bootstrap;
// lookups dominate afterwards.
type Registry struct {
	mu   sync.RWMutex
	caps map[string]*Capability
}

// NewRegistry creates a new empty capability registry.
func NewRegistry() *Registry {
	return &Registry{caps: make(map[string]*Capability)}
}

// Register validates the capability and adds it to the registry.
// Returns ValidationErrors describing every problem if the descriptor is
// malformed. Registering a name that already exists overwrites the prior
// entry and logs a warning: last registration wins, which supports
// capability replacement during development.
func (r *Registry) Register(cap *Capability) error {
	if errs := cap.Validate(); len(errs) > 0 {
		return ValidationErrors(errs)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.caps[cap.Name]; exists {
		logging.RegistryWarn("Overwriting existing capability: %s", cap.Name)
	}
	r.caps[cap.Name] = cap

	logging.RegistryDebug("Registered capability: %s (actions=%v)", cap.Name, cap.SupportedActions)
	return nil
}

// MustRegister registers a capability and panics on error.
// Use for static bootstrap registration.
func (r *Registry) MustRegister(cap *Capability) {
	if err := r.Register(cap); err != nil {
		panic(fmt.Sprintf("failed to register capability %s: %v", cap.Name, err))
	}
}

// Get returns the capability by name, requiring that it supports action.
// The error carries a diagnostic suitable for showing back to the model.
func (r *Registry) Get(name, action string) (*Capability, error) {
	r.mu.RLock()
	cap, ok := r.caps[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCapabilityNotFound, name)
	}
	if !cap.SupportsAction(action) {
		return nil, fmt.Errorf("%w: capability %q does not support action %q (supported: %v)",
			ErrActionNotSupported, name, action, cap.SupportedActions)
	}
	return cap, nil
}

// Lookup returns the capability by name, or nil if absent. No action check.
func (r *Registry) Lookup(name string) *Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.caps[name]
}

// Has reports whether a capability with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.caps[name]
	return ok
}

// SupportsAction reports whether name is registered and supports action.
func (r *Registry) SupportsAction(name, action string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cap, ok := r.caps[name]
	return ok && cap.SupportsAction(action)
}

// FindCapabilityByAction returns the name of the first registered capability
// whose SupportedActions contains action. Names are scanned in sorted order
// so the result is deterministic. The second return is false when no
// capability supports the action.
func (r *Registry) FindCapabilityByAction(action string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.caps))
	for name := range r.caps {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if r.caps[name].SupportsAction(action) {
			return name, true
		}
	}
	return "", false
}

// Unregister removes a capability. Idempotent; reports whether anything was
// removed.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.caps[name]; !ok {
		return false
	}
	delete(r.caps, name)
	logging.RegistryDebug("Unregistered capability: %s", name)
	return true
}

// Names returns all registered capability names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.caps))
	for name := range r.caps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns every registered capability in stable name order. The
// context assembler consumes this to generate usage instructions for the
// model prompt.
func (r *Registry) List() []*Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.caps))
	for name := range r.caps {
		names = append(names, name)
	}
	sort.Strings(names)

	caps := make([]*Capability, 0, len(names))
	for _, name := range names {
		caps = append(caps, r.caps[name])
	}
	return caps
}

// Count returns the number of registered capabilities.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.caps)
}

// Global registry instance for bootstrap convenience. Tests construct their
// own registries via NewRegistry to avoid cross-test leakage.
var globalRegistry = NewRegistry()

// Global returns the process-wide capability registry.
func Global() *Registry {
	return globalRegistry
}

// Register adds a capability to the global registry.
func Register(cap *Capability) error {
	return globalRegistry.Register(cap)
}
