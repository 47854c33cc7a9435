package registry

import (
	"sort"
)

// Module is the interface that all state modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the registered state handlers for a single application
// instance.
type Registry struct {
	StateRegistry map[string]*RegisteredState
}

// New creates and initializes a new Registry instance.
func New(modules ...Module) *Registry {
	r := &Registry{
		StateRegistry: make(map[string]*RegisteredState),
	}
	for _, mod := range modules {
		mod.Register(r)
	}
	return r
}

// Lookup returns the handler registered for a state kind.
func (r *Registry) Lookup(name string) (*RegisteredState, bool) {
	h, ok := r.StateRegistry[name]
	return h, ok
}

// Names returns the registered state kinds in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.StateRegistry))
	for name := range r.StateRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
