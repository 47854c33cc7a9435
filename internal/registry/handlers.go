package registry

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/specialistvlad/funwith/internal/state"
)

// StateFunc converges one state. args is always of the registered ArgsType.
type StateFunc func(ctx context.Context, mode state.Mode, args any) state.Result

// RegisteredState holds the compiled Go parts of a state kind.
type RegisteredState struct {
	ArgsType reflect.Type
	Fn       StateFunc
}

// RegisterState registers a Go function for a state kind.
func (r *Registry) RegisterState(name string, handler *RegisteredState) {
	if _, exists := r.StateRegistry[name]; exists {
		panic(fmt.Sprintf("state handler with name '%s' already registered", name))
	}
	if handler == nil || handler.Fn == nil || handler.ArgsType == nil {
		panic(fmt.Sprintf("state handler '%s' is incomplete", name))
	}
	slog.Debug("Registering state handler.", "name", name, "args", handler.ArgsType.String())
	r.StateRegistry[name] = handler
}

// Handle registers a typed handler, wrapping it so the registry can store it.
func Handle[T any](r *Registry, name string, fn func(ctx context.Context, mode state.Mode, args T) state.Result) {
	r.RegisterState(name, &RegisteredState{
		ArgsType: reflect.TypeOf((*T)(nil)).Elem(),
		Fn: func(ctx context.Context, mode state.Mode, args any) state.Result {
			return fn(ctx, mode, args.(T))
		},
	})
}

// Call invokes the handler registered for name. A missing handler or an
// argument of the wrong type yields a failed result rather than a panic.
func (r *Registry) Call(ctx context.Context, name string, mode state.Mode, args any) state.Result {
	h, ok := r.Lookup(name)
	if !ok {
		return state.Failed(name, fmt.Errorf("no handler registered for state %q", name))
	}
	if got := reflect.TypeOf(args); got != h.ArgsType {
		return state.Failed(name, fmt.Errorf("state %q expects arguments of type %s, got %v", name, h.ArgsType, got))
	}
	res := h.Fn(ctx, mode, args)
	if res.Name == "" {
		res.Name = name
	}
	if res.Changes == nil {
		res.Changes = map[string]any{}
	}
	return res
}
