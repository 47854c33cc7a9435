package testutil

import (
	"context"
	"sync"

	"github.com/specialistvlad/funwith/internal/engine"
	"github.com/specialistvlad/funwith/internal/state"
)

// Invocation is one sub-operation call recorded by RecordingEngine.
type Invocation struct {
	Kind engine.Kind
	Mode state.Mode
	Args any
}

// RecordingEngine is an engine.Engine that records every call. Reply
// decides each result; by default a call succeeds unchanged with its kind
// as the comment.
type RecordingEngine struct {
	Reply func(inv Invocation) state.Result

	mu    sync.Mutex
	calls []Invocation
}

var _ engine.Engine = (*RecordingEngine)(nil)

func (e *RecordingEngine) record(kind engine.Kind, mode state.Mode, args any) state.Result {
	inv := Invocation{Kind: kind, Mode: mode, Args: args}
	e.mu.Lock()
	e.calls = append(e.calls, inv)
	e.mu.Unlock()
	if e.Reply != nil {
		return e.Reply(inv)
	}
	return state.Unchanged(string(kind), string(kind))
}

// Invocations returns a copy of the recorded calls.
func (e *RecordingEngine) Invocations() []Invocation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Invocation(nil), e.calls...)
}

// Kinds returns the kinds of the recorded calls in order.
func (e *RecordingEngine) Kinds() []engine.Kind {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]engine.Kind, len(e.calls))
	for i, c := range e.calls {
		out[i] = c.Kind
	}
	return out
}

func (e *RecordingEngine) Directory(_ context.Context, mode state.Mode, args engine.DirectoryArgs) state.Result {
	return e.record(engine.KindDirectory, mode, args)
}

func (e *RecordingEngine) ManagedFile(_ context.Context, mode state.Mode, args engine.FileArgs) state.Result {
	return e.record(engine.KindManaged, mode, args)
}

func (e *RecordingEngine) Checkout(_ context.Context, mode state.Mode, args engine.CheckoutArgs) state.Result {
	return e.record(engine.KindCheckout, mode, args)
}

func (e *RecordingEngine) Tags(_ context.Context, mode state.Mode, args engine.TagsArgs) state.Result {
	return e.record(engine.KindTags, mode, args)
}

func (e *RecordingEngine) Virtualenv(_ context.Context, mode state.Mode, args engine.VirtualenvArgs) state.Result {
	return e.record(engine.KindVirtualenv, mode, args)
}

func (e *RecordingEngine) InstallPackages(_ context.Context, mode state.Mode, args engine.PackagesArgs) state.Result {
	return e.record(engine.KindPackages, mode, args)
}
