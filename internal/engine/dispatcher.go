package engine

import (
	"context"

	"github.com/specialistvlad/funwith/internal/ctxlog"
	"github.com/specialistvlad/funwith/internal/registry"
	"github.com/specialistvlad/funwith/internal/state"
)

// Dispatcher implements Engine on top of a handler registry.
type Dispatcher struct {
	registry *registry.Registry
}

// NewDispatcher creates a dispatcher over reg.
func NewDispatcher(reg *registry.Registry) *Dispatcher {
	return &Dispatcher{registry: reg}
}

// Validate checks that reg has a handler for every kind.
func (d *Dispatcher) Validate(ctx context.Context) error {
	return d.registry.ValidateRegistry(ctx, KindNames()...)
}

func (d *Dispatcher) call(ctx context.Context, kind Kind, mode state.Mode, args any) state.Result {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Invoking state.", "state", kind, "mode", mode.String())
	res := d.registry.Call(ctx, string(kind), mode, args)
	logger.Debug("State finished.", "state", kind, "result", res.Status.String(), "changes", len(res.Changes))
	return res
}

func (d *Dispatcher) Directory(ctx context.Context, mode state.Mode, args DirectoryArgs) state.Result {
	return d.call(ctx, KindDirectory, mode, args)
}

func (d *Dispatcher) ManagedFile(ctx context.Context, mode state.Mode, args FileArgs) state.Result {
	return d.call(ctx, KindManaged, mode, args)
}

func (d *Dispatcher) Checkout(ctx context.Context, mode state.Mode, args CheckoutArgs) state.Result {
	return d.call(ctx, KindCheckout, mode, args)
}

func (d *Dispatcher) Tags(ctx context.Context, mode state.Mode, args TagsArgs) state.Result {
	return d.call(ctx, KindTags, mode, args)
}

func (d *Dispatcher) Virtualenv(ctx context.Context, mode state.Mode, args VirtualenvArgs) state.Result {
	return d.call(ctx, KindVirtualenv, mode, args)
}

func (d *Dispatcher) InstallPackages(ctx context.Context, mode state.Mode, args PackagesArgs) state.Result {
	return d.call(ctx, KindPackages, mode, args)
}
