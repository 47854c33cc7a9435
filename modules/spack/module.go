// Package spack installs package sets with the spack package manager.
package spack

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/funwith/internal/ctxlog"
	"github.com/specialistvlad/funwith/internal/engine"
	"github.com/specialistvlad/funwith/internal/registry"
	"github.com/specialistvlad/funwith/internal/runner"
	"github.com/specialistvlad/funwith/internal/state"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	Runner runner.CommandRunner
	// Binary defaults to "spack".
	Binary string
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	registry.Handle(r, string(engine.KindPackages), m.Present)
}

func (m *Module) binary() string {
	if m.Binary == "" {
		return "spack"
	}
	return m.Binary
}

// Present installs every package spec that `spack find` does not know.
// Installation stops at the first failure.
func (m *Module) Present(ctx context.Context, mode state.Mode, args engine.PackagesArgs) state.Result {
	const name = "spack"
	logger := ctxlog.FromContext(ctx)
	if len(args.Packages) == 0 {
		return state.Unchanged(name, "No packages requested")
	}

	var missing []string
	for _, pkg := range args.Packages {
		spec := strings.Fields(pkg)
		if len(spec) == 0 {
			continue
		}
		_, err := runner.Run(ctx, m.Runner, m.binary(), append([]string{"find"}, spec...)...)
		switch {
		case err == nil:
			continue
		case runner.ExitCode(err) == 1:
			missing = append(missing, pkg)
		default:
			return state.Failed(name, fmt.Errorf("query %s: %w", pkg, err))
		}
	}

	if len(missing) == 0 {
		return state.Unchanged(name, fmt.Sprintf("Packages %s are installed", strings.Join(args.Packages, ", ")))
	}

	changes := make(map[string]any, len(missing))
	for _, pkg := range missing {
		if mode.DryRun {
			changes[pkg] = "Would install"
			continue
		}
		logger.Info("Installing package.", "package", pkg)
		if _, err := runner.Run(ctx, m.Runner, m.binary(), append([]string{"install"}, strings.Fields(pkg)...)...); err != nil {
			res := state.Failed(name, fmt.Errorf("install %s: %w", pkg, err))
			res.Changes = changes
			return res
		}
		changes[pkg] = "Installed"
	}
	if mode.DryRun {
		return state.Changed(mode, name, changes, fmt.Sprintf("Packages %s would be installed", strings.Join(missing, ", ")))
	}
	return state.Changed(mode, name, changes, fmt.Sprintf("Packages %s installed", strings.Join(missing, ", ")))
}

