package directory

import (
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/funwith/internal/ctxlog"
	"github.com/specialistvlad/funwith/internal/engine"
	"github.com/specialistvlad/funwith/internal/registry"
	"github.com/specialistvlad/funwith/internal/state"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Perm is used for created directories; zero means 0755.
	Perm os.FileMode
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	registry.Handle(r, string(engine.KindDirectory), m.Present)
}

// Present ensures args.Path is a directory, creating missing parents.
func (m *Module) Present(ctx context.Context, mode state.Mode, args engine.DirectoryArgs) state.Result {
	logger := ctxlog.FromContext(ctx).With("path", args.Path)
	if args.Path == "" {
		return state.Failed(args.Path, fmt.Errorf("directory path is empty"))
	}

	info, err := os.Stat(args.Path)
	switch {
	case err == nil && info.IsDir():
		return state.Unchanged(args.Path, fmt.Sprintf("Directory %s is in the correct state", args.Path))
	case err == nil:
		return state.Failed(args.Path, fmt.Errorf("%s exists and is not a directory", args.Path))
	case !os.IsNotExist(err):
		return state.Failed(args.Path, fmt.Errorf("stat %s: %w", args.Path, err))
	}

	changes := map[string]any{args.Path: "New Dir"}
	if mode.DryRun {
		return state.Changed(mode, args.Path, changes, fmt.Sprintf("Directory %s would be created", args.Path))
	}

	perm := m.Perm
	if perm == 0 {
		perm = 0o755
	}
	if err := os.MkdirAll(args.Path, perm); err != nil {
		return state.Failed(args.Path, fmt.Errorf("create directory %s: %w", args.Path, err))
	}
	logger.Debug("Created directory.")
	return state.Changed(mode, args.Path, changes, fmt.Sprintf("Directory %s created", args.Path))
}
