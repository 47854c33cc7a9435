// Package ctags keeps a tags index at the root of a source tree.
package ctags

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/specialistvlad/funwith/internal/ctxlog"
	"github.com/specialistvlad/funwith/internal/engine"
	"github.com/specialistvlad/funwith/internal/registry"
	"github.com/specialistvlad/funwith/internal/runner"
	"github.com/specialistvlad/funwith/internal/state"
)

// TagsFile is the index written into the indexed directory.
const TagsFile = "tags"

// Module implements the registry.Module interface for this package.
type Module struct {
	Runner runner.CommandRunner
	// Binary defaults to "ctags".
	Binary string
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	registry.Handle(r, string(engine.KindTags), m.Present)
}

func (m *Module) binary() string {
	if m.Binary == "" {
		return "ctags"
	}
	return m.Binary
}

// Args builds the ctags command line writing the index of dir to out.
func Args(dir, out string, exclude []string) []string {
	args := []string{"-R", "-f", out}
	for _, pattern := range exclude {
		args = append(args, "--exclude="+pattern)
	}
	return append(args, dir)
}

// Present regenerates the index of args.Dir into a scratch file and only
// replaces the existing index when the two differ.
func (m *Module) Present(ctx context.Context, mode state.Mode, args engine.TagsArgs) state.Result {
	name := filepath.Join(args.Dir, TagsFile)
	logger := ctxlog.FromContext(ctx).With("dir", args.Dir)

	if info, err := os.Stat(args.Dir); errors.Is(err, fs.ErrNotExist) {
		if mode.DryRun {
			return state.Changed(mode, name, map[string]any{name: "New tags index"},
				fmt.Sprintf("Tags of %s would be generated", args.Dir))
		}
		return state.Failed(name, fmt.Errorf("cannot index %s: directory does not exist", args.Dir))
	} else if err != nil {
		return state.Failed(name, fmt.Errorf("stat %s: %w", args.Dir, err))
	} else if !info.IsDir() {
		return state.Failed(name, fmt.Errorf("cannot index %s: not a directory", args.Dir))
	}

	scratch, err := os.CreateTemp("", "funwith-tags-*")
	if err != nil {
		return state.Failed(name, fmt.Errorf("create scratch tags file: %w", err))
	}
	scratch.Close()
	defer os.Remove(scratch.Name())

	if _, err := runner.Run(ctx, m.Runner, m.binary(), Args(args.Dir, scratch.Name(), args.Exclude)...); err != nil {
		return state.Failed(name, fmt.Errorf("generate tags of %s: %w", args.Dir, err))
	}
	fresh, err := os.ReadFile(scratch.Name())
	if err != nil {
		return state.Failed(name, fmt.Errorf("read generated tags: %w", err))
	}

	change := "Index updated"
	current, err := os.ReadFile(name)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		change = "New tags index"
	case err != nil:
		return state.Failed(name, fmt.Errorf("read %s: %w", name, err))
	case bytes.Equal(current, fresh):
		return state.Unchanged(name, fmt.Sprintf("Tags of %s are up to date", args.Dir))
	}

	changes := map[string]any{name: change}
	if mode.DryRun {
		return state.Changed(mode, name, changes, fmt.Sprintf("Tags of %s would be regenerated", args.Dir))
	}
	if err := os.WriteFile(name, fresh, 0o644); err != nil {
		return state.Failed(name, fmt.Errorf("write %s: %w", name, err))
	}
	logger.Debug("Regenerated tags index.", "bytes", len(fresh))
	return state.Changed(mode, name, changes, fmt.Sprintf("Tags of %s regenerated", args.Dir))
}
