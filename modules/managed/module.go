// Package managed converges files to exact content, rendered from a
// template when one is given.
package managed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/specialistvlad/funwith/internal/ctxlog"
	"github.com/specialistvlad/funwith/internal/engine"
	"github.com/specialistvlad/funwith/internal/registry"
	"github.com/specialistvlad/funwith/internal/state"
	"github.com/specialistvlad/funwith/internal/template"
)

const defaultMode fs.FileMode = 0o644

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	registry.Handle(r, string(engine.KindManaged), m.Present)
}

// options understood in engine.FileArgs.Options.
type options struct {
	mode     fs.FileMode
	makedirs bool
}

func parseOptions(raw map[string]string) (options, error) {
	opts := options{mode: defaultMode}
	if v, ok := raw["mode"]; ok && v != "" {
		n, err := strconv.ParseUint(v, 8, 32)
		if err != nil {
			return opts, fmt.Errorf("invalid file mode %q: %w", v, err)
		}
		opts.mode = fs.FileMode(n).Perm()
	}
	if v, ok := raw["makedirs"]; ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid makedirs %q: %w", v, err)
		}
		opts.makedirs = b
	}
	return opts, nil
}

// Present ensures args.Path holds the wanted content and mode.
func (m *Module) Present(ctx context.Context, mode state.Mode, args engine.FileArgs) state.Result {
	logger := ctxlog.FromContext(ctx).With("path", args.Path)
	if args.Path == "" {
		return state.Failed(args.Path, errors.New("file path is empty"))
	}
	opts, err := parseOptions(args.Options)
	if err != nil {
		return state.Failed(args.Path, err)
	}

	want := []byte(args.Contents)
	if args.Template != "" {
		out, err := template.RenderSource(args.Template, args.Variables)
		if err != nil {
			return state.Failed(args.Path, err)
		}
		want = []byte(out)
	}

	var change string
	info, err := os.Stat(args.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		change = "New file"
	case err != nil:
		return state.Failed(args.Path, fmt.Errorf("stat %s: %w", args.Path, err))
	case info.IsDir():
		return state.Failed(args.Path, fmt.Errorf("%s is a directory", args.Path))
	default:
		have, err := os.ReadFile(args.Path)
		if err != nil {
			return state.Failed(args.Path, fmt.Errorf("read %s: %w", args.Path, err))
		}
		switch {
		case !bytes.Equal(have, want):
			change = "Contents updated"
		case info.Mode().Perm() != opts.mode:
			change = fmt.Sprintf("Mode %04o", opts.mode)
		default:
			return state.Unchanged(args.Path, fmt.Sprintf("File %s is in the correct state", args.Path))
		}
	}

	changes := map[string]any{args.Path: change}
	if mode.DryRun {
		return state.Changed(mode, args.Path, changes, fmt.Sprintf("File %s is set to be updated", args.Path))
	}

	if opts.makedirs {
		if err := os.MkdirAll(filepath.Dir(args.Path), 0o755); err != nil {
			return state.Failed(args.Path, fmt.Errorf("create parent of %s: %w", args.Path, err))
		}
	}
	if err := writeFile(args.Path, want, opts.mode); err != nil {
		return state.Failed(args.Path, err)
	}
	logger.Debug("Updated managed file.", "change", change)
	return state.Changed(mode, args.Path, changes, fmt.Sprintf("File %s updated", args.Path))
}

// writeFile replaces path atomically through a temporary sibling.
func writeFile(path string, data []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
