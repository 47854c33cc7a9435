// Package virtualenv creates Python virtual environments and keeps their
// requested packages installed.
package virtualenv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/specialistvlad/funwith/internal/ctxlog"
	"github.com/specialistvlad/funwith/internal/engine"
	"github.com/specialistvlad/funwith/internal/registry"
	"github.com/specialistvlad/funwith/internal/runner"
	"github.com/specialistvlad/funwith/internal/state"
)

// DefaultPython creates environments when no "python" option is given.
const DefaultPython = "python3"

// Module implements the registry.Module interface for this package.
type Module struct {
	Runner runner.CommandRunner
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	registry.Handle(r, string(engine.KindVirtualenv), m.Present)
}

// Options understood in engine.VirtualenvArgs.Options.
type Options struct {
	Python             string
	SystemSitePackages bool
	Requirements       string
	Packages           []string
}

// ParseOptions reads the python, system_site_packages, requirements and
// pip_pkgs options. pip_pkgs is a comma or whitespace separated list.
func ParseOptions(raw map[string]string) (Options, error) {
	opts := Options{Python: DefaultPython}
	if v := raw["python"]; v != "" {
		opts.Python = v
	}
	if v := raw["system_site_packages"]; v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid system_site_packages %q: %w", v, err)
		}
		opts.SystemSitePackages = b
	}
	opts.Requirements = raw["requirements"]
	opts.Packages = strings.FieldsFunc(raw["pip_pkgs"], func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	return opts, nil
}

// Interpreter is the Python binary of the environment at path.
func Interpreter(path string) string {
	return filepath.Join(path, "bin", "python")
}

// Present ensures a virtual environment exists at args.Path.
func (m *Module) Present(ctx context.Context, mode state.Mode, args engine.VirtualenvArgs) state.Result {
	name := args.Path
	logger := ctxlog.FromContext(ctx).With("path", args.Path)
	if args.Path == "" {
		return state.Failed(name, errors.New("virtualenv path is empty"))
	}
	opts, err := ParseOptions(args.Options)
	if err != nil {
		return state.Failed(name, err)
	}

	python := Interpreter(args.Path)
	changes := map[string]any{}
	var comments []string

	exists := true
	if _, err := os.Stat(python); errors.Is(err, fs.ErrNotExist) {
		exists = false
	} else if err != nil {
		return state.Failed(name, fmt.Errorf("stat %s: %w", python, err))
	}

	if !exists {
		changes[args.Path] = "Created new virtualenv"
		if mode.DryRun {
			comments = append(comments, fmt.Sprintf("Virtualenv %s would be created", args.Path))
		} else {
			venv := []string{"-m", "venv"}
			if opts.SystemSitePackages {
				venv = append(venv, "--system-site-packages")
			}
			if _, err := runner.Run(ctx, m.Runner, opts.Python, append(venv, args.Path)...); err != nil {
				return state.Failed(name, fmt.Errorf("create virtualenv %s: %w", args.Path, err))
			}
			logger.Info("Created virtualenv.", "python", opts.Python)
			comments = append(comments, fmt.Sprintf("Virtualenv %s created", args.Path))
		}
	}

	installed := map[string]string{}
	if exists || !mode.DryRun {
		installed, err = m.freeze(ctx, python)
		if err != nil {
			return state.Failed(name, err)
		}
	}

	var missing []string
	for _, pkg := range opts.Packages {
		if _, ok := installed[normalize(requirementName(pkg))]; !ok {
			missing = append(missing, pkg)
		}
	}
	if len(missing) > 0 {
		if mode.DryRun {
			for _, pkg := range missing {
				changes[pkg] = "Would install"
			}
		} else if _, err := runner.Run(ctx, m.Runner, python, append([]string{"-m", "pip", "install"}, missing...)...); err != nil {
			return state.Failed(name, fmt.Errorf("install %s: %w", strings.Join(missing, " "), err))
		}
	}

	if opts.Requirements != "" {
		if mode.DryRun {
			comments = append(comments, fmt.Sprintf("Requirements %s are checked on apply", opts.Requirements))
		} else if _, err := runner.Run(ctx, m.Runner, python, "-m", "pip", "install", "-r", opts.Requirements); err != nil {
			return state.Failed(name, fmt.Errorf("install requirements %s: %w", opts.Requirements, err))
		}
	}

	if !mode.DryRun && (len(missing) > 0 || opts.Requirements != "") {
		after, err := m.freeze(ctx, python)
		if err != nil {
			return state.Failed(name, err)
		}
		for pkg, version := range after {
			if installed[pkg] != version {
				changes[pkg] = version
			}
		}
	}

	if len(changes) == 0 {
		comments = append(comments, fmt.Sprintf("Virtualenv %s is in the correct state", args.Path))
		return state.Unchanged(name, strings.Join(comments, "\n"))
	}
	if len(comments) == 0 {
		comments = append(comments, fmt.Sprintf("Packages of virtualenv %s updated", args.Path))
	}
	return state.Changed(mode, name, changes, strings.Join(comments, "\n"))
}

// freeze lists installed distributions as normalized name to version.
func (m *Module) freeze(ctx context.Context, python string) (map[string]string, error) {
	out, err := runner.Run(ctx, m.Runner, python, "-m", "pip", "freeze", "--all")
	if err != nil {
		return nil, fmt.Errorf("list installed packages: %w", err)
	}
	return ParseFreeze(string(out)), nil
}

// ParseFreeze reads `pip freeze` output. Editable and direct-reference
// lines are keyed by their project name with the full line as version.
func ParseFreeze(out string) map[string]string {
	pkgs := map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if name, version, ok := strings.Cut(line, "=="); ok {
			pkgs[normalize(name)] = version
			continue
		}
		if name, _, ok := strings.Cut(line, " @ "); ok {
			pkgs[normalize(name)] = line
			continue
		}
		if _, egg, ok := strings.Cut(line, "#egg="); ok {
			pkgs[normalize(egg)] = line
		}
	}
	return pkgs
}

// requirementName strips version specifiers and extras from a requirement.
func requirementName(req string) string {
	if i := strings.IndexAny(req, "<>=!~;[ "); i >= 0 {
		return req[:i]
	}
	return req
}

func normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}

