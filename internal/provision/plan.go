package provision

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/funwith/internal/config"
	"github.com/specialistvlad/funwith/internal/cppflags"
	"github.com/specialistvlad/funwith/internal/ctxlog"
	"github.com/specialistvlad/funwith/internal/modulefile"
	"github.com/specialistvlad/funwith/internal/resolve"
	"github.com/specialistvlad/funwith/internal/vimrc"
	"github.com/zclconf/go-cty/cty"
)

// TagExcludes are never indexed.
var TagExcludes = []string{".git", "build"}

// Plan is a project with every path resolved and every generated artifact
// prepared.
type Plan struct {
	Project *config.Project

	Prefix     string
	SourceDir  string
	WorkingDir string
	// Virtualenv is empty when no environment was requested.
	Virtualenv string
	ModuleFile string

	VimrcPath string
	// VimrcVariables is nil when no editor config was requested.
	VimrcVariables map[string]cty.Value

	CppConfigPath string
	// Flags is nil when no flags file was requested.
	Flags cppflags.Flags
}

// Plan resolves p without invoking any sub-operation. Malformed requests
// fail with config.ErrConfigurationConflict or config.ErrMissingDependency.
func (o *Orchestrator) Plan(ctx context.Context, p *config.Project) (*Plan, error) {
	if p == nil || p.Name == "" {
		return nil, fmt.Errorf("%w: project name is required", config.ErrMissingDependency)
	}

	prefix, err := resolve.Prefix(o.workspaces, p.Name, p.Prefix)
	if err != nil {
		return nil, fmt.Errorf("project %s: resolve prefix: %w", p.Name, err)
	}
	moduleRoot, err := modulefile.Root(o.pillar)
	if err != nil {
		return nil, fmt.Errorf("project %s: resolve module root: %w", p.Name, err)
	}

	pl := &Plan{
		Project:       p,
		Prefix:        prefix,
		ModuleFile:    modulefile.Path(moduleRoot, p.Name),
		VimrcPath:     filepath.Join(prefix, vimrc.FileName),
		CppConfigPath: filepath.Join(prefix, cppflags.FileName),
	}
	pl.SourceDir, _ = resolve.SourceTarget(prefix, p.Source)
	pl.WorkingDir = resolve.WorkingDir(prefix, p.Cwd, pl.SourceDir)
	if p.Virtualenv.Kind == config.Explicit && p.Virtualenv.Path == "" {
		return nil, fmt.Errorf("%w: project %s: virtualenv path is empty", config.ErrMissingDependency, p.Name)
	}
	pl.Virtualenv, _ = resolve.Virtualenv(prefix, p.Virtualenv)

	if p.Vimrc.Kind.Enabled() {
		vars, err := vimrc.Variables(o.pillar, prefix, pl.SourceDir, p.Vimrc, p.CppConfig.Kind.Enabled())
		if err != nil {
			return nil, fmt.Errorf("project %s: editor config: %w", p.Name, err)
		}
		pl.VimrcVariables = vars
	}

	if p.CppConfig.Kind.Enabled() {
		flags, err := cppflags.Assemble(p.CppConfig, prefix, pl.SourceDir)
		if err != nil {
			return nil, fmt.Errorf("project %s: compiler flags: %w", p.Name, err)
		}
		pl.Flags = flags
	}

	ctxlog.FromContext(ctx).Debug("Planned project.",
		"project", p.Name, "prefix", prefix, "source", pl.SourceDir, "cwd", pl.WorkingDir, "virtualenv", pl.Virtualenv)
	return pl, nil
}
