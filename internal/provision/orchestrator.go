package provision

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/specialistvlad/funwith/internal/config"
	"github.com/specialistvlad/funwith/internal/ctxlog"
	"github.com/specialistvlad/funwith/internal/engine"
	"github.com/specialistvlad/funwith/internal/modulefile"
	"github.com/specialistvlad/funwith/internal/pillar"
	"github.com/specialistvlad/funwith/internal/spack"
	"github.com/specialistvlad/funwith/internal/state"
	"github.com/specialistvlad/funwith/internal/vimrc"
	"github.com/specialistvlad/funwith/internal/workspace"
)

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Engine     engine.Engine
	Workspaces workspace.Resolver
	Pillar     pillar.Lookup
	Namer      spack.Namer
	Compilers  spack.Compilers
}

// Orchestrator provisions projects through an engine.
type Orchestrator struct {
	engine     engine.Engine
	workspaces workspace.Resolver
	pillar     pillar.Lookup
	modules    modulefile.Builder
}

// New creates an orchestrator. A nil Pillar behaves as an empty one, and a
// nil Workspaces resolves under the pillar "workspaces" root.
func New(deps Deps) *Orchestrator {
	l := deps.Pillar
	if l == nil {
		l = pillar.New(nil)
	}
	ws := deps.Workspaces
	if ws == nil {
		ws = workspace.FromPillar(l)
	}
	return &Orchestrator{
		engine:     deps.Engine,
		workspaces: ws,
		pillar:     l,
		modules:    modulefile.Builder{Namer: deps.Namer, Compilers: deps.Compilers, Pillar: l},
	}
}

// Present converges project p. The error is non-nil only when the request
// itself is malformed, in which case no sub-operation ran.
func (o *Orchestrator) Present(ctx context.Context, p *config.Project, mode state.Mode) (state.Result, error) {
	pl, err := o.Plan(ctx, p)
	if err != nil {
		return state.Result{}, err
	}
	return o.Execute(ctx, pl, mode), nil
}

// PresentAll plans every project before executing any of them, then
// converges them in order.
func (o *Orchestrator) PresentAll(ctx context.Context, projects []*config.Project, mode state.Mode) ([]state.Result, error) {
	plans := make([]*Plan, 0, len(projects))
	for _, p := range projects {
		pl, err := o.Plan(ctx, p)
		if err != nil {
			return nil, err
		}
		plans = append(plans, pl)
	}
	results := make([]state.Result, 0, len(plans))
	for _, pl := range plans {
		results = append(results, o.Execute(ctx, pl, mode))
	}
	return results, nil
}

// Execute runs the sub-operations of a plan and returns their aggregate.
func (o *Orchestrator) Execute(ctx context.Context, pl *Plan, mode state.Mode) state.Result {
	p := pl.Project
	ctx, logger := ctxlog.With(ctx, "project", p.Name, "mode", mode.String())
	start := time.Now()
	logger.Info("Provisioning project.", "prefix", pl.Prefix)

	agg := state.New(p.Name, mode)
	merge := func(step string, res state.Result) {
		logger.Debug("Sub-operation finished.", "step", step, "status", res.Status.String(), "changes", len(res.Changes))
		state.Merge(mode, agg, res)
	}

	if p.Packages != nil {
		merge("packages", o.engine.InstallPackages(ctx, mode, engine.PackagesArgs{Packages: p.Packages}))
	}

	if pl.Virtualenv != "" {
		opts := maps.Clone(p.Options)
		if opts == nil {
			opts = map[string]string{}
		}
		maps.Copy(opts, p.Virtualenv.Options)
		merge("virtualenv", o.engine.Virtualenv(ctx, mode, engine.VirtualenvArgs{Path: pl.Virtualenv, Options: opts}))
	}

	merge("modulefile", o.moduleFile(ctx, mode, pl))

	merge("prefix", o.engine.Directory(ctx, mode, engine.DirectoryArgs{Path: pl.Prefix}))

	if pl.WorkingDir != pl.Prefix && pl.WorkingDir != pl.SourceDir {
		merge("cwd", o.engine.Directory(ctx, mode, engine.DirectoryArgs{Path: pl.WorkingDir}))
	}

	if pl.SourceDir != "" {
		merge("checkout", o.engine.Checkout(ctx, mode, engine.CheckoutArgs{
			Repository: p.Source.Repository,
			Target:     pl.SourceDir,
			Email:      p.Source.Email,
			Username:   p.Source.Username,
		}))
		if p.Ctags {
			merge("ctags", o.engine.Tags(ctx, mode, engine.TagsArgs{Dir: pl.SourceDir, Exclude: TagExcludes}))
		}
	}

	if pl.VimrcVariables != nil {
		merge("vimrc", o.engine.ManagedFile(ctx, mode, engine.FileArgs{
			Path:      pl.VimrcPath,
			Template:  vimrc.TemplateSource(o.pillar),
			Variables: pl.VimrcVariables,
		}))
	}

	if pl.Flags != nil {
		merge("cppconfig", o.engine.ManagedFile(ctx, mode, engine.FileArgs{
			Path:     pl.CppConfigPath,
			Contents: pl.Flags.String(),
		}))
	}

	logger.Info("Provisioned project.", "status", agg.Status.String(), "changes", len(agg.Changes), "duration", time.Since(start))
	return *agg
}

// moduleFile builds the module context and renders the module file. A
// failing collaborator becomes a failed result.
func (o *Orchestrator) moduleFile(ctx context.Context, mode state.Mode, pl *Plan) state.Result {
	p := pl.Project
	mc, err := o.modules.Build(ctx, modulefile.Input{
		Project:    p.Name,
		Prefix:     pl.Prefix,
		SourceDir:  pl.WorkingDir,
		Footer:     p.Footer,
		Virtualenv: pl.Virtualenv,
		Modules:    p.Modules,
		Packages:   p.Packages,
		Compiler:   p.Compiler,
	})
	if err != nil {
		return state.Failed(pl.ModuleFile, fmt.Errorf("module file context: %w", err))
	}
	vars, err := mc.Variables()
	if err != nil {
		return state.Failed(pl.ModuleFile, err)
	}

	opts := maps.Clone(p.Options)
	if opts == nil {
		opts = map[string]string{}
	}
	if _, ok := opts["makedirs"]; !ok {
		opts["makedirs"] = "true"
	}
	return o.engine.ManagedFile(ctx, mode, engine.FileArgs{
		Path:      pl.ModuleFile,
		Template:  modulefile.TemplateSource(o.pillar),
		Variables: vars,
		Options:   opts,
	})
}
