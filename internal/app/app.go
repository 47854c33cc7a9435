package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/funwith/internal/config"
	"github.com/specialistvlad/funwith/internal/ctxlog"
	"github.com/specialistvlad/funwith/internal/engine"
	"github.com/specialistvlad/funwith/internal/pillar"
	"github.com/specialistvlad/funwith/internal/provision"
	"github.com/specialistvlad/funwith/internal/registry"
	"github.com/specialistvlad/funwith/internal/runner"
	"github.com/specialistvlad/funwith/internal/spack"
	"github.com/specialistvlad/funwith/internal/workspace"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW         io.Writer
	logger       *slog.Logger
	config       *Config
	registry     *registry.Registry
	model        *config.Model
	pillar       *pillar.Store
	orchestrator *provision.Orchestrator
}

// Deps are the replaceable collaborators of an App. Zero values select the
// local implementations.
type Deps struct {
	Loader  config.Loader
	Runner  runner.CommandRunner
	Modules []registry.Module
}

// NewApp is the constructor for the main application. Reports go to outW
// and logs to logW. Loading or wiring failures are returned, never panicked.
func NewApp(outW, logW io.Writer, appConfig *Config, deps Deps) (*App, error) {
	level, err := parseLevel(appConfig.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := newLogger(level, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if deps.Runner == nil {
		deps.Runner = runner.Exec{}
	}
	if len(deps.Modules) == 0 {
		deps.Modules = coreModules(deps.Runner)
	}
	if deps.Loader == nil {
		return nil, fmt.Errorf("app: no project loader configured")
	}

	model, err := deps.Loader.Load(ctx, appConfig.ProjectPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load projects: %w", ErrInvalidConfig, err)
	}
	logger.Debug("Projects loaded into unified model.", "projects", len(model.Projects))

	store := pillar.New(model.Defaults)
	for _, file := range appConfig.PillarFiles {
		values, err := pillar.LoadFile(file)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		store.Merge(values)
		logger.Debug("Pillar file merged.", "path", file, "keys", len(values))
	}

	reg := registry.New(deps.Modules...)
	logger.Debug("All Go modules registered.", "count", len(deps.Modules))

	dispatcher := engine.NewDispatcher(reg)
	if err := dispatcher.Validate(ctx); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	logger.Debug("Registry validation passed.")

	cli := spack.CLI{Runner: deps.Runner}
	orch := provision.New(provision.Deps{
		Engine:     dispatcher,
		Workspaces: workspace.FromPillar(store),
		Pillar:     store,
		Namer:      cli,
		Compilers:  spack.Chain{spack.Table(model.Compilers), cli},
	})

	return &App{
		outW:         outW,
		logger:       logger,
		config:       appConfig,
		registry:     reg,
		model:        model,
		pillar:       store,
		orchestrator: orch,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Model returns the loaded project model.
func (a *App) Model() *config.Model {
	return a.model
}

// Pillar returns the merged pillar values.
func (a *App) Pillar() pillar.Lookup {
	return a.pillar
}
