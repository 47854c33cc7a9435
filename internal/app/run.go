package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/specialistvlad/funwith/internal/config"
	"github.com/specialistvlad/funwith/internal/ctxlog"
	"github.com/specialistvlad/funwith/internal/report"
	"github.com/specialistvlad/funwith/internal/state"
)

// ErrProvisioningFailed is returned by Run when at least one project ended
// in failure. The report has still been written.
var ErrProvisioningFailed = errors.New("provisioning failed")

// Run provisions the selected projects and writes the report.
func (a *App) Run(ctx context.Context) error {
	ctx, logger := ctxlog.With(ctxlog.WithLogger(ctx, a.logger), "run_id", uuid.NewString())
	logger.Debug("App.Run method started.")

	projects, err := a.selectProjects()
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		logger.Warn("No projects found, provisioning not required.", "path", a.config.ProjectPath)
	}

	mode := state.Apply
	if a.config.DryRun {
		mode = state.DryRun
	}
	logger.Info("Starting provisioning.", "projects", len(projects), "mode", mode.String())

	results, err := a.orchestrator.PresentAll(ctx, projects, mode)
	if err != nil {
		if config.IsConfigError(err) {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		return fmt.Errorf("provisioning aborted: %w", err)
	}

	if err := report.Write(a.outW, a.config.Output, results); err != nil {
		return err
	}

	var failed []string
	for _, res := range results {
		if res.Status == state.Failure {
			failed = append(failed, res.Name)
		}
	}
	logger.Info("Provisioning finished.", "projects", len(results), "failed", len(failed))
	if len(failed) > 0 {
		return fmt.Errorf("%w: %s", ErrProvisioningFailed, strings.Join(failed, ", "))
	}
	return nil
}

// selectProjects applies the Only filter, keeping file order.
func (a *App) selectProjects() ([]*config.Project, error) {
	if len(a.config.Only) == 0 {
		return a.model.Projects, nil
	}
	selected := make([]*config.Project, 0, len(a.config.Only))
	wanted := make(map[string]bool, len(a.config.Only))
	for _, name := range a.config.Only {
		if _, ok := a.model.Project(name); !ok {
			return nil, fmt.Errorf("%w: unknown project %q", ErrInvalidConfig, name)
		}
		wanted[name] = true
	}
	for _, p := range a.model.Projects {
		if wanted[p.Name] {
			selected = append(selected, p)
		}
	}
	return selected, nil
}
