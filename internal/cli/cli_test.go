package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/specialistvlad/funwith/internal/app"
	"github.com/specialistvlad/funwith/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AllFlags(t *testing.T) {
	t.Parallel()

	// Arrange
	args := []string{
		"-dry-run",
		"-only", "a,b",
		"-only", "c",
		"-pillar", "base.yaml",
		"-pillar", "local.toml",
		"-output", "json",
		"-log-level", "DEBUG",
		"-log-format", "json",
		"projects.hcl",
	}

	// Act
	cfg, exit, err := Parse(args, &bytes.Buffer{})

	// Assert
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, &app.Config{
		ProjectPath: "projects.hcl",
		PillarFiles: []string{"base.yaml", "local.toml"},
		Only:        []string{"a", "b", "c"},
		DryRun:      true,
		Output:      report.JSON,
		LogFormat:   "json",
		LogLevel:    "debug",
	}, cfg)
}

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	cfg, exit, err := Parse([]string{"dir"}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, "dir", cfg.ProjectPath)
	assert.Equal(t, report.Text, cfg.Output)
	assert.False(t, cfg.DryRun)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParse_UsageAndHelpExitCleanly(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cfg, exit, err := Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "PROJECT_PATH")

	_, exit, err = Parse([]string{"-h"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.True(t, exit)
}

func TestParse_InvalidInput(t *testing.T) {
	t.Parallel()

	cases := map[string][]string{
		"unknown flag":       {"-bogus", "p.hcl"},
		"bad output":         {"-output", "xml", "p.hcl"},
		"bad log format":     {"-log-format", "xml", "p.hcl"},
		"bad log level":      {"-log-level", "loud", "p.hcl"},
		"too many arguments": {"a.hcl", "b.hcl"},
	}
	for name, args := range cases {
		args := args
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, _, err := Parse(args, &bytes.Buffer{})

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, ExitUsage, exitErr.Code)
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, ExitUsage, ExitCode(&ExitError{Code: ExitUsage}))
	assert.Equal(t, ExitUsage, ExitCode(fmt.Errorf("wrap: %w", app.ErrInvalidConfig)))
	assert.Equal(t, ExitFailure, ExitCode(fmt.Errorf("wrap: %w", app.ErrProvisioningFailed)))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("disk full")))
}
