package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/funwith/internal/hcl"
	"github.com/specialistvlad/funwith/internal/report"
	"github.com/specialistvlad/funwith/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// projectFile writes a project file whose workspaces and module files live
// under root.
func projectFile(t *testing.T, root, projects string) string {
	t.Helper()
	content := fmt.Sprintf(`
defaults {
  workspaces  = %q
  modulefiles = %q
}
`, filepath.Join(root, "ws"), filepath.Join(root, "modules")) + projects
	testutil.WriteFiles(t, root, map[string]string{"projects.hcl": content})
	return filepath.Join(root, "projects.hcl")
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	_, err := NewConfig(Config{})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewConfig(Config{ProjectPath: "p.hcl", Output: "xml"})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewConfig(Config{ProjectPath: "p.hcl", LogLevel: "loud"})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewConfig(Config{ProjectPath: "p.hcl", LogFormat: "xml"})
	require.ErrorIs(t, err, ErrInvalidConfig)

	cfg, err := NewConfig(Config{ProjectPath: "p.hcl"})
	require.NoError(t, err)
	assert.Equal(t, report.Text, cfg.Output)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestRun_ProvisionsThenConverges(t *testing.T) {
	t.Parallel()

	// Arrange
	root := t.TempDir()
	path := projectFile(t, root, `
project "demo" {
  cwd       = "build"
  vimrc     = true
  cppconfig = { includes = ["include"], c99 = true }
}
`)
	r := &testutil.FakeRunner{}

	// Act
	a, out, logs := SetupAppTest(t, &Config{ProjectPath: path}, Deps{Runner: r})
	require.NoError(t, a.Run(context.Background()))
	again, againOut, _ := SetupAppTest(t, &Config{ProjectPath: path}, Deps{Runner: r})
	require.NoError(t, again.Run(context.Background()))

	// Assert
	prefix := filepath.Join(root, "ws", "demo")
	assert.DirExists(t, filepath.Join(prefix, "build"))
	assert.FileExists(t, filepath.Join(root, "modules", "demo.lua"))
	assert.Equal(t, "-Wall\n-I"+filepath.Join(prefix, "include")+"\n-x\nc\n-std=c99", testutil.ReadFile(t, filepath.Join(prefix, ".cppconfig")))
	assert.Contains(t, out.String(), "New Dir")
	assert.Contains(t, out.String(), "Summary: 1 succeeded, 0 pending, 0 failed")
	assert.Contains(t, againOut.String(), "Changes: none")
	assert.Contains(t, logs.String(), "run_id=")
	assert.Empty(t, r.Commands(), "no external command is needed for this project")
}

func TestRun_DryRunTouchesNothing(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := projectFile(t, root, `
project "demo" {
  vimrc = true
}
`)

	a, out, _ := SetupAppTest(t, &Config{ProjectPath: path, DryRun: true, Output: report.YAML}, Deps{Runner: &testutil.FakeRunner{}})
	require.NoError(t, a.Run(context.Background()))

	assert.NoDirExists(t, filepath.Join(root, "ws"))
	assert.NoDirExists(t, filepath.Join(root, "modules"))
	assert.Contains(t, out.String(), "result: pending")
}

func TestRun_FailedSubOperationFailsTheRun(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := projectFile(t, root, `
project "demo" {
  source {
    repository = "owner/demo"
  }
}
`)
	r := &testutil.FakeRunner{Hook: func(c testutil.Call) testutil.Reply {
		return testutil.Reply{ExitCode: 128, Stderr: "fatal: repository not found"}
	}}

	a, out, _ := SetupAppTest(t, &Config{ProjectPath: path}, Deps{Runner: r})
	err := a.Run(context.Background())

	require.ErrorIs(t, err, ErrProvisioningFailed)
	assert.Contains(t, out.String(), "Result: failure")
	assert.Contains(t, out.String(), "repository not found")
	assert.DirExists(t, filepath.Join(root, "ws", "demo"), "later steps still ran")
}

func TestRun_ConfigErrorAbortsBeforeAnyChange(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := projectFile(t, root, `
project "ok" {}

project "bad" {
  cppconfig = { cpp11 = true, c99 = true }
}
`)

	a, out, _ := SetupAppTest(t, &Config{ProjectPath: path}, Deps{Runner: &testutil.FakeRunner{}})
	err := a.Run(context.Background())

	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Empty(t, out.String())
	assert.NoDirExists(t, filepath.Join(root, "ws"))
}

func TestRun_OnlySelectsProjects(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := projectFile(t, root, "project \"a\" {}\nproject \"b\" {}\n")

	a, out, _ := SetupAppTest(t, &Config{ProjectPath: path, Only: []string{"b"}}, Deps{Runner: &testutil.FakeRunner{}})
	require.NoError(t, a.Run(context.Background()))

	assert.NoDirExists(t, filepath.Join(root, "ws", "a"))
	assert.DirExists(t, filepath.Join(root, "ws", "b"))
	assert.Equal(t, 1, strings.Count(out.String(), "Project: "))

	missing, _, _ := SetupAppTest(t, &Config{ProjectPath: path, Only: []string{"zzz"}}, Deps{Runner: &testutil.FakeRunner{}})
	require.ErrorIs(t, missing.Run(context.Background()), ErrInvalidConfig)
}

func TestNewApp_PillarFileOverridesDefaults(t *testing.T) {
	t.Parallel()

	// Arrange
	root := t.TempDir()
	path := projectFile(t, root, "project \"demo\" {\n  vimrc = true\n}\n")
	pillarFile := filepath.Join(root, "pillar.yaml")
	require.NoError(t, os.WriteFile(pillarFile, []byte("vim:\n  width: 72\n"), 0o644))

	// Act
	a, _, _ := SetupAppTest(t, &Config{ProjectPath: path, PillarFiles: []string{pillarFile}}, Deps{Runner: &testutil.FakeRunner{}})
	require.NoError(t, a.Run(context.Background()))

	// Assert
	assert.Contains(t, testutil.ReadFile(t, filepath.Join(root, "ws", "demo", ".vimrc")), "set textwidth=72\n")
}

func TestNewApp_LoadErrorIsInvalidConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{"broken.hcl": "project \"a\" {\n"})

	cfg, err := NewConfig(Config{ProjectPath: filepath.Join(root, "broken.hcl")})
	require.NoError(t, err)
	_, err = NewApp(io.Discard, io.Discard, cfg, Deps{Loader: hcl.NewLoader(), Runner: &testutil.FakeRunner{}})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewApp(io.Discard, io.Discard, cfg, Deps{})
	require.Error(t, err)
}
