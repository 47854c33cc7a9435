// Package resolve derives the concrete paths of a provisioning request:
// prefix, virtual environment, source checkout and working directory.
// Every function is a pure function of its inputs.
package resolve

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/funwith/internal/config"
	"github.com/specialistvlad/funwith/internal/workspace"
)

// Prefix returns explicit when set, otherwise asks ws for the workspace of
// name.
func Prefix(ws workspace.Resolver, name, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	return ws.Workspace(name)
}

// Virtualenv returns the target directory of the virtual environment and
// whether one was requested. A default request lives in the prefix.
func Virtualenv(prefix string, spec config.Virtualenv) (string, bool) {
	switch spec.Kind {
	case config.UseDefault:
		return prefix, true
	case config.Explicit:
		return spec.Path, true
	default:
		return "", false
	}
}

// SourceName is the checkout directory name of src: its Name, else the last
// element of the repository locator without a ".git" suffix.
func SourceName(src *config.Source) string {
	if src.Name != "" {
		return src.Name
	}
	repo := strings.TrimRight(src.Repository, "/")
	return strings.TrimSuffix(path.Base(repo), ".git")
}

// SourceTarget returns <prefix>/src/<name> for a project with a source
// checkout.
func SourceTarget(prefix string, src *config.Source) (string, bool) {
	if src == nil || src.Repository == "" {
		return "", false
	}
	return filepath.Join(prefix, "src", SourceName(src)), true
}

// WorkingDir resolves cwd against prefix. An omitted cwd selects the source
// checkout when there is one. An empty cwd always selects the prefix.
func WorkingDir(prefix string, cwd *string, vcsTarget string) string {
	switch {
	case cwd == nil && vcsTarget != "":
		return vcsTarget
	case cwd == nil || *cwd == "":
		return prefix
	case filepath.IsAbs(*cwd):
		return *cwd
	default:
		return filepath.Join(prefix, *cwd)
	}
}
