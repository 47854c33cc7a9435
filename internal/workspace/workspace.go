// Package workspace maps a project name to the root directory its
// workspace owns.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/funwith/internal/pillar"
)

// DefaultRoot is used when the pillar carries no "workspaces" key.
const DefaultRoot = "~/workspaces"

// ErrInvalidName indicates a project name that cannot name a directory.
var ErrInvalidName = errors.New("invalid project name")

// Resolver computes the prefix of a project from its name.
type Resolver interface {
	Workspace(name string) (string, error)
}

// Root places every project in a directory named after it under Dir.
type Root struct {
	Dir string
}

// FromPillar builds a Root from the "workspaces" pillar key.
func FromPillar(l pillar.Lookup) Root {
	return Root{Dir: pillar.String(l, "workspaces", DefaultRoot)}
}

// Workspace implements Resolver.
func (r Root) Workspace(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsRune(name, os.PathSeparator) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	dir, err := ExpandHome(r.Dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// ExpandHome replaces a leading "~" with the current user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
