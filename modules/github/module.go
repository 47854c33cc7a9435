// Package github checks out project repositories and configures the commit
// identity inside the clone. Existing clones are never pulled.
package github

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/funwith/internal/ctxlog"
	"github.com/specialistvlad/funwith/internal/engine"
	"github.com/specialistvlad/funwith/internal/registry"
	"github.com/specialistvlad/funwith/internal/runner"
	"github.com/specialistvlad/funwith/internal/state"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	Runner runner.CommandRunner
	// Git defaults to "git".
	Git string
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	registry.Handle(r, string(engine.KindCheckout), m.Present)
}

func (m *Module) git() string {
	if m.Git == "" {
		return "git"
	}
	return m.Git
}

// CloneURL expands an "owner/repo" locator to a GitHub HTTPS URL. Full URLs
// and scp-style addresses are used verbatim.
func CloneURL(repository string) string {
	if strings.Contains(repository, "://") || strings.HasPrefix(repository, "git@") {
		return repository
	}
	return "https://github.com/" + strings.TrimSuffix(repository, ".git") + ".git"
}

// Present ensures args.Target is a clone of args.Repository.
func (m *Module) Present(ctx context.Context, mode state.Mode, args engine.CheckoutArgs) state.Result {
	logger := ctxlog.FromContext(ctx).With("target", args.Target)
	name := args.Target
	if args.Repository == "" || args.Target == "" {
		return state.Failed(name, errors.New("checkout needs a repository and a target"))
	}
	url := CloneURL(args.Repository)

	changes := map[string]any{}
	var comments []string

	cloned, err := isClone(args.Target)
	if err != nil {
		return state.Failed(name, err)
	}
	if !cloned {
		changes[args.Target] = "Cloned " + url
		if mode.DryRun {
			comments = append(comments, fmt.Sprintf("Repository %s would be cloned into %s", url, args.Target))
		} else {
			if err := os.MkdirAll(filepath.Dir(args.Target), 0o755); err != nil {
				return state.Failed(name, fmt.Errorf("create parent of %s: %w", args.Target, err))
			}
			if _, err := runner.Run(ctx, m.Runner, m.git(), "clone", url, args.Target); err != nil {
				return state.Failed(name, fmt.Errorf("clone %s: %w", url, err))
			}
			logger.Info("Cloned repository.", "url", url)
			comments = append(comments, fmt.Sprintf("Repository %s cloned into %s", url, args.Target))
		}
	}

	identity := []struct{ key, value string }{
		{"user.email", args.Email},
		{"user.name", args.Username},
	}
	for _, id := range identity {
		if id.value == "" {
			continue
		}
		current := ""
		if cloned {
			out, err := runner.Run(ctx, m.Runner, m.git(), "-C", args.Target, "config", "--get", id.key)
			// `git config --get` exits 1 when the key is unset.
			if err != nil && runner.ExitCode(err) != 1 {
				return state.Failed(name, fmt.Errorf("read %s: %w", id.key, err))
			}
			current = strings.TrimSpace(string(out))
		}
		if current == id.value {
			continue
		}
		changes[args.Target+":"+id.key] = id.value
		if mode.DryRun {
			continue
		}
		if _, err := runner.Run(ctx, m.Runner, m.git(), "-C", args.Target, "config", id.key, id.value); err != nil {
			return state.Failed(name, fmt.Errorf("set %s: %w", id.key, err))
		}
	}

	if len(changes) == 0 {
		return state.Unchanged(name, fmt.Sprintf("Repository %s is already checked out", args.Target))
	}
	if len(comments) == 0 {
		comments = append(comments, fmt.Sprintf("Commit identity of %s configured", args.Target))
	}
	return state.Changed(mode, name, changes, strings.Join(comments, "\n"))
}

// isClone reports whether target holds a git checkout. A target that exists
// without one is an error.
func isClone(target string) (bool, error) {
	if _, err := os.Stat(target); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("stat %s: %w", target, err)
	}
	if _, err := os.Stat(filepath.Join(target, ".git")); err != nil {
		return false, fmt.Errorf("%s exists but is not a git checkout", target)
	}
	return true, nil
}
