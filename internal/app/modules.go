package app

import (
	"github.com/specialistvlad/funwith/internal/registry"
	"github.com/specialistvlad/funwith/internal/runner"
	"github.com/specialistvlad/funwith/modules/ctags"
	"github.com/specialistvlad/funwith/modules/directory"
	"github.com/specialistvlad/funwith/modules/github"
	"github.com/specialistvlad/funwith/modules/managed"
	"github.com/specialistvlad/funwith/modules/spack"
	"github.com/specialistvlad/funwith/modules/virtualenv"
)

// coreModules is the definitive list of all state modules that are compiled
// into the funwith binary. Modules that shell out share r.
func coreModules(r runner.CommandRunner) []registry.Module {
	return []registry.Module{
		&directory.Module{},
		&managed.Module{},
		&github.Module{Runner: r},
		&ctags.Module{Runner: r},
		&virtualenv.Module{Runner: r},
		&spack.Module{Runner: r},
	}
}
