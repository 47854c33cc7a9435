// Package cppflags assembles the compiler flags written to a project's
// .cppconfig file. Consumers are order sensitive, so the order of the
// emitted flags is part of the contract.
package cppflags

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/funwith/internal/config"
)

// FileName is the flags file created in the project prefix.
const FileName = ".cppconfig"

// Flags is an ordered sequence of compiler flags.
type Flags []string

// String joins the flags with newlines, which is the file format.
func (f Flags) String() string {
	return strings.Join(f, "\n")
}

// Validate checks opts for conflicts without emitting anything.
func Validate(opts config.CppConfig, sourceDir string) error {
	if (opts.Cpp11 || opts.Cpp) && opts.C99 {
		return fmt.Errorf("cppconfig: cannot be both a c++ and a c project: %w", config.ErrConfigurationConflict)
	}
	if opts.SourceIncludes != nil && sourceDir == "" {
		return fmt.Errorf("cppconfig: source includes need a source directory: %w", config.ErrMissingDependency)
	}
	return nil
}

// Assemble builds the flags for opts. Relative includes are joined under
// prefix and source includes under sourceDir.
func Assemble(opts config.CppConfig, prefix, sourceDir string) (Flags, error) {
	if err := Validate(opts, sourceDir); err != nil {
		return nil, err
	}

	flags := Flags{"-Wall"}
	for _, include := range opts.Includes {
		if include == "" {
			continue
		}
		if filepath.IsAbs(include) {
			flags = append(flags, "-I"+include)
		} else {
			flags = append(flags, "-I"+filepath.Join(prefix, include))
		}
	}
	for _, include := range opts.SourceIncludes {
		flags = append(flags, "-I"+filepath.Join(sourceDir, include))
	}

	cxx := opts.Cpp11 || opts.Cpp
	if cxx {
		flags = append(flags, "-x", "c++")
	} else {
		flags = append(flags, "-x", "c")
	}
	switch {
	case opts.Cpp11:
		flags = append(flags, "-std=c++11")
	case opts.C99:
		flags = append(flags, "-std=c99")
	}

	for _, define := range opts.Defines {
		flags = append(flags, "-D"+define)
	}
	return flags, nil
}
