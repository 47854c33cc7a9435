// Package spack answers the two questions module files need from the
// package manager: which environment modules a package spec provides, and
// which toolchain a compiler suite uses.
package spack

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/funwith/internal/config"
	"github.com/specialistvlad/funwith/internal/ctxlog"
	"github.com/specialistvlad/funwith/internal/runner"
)

// ErrUnknownCompiler indicates a compiler suite nobody describes.
var ErrUnknownCompiler = errors.New("unknown compiler suite")

// Namer maps a package spec to the environment modules it provides.
type Namer interface {
	ModuleNames(ctx context.Context, pkg, compiler string) ([]string, error)
}

// Compilers describes the toolchain of a compiler suite.
type Compilers interface {
	Compiler(ctx context.Context, suite string) (config.Compiler, error)
}

// CLI queries the spack command line.
type CLI struct {
	Runner runner.CommandRunner
	// Binary defaults to "spack".
	Binary string
}

func (c CLI) binary() string {
	if c.Binary == "" {
		return "spack"
	}
	return c.Binary
}

// Spec appends the compiler constraint to pkg when one is given.
func Spec(pkg, compiler string) string {
	if compiler == "" || strings.Contains(pkg, "%") {
		return pkg
	}
	return pkg + " %" + compiler
}

// ModuleNames implements Namer with `spack module lmod find`.
func (c CLI) ModuleNames(ctx context.Context, pkg, compiler string) ([]string, error) {
	args := append([]string{"module", "lmod", "find"}, strings.Fields(Spec(pkg, compiler))...)
	out, err := runner.Run(ctx, c.Runner, c.binary(), args...)
	if err != nil {
		return nil, fmt.Errorf("module name lookup for %q: %w", pkg, err)
	}
	names := strings.Fields(string(out))
	if len(names) == 0 {
		return nil, fmt.Errorf("module name lookup for %q: no module found", pkg)
	}
	ctxlog.FromContext(ctx).Debug("Resolved package modules.", "package", pkg, "modules", names)
	return names, nil
}

// Compiler implements Compilers with `spack compiler info`.
func (c CLI) Compiler(ctx context.Context, suite string) (config.Compiler, error) {
	out, err := runner.Run(ctx, c.Runner, c.binary(), "compiler", "info", suite)
	if err != nil {
		if runner.ExitCode(err) == 1 {
			return config.Compiler{}, fmt.Errorf("%w: %s", ErrUnknownCompiler, suite)
		}
		return config.Compiler{}, fmt.Errorf("compiler lookup for %q: %w", suite, err)
	}
	return ParseCompilerInfo(suite, out), nil
}

// ParseCompilerInfo reads the "paths" section of `spack compiler info`.
// Paths reported as None stay empty.
func ParseCompilerInfo(suite string, out []byte) config.Compiler {
	comp := config.Compiler{Name: suite}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "None" {
			value = ""
		}
		switch strings.TrimSpace(key) {
		case "cc":
			comp.CC = value
		case "cxx":
			comp.CXX = value
		case "fc":
			comp.FC = value
		case "f77":
			comp.F77 = value
		}
	}
	return comp
}

// Table describes compilers from the project file.
type Table map[string]*config.Compiler

// Compiler implements Compilers.
func (t Table) Compiler(_ context.Context, suite string) (config.Compiler, error) {
	comp, ok := t[suite]
	if !ok || comp == nil {
		return config.Compiler{}, fmt.Errorf("%w: %s", ErrUnknownCompiler, suite)
	}
	return *comp, nil
}

// Chain asks each Compilers in turn, skipping those that do not know the
// suite.
type Chain []Compilers

// Compiler implements Compilers.
func (c Chain) Compiler(ctx context.Context, suite string) (config.Compiler, error) {
	for _, src := range c {
		comp, err := src.Compiler(ctx, suite)
		if errors.Is(err, ErrUnknownCompiler) {
			continue
		}
		return comp, err
	}
	return config.Compiler{}, fmt.Errorf("%w: %s", ErrUnknownCompiler, suite)
}
