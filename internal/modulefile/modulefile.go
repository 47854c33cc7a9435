// Package modulefile builds the context of the per-project Lua environment
// module and locates where it is written.
package modulefile

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/funwith/internal/ctxlog"
	"github.com/specialistvlad/funwith/internal/pillar"
	"github.com/specialistvlad/funwith/internal/spack"
	"github.com/specialistvlad/funwith/internal/template"
	"github.com/specialistvlad/funwith/internal/workspace"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// DefaultRoot is where module files go when the pillar has no
// "modulefiles" key.
const DefaultRoot = "~/.modulefiles"

// Extension of every generated module file.
const Extension = ".lua"

// Context is the template context of a module file. Nil pointers render as
// null.
type Context struct {
	Project    string   `cty:"project"`
	Homedir    string   `cty:"homedir"`
	Srcdir     *string  `cty:"srcdir"`
	Footer     *string  `cty:"footer"`
	Virtualenv *string  `cty:"virtualenv"`
	Modules    []string `cty:"modules"`
	CC         *string  `cty:"cc"`
	CXX        *string  `cty:"cxx"`
	FC         *string  `cty:"fc"`
	F77        *string  `cty:"f77"`
}

// Variables converts c into template variables.
func (c Context) Variables() (map[string]cty.Value, error) {
	if c.Modules == nil {
		c.Modules = []string{}
	}
	ty, err := gocty.ImpliedType(c)
	if err != nil {
		return nil, fmt.Errorf("module file context: %w", err)
	}
	val, err := gocty.ToCtyValue(c, ty)
	if err != nil {
		return nil, fmt.Errorf("module file context: %w", err)
	}
	return val.AsValueMap(), nil
}

// Input is what the builder needs to know about a project.
type Input struct {
	Project    string
	Prefix     string
	SourceDir  string
	Footer     string
	Virtualenv string
	Modules    []string
	Packages   []string
	// Compiler overrides the pillar "compiler" suite.
	Compiler string
}

// Builder derives module file contexts.
type Builder struct {
	Namer     spack.Namer
	Compilers spack.Compilers
	Pillar    pillar.Lookup
}

// Build resolves module names for the package set and the toolchain of the
// compiler suite. An unknown suite leaves every toolchain path absent.
func (b Builder) Build(ctx context.Context, in Input) (Context, error) {
	logger := ctxlog.FromContext(ctx)

	suite := in.Compiler
	if suite == "" && b.Pillar != nil {
		if fromPillar, ok := pillar.Optional(b.Pillar, "compiler"); ok {
			suite = fromPillar
			logger.Debug("Compiler suite taken from pillar.", "compiler", suite)
		}
	}

	mc := Context{
		Project:    in.Project,
		Homedir:    in.Prefix,
		Srcdir:     optional(in.SourceDir),
		Footer:     optional(in.Footer),
		Virtualenv: optional(in.Virtualenv),
		Modules:    append([]string{}, in.Modules...),
	}

	if len(in.Packages) > 0 && b.Namer == nil {
		return Context{}, errors.New("module file context: packages requested without a module namer")
	}
	for _, pkg := range in.Packages {
		names, err := b.Namer.ModuleNames(ctx, pkg, suite)
		if err != nil {
			return Context{}, err
		}
		mc.Modules = append(mc.Modules, names...)
	}

	if suite == "" || b.Compilers == nil {
		return mc, nil
	}
	comp, err := b.Compilers.Compiler(ctx, suite)
	if errors.Is(err, spack.ErrUnknownCompiler) {
		logger.Warn("Compiler suite is not described, toolchain paths left unset.", "compiler", suite)
		return mc, nil
	}
	if err != nil {
		return Context{}, err
	}
	mc.CC = optional(comp.CC)
	mc.CXX = optional(comp.CXX)
	mc.FC = optional(comp.FC)
	mc.F77 = optional(comp.F77)
	return mc, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Root is the expanded module root from the pillar.
func Root(l pillar.Lookup) (string, error) {
	return workspace.ExpandHome(pillar.String(l, "modulefiles", DefaultRoot))
}

// Path is the module file of project name under root.
func Path(root, name string) string {
	return filepath.Join(root, name+Extension)
}

// TemplateSource is the pillar override "templates:modulefile" or the
// built-in template.
func TemplateSource(l pillar.Lookup) string {
	return pillar.String(l, "templates:modulefile", template.Modulefile)
}
