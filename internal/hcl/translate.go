package hcl

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/funwith/internal/config"
	"github.com/specialistvlad/funwith/internal/schema"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// translateCompiler converts a compiler block into the agnostic model.
func translateCompiler(c *schema.Compiler) *config.Compiler {
	return &config.Compiler{Name: c.Name, CC: c.CC, CXX: c.CXX, FC: c.FC, F77: c.F77}
}

// translateProject converts a project block into the agnostic model,
// decoding each union-typed attribute according to its shape.
func translateProject(ctx context.Context, s *schema.Project) (*config.Project, error) {
	p := &config.Project{
		Name:     s.Name,
		Prefix:   s.Prefix,
		Cwd:      s.Cwd,
		Footer:   s.Footer,
		Compiler: s.Compiler,
		Ctags:    s.Ctags,
		Modules:  s.Modules,
		Options:  s.Options,
	}
	if s.Source != nil {
		p.Source = &config.Source{
			Repository: s.Source.Repository,
			Name:       s.Source.Name,
			Email:      s.Source.Email,
			Username:   s.Source.Username,
		}
	}

	var err error
	if p.Packages, err = decodeUnion(ctx, s.Spack, "spack", decodePackages); err != nil {
		return nil, fmt.Errorf("project %q: %w", s.Name, err)
	}
	if p.Virtualenv, err = decodeUnion(ctx, s.Virtualenv, "virtualenv", decodeVirtualenv); err != nil {
		return nil, fmt.Errorf("project %q: %w", s.Name, err)
	}
	if p.Vimrc, err = decodeUnion(ctx, s.Vimrc, "vimrc", decodeVimrc); err != nil {
		return nil, fmt.Errorf("project %q: %w", s.Name, err)
	}
	if p.CppConfig, err = decodeUnion(ctx, s.CppConfig, "cppconfig", decodeCppConfig); err != nil {
		return nil, fmt.Errorf("project %q: %w", s.Name, err)
	}
	return p, nil
}

// decodeUnion evaluates expr when it was written and hands non-null values
// to decode. Omitted and null attributes yield the zero T.
func decodeUnion[T any](ctx context.Context, expr hcl.Expression, attr string, decode func(cty.Value) (T, error)) (T, error) {
	var zero T
	if !isExprDefined(ctx, expr, attr) {
		return zero, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return zero, fmt.Errorf("%s: %w", attr, diags)
	}
	if val.IsNull() {
		return zero, nil
	}
	if !val.IsWhollyKnown() {
		return zero, fmt.Errorf("%s: value must be known", attr)
	}
	out, err := decode(val)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", attr, err)
	}
	return out, nil
}

func decodePackages(val cty.Value) ([]string, error) {
	if val.Type() == cty.String {
		return []string{val.AsString()}, nil
	}
	var pkgs []string
	if err := decodeAs(val, cty.List(cty.String), &pkgs); err != nil {
		return nil, err
	}
	if pkgs == nil {
		pkgs = []string{}
	}
	return pkgs, nil
}

var virtualenvType = cty.ObjectWithOptionalAttrs(map[string]cty.Type{
	"path":    cty.String,
	"options": cty.Map(cty.String),
}, []string{"path", "options"})

type virtualenvObject struct {
	Path    *string           `cty:"path"`
	Options map[string]string `cty:"options"`
}

// decodeVirtualenv accepts a bool, a path, or an object. An object without
// a path keeps the environment in the prefix.
func decodeVirtualenv(val cty.Value) (config.Virtualenv, error) {
	switch {
	case val.Type() == cty.Bool:
		if val.True() {
			return config.Virtualenv{Kind: config.UseDefault}, nil
		}
		return config.Virtualenv{}, nil
	case val.Type() == cty.String:
		return config.Virtualenv{Kind: config.Explicit, Path: val.AsString()}, nil
	}
	var obj virtualenvObject
	if err := decodeAs(val, virtualenvType, &obj); err != nil {
		return config.Virtualenv{}, err
	}
	if obj.Path == nil {
		return config.Virtualenv{Kind: config.UseDefault, Options: obj.Options}, nil
	}
	return config.Virtualenv{Kind: config.Explicit, Path: *obj.Path, Options: obj.Options}, nil
}

var vimrcType = cty.ObjectWithOptionalAttrs(map[string]cty.Type{
	"width":   cty.Number,
	"tabs":    cty.Number,
	"footer":  cty.String,
	"makeprg": cty.DynamicPseudoType,
	"options": cty.Map(cty.String),
}, []string{"width", "tabs", "footer", "makeprg", "options"})

type vimrcObject struct {
	Width   *int              `cty:"width"`
	Tabs    *int              `cty:"tabs"`
	Footer  *string           `cty:"footer"`
	Makeprg cty.Value         `cty:"makeprg"`
	Options map[string]string `cty:"options"`
}

func decodeVimrc(val cty.Value) (config.Vimrc, error) {
	if val.Type() == cty.Bool {
		if val.True() {
			return config.Vimrc{Kind: config.UseDefault}, nil
		}
		return config.Vimrc{}, nil
	}
	var obj vimrcObject
	if err := decodeAs(val, vimrcType, &obj); err != nil {
		return config.Vimrc{}, err
	}
	v := config.Vimrc{Kind: config.Explicit, Width: obj.Width, Tabs: obj.Tabs, Options: obj.Options}
	if obj.Footer != nil {
		v.Footer = *obj.Footer
	}
	makeprg, err := decodeMakeprg(obj.Makeprg)
	if err != nil {
		return config.Vimrc{}, fmt.Errorf("makeprg: %w", err)
	}
	v.Makeprg = makeprg
	return v, nil
}

// decodeMakeprg accepts true for the derived build command or a command
// string.
func decodeMakeprg(val cty.Value) (config.Makeprg, error) {
	if val.IsNull() {
		return config.Makeprg{}, nil
	}
	switch val.Type() {
	case cty.Bool:
		if val.True() {
			return config.Makeprg{Kind: config.UseDefault}, nil
		}
		return config.Makeprg{}, nil
	case cty.String:
		return config.Makeprg{Kind: config.Explicit, Command: val.AsString()}, nil
	default:
		return config.Makeprg{}, fmt.Errorf("must be a bool or a string, got %s", val.Type().FriendlyName())
	}
}

var cppConfigType = cty.ObjectWithOptionalAttrs(map[string]cty.Type{
	"includes":        cty.List(cty.String),
	"source_includes": cty.List(cty.String),
	"cpp11":           cty.Bool,
	"cpp":             cty.Bool,
	"c99":             cty.Bool,
	"defines":         cty.List(cty.String),
}, []string{"includes", "source_includes", "cpp11", "cpp", "c99", "defines"})

type cppConfigObject struct {
	Includes       []string `cty:"includes"`
	SourceIncludes []string `cty:"source_includes"`
	Cpp11          *bool    `cty:"cpp11"`
	Cpp            *bool    `cty:"cpp"`
	C99            *bool    `cty:"c99"`
	Defines        []string `cty:"defines"`
}

func decodeCppConfig(val cty.Value) (config.CppConfig, error) {
	if val.Type() == cty.Bool {
		if val.True() {
			return config.CppConfig{Kind: config.UseDefault}, nil
		}
		return config.CppConfig{}, nil
	}
	var obj cppConfigObject
	if err := decodeAs(val, cppConfigType, &obj); err != nil {
		return config.CppConfig{}, err
	}
	return config.CppConfig{
		Kind:           config.Explicit,
		Includes:       obj.Includes,
		SourceIncludes: obj.SourceIncludes,
		Cpp11:          obj.Cpp11 != nil && *obj.Cpp11,
		Cpp:            obj.Cpp != nil && *obj.Cpp,
		C99:            obj.C99 != nil && *obj.C99,
		Defines:        obj.Defines,
	}, nil
}

// decodeAs converts val to ty and decodes the result into target. Object
// targets reject attributes they do not declare, which convert would drop.
func decodeAs(val cty.Value, ty cty.Type, target any) error {
	if err := checkAttributes(val, ty); err != nil {
		return err
	}
	converted, err := convert.Convert(val, ty)
	if err != nil {
		return err
	}
	return gocty.FromCtyValue(converted, target)
}

func checkAttributes(val cty.Value, ty cty.Type) error {
	if !ty.IsObjectType() {
		return nil
	}
	var names []string
	switch {
	case val.Type().IsObjectType():
		for name := range val.Type().AttributeTypes() {
			names = append(names, name)
		}
	case val.Type().IsMapType():
		for name := range val.AsValueMap() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if !ty.HasAttribute(name) {
			return fmt.Errorf("unsupported attribute %q", name)
		}
	}
	return nil
}
