// Package template renders the generated artifacts. Templates use the HCL
// template language: ${var} interpolation plus %{ if } and %{ for }
// directives over the variables passed in. luastring(value) quotes a value
// as a Lua string literal.
package template

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// BuiltinPrefix marks a template source that names an embedded template.
const BuiltinPrefix = "builtin:"

const (
	// Vimrc is the built-in editor config template.
	Vimrc = BuiltinPrefix + "vimrc"
	// Modulefile is the built-in Lua environment-module template.
	Modulefile = BuiltinPrefix + "modulefile"
)

//go:embed templates/*.tpl
var builtin embed.FS

var builtinFiles = map[string]string{
	Vimrc:      "templates/vimrc.tpl",
	Modulefile: "templates/modulefile.lua.tpl",
}

// Load returns the source of a template: an embedded one for "builtin:"
// names, otherwise the file at source.
func Load(source string) ([]byte, error) {
	if strings.HasPrefix(source, BuiltinPrefix) {
		file, ok := builtinFiles[source]
		if !ok {
			return nil, fmt.Errorf("unknown built-in template %q", source)
		}
		return builtin.ReadFile(file)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", source, err)
	}
	return data, nil
}

// Render evaluates src with vars and returns the resulting text.
func Render(name string, src []byte, vars map[string]cty.Value) (string, error) {
	expr, diags := hclsyntax.ParseTemplate(src, name, hcl.Pos{Line: 1, Column: 1, Byte: 0})
	if diags.HasErrors() {
		return "", fmt.Errorf("failed to parse template %s: %w", name, diags)
	}

	val, diags := expr.Value(&hcl.EvalContext{Variables: vars, Functions: functions})
	if diags.HasErrors() {
		return "", fmt.Errorf("failed to render template %s: %w", name, diags)
	}

	val, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("template %s did not produce a string: %w", name, err)
	}
	if val.IsNull() || !val.IsKnown() {
		return "", fmt.Errorf("template %s produced no value", name)
	}
	return val.AsString(), nil
}

// RenderSource loads source and renders it.
func RenderSource(source string, vars map[string]cty.Value) (string, error) {
	src, err := Load(source)
	if err != nil {
		return "", err
	}
	return Render(source, src, vars)
}
