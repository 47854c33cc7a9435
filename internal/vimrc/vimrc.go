// Package vimrc builds the template variables of the per-project editor
// config.
package vimrc

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/funwith/internal/config"
	"github.com/specialistvlad/funwith/internal/pillar"
	"github.com/specialistvlad/funwith/internal/template"
	"github.com/zclconf/go-cty/cty"
)

// FileName is the editor config written into the prefix.
const FileName = ".vimrc"

const (
	DefaultWidth = 100
	DefaultTabs  = 2
)

// DefaultMakeprg is the build command used when none is configured. Spaces
// are escaped for the editor's set command.
func DefaultMakeprg(sourceDir string) string {
	return strings.ReplaceAll("ninja -C "+filepath.Join(sourceDir, "build")+" -v", " ", `\ `)
}

// TemplateSource is the pillar override "templates:vimrc" or the built-in
// template.
func TemplateSource(l pillar.Lookup) string {
	return pillar.String(l, "templates:vimrc", template.Vimrc)
}

// Variables builds the template context. A default makeprg needs
// sourceDir even when the pillar names the command.
func Variables(l pillar.Lookup, prefix, sourceDir string, spec config.Vimrc, cppconfig bool) (map[string]cty.Value, error) {
	width := pillar.Int(l, "vim:width", DefaultWidth)
	if spec.Width != nil {
		width = *spec.Width
	}
	tabs := pillar.Int(l, "vim:tabs", DefaultTabs)
	if spec.Tabs != nil {
		tabs = *spec.Tabs
	}

	makeprg := cty.NullVal(cty.String)
	switch spec.Makeprg.Kind {
	case config.Explicit:
		makeprg = cty.StringVal(spec.Makeprg.Command)
	case config.UseDefault:
		if sourceDir == "" {
			return nil, fmt.Errorf("%w: default makeprg needs a source directory", config.ErrMissingDependency)
		}
		makeprg = cty.StringVal(pillar.String(l, "vim:makeprg", DefaultMakeprg(sourceDir)))
	}

	footer := cty.NullVal(cty.String)
	if spec.Footer != "" {
		footer = cty.StringVal(spec.Footer)
	}

	vars := make(map[string]cty.Value, len(spec.Options)+6)
	for name, value := range spec.Options {
		vars[name] = cty.StringVal(value)
	}
	vars["prefix"] = cty.StringVal(prefix)
	vars["width"] = cty.NumberIntVal(int64(width))
	vars["tabs"] = cty.NumberIntVal(int64(tabs))
	vars["makeprg"] = makeprg
	vars["cppconfig"] = cty.BoolVal(cppconfig)
	vars["footer"] = footer
	return vars, nil
}
