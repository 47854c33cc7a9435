// Package schema holds the gohcl decoding targets of project files.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// File is the top-level structure of a project file. A file may declare any
// number of each block.
type File struct {
	Defaults  []*Defaults `hcl:"defaults,block"`
	Compilers []*Compiler `hcl:"compiler,block"`
	Projects  []*Project  `hcl:"project,block"`
}

// Defaults carries free-form pillar values as attributes.
type Defaults struct {
	Body hcl.Body `hcl:",remain"`
}

// Compiler represents a `compiler` block describing a toolchain suite.
type Compiler struct {
	Name string `hcl:"name,label"`
	CC   string `hcl:"cc,optional"`
	CXX  string `hcl:"cxx,optional"`
	FC   string `hcl:"fc,optional"`
	F77  string `hcl:"f77,optional"`
}

// Project represents a `project` block. The union-typed attributes are kept
// as expressions and decoded once their shape is known.
type Project struct {
	Name     string            `hcl:"name,label"`
	Prefix   string            `hcl:"prefix,optional"`
	Cwd      *string           `hcl:"cwd,optional"`
	Footer   string            `hcl:"footer,optional"`
	Compiler string            `hcl:"compiler,optional"`
	Ctags    bool              `hcl:"ctags,optional"`
	Modules  []string          `hcl:"modules,optional"`
	Options  map[string]string `hcl:"options,optional"`

	// Spack is a package spec or a list of them.
	Spack hcl.Expression `hcl:"spack,optional"`
	// Virtualenv is a bool, a path or an object with path and options.
	Virtualenv hcl.Expression `hcl:"virtualenv,optional"`
	// Vimrc is a bool or an object of editor settings.
	Vimrc hcl.Expression `hcl:"vimrc,optional"`
	// CppConfig is a bool or an object of compiler flag settings.
	CppConfig hcl.Expression `hcl:"cppconfig,optional"`

	Source *Source `hcl:"source,block"`
}

// Source represents the `source` block of a project.
type Source struct {
	Repository string `hcl:"repository"`
	Name       string `hcl:"name,optional"`
	Email      string `hcl:"email,optional"`
	Username   string `hcl:"username,optional"`
}
