package config

import "github.com/zclconf/go-cty/cty"

// Model is the unified representation of all loaded project files.
type Model struct {
	// Defaults holds the top-level attributes of `defaults` blocks.
	Defaults map[string]cty.Value
	// Compilers maps a compiler-suite identifier to its toolchain.
	Compilers map[string]*Compiler
	// Projects are kept in declaration order.
	Projects []*Project
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		Defaults:  make(map[string]cty.Value),
		Compilers: make(map[string]*Compiler),
	}
}

// Project finds a project by name.
func (m *Model) Project(name string) (*Project, bool) {
	for _, p := range m.Projects {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Compiler describes the toolchain of one compiler suite. Empty fields are
// unknown.
type Compiler struct {
	Name string
	CC   string
	CXX  string
	FC   string
	F77  string
}

// Kind tags an optional feature whose value may be omitted, requested with
// its defaults, or given explicitly.
type Kind int

const (
	// Disabled means the feature was not requested.
	Disabled Kind = iota
	// UseDefault means the feature was requested without explicit values.
	UseDefault
	// Explicit means the feature carries explicit values.
	Explicit
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case UseDefault:
		return "default"
	case Explicit:
		return "explicit"
	default:
		return "disabled"
	}
}

// Enabled reports whether the feature was requested at all.
func (k Kind) Enabled() bool { return k != Disabled }

// Project is one provisioning request. Name is the unique key; every other
// field is optional.
type Project struct {
	Name string
	// Prefix overrides the workspace-derived project root.
	Prefix string
	// Cwd is absolute or relative to the prefix. Nil means it was not
	// given; an empty string selects the prefix.
	Cwd    *string
	Footer string
	// Compiler is the compiler-suite identifier used for module lookups.
	Compiler string

	Source *Source
	Ctags  bool

	Vimrc      Vimrc
	CppConfig  CppConfig
	Virtualenv Virtualenv

	// Packages is the package set to install; nil means none requested.
	Packages []string
	// Modules are extra environment modules loaded by the module file.
	Modules []string

	// Options are forwarded to the virtualenv and module-file sub-operations.
	Options map[string]string
}

// Source describes the version-control checkout of a project.
type Source struct {
	// Repository is a GitHub "owner/repo" locator or a full clone URL.
	Repository string
	// Name is the checkout directory under <prefix>/src.
	Name     string
	Email    string
	Username string
}

// Virtualenv describes the Python virtual environment of a project. With
// UseDefault the environment lives in the project prefix.
type Virtualenv struct {
	Kind    Kind
	Path    string
	Options map[string]string
}

// Vimrc describes the editor config. Nil Width or Tabs fall back to the
// pillar defaults.
type Vimrc struct {
	Kind    Kind
	Width   *int
	Tabs    *int
	Footer  string
	Makeprg Makeprg
	// Options are extra template variables.
	Options map[string]string
}

// Makeprg is the editor build command. UseDefault derives a ninja command
// from the source directory.
type Makeprg struct {
	Kind    Kind
	Command string
}

// CppConfig describes the compiler flags file.
type CppConfig struct {
	Kind Kind
	// Includes are absolute or relative to the prefix.
	Includes []string
	// SourceIncludes are relative to the source checkout; nil means none.
	SourceIncludes []string
	Cpp11          bool
	Cpp            bool
	C99            bool
	Defines        []string
}
