package hcl

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/funwith/internal/config"
	"github.com/specialistvlad/funwith/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func load(t *testing.T, files map[string]string) (*config.Model, error) {
	t.Helper()
	root := testutil.WriteFiles(t, t.TempDir(), files)
	return NewLoader().Load(context.Background(), root)
}

func ptr[T any](v T) *T { return &v }

func TestLoad_FullProject(t *testing.T) {
	t.Parallel()

	// Arrange
	files := map[string]string{"main.hcl": `
defaults {
  workspaces = "~/ws"
  vim = {
    width = 80
  }
}

compiler "gcc" {
  cc  = "/usr/bin/gcc"
  cxx = "/usr/bin/g++"
}

project "demo" {
  prefix   = "/p"
  cwd      = "build"
  footer   = "-- bye"
  compiler = "gcc"
  ctags    = true
  modules  = ["cmake"]
  spack    = ["eigen", "boost %gcc"]
  options  = { python = "python3" }

  virtualenv = { options = { pip_pkgs = "numpy" } }
  vimrc      = { width = 120, makeprg = true, options = { colorscheme = "desert" } }
  cppconfig  = { includes = ["inc"], source_includes = ["include"], cpp11 = true, defines = ["NDEBUG"] }

  source {
    repository = "owner/demo"
    email      = "dev@example.com"
  }
}
`}

	// Act
	model, err := load(t, files)

	// Assert
	require.NoError(t, err)
	require.Len(t, model.Projects, 1)
	want := &config.Project{
		Name:       "demo",
		Prefix:     "/p",
		Cwd:        ptr("build"),
		Footer:     "-- bye",
		Compiler:   "gcc",
		Ctags:      true,
		Modules:    []string{"cmake"},
		Packages:   []string{"eigen", "boost %gcc"},
		Options:    map[string]string{"python": "python3"},
		Source:     &config.Source{Repository: "owner/demo", Email: "dev@example.com"},
		Virtualenv: config.Virtualenv{Kind: config.UseDefault, Options: map[string]string{"pip_pkgs": "numpy"}},
		Vimrc: config.Vimrc{
			Kind:    config.Explicit,
			Width:   ptr(120),
			Makeprg: config.Makeprg{Kind: config.UseDefault},
			Options: map[string]string{"colorscheme": "desert"},
		},
		CppConfig: config.CppConfig{
			Kind:           config.Explicit,
			Includes:       []string{"inc"},
			SourceIncludes: []string{"include"},
			Cpp11:          true,
			Defines:        []string{"NDEBUG"},
		},
	}
	if diff := cmp.Diff(want, model.Projects[0]); diff != "" {
		t.Errorf("project mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, &config.Compiler{Name: "gcc", CC: "/usr/bin/gcc", CXX: "/usr/bin/g++"}, model.Compilers["gcc"])
	assert.Equal(t, cty.StringVal("~/ws"), model.Defaults["workspaces"])
	assert.True(t, model.Defaults["vim"].GetAttr("width").RawEquals(cty.NumberIntVal(80)))
}

func TestLoad_UnionShapes(t *testing.T) {
	t.Parallel()

	model, err := load(t, map[string]string{"p.hcl": `
project "bools" {
  virtualenv = true
  vimrc      = true
  cppconfig  = true
  spack      = "eigen"
}

project "explicit" {
  virtualenv = "/venvs/explicit"
  vimrc      = { makeprg = "make\\ -j8" }
  cppconfig  = false
}

project "bare" {
  cwd = ""
}
`})

	require.NoError(t, err)
	require.Len(t, model.Projects, 3)

	bools := model.Projects[0]
	assert.Equal(t, config.Virtualenv{Kind: config.UseDefault}, bools.Virtualenv)
	assert.Equal(t, config.Vimrc{Kind: config.UseDefault}, bools.Vimrc)
	assert.Equal(t, config.CppConfig{Kind: config.UseDefault}, bools.CppConfig)
	assert.Equal(t, []string{"eigen"}, bools.Packages)

	explicit := model.Projects[1]
	assert.Equal(t, config.Virtualenv{Kind: config.Explicit, Path: "/venvs/explicit"}, explicit.Virtualenv)
	assert.Equal(t, config.Makeprg{Kind: config.Explicit, Command: `make\ -j8`}, explicit.Vimrc.Makeprg)
	assert.Equal(t, config.Disabled, explicit.CppConfig.Kind)

	bare := model.Projects[2]
	assert.Equal(t, config.Disabled, bare.Virtualenv.Kind)
	assert.Equal(t, config.Disabled, bare.Vimrc.Kind)
	assert.Nil(t, bare.Packages)
	assert.Nil(t, bare.Source)
	assert.Equal(t, ptr(""), bare.Cwd)
	assert.Nil(t, bools.Cwd)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		hcl  string
		want string
	}{
		"duplicate project": {
			hcl:  "project \"a\" {}\nproject \"a\" {}\n",
			want: "declared more than once",
		},
		"duplicate compiler": {
			hcl:  "compiler \"gcc\" {}\ncompiler \"gcc\" {}\n",
			want: "declared more than once",
		},
		"unknown attribute in union": {
			hcl:  "project \"a\" {\n  cppconfig = { cxx20 = true }\n}\n",
			want: `cppconfig: unsupported attribute "cxx20"`,
		},
		"misspelled cppconfig flag": {
			hcl:  "project \"a\" {\n  cppconfig = { cpp11 = true, cxx11 = true }\n}\n",
			want: `unsupported attribute "cxx11"`,
		},
		"misspelled vimrc width": {
			hcl:  "project \"a\" {\n  vimrc = { widht = 80 }\n}\n",
			want: `vimrc: unsupported attribute "widht"`,
		},
		"misspelled virtualenv path": {
			hcl:  "project \"a\" {\n  virtualenv = { pth = \"/v\" }\n}\n",
			want: `virtualenv: unsupported attribute "pth"`,
		},
		"wrong makeprg type": {
			hcl:  "project \"a\" {\n  vimrc = { makeprg = 3 }\n}\n",
			want: "makeprg",
		},
		"unknown project attribute": {
			hcl:  "project \"a\" {\n  colour = \"red\"\n}\n",
			want: "Unsupported argument",
		},
		"syntax error": {
			hcl:  "project \"a\" {\n",
			want: "failed to parse",
		},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := load(t, map[string]string{"main.hcl": tc.hcl})

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoad_MultipleFilesKeepOrder(t *testing.T) {
	t.Parallel()

	root := testutil.WriteFiles(t, t.TempDir(), map[string]string{
		"a.hcl":            `project "first" {}`,
		"b/b.hcl":          `project "second" {}`,
		".hidden/skip.hcl": `project "hidden" {}`,
		"notes.txt":        `not hcl`,
	})

	model, err := NewLoader().Load(context.Background(), root)

	require.NoError(t, err)
	names := make([]string, 0, len(model.Projects))
	for _, p := range model.Projects {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"first", "second"}, names)
}

func TestLoad_ExplicitFileAndMissingPath(t *testing.T) {
	t.Parallel()

	root := testutil.WriteFiles(t, t.TempDir(), map[string]string{"projects.conf": `project "demo" {}`})

	model, err := NewLoader().Load(context.Background(), filepath.Join(root, "projects.conf"))
	require.NoError(t, err)
	require.Len(t, model.Projects, 1)

	_, err = NewLoader().Load(context.Background(), filepath.Join(root, "missing.hcl"))
	require.Error(t, err)
}
