package modulefile

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/funwith/internal/pillar"
	"github.com/specialistvlad/funwith/internal/spack"
	"github.com/specialistvlad/funwith/internal/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type namerFunc func(pkg, compiler string) ([]string, error)

func (f namerFunc) ModuleNames(_ context.Context, pkg, compiler string) ([]string, error) {
	return f(pkg, compiler)
}

func strptr(s string) *string { return &s }

func TestBuilder_NoOptionalFields(t *testing.T) {
	t.Parallel()

	mc, err := Builder{Pillar: pillar.New(nil)}.Build(context.Background(), Input{Project: "demo", Prefix: "/ws/demo"})

	require.NoError(t, err)
	want := Context{Project: "demo", Homedir: "/ws/demo", Modules: []string{}}
	if diff := cmp.Diff(want, mc); diff != "" {
		t.Errorf("context mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_PackagesAndPillarCompiler(t *testing.T) {
	t.Parallel()

	// Arrange
	var seen []string
	namer := namerFunc(func(pkg, compiler string) ([]string, error) {
		seen = append(seen, pkg+"%"+compiler)
		return []string{pkg + "/1.0"}, nil
	})
	b := Builder{
		Namer:     namer,
		Compilers: spack.Table{"gcc": {Name: "gcc", CC: "/usr/bin/gcc", F77: "/usr/bin/f77"}},
		Pillar:    pillar.New(map[string]cty.Value{"compiler": cty.StringVal("gcc")}),
	}

	// Act
	mc, err := b.Build(context.Background(), Input{
		Project:    "demo",
		Prefix:     "/p",
		SourceDir:  "/p/src/demo",
		Virtualenv: "/p",
		Modules:    []string{"cmake"},
		Packages:   []string{"eigen", "boost"},
	})

	// Assert
	require.NoError(t, err)
	want := Context{
		Project:    "demo",
		Homedir:    "/p",
		Srcdir:     strptr("/p/src/demo"),
		Virtualenv: strptr("/p"),
		Modules:    []string{"cmake", "eigen/1.0", "boost/1.0"},
		CC:         strptr("/usr/bin/gcc"),
		F77:        strptr("/usr/bin/f77"),
	}
	if diff := cmp.Diff(want, mc); diff != "" {
		t.Errorf("context mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"eigen%gcc", "boost%gcc"}, seen)
}

func TestBuilder_ExplicitCompilerWins(t *testing.T) {
	t.Parallel()

	b := Builder{
		Compilers: spack.Table{"clang": {Name: "clang", CXX: "/usr/bin/clang++"}},
		Pillar:    pillar.New(map[string]cty.Value{"compiler": cty.StringVal("gcc")}),
	}

	mc, err := b.Build(context.Background(), Input{Project: "demo", Prefix: "/p", Compiler: "clang"})

	require.NoError(t, err)
	assert.Nil(t, mc.CC)
	require.NotNil(t, mc.CXX)
	assert.Equal(t, "/usr/bin/clang++", *mc.CXX)
}

func TestBuilder_UnknownCompilerLeavesPathsAbsent(t *testing.T) {
	t.Parallel()

	b := Builder{Compilers: spack.Table{}, Pillar: pillar.New(nil)}

	mc, err := b.Build(context.Background(), Input{Project: "demo", Prefix: "/p", Compiler: "icc"})

	require.NoError(t, err)
	assert.Nil(t, mc.CC)
	assert.Nil(t, mc.CXX)
	assert.Nil(t, mc.FC)
	assert.Nil(t, mc.F77)
}

func TestBuilder_NamerFailureIsReturned(t *testing.T) {
	t.Parallel()

	boom := errors.New("spack exploded")
	b := Builder{Namer: namerFunc(func(string, string) ([]string, error) { return nil, boom })}

	_, err := b.Build(context.Background(), Input{Project: "demo", Prefix: "/p", Packages: []string{"eigen"}})

	require.ErrorIs(t, err, boom)
}

func TestContext_RendersBuiltinTemplate(t *testing.T) {
	t.Parallel()

	// Arrange
	mc := Context{Project: "demo", Homedir: "/p", Modules: []string{"cmake", "eigen/3"}, CC: strptr("/usr/bin/gcc"), Footer: strptr("-- end")}
	vars, err := mc.Variables()
	require.NoError(t, err)

	// Act
	out, err := template.RenderSource(TemplateSource(pillar.New(nil)), vars)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, `setenv("CURRENT_FUN_WITH", "demo")`)
	assert.Contains(t, out, "load(\"cmake\")\nload(\"eigen/3\")\n")
	assert.Contains(t, out, `setenv("CC", "/usr/bin/gcc")`)
	assert.NotContains(t, out, "CXX")
	assert.NotContains(t, out, "VIRTUAL_ENV")
	assert.Contains(t, out, "-- end\n")
}

func TestPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/m/demo.lua", Path("/m", "demo"))

	root, err := Root(pillar.New(map[string]cty.Value{"modulefiles": cty.StringVal("/opt/modules")}))
	require.NoError(t, err)
	assert.Equal(t, "/opt/modules", root)
}

