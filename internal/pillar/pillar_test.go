package pillar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestStore_NestedLookup(t *testing.T) {
	t.Parallel()

	s := New(map[string]cty.Value{
		"vim": cty.ObjectVal(map[string]cty.Value{
			"width": cty.NumberIntVal(80),
		}),
		"compiler": cty.StringVal("gcc@9"),
	})

	assert.Equal(t, 80, Int(s, "vim:width", 100))
	assert.Equal(t, 2, Int(s, "vim:tabs", 2))
	assert.Equal(t, "gcc@9", String(s, "compiler", ""))
	assert.Equal(t, "fallback", String(s, "compiler:nested", "fallback"))
	assert.Equal(t, "fallback", String(s, "missing", "fallback"))
}

func TestStore_NullFallsBackToDefault(t *testing.T) {
	t.Parallel()

	s := New(map[string]cty.Value{"compiler": cty.NullVal(cty.String)})

	_, ok := Optional(s, "compiler")
	assert.False(t, ok)
	assert.Equal(t, "clang", String(s, "compiler", "clang"))
}

func TestStore_MergeIsRecursiveForObjects(t *testing.T) {
	t.Parallel()

	s := New(map[string]cty.Value{
		"vim": cty.ObjectVal(map[string]cty.Value{
			"width": cty.NumberIntVal(80),
			"tabs":  cty.NumberIntVal(4),
		}),
	})
	s.Merge(map[string]cty.Value{
		"vim": cty.ObjectVal(map[string]cty.Value{
			"tabs": cty.NumberIntVal(2),
		}),
	})

	assert.Equal(t, 80, Int(s, "vim:width", 0))
	assert.Equal(t, 2, Int(s, "vim:tabs", 0))
}

func TestStore_MapValues(t *testing.T) {
	t.Parallel()

	s := New(map[string]cty.Value{
		"templates": cty.MapVal(map[string]cty.Value{
			"vimrc": cty.StringVal("/etc/vimrc.tpl"),
		}),
	})

	got, ok := Optional(s, "templates:vimrc")
	require.True(t, ok)
	assert.Equal(t, "/etc/vimrc.tpl", got)
}

func TestLoadFile_YAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pillar.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workspaces: /work\nvim:\n  width: 120\n  makeprg: make\n"), 0o600))

	values, err := LoadFile(path)
	require.NoError(t, err)

	s := New(values)
	assert.Equal(t, "/work", String(s, "workspaces", ""))
	assert.Equal(t, 120, Int(s, "vim:width", 0))
	assert.Equal(t, "make", String(s, "vim:makeprg", ""))
}

func TestLoadFile_TOML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pillar.toml")
	require.NoError(t, os.WriteFile(path, []byte("modulefiles = \"/mods\"\n\n[vim]\ntabs = 3\n"), 0o600))

	values, err := LoadFile(path)
	require.NoError(t, err)

	s := New(values)
	assert.Equal(t, "/mods", String(s, "modulefiles", ""))
	assert.Equal(t, 3, Int(s, "vim:tabs", 0))
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pillar.ini")
	require.NoError(t, os.WriteFile(path, []byte("x=1"), 0o600))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported extension")
}

func TestFromNative_Sequences(t *testing.T) {
	t.Parallel()

	val, err := FromNative([]any{"a", 1, true})
	require.NoError(t, err)
	require.True(t, val.Type().IsTupleType())
	assert.Equal(t, 3, val.LengthInt())

	_, err = FromNative(struct{}{})
	require.Error(t, err)
}
