package template

import (
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

var luaEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\x00", `\0`,
)

// LuaQuote returns s as a double-quoted Lua string literal.
func LuaQuote(s string) string {
	return `"` + luaEscaper.Replace(s) + `"`
}

// luaStringFunc exposes LuaQuote to templates as luastring(value).
var luaStringFunc = function.New(&function.Spec{
	Params: []function.Parameter{{Name: "str", Type: cty.String}},
	Type:   function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(LuaQuote(args[0].AsString())), nil
	},
})

// functions are available to every template.
var functions = map[string]function.Function{
	"luastring": luaStringFunc,
}
