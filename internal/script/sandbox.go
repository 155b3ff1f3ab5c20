package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keygrid/internal/logging"
)

// newState creates a Lua state with only the side-effect free standard
// libraries and a small keygrid module.
func newState(logger *logging.Logger) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// io, os, debug and package stay closed.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}

	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"log": func(L *lua.LState) int {
			logger.Info("%s", L.CheckString(1))
			return 0
		},
		"debug": func(L *lua.LState) int {
			logger.Debug("%s", L.CheckString(1))
			return 0
		},
	})
	L.SetGlobal("keygrid", mod)
	L.SetGlobal("print", L.GetField(mod, "debug"))
	return L
}
