package script

import (
	"context"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single validation call.
const DefaultTimeout = time.Second

// state is a sandboxed Lua state. It is not safe for concurrent use.
type state struct {
	L *lua.LState
}

func newState() *state {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	installSandbox(L)
	return &state{L: L}
}

// openSafeLibraries opens only the libraries without file, process or
// module access.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

// installSandbox removes the base functions that load code.
func installSandbox(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// call runs fn with arg bound to the global "value" and returns its
// results. The context cancels execution of long-running snippets.
func (s *state) call(ctx context.Context, fn *lua.LFunction, arg lua.LValue) (results []lua.LValue, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	s.L.SetGlobal("value", arg)
	top := s.L.GetTop()
	s.L.Push(fn)
	s.L.Push(arg)
	if err := s.L.PCall(1, lua.MultRet, nil); err != nil {
		return nil, err
	}
	n := s.L.GetTop() - top
	results = make([]lua.LValue, n)
	for i := 0; i < n; i++ {
		results[i] = s.L.Get(top + i + 1)
	}
	s.L.Pop(n)
	return results, nil
}

func (s *state) close() {
	s.L.Close()
}
