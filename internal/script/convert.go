package script

import (
	"fmt"
	"reflect"
	"sort"

	lua "github.com/yuin/gopher-lua"
)

// toLua converts an attribute value to a Lua value. Maps become tables
// with string keys and slices become sequences.
func toLua(L *lua.LState, v any) lua.LValue {
	return toLuaVisited(L, reflect.ValueOf(v), 0)
}

const maxDepth = 32

func toLuaVisited(L *lua.LState, rv reflect.Value, depth int) lua.LValue {
	if !rv.IsValid() || depth > maxDepth {
		return lua.LNil
	}
	switch rv.Kind() {
	case reflect.Bool:
		return lua.LBool(rv.Bool())
	case reflect.String:
		return lua.LString(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lua.LNumber(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return lua.LNumber(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return lua.LNumber(rv.Float())
	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			return lua.LNil
		}
		return toLuaVisited(L, rv.Elem(), depth+1)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return lua.LNil
		}
		t := L.CreateTable(rv.Len(), 0)
		for i := 0; i < rv.Len(); i++ {
			t.Append(toLuaVisited(L, rv.Index(i), depth+1))
		}
		return t
	case reflect.Map:
		if rv.IsNil() {
			return lua.LNil
		}
		t := L.CreateTable(0, rv.Len())
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		for _, k := range keys {
			t.RawSetString(fmt.Sprint(k.Interface()), toLuaVisited(L, rv.MapIndex(k), depth+1))
		}
		return t
	default:
		return lua.LString(fmt.Sprint(rv.Interface()))
	}
}
