package script

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/gridstorm/internal/grid/column"
)

const rowTypeName = "gridstorm.row"

// registerRowType installs the metatable of row proxies. Indexing a proxy
// reads the field through column.FieldValue; proxies cannot be written.
func registerRowType(L *lua.LState) {
	mt := L.NewTypeMetatable(rowTypeName)
	L.SetField(mt, "__index", L.NewFunction(func(L *lua.LState) int {
		ud := L.CheckUserData(1)
		name := L.CheckString(2)
		v, _ := column.FieldValue(ud.Value, name)
		L.Push(toLua(L, v))
		return 1
	}))
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("rows are read-only")
		return 0
	}))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		ud := L.CheckUserData(1)
		L.Push(lua.LString(fmt.Sprint(ud.Value)))
		return 1
	}))
}

// registerGridModule installs the grid helper table.
func registerGridModule(L *lua.LState) {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"comma": func(L *lua.LState) int {
			L.Push(lua.LString(humanize.Comma(int64(L.CheckNumber(1)))))
			return 1
		},
		"bytes": func(L *lua.LState) int {
			n := float64(L.CheckNumber(1))
			if n < 0 {
				n = 0
			}
			L.Push(lua.LString(humanize.Bytes(uint64(n))))
			return 1
		},
		"width": func(L *lua.LState) int {
			L.Push(lua.LNumber(runewidth.StringWidth(L.CheckString(1))))
			return 1
		},
	})
	L.SetGlobal("grid", mod)
}

// newRow wraps row in a proxy.
func newRow(L *lua.LState, row any) lua.LValue {
	if row == nil {
		return lua.LNil
	}
	ud := L.NewUserData()
	ud.Value = row
	L.SetMetatable(ud, L.GetTypeMetatable(rowTypeName))
	return ud
}

// toLua converts a Go value to a Lua value. Maps and structs become row
// proxies.
func toLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int8:
		return lua.LNumber(val)
	case int16:
		return lua.LNumber(val)
	case int32:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case uint:
		return lua.LNumber(val)
	case uint8:
		return lua.LNumber(val)
	case uint16:
		return lua.LNumber(val)
	case uint32:
		return lua.LNumber(val)
	case uint64:
		return lua.LNumber(val)
	case float32:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []byte:
		return lua.LString(val)
	case []any:
		t := L.NewTable()
		for _, item := range val {
			t.Append(toLua(L, item))
		}
		return t
	case []string:
		t := L.NewTable()
		for _, item := range val {
			t.Append(lua.LString(item))
		}
		return t
	case lua.LValue:
		return val
	case fmt.Stringer:
		return lua.LString(val.String())
	default:
		return newRow(L, val)
	}
}

// fromLua converts a capability result to Go. Integral numbers become int.
func fromLua(lv lua.LValue) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == math.Trunc(f) && math.Abs(f) < math.MaxInt32 {
			return int(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LUserData:
		return v.Value
	default:
		return nil
	}
}
