package script

import (
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/gridstorm/internal/grid/column"
)

// Capability names as they appear in a column table.
const (
	CapColSpan  = "colspan"
	CapEditable = "editable"
	CapFormat   = "format"
	CapClass    = "class"
)

// Option configures an Engine.
type Option func(*Engine)

// WithCallTimeout bounds a single capability call.
func WithCallTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// Engine runs a column script and turns its capability functions into
// column behaviors.
type Engine struct {
	timeout time.Duration
	state   *state

	mu       sync.Mutex
	columns  map[string]map[string]*lua.LFunction
	errs     []error
	reported map[string]bool
}

// New creates an engine with an empty script.
func New(opts ...Option) *Engine {
	e := &Engine{
		timeout:  DefaultCallTimeout,
		columns:  make(map[string]map[string]*lua.LFunction),
		reported: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state = newState(e.timeout)
	return e
}

// LoadFile runs the script at path and collects its column table.
func (e *Engine) LoadFile(path string) error {
	if err := e.state.doFile(path); err != nil {
		return fmt.Errorf("loading script %s: %w", path, err)
	}
	return e.collect()
}

// LoadString runs code and collects its column table.
func (e *Engine) LoadString(code string) error {
	if err := e.state.doString(code); err != nil {
		return fmt.Errorf("loading script: %w", err)
	}
	return e.collect()
}

func (e *Engine) collect() error {
	tbl, ok := e.state.global("columns").(*lua.LTable)
	if !ok {
		return ErrNoColumnsTable
	}

	cols := make(map[string]map[string]*lua.LFunction)
	tbl.ForEach(func(k, v lua.LValue) {
		name, ok := k.(lua.LString)
		if !ok {
			return
		}
		entry, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		caps := make(map[string]*lua.LFunction)
		for _, c := range []string{CapColSpan, CapEditable, CapFormat, CapClass} {
			if fn, ok := entry.RawGetString(c).(*lua.LFunction); ok {
				caps[c] = fn
			}
		}
		if len(caps) > 0 {
			cols[string(name)] = caps
		}
	})

	e.mu.Lock()
	e.columns = cols
	e.mu.Unlock()
	return nil
}

// Has reports whether the script defines capability c for column key.
func (e *Engine) Has(key, c string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.columns[key][c]
	return ok
}

// Columns returns the number of columns the script customizes.
func (e *Engine) Columns() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.columns)
}

// Errors returns the first error of every failing capability.
func (e *Engine) Errors() []error {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]error, len(e.errs))
	copy(out, e.errs)
	return out
}

// Close releases the Lua state. Capabilities of applied columns fall back
// to their defaults afterwards.
func (e *Engine) Close() error {
	e.state.close()
	return nil
}

func (e *Engine) fn(key, c string) *lua.LFunction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.columns[key][c]
}

func (e *Engine) report(key, c string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := key + "." + c
	if e.reported[id] {
		return
	}
	e.reported[id] = true
	e.errs = append(e.errs, &CapabilityError{Column: key, Capability: c, Err: err})
}

// invoke runs capability c of column key. ok is false when the call failed.
func (e *Engine) invoke(key, c string, args func(L *lua.LState) []lua.LValue) (any, bool) {
	fn := e.fn(key, c)
	if fn == nil {
		return nil, false
	}
	v, err := e.state.call(fn, args)
	if err != nil {
		e.report(key, c, err)
		return nil, false
	}
	return v, true
}

// Apply returns copies of defs with the script capabilities installed.
// Columns without an entry are returned unchanged.
func (e *Engine) Apply(defs []column.Def) []column.Def {
	out := make([]column.Def, len(defs))
	copy(out, defs)
	for i := range out {
		d := &out[i]
		key := d.Key
		if e.Has(key, CapColSpan) {
			d.ColSpan = e.colSpan(key)
		}
		if e.Has(key, CapEditable) {
			d.Editable = e.editable(key, d.EditableFlag)
		}
		if e.Has(key, CapFormat) {
			d.Value = e.format(key, d.Value)
		}
		if e.Has(key, CapClass) {
			d.CellClass = e.class(key, d.CellClass)
		}
	}
	return out
}

func (e *Engine) colSpan(key string) func(column.CellContext) int {
	return func(ctx column.CellContext) int {
		v, ok := e.invoke(key, CapColSpan, func(L *lua.LState) []lua.LValue {
			return []lua.LValue{lua.LString(ctx.Kind.String()), newRow(L, ctx.Row)}
		})
		if !ok {
			return 0
		}
		n, _ := v.(int)
		return n
	}
}

func (e *Engine) editable(key string, flag *bool) func(any) bool {
	fallback := flag == nil || *flag
	return func(row any) bool {
		v, ok := e.invoke(key, CapEditable, func(L *lua.LState) []lua.LValue {
			return []lua.LValue{newRow(L, row)}
		})
		if !ok {
			return fallback
		}
		b, isBool := v.(bool)
		if !isBool {
			return fallback
		}
		return b
	}
}

func (e *Engine) format(key string, prev func(any) any) func(any) any {
	return func(row any) any {
		var raw any
		if prev != nil {
			raw = prev(row)
		} else {
			raw, _ = column.FieldValue(row, key)
		}
		v, ok := e.invoke(key, CapFormat, func(L *lua.LState) []lua.LValue {
			return []lua.LValue{toLua(L, raw), newRow(L, row)}
		})
		if !ok || v == nil {
			return raw
		}
		return v
	}
}

func (e *Engine) class(key string, prev func(any) string) func(any) string {
	return func(row any) string {
		v, ok := e.invoke(key, CapClass, func(L *lua.LState) []lua.LValue {
			return []lua.LValue{newRow(L, row)}
		})
		if s, isString := v.(string); ok && isString {
			return s
		}
		if prev != nil {
			return prev(row)
		}
		return ""
	}
}
