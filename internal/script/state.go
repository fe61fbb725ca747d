package script

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultCallTimeout bounds every capability call.
const DefaultCallTimeout = 50 * time.Millisecond

// state wraps a sandboxed gopher-lua state. All methods lock; Lua callbacks
// into Go run with the lock held and must not call back into state.
type state struct {
	mu      sync.Mutex
	L       *lua.LState
	timeout time.Duration
	closed  bool
}

func newState(timeout time.Duration) *state {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	registerRowType(L)
	registerGridModule(L)
	return &state{L: L, timeout: timeout}
}

// openSafeLibraries opens only the libraries without host access.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

func (s *state) doFile(path string) error {
	return s.do(func() error { return s.L.DoFile(path) })
}

func (s *state) doString(code string) error {
	return s.do(func() error { return s.L.DoString(code) })
}

func (s *state) do(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrEngineClosed
	}
	return s.withRecovery(fn)
}

// withRecovery executes a function with panic recovery.
func (s *state) withRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// call invokes fn with args built by the caller on the locked state and
// returns its first result converted to Go.
func (s *state) call(fn *lua.LFunction, args func(L *lua.LState) []lua.LValue) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrEngineClosed
	}

	var result any
	err := s.withRecovery(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()

		if err := s.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args(s.L)...); err != nil {
			return err
		}
		ret := s.L.Get(-1)
		s.L.Pop(1)
		result = fromLua(ret)
		return nil
	})
	return result, err
}

func (s *state) global(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

func (s *state) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}
