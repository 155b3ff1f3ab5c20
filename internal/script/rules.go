// Package script lets a Lua file veto cell writes, row deletions and
// editability without recompiling the host.
//
// A rules file defines any of these global functions. Each receives rows as
// tables of encoded cell text, keyed both by column name and by one-based
// column index, and must return true to allow the operation:
//
//	function editable(row, column) ... end      -- column is the column name
//	function confirm_write(w) ... end           -- w.column, w.context, w.current, w.next
//	function confirm_delete(row) ... end
//
// A hook that is not defined allows everything. A hook that raises an error
// or runs past the time limit denies the operation and the failure is
// logged.
//
// Example:
//
//	function editable(row, column)
//	  return not (column == "Name" and row.Name == "frozen")
//	end
//
//	function confirm_write(w)
//	  if w.column == "Num" then return tonumber(w.next.Num) >= 0 end
//	  return true
//	end
package script

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keygrid/internal/logging"
)

// Hook names looked up in the script globals.
const (
	HookEditable      = "editable"
	HookConfirmWrite  = "confirm_write"
	HookConfirmDelete = "confirm_delete"
)

// DefaultTimeout bounds a single hook call.
const DefaultTimeout = 100 * time.Millisecond

// Option configures Rules.
type Option func(*Rules)

// WithTimeout sets the time limit of a single hook call.
func WithTimeout(d time.Duration) Option {
	return func(r *Rules) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the logger used for script output and hook failures.
func WithLogger(l *logging.Logger) Option {
	return func(r *Rules) {
		if l != nil {
			r.logger = l
		}
	}
}

// Rules is a loaded rules script.
//
// gopher-lua states are not goroutine-safe; Rules serializes every call.
type Rules struct {
	mu sync.Mutex

	L       *lua.LState
	name    string
	timeout time.Duration
	logger  *logging.Logger
	closed  bool
}

// Load reads and runs a rules file.
func Load(path string, opts ...Option) (*Rules, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	return LoadString(path, string(src), opts...)
}

// LoadString runs src as a rules script. name is used in error messages.
func LoadString(name, src string, opts ...Option) (*Rules, error) {
	r := &Rules{
		name:    name,
		timeout: DefaultTimeout,
		logger:  logging.Null(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("script").WithField("rules", name)
	r.L = newState(r.logger)

	fn, err := r.L.Load(strings.NewReader(src), name)
	if err != nil {
		r.L.Close()
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	r.L.Push(fn)
	if err := r.L.PCall(0, lua.MultRet, nil); err != nil {
		r.L.Close()
		return nil, fmt.Errorf("running %s: %w", name, err)
	}
	r.L.SetTop(0)

	for _, hook := range []string{HookEditable, HookConfirmWrite, HookConfirmDelete} {
		v := r.L.GetGlobal(hook)
		if v != lua.LNil && v.Type() != lua.LTFunction {
			r.L.Close()
			return nil, fmt.Errorf("%s: %q: %w", name, hook, ErrNotFunction)
		}
	}
	return r, nil
}

// Name returns the name the rules were loaded under.
func (r *Rules) Name() string {
	return r.name
}

// Has reports whether the script defines hook.
func (r *Rules) Has(hook string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	return r.L.GetGlobal(hook).Type() == lua.LTFunction
}

// Close releases the Lua state.
func (r *Rules) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.L.Close()
		r.closed = true
	}
	return nil
}

// Row is the text form of a row handed to a hook.
type Row struct {
	Names []string
	Cells []string
}

// Editable calls the editable hook.
func (r *Rules) Editable(row Row, column int) bool {
	return r.ask(HookEditable, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{rowTable(L, row), columnName(row, column)}
	})
}

// Write is the text form of a pending cell write.
type Write struct {
	Column  int
	Context string
	Current Row
	Next    Row
}

// ConfirmWrite calls the confirm_write hook.
func (r *Rules) ConfirmWrite(w Write) bool {
	return r.ask(HookConfirmWrite, func(L *lua.LState) []lua.LValue {
		t := L.NewTable()
		t.RawSetString("column", columnName(w.Current, w.Column))
		t.RawSetString("index", lua.LNumber(w.Column+1))
		t.RawSetString("context", lua.LString(w.Context))
		t.RawSetString("current", rowTable(L, w.Current))
		t.RawSetString("next", rowTable(L, w.Next))
		return []lua.LValue{t}
	})
}

// ConfirmDelete calls the confirm_delete hook.
func (r *Rules) ConfirmDelete(row Row) bool {
	return r.ask(HookConfirmDelete, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{rowTable(L, row)}
	})
}

// ask calls hook and reports its truthiness. A missing hook allows.
func (r *Rules) ask(hook string, args func(L *lua.LState) []lua.LValue) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		r.logger.Warn("%s: %v", hook, ErrClosed)
		return false
	}
	fn := r.L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return true
	}

	ok, err := r.call(fn, args(r.L))
	if err != nil {
		r.logger.Warn("%s: %v", hook, err)
		return false
	}
	return ok
}

func (r *Rules) call(fn lua.LValue, args []lua.LValue) (ok bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("lua panic: %v", p)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	top := r.L.GetTop()
	defer r.L.SetTop(top)

	if err := r.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		return false, err
	}
	return lua.LVAsBool(r.L.Get(-1)), nil
}

func rowTable(L *lua.LState, row Row) *lua.LTable {
	t := L.CreateTable(len(row.Cells), len(row.Names))
	for i, text := range row.Cells {
		t.RawSetInt(i+1, lua.LString(text))
		if i < len(row.Names) && row.Names[i] != "" {
			t.RawSetString(row.Names[i], lua.LString(text))
		}
	}
	return t
}

func columnName(row Row, column int) lua.LValue {
	if column >= 0 && column < len(row.Names) {
		return lua.LString(row.Names[column])
	}
	return lua.LNumber(column + 1)
}
