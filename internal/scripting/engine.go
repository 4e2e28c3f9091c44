package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// ScoreHook is the global Lua function the score system calls.
const ScoreHook = "on_tick"

// ErrNoHook is returned when the loaded scripts do not define ScoreHook.
var ErrNoHook = errors.New("lua function " + ScoreHook + " not defined")

// Engine wraps a single gopher-lua VM. An LState is not safe for concurrent
// use, so each Engine must be driven by one goroutine at a time; the score
// system owns its engine exclusively.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every .lua file in scriptsDir in
// name order. A missing directory yields an engine with no scripts.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	if err := e.loadDir(scriptsDir); err != nil {
		e.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// NewEngineFromSource creates an engine from inline Lua source.
func NewEngineFromSource(src string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	if err := e.vm.DoString(src); err != nil {
		e.Close()
		return nil, fmt.Errorf("load inline script: %w", err)
	}
	return e, nil
}

func newEngine(log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	return &Engine{vm: vm, log: log}
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// HasHook reports whether ScoreHook is defined.
func (e *Engine) HasHook() bool {
	return e.vm.GetGlobal(ScoreHook).Type() == lua.LTFunction
}

// ScoreContext is the per-entity input handed to the Lua hook. It only carries
// data the score system owns, so scripts never observe components that other
// fast systems are mutating in the same tick.
type ScoreContext struct {
	EntityID uint64
	Score    float64
	DT       float64 // seconds
	Tick     uint64
}

// ScoreTick calls on_tick(ctx) and returns the new score. The hook receives a
// table {entity, score, dt, tick} and must return a number.
func (e *Engine) ScoreTick(ctx ScoreContext) (float64, error) {
	fn := e.vm.GetGlobal(ScoreHook)
	if fn.Type() != lua.LTFunction {
		return ctx.Score, ErrNoHook
	}

	t := e.vm.NewTable()
	t.RawSetString("entity", lua.LNumber(ctx.EntityID))
	t.RawSetString("score", lua.LNumber(ctx.Score))
	t.RawSetString("dt", lua.LNumber(ctx.DT))
	t.RawSetString("tick", lua.LNumber(ctx.Tick))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		return ctx.Score, fmt.Errorf("%s: %w", ScoreHook, err)
	}

	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	n, ok := ret.(lua.LNumber)
	if !ok {
		return ctx.Score, fmt.Errorf("%s returned %s, want number", ScoreHook, ret.Type())
	}
	return float64(n), nil
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
