package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/mitigation/internal/game/mitigation"
)

// globalKey is the reserved key for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when no keyed VM is found.
const globalKey = "__global__"

// Manager owns one sandboxed LState per script set and exposes hook dispatch.
//
// Each LState is single-threaded; mu serializes every VM access.
type Manager struct {
	mu      sync.Mutex
	states  map[string]*lua.LState
	cancels map[string]context.CancelFunc
	calc    *mitigation.Calculator
	logger  *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: calc and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no VMs loaded.
func NewManager(calc *mitigation.Calculator, logger *zap.Logger) *Manager {
	return &Manager{
		states:  make(map[string]*lua.LState),
		cancels: make(map[string]context.CancelFunc),
		calc:    calc,
		logger:  logger,
	}
}

// Load creates a sandboxed VM for key, registers all engine.* modules,
// then executes every *.lua file in scriptDir in lexicographic order.
// A VM already registered under key is replaced.
//
// Precondition: key must be non-empty; scriptDir must be a readable directory.
// Postcondition: VM is registered; returns error on Lua load failure.
func (m *Manager) Load(key, scriptDir string, instLimit int) error {
	return m.loadInto(key, scriptDir, instLimit)
}

// LoadGlobal creates the "__global__" VM used as the CallHook fallback.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Global VM is registered; returns error on Lua load failure.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(globalKey, scriptDir, instLimit)
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	m.closeLocked(key)
	m.states[key] = L
	m.cancels[key] = cancel
	m.mu.Unlock()

	m.logger.Debug("scripting: VM loaded",
		zap.String("key", key),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// CallHook calls the named Lua global function in key's VM. If key has no VM,
// the __global__ VM is tried as a fallback. Returns LNil if the hook is not
// defined or no VM exists. Lua runtime errors are logged at Warn level and
// never propagated.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(key, hook string, args ...lua.LValue) lua.LValue {
	m.mu.Lock()
	defer m.mu.Unlock()

	L, ok := m.states[key]
	if !ok {
		L = m.states[globalKey]
	}
	if L == nil {
		m.logger.Info("scripting: no VM for key",
			zap.String("key", key),
			zap.String("hook", hook),
		)
		return lua.LNil
	}

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil
	}

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("key", key),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret
}

// CallDamageHook calls hook with (damage, armor, pen) and converts a numeric
// return value to float64.
//
// Postcondition: ok is false if the hook is missing, errors, or returns a non-number.
func (m *Manager) CallDamageHook(key, hook string, damage, armor, pen float64) (float64, bool) {
	ret := m.CallHook(key, hook, lua.LNumber(damage), lua.LNumber(armor), lua.LNumber(pen))
	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, false
	}
	return float64(n), true
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.states {
		m.closeLocked(key)
	}
}

func (m *Manager) closeLocked(key string) {
	if L, ok := m.states[key]; ok {
		if cancel := m.cancels[key]; cancel != nil {
			cancel()
		}
		L.Close()
		delete(m.states, key)
		delete(m.cancels, key)
	}
}
