package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/mitigation/internal/game/mitigation"
	"github.com/cory-johannsen/mitigation/internal/scripting"
)

func newManager(t *testing.T) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	m := scripting.NewManager(mitigation.NewCalculator(logger), logger)
	t.Cleanup(m.Close)
	return m, logs
}

func scriptDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestManager_EffectiveDamageModule(t *testing.T) {
	m, _ := newManager(t)
	dir := scriptDir(t, map[string]string{
		"hit.lua": `
function on_hit(d, a, p)
  return engine.mitigation.effective_damage(d, a, p)
end`,
	})
	require.NoError(t, m.Load("arena", dir, 0))

	got, ok := m.CallDamageHook("arena", "on_hit", 100, 2500, 100)
	require.True(t, ok)
	assert.Equal(t, 5.0, got)
}

func TestManager_BreakdownModule(t *testing.T) {
	m, _ := newManager(t)
	dir := scriptDir(t, map[string]string{
		"hit.lua": `
function effective_armor(d, a, p)
  return engine.mitigation.breakdown(d, a, p).effective_armor
end
function cap()
  return engine.mitigation.max_stat + engine.mitigation.armor_scale
end`,
	})
	require.NoError(t, m.Load("arena", dir, 0))

	got, ok := m.CallDamageHook("arena", "effective_armor", 100, 300, 50)
	require.True(t, ok)
	assert.Equal(t, 250.0, got)
	assert.Equal(t, lua.LNumber(2100), m.CallHook("arena", "cap"))
}

func TestManager_ScriptCanAdjustDamage(t *testing.T) {
	m, _ := newManager(t)
	dir := scriptDir(t, map[string]string{
		"crit.lua": `
function crit(d, a, p)
  return engine.mitigation.effective_damage(d * 2, a, p)
end`,
	})
	require.NoError(t, m.LoadGlobal(dir, 0))

	got, ok := m.CallDamageHook("anything", "crit", 50, 100, 0)
	require.True(t, ok, "global VM must serve as fallback")
	assert.Equal(t, 50.0, got)
}

func TestManager_FilesLoadInLexicalOrder(t *testing.T) {
	m, _ := newManager(t)
	dir := scriptDir(t, map[string]string{
		"a.lua": `base = 10`,
		"b.lua": `function value() return base * 2 end`,
	})
	require.NoError(t, m.Load("k", dir, 0))
	assert.Equal(t, lua.LNumber(20), m.CallHook("k", "value"))
}

func TestManager_MissingHookAndVM(t *testing.T) {
	m, logs := newManager(t)
	assert.Equal(t, lua.LNil, m.CallHook("none", "on_hit"))
	assert.Equal(t, 1, logs.FilterMessage("scripting: no VM for key").Len())

	require.NoError(t, m.Load("k", scriptDir(t, nil), 0))
	_, ok := m.CallDamageHook("k", "on_hit", 1, 2, 3)
	assert.False(t, ok)
}

func TestManager_RuntimeErrorIsLoggedNotPropagated(t *testing.T) {
	m, logs := newManager(t)
	dir := scriptDir(t, map[string]string{"boom.lua": `function boom() error("kaboom") end`})
	require.NoError(t, m.Load("k", dir, 0))

	assert.Equal(t, lua.LNil, m.CallHook("k", "boom"))
	assert.Equal(t, 1, logs.FilterMessage("scripting: Lua runtime error").Len())
}

func TestManager_NonNumericHookResult(t *testing.T) {
	m, _ := newManager(t)
	dir := scriptDir(t, map[string]string{"s.lua": `function label() return "heavy" end`})
	require.NoError(t, m.Load("k", dir, 0))
	_, ok := m.CallDamageHook("k", "label", 0, 0, 0)
	assert.False(t, ok)
}

func TestManager_LoadErrors(t *testing.T) {
	m, _ := newManager(t)
	assert.ErrorContains(t, m.Load("k", filepath.Join(t.TempDir(), "missing"), 0), "reading script dir")

	dir := scriptDir(t, map[string]string{"bad.lua": `function (`})
	assert.ErrorContains(t, m.Load("k", dir, 0), "loading")
}

func TestProperty_LuaMatchesGo(t *testing.T) {
	m, _ := newManager(t)
	dir := scriptDir(t, map[string]string{
		"hit.lua": `function on_hit(d, a, p) return engine.mitigation.effective_damage(d, a, p) end`,
	})
	require.NoError(t, m.Load("k", dir, 10_000_000))

	rapid.Check(t, func(rt *rapid.T) {
		d := rapid.Float64Range(-500, 3000).Draw(rt, "damage")
		a := rapid.Float64Range(-500, 3000).Draw(rt, "armor")
		p := rapid.Float64Range(-500, 3000).Draw(rt, "pen")
		got, ok := m.CallDamageHook("k", "on_hit", d, a, p)
		require.True(rt, ok)
		assert.Equal(rt, mitigation.EffectiveDamage(d, a, p), got)
	})
}
