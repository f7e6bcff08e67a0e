package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/mitigation/internal/game/mitigation"
)

// RegisterModules registers all engine.* Lua tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine.mitigation is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetGlobal("engine", engine)

	mod := L.NewTable()
	L.SetField(mod, "max_stat", lua.LNumber(mitigation.MaxStat))
	L.SetField(mod, "armor_scale", lua.LNumber(mitigation.ArmorScale))
	L.SetField(mod, "effective_damage", L.NewFunction(m.luaEffectiveDamage))
	L.SetField(mod, "breakdown", L.NewFunction(m.luaBreakdown))
	L.SetField(engine, "mitigation", mod)
}

// luaEffectiveDamage implements engine.mitigation.effective_damage(damage, armor, pen).
// Missing arguments count as zero.
func (m *Manager) luaEffectiveDamage(L *lua.LState) int {
	d, a, p := mitigationArgs(L)
	L.Push(lua.LNumber(m.calc.EffectiveDamage(d, a, p)))
	return 1
}

// luaBreakdown implements engine.mitigation.breakdown(damage, armor, pen) and
// returns a table of every intermediate value.
func (m *Manager) luaBreakdown(L *lua.LState) int {
	d, a, p := mitigationArgs(L)
	r := m.calc.Compute(d, a, p)
	t := L.NewTable()
	L.SetField(t, "damage", lua.LNumber(r.Damage))
	L.SetField(t, "armor", lua.LNumber(r.Armor))
	L.SetField(t, "armor_penetration", lua.LNumber(r.ArmorPenetration))
	L.SetField(t, "effective_armor", lua.LNumber(r.EffectiveArmor))
	L.SetField(t, "damage_decrease", lua.LNumber(r.DamageDecrease))
	L.SetField(t, "effective_damage", lua.LNumber(r.EffectiveDamage))
	L.Push(t)
	return 1
}

func mitigationArgs(L *lua.LState) (damage, armor, pen float64) {
	return float64(L.OptNumber(1, 0)), float64(L.OptNumber(2, 0)), float64(L.OptNumber(3, 0))
}
