// Package mitigation computes armor-mitigated damage.
//
// Armor reduces incoming damage along a diminishing-returns curve:
// effective armor E yields a damage decrease of E/(ArmorScale+E), so each
// additional point of armor is worth slightly less than the one before it.
package mitigation

import "math"

const (
	// MaxStat is the ceiling every input is clamped to.
	MaxStat = 2000
	// ArmorScale is the effective armor at which damage is halved.
	ArmorScale = 100
)

// Result holds the intermediate and final values of a single mitigation.
type Result struct {
	// Damage is the normalized incoming damage.
	Damage float64
	// Armor is the normalized armor.
	Armor float64
	// ArmorPenetration is the normalized armor penetration.
	ArmorPenetration float64
	// EffectiveArmor is Armor - ArmorPenetration floored at zero.
	EffectiveArmor float64
	// DamageDecrease is the mitigation ratio in [0, 1).
	DamageDecrease float64
	// EffectiveDamage is the rounded damage dealt after mitigation.
	EffectiveDamage float64
}

// EffectiveDamage returns the damage dealt by damage against armor reduced by
// armorPenetration. Every input is clamped into [0, MaxStat] first.
//
// Postcondition: Returns an integral value in [0, MaxStat], or NaN if any input is NaN.
func EffectiveDamage(damage, armor, armorPenetration float64) float64 {
	return Breakdown(damage, armor, armorPenetration).EffectiveDamage
}

// Breakdown performs the same computation as EffectiveDamage and reports every
// intermediate value.
//
// Postcondition: Result.EffectiveDamage == EffectiveDamage(damage, armor, armorPenetration).
func Breakdown(damage, armor, armorPenetration float64) Result {
	r := Result{
		Armor:            normalize(armor),
		ArmorPenetration: normalize(armorPenetration),
	}
	r.EffectiveArmor = r.Armor - r.ArmorPenetration
	if r.EffectiveArmor <= 0 {
		r.EffectiveArmor = 0
	}
	r.DamageDecrease = r.EffectiveArmor / (ArmorScale + r.EffectiveArmor)
	r.Damage = normalize(damage)
	// Operands are non-negative, so half-away-from-zero equals half-up here.
	r.EffectiveDamage = math.Round(r.Damage * (1 - r.DamageDecrease))
	return r
}

// normalize clamps n into [0, MaxStat]. NaN is returned unchanged.
func normalize(n float64) float64 {
	if n < 0 {
		return 0
	} else if n >= MaxStat {
		return MaxStat
	}
	return n
}
