package mitigation

import "go.uber.org/zap"

// Calculator wraps the mitigation formula with debug logging.
// Every computation is logged with its inputs and intermediate values.
type Calculator struct {
	logger *zap.Logger
}

// NewCalculator creates a Calculator that logs to logger.
//
// Precondition: logger must be non-nil.
func NewCalculator(logger *zap.Logger) *Calculator {
	return &Calculator{logger: logger}
}

// Compute evaluates the mitigation for the given raw inputs and logs the result at debug level.
//
// Postcondition: Returns the same Result as Breakdown(damage, armor, armorPenetration).
func (c *Calculator) Compute(damage, armor, armorPenetration float64) Result {
	r := Breakdown(damage, armor, armorPenetration)
	c.logger.Debug("damage mitigated",
		zap.Float64("raw_damage", damage),
		zap.Float64("raw_armor", armor),
		zap.Float64("raw_armor_penetration", armorPenetration),
		zap.Float64("effective_armor", r.EffectiveArmor),
		zap.Float64("damage_decrease", r.DamageDecrease),
		zap.Float64("effective_damage", r.EffectiveDamage),
	)
	return r
}

// EffectiveDamage is Compute reduced to its final value.
func (c *Calculator) EffectiveDamage(damage, armor, armorPenetration float64) float64 {
	return c.Compute(damage, armor, armorPenetration).EffectiveDamage
}
