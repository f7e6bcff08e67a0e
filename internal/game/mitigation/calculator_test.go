package mitigation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/mitigation/internal/game/mitigation"
)

func TestCalculator_LogsEachComputation(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	calc := mitigation.NewCalculator(zap.New(core))

	got := calc.EffectiveDamage(100, 100, 0)
	assert.Equal(t, 50.0, got)

	entries := logs.FilterMessage("damage mitigated").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, 100.0, fields["effective_armor"])
	assert.Equal(t, 0.5, fields["damage_decrease"])
	assert.Equal(t, 50.0, fields["effective_damage"])
}

func TestCalculator_NopLogger(t *testing.T) {
	calc := mitigation.NewCalculator(zap.NewNop())
	assert.Equal(t, 5.0, calc.EffectiveDamage(100, 2500, 100))
}

func TestProperty_CalculatorMatchesPureFunction(t *testing.T) {
	calc := mitigation.NewCalculator(zap.NewNop())
	rapid.Check(t, func(rt *rapid.T) {
		d := stat().Draw(rt, "damage")
		a := stat().Draw(rt, "armor")
		p := stat().Draw(rt, "pen")
		assert.Equal(rt, mitigation.Breakdown(d, a, p), calc.Compute(d, a, p))
	})
}
