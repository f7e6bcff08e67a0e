// Package main provides a CLI that computes armor-mitigated damage from raw
// stats, from gear definitions, or through a Lua damage hook.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mitigation/internal/config"
	"github.com/cory-johannsen/mitigation/internal/game/gear"
	"github.com/cory-johannsen/mitigation/internal/game/mitigation"
	"github.com/cory-johannsen/mitigation/internal/observability"
	"github.com/cory-johannsen/mitigation/internal/scripting"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (defaults and ARMOR_* env when empty)")
	damage := flag.Float64("damage", 0, "raw damage")
	armor := flag.Float64("armor", 0, "armor")
	pen := flag.Float64("pen", 0, "armor penetration")
	weaponID := flag.String("weapon", "", "weapon ID from the gear directory; overrides -damage and -pen")
	armorID := flag.String("armor-id", "", "armor ID from the gear directory; overrides -armor")
	hook := flag.String("hook", "", "Lua hook called with (damage, armor, pen) instead of the built-in formula")
	flag.Parse()

	var (
		cfg config.Config
		err error
	)
	if *configPath == "" {
		cfg, err = config.LoadDefaults()
	} else {
		cfg, err = config.Load(*configPath)
	}
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	calc := mitigation.NewCalculator(logger)

	d, a, p := *damage, *armor, *pen
	if *weaponID != "" || *armorID != "" {
		reg, err := gear.LoadRegistry(cfg.Content.WeaponsDir(), cfg.Content.ArmorDir())
		if err != nil {
			logger.Fatal("loading gear", zap.Error(err))
		}
		if *weaponID != "" {
			w := reg.Weapon(*weaponID)
			if w == nil {
				logger.Fatal("unknown weapon", zap.String("weapon", *weaponID))
			}
			d, p = w.Damage, w.ArmorPenetration
		}
		if *armorID != "" {
			def := reg.Armor(*armorID)
			if def == nil {
				logger.Fatal("unknown armor", zap.String("armor", *armorID))
			}
			a = def.Armor
		}
	}

	if *hook != "" {
		if cfg.Scripting.ScriptDir == "" {
			logger.Fatal("-hook requires scripting.script_dir")
		}
		mgr := scripting.NewManager(calc, logger)
		defer mgr.Close()
		if err := mgr.LoadGlobal(cfg.Scripting.ScriptDir, cfg.Scripting.InstructionLimit); err != nil {
			logger.Fatal("loading scripts", zap.Error(err))
		}
		result, ok := mgr.CallDamageHook("", *hook, d, a, p)
		if !ok {
			logger.Fatal("hook returned no number", zap.String("hook", *hook))
		}
		fmt.Fprintf(os.Stdout, "%s(%g, %g, %g) = %g [%s]\n", *hook, d, a, p, result, time.Since(start))
		return
	}

	r := calc.Compute(d, a, p)
	fmt.Fprintf(os.Stdout, "damage %g vs armor %g (pen %g): effective armor %g, decrease %.4f, effective damage %g [%s]\n",
		r.Damage, r.Armor, r.ArmorPenetration, r.EffectiveArmor, r.DamageDecrease, r.EffectiveDamage, time.Since(start))
}
