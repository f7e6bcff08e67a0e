// Package gear loads weapon and armor definitions from YAML and resolves
// strikes between them through the mitigation formula.
package gear

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// WeaponDef defines the offensive stats of a weapon loaded from YAML.
type WeaponDef struct {
	ID               string  `yaml:"id"`
	Name             string  `yaml:"name"`
	Damage           float64 `yaml:"damage"`
	ArmorPenetration float64 `yaml:"armor_penetration"`
}

// ArmorDef defines the defensive stats of an armor piece loaded from YAML.
type ArmorDef struct {
	ID    string  `yaml:"id"`
	Name  string  `yaml:"name"`
	Armor float64 `yaml:"armor"`
}

// Validate reports an error if the WeaponDef is missing required fields or has non-finite stats.
// Out-of-range stats are accepted; mitigation clamps them.
//
// Postcondition: Returns nil iff the def is well-formed.
func (w *WeaponDef) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !finite(w.Damage) {
		errs = append(errs, errors.New("damage must be finite"))
	}
	if !finite(w.ArmorPenetration) {
		errs = append(errs, errors.New("armor_penetration must be finite"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// Validate reports an error if the ArmorDef is missing required fields or has a non-finite rating.
//
// Postcondition: Returns nil iff the def is well-formed.
func (a *ArmorDef) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !finite(a.Armor) {
		errs = append(errs, errors.New("armor must be finite"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("armor validation failed: %w", errors.Join(errs...))
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// LoadWeapons reads all .yaml files in dir and returns the parsed WeaponDefs in file-name order.
//
// Precondition: dir must be a readable directory.
// Postcondition: All returned defs pass Validate.
func LoadWeapons(dir string) ([]*WeaponDef, error) {
	return loadDir(dir, "LoadWeapons", func(w *WeaponDef) error { return w.Validate() })
}

// LoadArmors reads all .yaml files in dir and returns the parsed ArmorDefs in file-name order.
//
// Precondition: dir must be a readable directory.
// Postcondition: All returned defs pass Validate.
func LoadArmors(dir string) ([]*ArmorDef, error) {
	return loadDir(dir, "LoadArmors", func(a *ArmorDef) error { return a.Validate() })
}

func loadDir[T any](dir, op string, validate func(*T) error) ([]*T, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: cannot read directory %q: %w", op, dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	out := make([]*T, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: cannot read file %q: %w", op, path, err)
		}
		var def T
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("%s: cannot parse file %q: %w", op, path, err)
		}
		if err := validate(&def); err != nil {
			return nil, fmt.Errorf("%s: invalid definition in %q: %w", op, path, err)
		}
		out = append(out, &def)
	}
	return out, nil
}
