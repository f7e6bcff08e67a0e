package gear

import (
	"fmt"

	"github.com/cory-johannsen/mitigation/internal/game/mitigation"
)

// Calculator is the subset of mitigation.Calculator used by the registry.
type Calculator interface {
	Compute(damage, armor, armorPenetration float64) mitigation.Result
}

// Registry holds all loaded weapon and armor definitions indexed by ID.
type Registry struct {
	weapons map[string]*WeaponDef
	armors  map[string]*ArmorDef
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{
		weapons: make(map[string]*WeaponDef),
		armors:  make(map[string]*ArmorDef),
	}
}

// LoadRegistry loads weapons and armor from their directories into a new Registry.
//
// Postcondition: Returns a populated Registry or the first load/registration error.
func LoadRegistry(weaponsDir, armorDir string) (*Registry, error) {
	weapons, err := LoadWeapons(weaponsDir)
	if err != nil {
		return nil, err
	}
	armors, err := LoadArmors(armorDir)
	if err != nil {
		return nil, err
	}
	r := NewRegistry()
	for _, w := range weapons {
		if err := r.RegisterWeapon(w); err != nil {
			return nil, err
		}
	}
	for _, a := range armors {
		if err := r.RegisterArmor(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// RegisterWeapon adds w to the registry.
//
// Precondition:  w must not be nil.
// Postcondition: Weapon(w.ID) returns w; returns error if w.ID already registered.
func (r *Registry) RegisterWeapon(w *WeaponDef) error {
	if _, exists := r.weapons[w.ID]; exists {
		return fmt.Errorf("gear: Registry.RegisterWeapon: weapon ID %q already registered", w.ID)
	}
	r.weapons[w.ID] = w
	return nil
}

// RegisterArmor adds a to the registry.
//
// Precondition:  a must not be nil.
// Postcondition: Armor(a.ID) returns a; returns error if a.ID already registered.
func (r *Registry) RegisterArmor(a *ArmorDef) error {
	if _, exists := r.armors[a.ID]; exists {
		return fmt.Errorf("gear: Registry.RegisterArmor: armor ID %q already registered", a.ID)
	}
	r.armors[a.ID] = a
	return nil
}

// Weapon returns the WeaponDef for the given id, or nil if not found.
func (r *Registry) Weapon(id string) *WeaponDef {
	return r.weapons[id]
}

// Armor returns the ArmorDef for the given id, or nil if not found.
func (r *Registry) Armor(id string) *ArmorDef {
	return r.armors[id]
}

// Strike resolves weaponID hitting armorID. An empty armorID means an unarmored target.
//
// Precondition: calc must be non-nil.
// Postcondition: Returns the mitigation Result or an error naming the unknown ID.
func (r *Registry) Strike(calc Calculator, weaponID, armorID string) (mitigation.Result, error) {
	w := r.Weapon(weaponID)
	if w == nil {
		return mitigation.Result{}, fmt.Errorf("gear: unknown weapon %q", weaponID)
	}
	var armor float64
	if armorID != "" {
		a := r.Armor(armorID)
		if a == nil {
			return mitigation.Result{}, fmt.Errorf("gear: unknown armor %q", armorID)
		}
		armor = a.Armor
	}
	return calc.Compute(w.Damage, armor, w.ArmorPenetration), nil
}
