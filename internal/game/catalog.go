/*
Package game
File: catalog.go
Description:
    Loads the static catalog (upgrades and achievements) from YAML.
    The default catalog is embedded in the binary; an alternative file can be
    supplied at startup. Every catalog is validated before an engine may use it.
*/

package game

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// DefaultCatalog returns a fresh copy of the embedded catalog.
func DefaultCatalog() *Catalog {
	cat, err := LoadCatalog(defaultCatalogYAML)
	if err != nil {
		// The embedded file is covered by tests; failing here is a build defect.
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return cat
}

// LoadCatalogFile reads and validates a catalog from disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadCatalog(f)
}

// LoadCatalog decodes a YAML catalog and validates it.
func LoadCatalog(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Validate checks the invariants the pricing and unlock rules rely on.
func (c *Catalog) Validate() error {
	if !finite(c.BaseClickValue) {
		return fmt.Errorf("%w: base_click_value must be finite", ErrInvalidCatalog)
	}
	if c.BaseClickValue <= 0 {
		return fmt.Errorf("%w: base_click_value must be positive", ErrInvalidCatalog)
	}

	seen := make(map[string]bool, len(c.Upgrades))
	for _, u := range c.Upgrades {
		if u.ID == "" {
			return fmt.Errorf("%w: upgrade with empty id", ErrInvalidCatalog)
		}
		if seen[u.ID] {
			return fmt.Errorf("%w: duplicate upgrade id %q", ErrInvalidCatalog, u.ID)
		}
		seen[u.ID] = true

		switch {
		case !finite(u.Effect):
			return fmt.Errorf("%w: upgrade %q effect must be finite", ErrInvalidCatalog, u.ID)
		case !finite(u.BasePrice):
			return fmt.Errorf("%w: upgrade %q base_price must be finite", ErrInvalidCatalog, u.ID)
		case !finite(u.GrowthFactor):
			return fmt.Errorf("%w: upgrade %q growth_factor must be finite", ErrInvalidCatalog, u.ID)
		case !finite(u.UnlockThreshold):
			return fmt.Errorf("%w: upgrade %q unlock_threshold must be finite", ErrInvalidCatalog, u.ID)
		case u.Kind != KindActive && u.Kind != KindPassive:
			return fmt.Errorf("%w: upgrade %q has unknown kind %q", ErrInvalidCatalog, u.ID, u.Kind)
		case u.Effect <= 0:
			return fmt.Errorf("%w: upgrade %q effect must be positive", ErrInvalidCatalog, u.ID)
		case u.BasePrice <= 0:
			return fmt.Errorf("%w: upgrade %q base_price must be positive", ErrInvalidCatalog, u.ID)
		case u.GrowthFactor <= 1:
			return fmt.Errorf("%w: upgrade %q growth_factor must be greater than 1", ErrInvalidCatalog, u.ID)
		case u.BasePrice*(u.GrowthFactor-1) < 1:
			// Below this the floored price can repeat for consecutive copies.
			return fmt.Errorf("%w: upgrade %q price would not increase with every copy", ErrInvalidCatalog, u.ID)
		case u.UnlockThreshold < 0:
			return fmt.Errorf("%w: upgrade %q unlock_threshold must not be negative", ErrInvalidCatalog, u.ID)
		}
	}

	seenAch := make(map[string]bool, len(c.Achievements))
	for _, a := range c.Achievements {
		if a.ID == "" {
			return fmt.Errorf("%w: achievement with empty id", ErrInvalidCatalog)
		}
		if seenAch[a.ID] {
			return fmt.Errorf("%w: duplicate achievement id %q", ErrInvalidCatalog, a.ID)
		}
		seenAch[a.ID] = true

		switch a.Requirement.Kind {
		case RequirePoints, RequireClicks, RequireUpgrades:
		default:
			return fmt.Errorf("%w: achievement %q has unknown requirement kind %q", ErrInvalidCatalog, a.ID, a.Requirement.Kind)
		}
		if !finite(a.Requirement.Value) || a.Requirement.Value <= 0 {
			return fmt.Errorf("%w: achievement %q requirement value must be positive", ErrInvalidCatalog, a.ID)
		}
	}
	return nil
}

// finite rejects NaN and both infinities, which slip past ordered comparisons.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// clone returns a deep copy with every runtime field at its initial value.
func (c *Catalog) clone() *Catalog {
	out := &Catalog{
		BaseClickValue: c.BaseClickValue,
		Upgrades:       make([]Upgrade, len(c.Upgrades)),
		Achievements:   make([]Achievement, len(c.Achievements)),
	}
	copy(out.Upgrades, c.Upgrades)
	copy(out.Achievements, c.Achievements)
	for i := range out.Upgrades {
		out.Upgrades[i].Quantity = 0
	}
	for i := range out.Achievements {
		out.Achievements[i].Unlocked = false
	}
	return out
}
