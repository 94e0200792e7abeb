/*
Package game
File: models.go
Description:
    Defines the data structures of the clicker economy.
    This file serves as the "schema" for the engine, mapping directly to
    the YAML catalog and to the JSON snapshots served to the presentation layer.

    No logic is performed here; this file is strictly for type definitions.
*/

package game

// UpgradeKind selects which rate an upgrade raises.
type UpgradeKind string

const (
	KindActive  UpgradeKind = "active"  // Raises points per click
	KindPassive UpgradeKind = "passive" // Raises points per second
)

// RequirementKind selects which counter an achievement is tested against.
type RequirementKind string

const (
	RequirePoints   RequirementKind = "points"   // Current points balance
	RequireClicks   RequirementKind = "clicks"   // Lifetime click counter
	RequireUpgrades RequirementKind = "upgrades" // Distinct upgrades owned at least once
)

// Upgrade is a repeatable purchase that permanently raises one of the two rates.
// Everything except Quantity is catalog data and never changes at runtime.
type Upgrade struct {
	ID              string      `yaml:"id" json:"id"`                             // Unique, stable ID (e.g., "highlighter")
	Name            string      `yaml:"name" json:"name"`                         // Display name
	Description     string      `yaml:"description" json:"description"`           // Flavor text
	Icon            string      `yaml:"icon" json:"icon"`                         // Opaque tag, resolved by presentation
	Kind            UpgradeKind `yaml:"kind" json:"kind"`                         // "active" or "passive"
	Effect          float64     `yaml:"effect" json:"effect"`                     // Rate added per copy owned
	BasePrice       float64     `yaml:"base_price" json:"base_price"`             // Price of the first copy
	GrowthFactor    float64     `yaml:"growth_factor" json:"growth_factor"`       // Price multiplier per copy owned (> 1)
	UnlockThreshold float64     `yaml:"unlock_threshold" json:"unlock_threshold"` // Points needed before it can be bought
	Quantity        int         `yaml:"-" json:"quantity"`                        // Copies owned, mutated only by the engine
}

// Requirement is the trigger condition of an achievement.
type Requirement struct {
	Kind  RequirementKind `yaml:"kind" json:"kind"`
	Value float64         `yaml:"value" json:"value"`
}

// Achievement is a one-time flag that flips to unlocked once its requirement holds.
type Achievement struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description" json:"description"`
	Icon        string      `yaml:"icon" json:"icon"`
	Requirement Requirement `yaml:"requirement" json:"requirement"`
	Unlocked    bool        `yaml:"-" json:"unlocked"` // Monotonic false -> true
}

// Catalog is the root static data, mapping to the entire 'catalog.yaml' file.
type Catalog struct {
	BaseClickValue float64       `yaml:"base_click_value"` // Points per click with no upgrades owned
	Upgrades       []Upgrade     `yaml:"upgrades"`
	Achievements   []Achievement `yaml:"achievements"`
}

// Stats are the counters achievements are evaluated against.
type Stats struct {
	Points        float64
	Clicks        int64
	DistinctOwned int
}
