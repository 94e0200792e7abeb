package game

// UpgradeView is an upgrade as the presentation layer sees it, with every
// derived field computed from the state the snapshot was taken from.
type UpgradeView struct {
	Upgrade
	Price        float64 `json:"price"`        // Cost of the next copy
	Contribution float64 `json:"contribution"` // Rate added by the owned copies
	Unlocked     bool    `json:"unlocked"`     // Purchasable once affordable
	Visible      bool    `json:"visible"`      // Unlocked, or the preview of its kind
	Affordable   bool    `json:"affordable"`   // Unlocked and Points >= Price
}

// Snapshot is a read-only copy of the game state. Mutating it has no effect
// on the engine it came from.
type Snapshot struct {
	Points               float64       `json:"points"`
	Clicks               int64         `json:"clicks"`
	PointsPerClick       float64       `json:"points_per_click"`
	PointsPerSecond      float64       `json:"points_per_second"`
	Upgrades             []UpgradeView `json:"upgrades"`
	Achievements         []Achievement `json:"achievements"`
	AchievementsUnlocked int           `json:"achievements_unlocked"`
}

// ClickResult reports the outcome of one click.
type ClickResult struct {
	Gained   float64       `json:"gained"`
	Unlocked []Achievement `json:"unlocked,omitempty"`
}

// Purchase reports a successful upgrade purchase.
type Purchase struct {
	UpgradeID string        `json:"upgrade_id"`
	Price     float64       `json:"price"`    // Points charged
	Quantity  int           `json:"quantity"` // Copies owned after the purchase
	Unlocked  []Achievement `json:"unlocked,omitempty"`
}

// TickResult reports passive income applied by one tick.
type TickResult struct {
	Gained   float64       `json:"gained"`
	Unlocked []Achievement `json:"unlocked,omitempty"`
}

// VisibleUpgrades filters the snapshot down to what the player should see.
func (s Snapshot) VisibleUpgrades() []UpgradeView {
	out := make([]UpgradeView, 0, len(s.Upgrades))
	for _, u := range s.Upgrades {
		if u.Visible {
			out = append(out, u)
		}
	}
	return out
}
