/*
Package game
File: mechanics.go
Description:
    Contains the pricing and rate formulas of the economy.
    Every function here is pure: it reads its arguments and returns a value,
    so rates are always recomputed from owned quantities rather than patched.
*/

package game

import "math"

// PriceAt is the price of copy number k+1 (k copies already owned).
// Formula: floor(BasePrice * GrowthFactor^k)
func PriceAt(basePrice, growth float64, k int) float64 {
	return math.Floor(basePrice * math.Pow(growth, float64(k)))
}

// Price is the cost of the next copy of u, computed from its current quantity.
func Price(u Upgrade) float64 {
	return PriceAt(u.BasePrice, u.GrowthFactor, u.Quantity)
}

// CumulativeCost is the total spent buying the first n copies.
func CumulativeCost(basePrice, growth float64, n int) float64 {
	total := 0.0
	for k := 0; k < n; k++ {
		total += PriceAt(basePrice, growth, k)
	}
	return total
}

// Contribution is what the owned copies of u add to their rate.
func Contribution(u Upgrade) float64 {
	return float64(u.Quantity) * u.Effect
}

// PointsPerClick sums the base click value and every active upgrade's contribution.
func PointsPerClick(baseClickValue float64, upgrades []Upgrade) float64 {
	return baseClickValue + sumKind(upgrades, KindActive)
}

// PointsPerSecond sums every passive upgrade's contribution.
func PointsPerSecond(upgrades []Upgrade) float64 {
	return sumKind(upgrades, KindPassive)
}

func sumKind(upgrades []Upgrade, kind UpgradeKind) float64 {
	total := 0.0
	for _, u := range upgrades {
		if u.Kind == kind {
			total += Contribution(u)
		}
	}
	return total
}

// DistinctOwned counts upgrades owned at least once.
func DistinctOwned(upgrades []Upgrade) int {
	n := 0
	for _, u := range upgrades {
		if u.Quantity > 0 {
			n++
		}
	}
	return n
}

// IsUnlocked reports whether u may be bought at the given balance.
// Owning a copy keeps it unlocked even if the balance drops below the threshold.
func IsUnlocked(u Upgrade, points float64) bool {
	return u.Quantity > 0 || points >= u.UnlockThreshold
}

// Visibility reports, index-aligned with upgrades, which entries the player sees:
// every unlocked upgrade plus one preview per kind, the locked upgrade with the
// lowest threshold. Ties go to the earlier catalog entry.
func Visibility(upgrades []Upgrade, points float64) []bool {
	visible := make([]bool, len(upgrades))
	preview := map[UpgradeKind]int{}

	for i, u := range upgrades {
		if IsUnlocked(u, points) {
			visible[i] = true
			continue
		}
		j, ok := preview[u.Kind]
		if !ok || u.UnlockThreshold < upgrades[j].UnlockThreshold {
			preview[u.Kind] = i
		}
	}
	for _, i := range preview {
		visible[i] = true
	}
	return visible
}

// RequirementMet tests one achievement requirement against the counters.
func RequirementMet(req Requirement, st Stats) bool {
	switch req.Kind {
	case RequirePoints:
		return st.Points >= req.Value
	case RequireClicks:
		return float64(st.Clicks) >= req.Value
	case RequireUpgrades:
		return float64(st.DistinctOwned) >= req.Value
	}
	return false
}
