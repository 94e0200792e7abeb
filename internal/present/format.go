// Package present holds display helpers for the presentation collaborators:
// number abbreviation, icon lookup, requirement text and list ordering.
// The engine never imports it.
package present

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/everforgeworks/knowledge-clicker/internal/game"
)

// FormatNumber abbreviates large values ("1.5k", "2.3M") and shows values below
// a thousand as whole numbers.
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "?"
	}
	if math.Abs(v) < 1000 {
		return humanize.Comma(int64(math.Floor(v)))
	}
	return strings.ReplaceAll(humanize.SIWithDigits(v, 1, ""), " ", "")
}

// FormatRate shows a per-click or per-second rate, keeping one decimal for
// small fractional rates such as 0.5/s.
func FormatRate(v float64) string {
	if v > 0 && v < 1000 && v != math.Trunc(v) {
		return humanize.FtoaWithDigits(v, 1)
	}
	return FormatNumber(v)
}

// RequirementText describes what unlocks an achievement.
func RequirementText(req game.Requirement) string {
	switch req.Kind {
	case game.RequirePoints:
		return fmt.Sprintf("Reach %s points", FormatNumber(req.Value))
	case game.RequireClicks:
		return fmt.Sprintf("Click %s times", FormatNumber(req.Value))
	case game.RequireUpgrades:
		return fmt.Sprintf("Get %s different upgrades", FormatNumber(req.Value))
	}
	return ""
}

// EffectText describes what one copy of an upgrade adds.
func EffectText(u game.Upgrade) string {
	if u.Kind == game.KindActive {
		return fmt.Sprintf("+%s per click", FormatRate(u.Effect))
	}
	return fmt.Sprintf("+%s per second", FormatRate(u.Effect))
}

// SortUpgrades orders upgrades for display: owned first, then by unlock
// threshold. Catalog order breaks ties.
func SortUpgrades(ups []game.UpgradeView) []game.UpgradeView {
	out := make([]game.UpgradeView, len(ups))
	copy(out, ups)
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := out[i].Quantity > 0, out[j].Quantity > 0
		if oi != oj {
			return oi
		}
		return out[i].UnlockThreshold < out[j].UnlockThreshold
	})
	return out
}

// SplitByKind separates upgrades into the active and passive columns.
func SplitByKind(ups []game.UpgradeView) (active, passive []game.UpgradeView) {
	for _, u := range ups {
		if u.Kind == game.KindActive {
			active = append(active, u)
		} else {
			passive = append(passive, u)
		}
	}
	return active, passive
}
