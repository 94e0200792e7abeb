/*
Package game
File: state.go
Description:
    Manages the runtime state of the clicker economy.
    The Engine holds the points balance, the click counter, owned upgrade
    quantities and achievement flags, and exposes the mutating entry points
    (Click, BuyUpgrade, Tick, Reset) plus read-only queries.

    After every mutation the derived rates are recomputed from scratch and the
    locked achievements are re-evaluated. The engine performs no I/O and never
    reads the wall clock; the caller decides how much time a Tick covers.
*/

package game

import (
	"math"
	"sync"
)

// Engine is the authoritative game state.
type Engine struct {
	// mu serializes every entry point so each mutation is atomic.
	mu sync.RWMutex

	catalog *Catalog // Pristine copy, used by Reset

	points          float64
	clicks          int64
	pointsPerClick  float64
	pointsPerSecond float64
	upgrades        []Upgrade
	achievements    []Achievement
}

// NewEngine validates the catalog and builds a fresh engine from it.
// The engine keeps its own copy; later changes to cat are not observed.
func NewEngine(cat *Catalog) (*Engine, error) {
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{catalog: cat.clone()}
	e.reset()
	return e, nil
}

// Click adds the current per-click rate to the balance and counts the click.
func (e *Engine) Click() ClickResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	gained := e.pointsPerClick
	e.clicks++
	e.points += gained

	return ClickResult{Gained: gained, Unlocked: e.evaluateAchievements()}
}

// BuyUpgrade charges the price of the next copy and adds it to the owned quantity.
// A rejected purchase leaves the state untouched and returns an error matching
// ErrNotPurchasable: ErrUnknownUpgrade, ErrUpgradeLocked or ErrInsufficientPoints.
func (e *Engine) BuyUpgrade(id string) (Purchase, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOf(id)
	if idx < 0 {
		return Purchase{}, ErrUnknownUpgrade
	}
	u := &e.upgrades[idx]

	if !IsUnlocked(*u, e.points) {
		return Purchase{}, ErrUpgradeLocked
	}

	// Priced for the copy being bought, before the quantity moves.
	price := Price(*u)
	if e.points < price {
		return Purchase{}, ErrInsufficientPoints
	}

	e.points -= price
	u.Quantity++
	e.recomputeRates()

	return Purchase{
		UpgradeID: u.ID,
		Price:     price,
		Quantity:  u.Quantity,
		Unlocked:  e.evaluateAchievements(),
	}, nil
}

// Tick applies passive income for the elapsed seconds.
// Zero, negative, NaN or infinite durations are ignored.
func (e *Engine) Tick(elapsedSeconds float64) TickResult {
	if !(elapsedSeconds > 0) || math.IsInf(elapsedSeconds, 1) {
		return TickResult{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	gained := e.pointsPerSecond * elapsedSeconds
	e.points += gained

	return TickResult{Gained: gained, Unlocked: e.evaluateAchievements()}
}

// Reset restores the state a freshly constructed engine would have.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset()
}

// Snapshot returns a deep copy of the state with every derived field filled in.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	visible := Visibility(e.upgrades, e.points)
	views := make([]UpgradeView, len(e.upgrades))
	for i, u := range e.upgrades {
		views[i] = e.view(u, visible[i])
	}

	achievements := make([]Achievement, len(e.achievements))
	copy(achievements, e.achievements)
	unlocked := 0
	for _, a := range achievements {
		if a.Unlocked {
			unlocked++
		}
	}

	return Snapshot{
		Points:               e.points,
		Clicks:               e.clicks,
		PointsPerClick:       e.pointsPerClick,
		PointsPerSecond:      e.pointsPerSecond,
		Upgrades:             views,
		Achievements:         achievements,
		AchievementsUnlocked: unlocked,
	}
}

// Upgrade looks up a single upgrade view by ID.
func (e *Engine) Upgrade(id string) (UpgradeView, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	idx := e.indexOf(id)
	if idx < 0 {
		return UpgradeView{}, ErrUnknownUpgrade
	}
	visible := Visibility(e.upgrades, e.points)
	return e.view(e.upgrades[idx], visible[idx]), nil
}

// Achievement looks up a single achievement by ID.
func (e *Engine) Achievement(id string) (Achievement, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, a := range e.achievements {
		if a.ID == id {
			return a, nil
		}
	}
	return Achievement{}, ErrUnknownAchievement
}

// Stats returns the counters achievements are tested against.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats()
}

// Note: every helper below expects the caller to hold mu.

func (e *Engine) reset() {
	fresh := e.catalog.clone()
	e.points = 0
	e.clicks = 0
	e.upgrades = fresh.Upgrades
	e.achievements = fresh.Achievements
	e.recomputeRates()
}

func (e *Engine) recomputeRates() {
	e.pointsPerClick = PointsPerClick(e.catalog.BaseClickValue, e.upgrades)
	e.pointsPerSecond = PointsPerSecond(e.upgrades)
}

func (e *Engine) stats() Stats {
	return Stats{
		Points:        e.points,
		Clicks:        e.clicks,
		DistinctOwned: DistinctOwned(e.upgrades),
	}
}

// evaluateAchievements unlocks every locked achievement whose requirement now
// holds and returns the newly unlocked ones. Unlocked flags are never cleared here.
func (e *Engine) evaluateAchievements() []Achievement {
	st := e.stats()
	var unlocked []Achievement
	for i := range e.achievements {
		a := &e.achievements[i]
		if a.Unlocked {
			continue
		}
		if RequirementMet(a.Requirement, st) {
			a.Unlocked = true
			unlocked = append(unlocked, *a)
		}
	}
	return unlocked
}

func (e *Engine) indexOf(id string) int {
	for i, u := range e.upgrades {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) view(u Upgrade, visible bool) UpgradeView {
	price := Price(u)
	unlocked := IsUnlocked(u, e.points)
	return UpgradeView{
		Upgrade:      u,
		Price:        price,
		Contribution: Contribution(u),
		Unlocked:     unlocked,
		Visible:      visible,
		Affordable:   unlocked && e.points >= price,
	}
}
