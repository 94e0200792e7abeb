package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/everforgeworks/knowledge-clicker/internal/game"
	"github.com/everforgeworks/knowledge-clicker/internal/present"
)

const maxNotices = 3

var (
	styleTitle    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleHeader   = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleText     = tcell.StyleDefault
	styleDim      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleReady    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleNotice   = tcell.StyleDefault.Foreground(tcell.ColorPurple).Bold(true)
	styleRejected = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// line is one row of the rendered screen.
type line struct {
	text  string
	style tcell.Style
}

// view turns key presses into engine commands and snapshots into rows.
type view struct {
	engine  *game.Engine
	notices []line
}

func newView(engine *game.Engine) *view {
	return &view{engine: engine}
}

// handleKey applies one key press. It returns false when the player quits.
func (v *view) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyEnter:
		v.click()
		return true
	case tcell.KeyRune:
		return v.handleRune(ev.Rune())
	}
	return true
}

func (v *view) handleRune(r rune) bool {
	switch {
	case r == 'q':
		return false
	case r == ' ':
		v.click()
	case r == 'r':
		v.engine.Reset()
		v.notices = nil
		v.notify(line{"Progress reset", styleDim})
	case r >= '1' && r <= '9':
		v.buy(int(r - '1'))
	case r == '0':
		v.buy(9)
	}
	return true
}

func (v *view) click() {
	res := v.engine.Click()
	v.announce(res.Unlocked)
}

// buy purchases the n-th upgrade in display order, counting visible ones only.
func (v *view) buy(n int) {
	ups := displayOrder(v.engine.Snapshot())
	if n >= len(ups) {
		return
	}
	u := ups[n]
	p, err := v.engine.BuyUpgrade(u.ID)
	if err != nil {
		v.notify(line{fmt.Sprintf("Cannot buy %s: %v", upgradeLabel(u), err), styleRejected})
		return
	}
	v.notify(line{fmt.Sprintf("Bought %s #%d for %s", u.Name, p.Quantity, present.FormatNumber(p.Price)), styleReady})
	v.announce(p.Unlocked)
}

// announce queues a notice for every newly unlocked achievement.
func (v *view) announce(unlocked []game.Achievement) {
	for _, a := range unlocked {
		v.notify(line{fmt.Sprintf("%c Achievement unlocked: %s", present.AchievementIcon(a.Icon), a.Name), styleNotice})
	}
}

func (v *view) notify(l line) {
	v.notices = append(v.notices, l)
	if len(v.notices) > maxNotices {
		v.notices = v.notices[len(v.notices)-maxNotices:]
	}
}

// displayOrder lists the visible upgrades the way they are numbered on
// screen: the active column, then the passive column.
func displayOrder(snap game.Snapshot) []game.UpgradeView {
	active, passive := present.SplitByKind(present.SortUpgrades(snap.VisibleUpgrades()))
	return append(active, passive...)
}

// upgradeLabel hides the name of a locked preview.
func upgradeLabel(u game.UpgradeView) string {
	if !u.Unlocked {
		return "???"
	}
	return u.Name
}

// slotKey names the key that buys the n-th slot: 1-9, then 0 for the tenth.
// Later slots have no key.
func slotKey(n int) string {
	switch {
	case n >= 1 && n <= 9:
		return string(rune('0' + n))
	case n == 10:
		return "0"
	}
	return " "
}

func upgradeLine(n int, u game.UpgradeView) line {
	if !u.Unlocked {
		return line{
			text:  fmt.Sprintf(" [%s] %c ???  unlocks at %s", slotKey(n), present.FallbackUpgradeIcon, present.FormatNumber(u.UnlockThreshold)),
			style: styleDim,
		}
	}
	style := styleText
	if u.Affordable {
		style = styleReady
	}
	return line{
		text: fmt.Sprintf(" [%s] %c %s x%d  %s  cost %s",
			slotKey(n), present.UpgradeIcon(u.Icon), u.Name, u.Quantity, present.EffectText(u.Upgrade), present.FormatNumber(u.Price)),
		style: style,
	}
}

// render lays out the whole screen for one snapshot.
func (v *view) render(snap game.Snapshot) []line {
	out := []line{
		{"KNOWLEDGE CLICKER", styleTitle},
		{fmt.Sprintf("Knowledge Points: %s", present.FormatNumber(snap.Points)), styleText},
		{fmt.Sprintf("%s per click | %s per second | %s clicks",
			present.FormatRate(snap.PointsPerClick), present.FormatRate(snap.PointsPerSecond), present.FormatNumber(float64(snap.Clicks))), styleDim},
		{"", styleText},
	}

	active, passive := present.SplitByKind(present.SortUpgrades(snap.VisibleUpgrades()))
	n := 1
	out = append(out, line{"Study Tools", styleHeader})
	for _, u := range active {
		out = append(out, upgradeLine(n, u))
		n++
	}
	out = append(out, line{"Passive Learning", styleHeader})
	for _, u := range passive {
		out = append(out, upgradeLine(n, u))
		n++
	}

	out = append(out,
		line{"", styleText},
		line{fmt.Sprintf("Achievements %d/%d", snap.AchievementsUnlocked, len(snap.Achievements)), styleHeader},
	)
	for _, a := range snap.Achievements {
		if a.Unlocked {
			out = append(out, line{fmt.Sprintf(" %c %s", present.AchievementIcon(a.Icon), a.Name), styleReady})
		} else {
			out = append(out, line{fmt.Sprintf(" %c %s: %s", present.FallbackAchievementIcon, a.Name, present.RequirementText(a.Requirement)), styleDim})
		}
	}

	out = append(out, line{"", styleText})
	out = append(out, v.notices...)
	out = append(out, line{"space/enter: study   1-9,0: buy   r: reset   q: quit", styleDim})
	return out
}

// draw paints rows onto the screen, clipping to its size.
func draw(screen tcell.Screen, rows []line) {
	screen.Clear()
	width, height := screen.Size()
	for y, row := range rows {
		if y >= height {
			break
		}
		x := 0
		for _, r := range row.text {
			if x >= width {
				break
			}
			screen.SetContent(x, y, r, nil, row.style)
			x++
		}
	}
	screen.Show()
}

// plain joins rendered rows for logs and tests.
func plain(rows []line) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(row.text)
		b.WriteByte('\n')
	}
	return b.String()
}
