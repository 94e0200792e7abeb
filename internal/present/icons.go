package present

// Icon tags in the catalog are opaque to the engine. The terminal client maps
// them to single glyphs here; unknown tags fall back to a per-category symbol.

const (
	FallbackUpgradeIcon     = '?'
	FallbackAchievementIcon = '*'
)

var upgradeIcons = map[string]rune{
	"Highlighter":   '✎',
	"Layers":        '▤',
	"Users":         '☺',
	"GraduationCap": '♛',
	"Brain":         '☼',
	"BookMarked":    '▯',
	"Library":       '▥',
	"UserCheck":     '✓',
	"FlaskConical":  '⚗',
	"Landmark":      '⌂',
}

var achievementIcons = map[string]rune{
	"MousePointerClick": '➚',
	"Pencil":            '✎',
	"Flame":             '♨',
	"Star":              '★',
	"BookOpen":          '▯',
	"Award":             '✪',
	"ShoppingBag":       '$',
	"Compass":           '✥',
	"Crown":             '♛',
}

// UpgradeIcon resolves an upgrade icon tag.
func UpgradeIcon(tag string) rune {
	if r, ok := upgradeIcons[tag]; ok {
		return r
	}
	return FallbackUpgradeIcon
}

// AchievementIcon resolves an achievement icon tag.
func AchievementIcon(tag string) rune {
	if r, ok := achievementIcons[tag]; ok {
		return r
	}
	return FallbackAchievementIcon
}
