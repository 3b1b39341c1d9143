package domain

import (
	"regexp"
	"sort"
	"strings"
)

// warningIconRe matches warning icon filenames in page markup, e.g.
// "images/warnts2.png" or "warnrain_red.png".
var warningIconRe = regexp.MustCompile(`warn[\w-]*\.png`)

// iconFragments classifies an icon filename by the first fragment it
// contains. Checked in order: thunderstorm icons also contain "ts" inside
// other fragments less often than the reverse, so ts is tested first.
var iconFragments = []struct {
	fragment string
	kind     WarningKind
	level    WarningLevel
}{
	{fragment: "ts", kind: WarningThunderstorm, level: LevelHigh},
	{fragment: "rain", kind: WarningHeavyRain, level: LevelMedium},
	{fragment: "wind", kind: WarningStrongWind, level: LevelMedium},
}

// keywordSignals maps announcement phrases in the page text to warning
// kinds. A keyword hit confirms the warning is in force, so both phrases
// force a high level regardless of what the icon channel produced.
var keywordSignals = []struct {
	phrase string
	kind   WarningKind
}{
	{phrase: "雷暴警告", kind: WarningThunderstorm},
	{phrase: "暴雨警告", kind: WarningHeavyRain},
}

// ParseWarnings derives the active warning set from page markup and text.
// The icon and keyword channels are scanned independently and their results
// unioned; the level is the maximum severity any signal implied.
func ParseWarnings(content string) WarningSet {
	set := WarningSet{
		Timestamp: clock.Now().UTC(),
		Level:     LevelNone,
	}

	active := make(map[WarningKind]struct{})
	level := LevelNone

	for _, icon := range warningIconRe.FindAllString(content, -1) {
		for _, f := range iconFragments {
			if strings.Contains(icon, f.fragment) {
				active[f.kind] = struct{}{}
				level = maxLevel(level, f.level)
				break
			}
		}
	}

	for _, sig := range keywordSignals {
		if strings.Contains(content, sig.phrase) {
			active[sig.kind] = struct{}{}
			level = maxLevel(level, LevelHigh)
		}
	}

	set.ActiveWarnings = sortedKinds(active)
	if len(set.ActiveWarnings) > 0 {
		set.Level = level
	}
	return set
}

func maxLevel(a, b WarningLevel) WarningLevel {
	if levelRank(b) > levelRank(a) {
		return b
	}
	return a
}

func levelRank(l WarningLevel) int {
	switch l {
	case LevelHigh:
		return 2
	case LevelMedium:
		return 1
	default:
		return 0
	}
}

func sortedKinds(set map[WarningKind]struct{}) []WarningKind {
	kinds := make([]WarningKind, 0, len(set))
	for k := range set {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
