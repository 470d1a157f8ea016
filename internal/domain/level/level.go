// Package level maps experience points to levels and titles.
package level

// Max is the highest reachable level.
const Max = 15

// thresholds[i] is the XP required to reach level i+1.
var thresholds = [Max]int{0, 50, 100, 150, 200, 300, 400, 500, 600, 750, 900, 1100, 1300, 1500, 1750}

// Progress describes how far a user is inside the current level band.
type Progress struct {
	InLevel int // XP earned since the current level threshold
	Needed  int // XP between the current and the next threshold
	Percent int // 0..100
}

// Calculate returns the level for the given amount of XP.
func Calculate(xp int) int {
	lvl := 1
	for i := Max - 1; i > 0; i-- {
		if xp >= thresholds[i] {
			lvl = i + 1
			break
		}
	}
	return lvl
}

// XPForLevel returns the XP threshold of a level. Out of range levels are clamped.
func XPForLevel(lvl int) int {
	if lvl < 1 {
		return 0
	}
	if lvl > Max {
		return thresholds[Max-1]
	}
	return thresholds[lvl-1]
}

// XPForNextLevel returns the threshold of the level after lvl.
func XPForNextLevel(lvl int) int {
	return XPForLevel(lvl + 1)
}

// CalculateProgress returns the position of xp inside the band of lvl.
func CalculateProgress(xp, lvl int) Progress {
	current := XPForLevel(lvl)
	next := XPForNextLevel(lvl)

	needed := next - current
	if needed <= 0 {
		return Progress{InLevel: 0, Needed: 0, Percent: 100}
	}

	in := xp - current
	if in < 0 {
		in = 0
	}
	if in > needed {
		in = needed
	}

	return Progress{
		InLevel: in,
		Needed:  needed,
		Percent: in * 100 / needed,
	}
}

// Title returns the display title for a level.
func Title(lvl int) string {
	switch {
	case lvl <= 2:
		return "Budget Beginner"
	case lvl <= 5:
		return "Savings Star"
	case lvl <= 10:
		return "Investment Explorer"
	default:
		return "Financial Master"
	}
}
