// Package progression implements the exponential XP curve that maps
// accumulated XP to levels and back.
package progression

import "math"

// Curve defines an exponential level progression. The XP needed to go from
// level L-1 to L is floor(Base * Multiplier^(L-2)) for L > 1, so Base is the
// cost of reaching level 2 and every step after that grows by Multiplier.
type Curve struct {
	Base       int64
	Multiplier float64
}

// XPForLevel returns the XP needed to advance from level-1 to level.
// Levels at or below 1 cost nothing.
func (c Curve) XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	return int64(math.Floor(float64(c.Base) * math.Pow(c.Multiplier, float64(level-2))))
}

// TotalXPForLevel returns the cumulative XP needed to reach level from zero.
func (c Curve) TotalXPForLevel(level int) int64 {
	var total int64
	for l := 2; l <= level; l++ {
		total += c.XPForLevel(l)
	}
	return total
}

// LevelAt returns the highest level whose cumulative requirement is within xp.
// Any xp below the level-2 threshold maps to level 1.
func (c Curve) LevelAt(xp int64) int {
	if xp < 0 {
		return 1
	}
	level := 1
	var total int64
	for {
		next := c.XPForLevel(level + 1)
		if total+next > xp {
			return level
		}
		total += next
		level++
	}
}

// XPToNextLevel returns how much more XP is needed to reach the next level.
func (c Curve) XPToNextLevel(xp int64) int64 {
	level := c.LevelAt(xp)
	return c.TotalXPForLevel(level+1) - xp
}

// Progress returns the integer percentage (0-100, floored) of the way from the
// current level to the next at the given xp.
func (c Curve) Progress(xp int64) int {
	level := c.LevelAt(xp)
	floor := c.TotalXPForLevel(level)
	ceil := c.TotalXPForLevel(level + 1)
	band := ceil - floor
	if band <= 0 {
		return 0
	}
	return int((xp - floor) * 100 / band)
}
