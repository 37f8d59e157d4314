package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCurve = Curve{Base: 100, Multiplier: 1.5}

func TestCurve_XPForLevel(t *testing.T) {
	assert.Equal(t, int64(0), testCurve.XPForLevel(0))
	assert.Equal(t, int64(0), testCurve.XPForLevel(1))
	assert.Equal(t, int64(100), testCurve.XPForLevel(2))
	assert.Equal(t, int64(150), testCurve.XPForLevel(3))
	assert.Equal(t, int64(225), testCurve.XPForLevel(4))

	// Strictly increasing for multiplier > 1
	prev := testCurve.XPForLevel(2)
	for level := 3; level <= 30; level++ {
		cur := testCurve.XPForLevel(level)
		assert.Greater(t, cur, prev, "level %d", level)
		prev = cur
	}
}

func TestCurve_TotalXPForLevel(t *testing.T) {
	assert.Equal(t, int64(0), testCurve.TotalXPForLevel(1))
	assert.Equal(t, int64(100), testCurve.TotalXPForLevel(2))
	assert.Equal(t, int64(250), testCurve.TotalXPForLevel(3))
	assert.Equal(t, int64(475), testCurve.TotalXPForLevel(4))
}

func TestCurve_LevelAt(t *testing.T) {
	assert.Equal(t, 1, testCurve.LevelAt(0))
	assert.Equal(t, 1, testCurve.LevelAt(99))
	assert.Equal(t, 2, testCurve.LevelAt(100))
	assert.Equal(t, 2, testCurve.LevelAt(249))
	assert.Equal(t, 3, testCurve.LevelAt(250))
	assert.Equal(t, 1, testCurve.LevelAt(-5))
}

// The four curve functions must agree with each other for any xp:
// TotalXPForLevel(LevelAt(xp)) <= xp < TotalXPForLevel(LevelAt(xp)+1).
func TestCurve_Consistency(t *testing.T) {
	for xp := int64(0); xp < 20000; xp += 7 {
		level := testCurve.LevelAt(xp)
		require.GreaterOrEqual(t, level, 1)
		assert.LessOrEqual(t, testCurve.TotalXPForLevel(level), xp, "xp=%d", xp)
		assert.Greater(t, testCurve.TotalXPForLevel(level+1), xp, "xp=%d", xp)
	}
}

func TestCurve_Progress(t *testing.T) {
	// Exactly at a level boundary progress resets to zero.
	assert.Equal(t, 0, testCurve.Progress(0))
	assert.Equal(t, 0, testCurve.Progress(100))
	assert.Equal(t, 0, testCurve.Progress(250))

	// Halfway through level 2's band (100..250).
	assert.Equal(t, 50, testCurve.Progress(175))

	// Monotonically non-decreasing within a band, never reaching 100.
	prev := -1
	for xp := int64(100); xp < 250; xp++ {
		p := testCurve.Progress(xp)
		require.GreaterOrEqual(t, p, prev)
		require.Less(t, p, 100)
		prev = p
	}
}

func TestCurve_XPToNextLevel(t *testing.T) {
	assert.Equal(t, int64(100), testCurve.XPToNextLevel(0))
	assert.Equal(t, int64(1), testCurve.XPToNextLevel(99))
	assert.Equal(t, int64(150), testCurve.XPToNextLevel(100))
}
