package models

import "time"

// ProgressionRecord tracks a member's XP within a guild. Level is always derived
// from XP through the progression curve; it is stored only so leaderboard queries
// can sort without recomputing.
type ProgressionRecord struct {
	ID              int64     `db:"id"`
	UserID          int64     `db:"user_id"`
	GuildID         int64     `db:"guild_id"`
	Username        string    `db:"username"`
	XP              int64     `db:"xp"`
	Level           int       `db:"level"`
	LastMessageTime time.Time `db:"last_message_time"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// XPGrantResult describes the outcome of a message XP grant.
type XPGrantResult struct {
	XPAdded   int64
	NewXP     int64
	NewLevel  int
	LeveledUp bool
}

// LeaderboardEntry is a single row of the XP leaderboard.
type LeaderboardEntry struct {
	UserID   int64  `db:"user_id"`
	Username string `db:"username"`
	XP       int64  `db:"xp"`
	Level    int    `db:"level"`
	Rank     int    `db:"rank"`
}
