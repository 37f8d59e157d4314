package models

import "time"

// Event is one started seasonal event in a guild. Events are never deleted;
// once EndDate passes they simply stop matching "active" queries.
type Event struct {
	ID        int64     `db:"id"`
	GuildID   int64     `db:"guild_id"`
	EventType string    `db:"event_type"`
	EventName string    `db:"event_name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

// EventParticipant tracks a member's involvement in an event: how often they
// showed up and what participation rewards they have collected so far.
type EventParticipant struct {
	ID             int64     `db:"id"`
	EventID        int64     `db:"event_id"`
	UserID         int64     `db:"user_id"`
	GuildID        int64     `db:"guild_id"`
	CoinsEarned    int64     `db:"coins_earned"`
	RewardsToday   int       `db:"rewards_today"`
	LastRewardDate time.Time `db:"last_reward_date"`
	ParticipatedAt time.Time `db:"participated_at"`
}

// EventRewardResult describes a participation reward roll that paid out.
type EventRewardResult struct {
	EventName string
	Coins     int64
}
