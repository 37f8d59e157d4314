package repository

import (
	"context"
	"fmt"
	"time"

	"coinbot/database"
	"coinbot/models"

	"github.com/jackc/pgx/v5"
)

// EventRepository implements the EventRepository interface
type EventRepository struct {
	q queryable
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{q: db.Pool}
}

// newEventRepositoryWithTx creates a new event repository with a transaction
func newEventRepositoryWithTx(tx queryable) *EventRepository {
	return &EventRepository{q: tx}
}

const eventColumns = `
	id, guild_id, event_type, event_name, start_date, end_date, is_active, created_at
`

func scanEvent(row pgx.Row) (*models.Event, error) {
	var ev models.Event
	err := row.Scan(
		&ev.ID,
		&ev.GuildID,
		&ev.EventType,
		&ev.EventName,
		&ev.StartDate,
		&ev.EndDate,
		&ev.IsActive,
		&ev.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// Create starts a new event in the guild
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (guild_id, event_type, event_name, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, created_at
	`

	err := r.q.QueryRow(ctx, query,
		event.GuildID, event.EventType, event.EventName, event.StartDate, event.EndDate,
	).Scan(&event.ID, &event.IsActive, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create event %s in guild %d: %w", event.EventType, event.GuildID, err)
	}

	return nil
}

// GetActive returns the guild's events whose window covers now and that have
// not been deactivated
func (r *EventRepository) GetActive(ctx context.Context, guildID int64, now time.Time) ([]models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE guild_id = $1 AND is_active AND start_date <= $2 AND end_date > $2
		ORDER BY start_date
	`

	rows, err := r.q.Query(ctx, query, guildID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get active events for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event rows: %w", err)
	}

	return events, nil
}

// GetActiveByType returns the guild's live event of the given type, or nil
func (r *EventRepository) GetActiveByType(ctx context.Context, guildID int64, eventType string, now time.Time) (*models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE guild_id = $1 AND event_type = $2 AND is_active AND start_date <= $3 AND end_date > $3
		ORDER BY start_date DESC
		LIMIT 1
	`

	ev, err := scanEvent(r.q.QueryRow(ctx, query, guildID, eventType, now))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active %s event for guild %d: %w", eventType, guildID, err)
	}

	return ev, nil
}

// Deactivate marks an event as ended
func (r *EventRepository) Deactivate(ctx context.Context, eventID int64) error {
	query := `
		UPDATE events
		SET is_active = FALSE
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, eventID)
	if err != nil {
		return fmt.Errorf("failed to deactivate event %d: %w", eventID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("event %d not found", eventID)
	}

	return nil
}

// DeactivateExpired deactivates every event in the guild whose end date has
// passed, returning the events that were switched off
func (r *EventRepository) DeactivateExpired(ctx context.Context, guildID int64, now time.Time) ([]models.Event, error) {
	query := `
		UPDATE events
		SET is_active = FALSE
		WHERE guild_id = $1 AND is_active AND end_date <= $2
		RETURNING ` + eventColumns

	rows, err := r.q.Query(ctx, query, guildID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate expired events for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expired event: %w", err)
		}
		events = append(events, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expired event rows: %w", err)
	}

	return events, nil
}

// RecordParticipation upserts the member's participant row for the event,
// bumping the daily reward counters only when rewarded is true. The counter
// resets when the stored reward date is older than today.
func (r *EventRepository) RecordParticipation(ctx context.Context, eventID, userID, guildID, coins int64, rewarded bool, today time.Time) (*models.EventParticipant, error) {
	day := today.UTC().Truncate(24 * time.Hour)

	query := `
		INSERT INTO event_participants (event_id, user_id, guild_id, coins_earned, rewards_today, last_reward_date)
		VALUES ($1, $2, $3, $4, CASE WHEN $5 THEN 1 ELSE 0 END, $6)
		ON CONFLICT (event_id, user_id) DO UPDATE SET
			coins_earned = event_participants.coins_earned + EXCLUDED.coins_earned,
			rewards_today = CASE
				WHEN NOT $5 THEN event_participants.rewards_today
				WHEN event_participants.last_reward_date < $6 THEN 1
				ELSE event_participants.rewards_today + 1
			END,
			last_reward_date = CASE WHEN $5 THEN $6 ELSE event_participants.last_reward_date END
		RETURNING id, event_id, user_id, guild_id, coins_earned, rewards_today, last_reward_date, participated_at
	`

	var p models.EventParticipant
	err := r.q.QueryRow(ctx, query, eventID, userID, guildID, coins, rewarded, day).Scan(
		&p.ID,
		&p.EventID,
		&p.UserID,
		&p.GuildID,
		&p.CoinsEarned,
		&p.RewardsToday,
		&p.LastRewardDate,
		&p.ParticipatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record participation for user %d in event %d: %w", userID, eventID, err)
	}

	return &p, nil
}

// GetParticipant returns the member's participant row for the event, or nil
func (r *EventRepository) GetParticipant(ctx context.Context, eventID, userID int64) (*models.EventParticipant, error) {
	query := `
		SELECT id, event_id, user_id, guild_id, coins_earned, rewards_today, last_reward_date, participated_at
		FROM event_participants
		WHERE event_id = $1 AND user_id = $2
	`

	var p models.EventParticipant
	err := r.q.QueryRow(ctx, query, eventID, userID).Scan(
		&p.ID,
		&p.EventID,
		&p.UserID,
		&p.GuildID,
		&p.CoinsEarned,
		&p.RewardsToday,
		&p.LastRewardDate,
		&p.ParticipatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant %d for event %d: %w", userID, eventID, err)
	}

	return &p, nil
}
