package repository

import (
	"context"
	"fmt"
	"time"

	"coinbot/database"
	"coinbot/models"

	"github.com/jackc/pgx/v5"
)

// ProgressionRepository implements the ProgressionRepository interface
type ProgressionRepository struct {
	q queryable
}

// NewProgressionRepository creates a new progression repository
func NewProgressionRepository(db *database.DB) *ProgressionRepository {
	return &ProgressionRepository{q: db.Pool}
}

// newProgressionRepositoryWithTx creates a new progression repository with a transaction
func newProgressionRepositoryWithTx(tx queryable) *ProgressionRepository {
	return &ProgressionRepository{q: tx}
}

const progressionColumns = `
	id, user_id, guild_id, username, xp, level, last_message_time, created_at, updated_at
`

func scanProgression(row pgx.Row) (*models.ProgressionRecord, error) {
	var rec models.ProgressionRecord
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.GuildID,
		&rec.Username,
		&rec.XP,
		&rec.Level,
		&rec.LastMessageTime,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Get retrieves a member's progression record, or nil when none exists
func (r *ProgressionRepository) Get(ctx context.Context, userID, guildID int64) (*models.ProgressionRecord, error) {
	query := `
		SELECT ` + progressionColumns + `
		FROM progression
		WHERE user_id = $1 AND guild_id = $2
	`

	rec, err := scanProgression(r.q.QueryRow(ctx, query, userID, guildID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progression for user %d in guild %d: %w", userID, guildID, err)
	}

	return rec, nil
}

// GetOrCreate retrieves a member's progression record, creating it on first
// contact. The username is refreshed on every call so leaderboards stay
// readable after renames.
func (r *ProgressionRepository) GetOrCreate(ctx context.Context, userID, guildID int64, username string) (*models.ProgressionRecord, error) {
	query := `
		INSERT INTO progression (user_id, guild_id, username)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, guild_id)
		DO UPDATE SET username = EXCLUDED.username, updated_at = NOW()
		RETURNING ` + progressionColumns

	rec, err := scanProgression(r.q.QueryRow(ctx, query, userID, guildID, username))
	if err != nil {
		return nil, fmt.Errorf("failed to get or create progression for user %d in guild %d: %w", userID, guildID, err)
	}

	return rec, nil
}

// GetForUpdate retrieves a member's progression record with a row lock. Only
// meaningful inside a unit of work; the lock serializes concurrent XP grants.
func (r *ProgressionRepository) GetForUpdate(ctx context.Context, userID, guildID int64) (*models.ProgressionRecord, error) {
	query := `
		SELECT ` + progressionColumns + `
		FROM progression
		WHERE user_id = $1 AND guild_id = $2
		FOR UPDATE
	`

	rec, err := scanProgression(r.q.QueryRow(ctx, query, userID, guildID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock progression for user %d in guild %d: %w", userID, guildID, err)
	}

	return rec, nil
}

// UpdateXP stores the new XP total, level, and message timestamp
func (r *ProgressionRepository) UpdateXP(ctx context.Context, userID, guildID, xp int64, level int, lastMessage time.Time) error {
	query := `
		UPDATE progression
		SET xp = $1, level = $2, last_message_time = $3, updated_at = NOW()
		WHERE user_id = $4 AND guild_id = $5
	`

	result, err := r.q.Exec(ctx, query, xp, level, lastMessage, userID, guildID)
	if err != nil {
		return fmt.Errorf("failed to update XP for user %d in guild %d: %w", userID, guildID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("progression for user %d in guild %d not found", userID, guildID)
	}

	return nil
}

// Leaderboard returns the guild's top members by XP
func (r *ProgressionRepository) Leaderboard(ctx context.Context, guildID int64, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT user_id, username, xp, level,
		       RANK() OVER (ORDER BY xp DESC) AS rank
		FROM progression
		WHERE guild_id = $1
		ORDER BY xp DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.XP, &e.Level, &e.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard rows: %w", err)
	}

	return entries, nil
}

// Rank returns a member's 1-based XP rank within the guild, or 0 when the
// member has no record
func (r *ProgressionRepository) Rank(ctx context.Context, userID, guildID int64) (int, error) {
	query := `
		SELECT rank FROM (
			SELECT user_id, RANK() OVER (ORDER BY xp DESC) AS rank
			FROM progression
			WHERE guild_id = $1
		) ranked
		WHERE user_id = $2
	`

	var rank int
	err := r.q.QueryRow(ctx, query, guildID, userID).Scan(&rank)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get rank for user %d in guild %d: %w", userID, guildID, err)
	}

	return rank, nil
}
