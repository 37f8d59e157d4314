package repository

import (
	"context"
	"fmt"
	"time"

	"coinbot/database"
	"coinbot/models"

	"github.com/jackc/pgx/v5"
)

// EconomyRepository implements the EconomyRepository interface. Balance
// mutations that depend on the current value are written as conditional
// single-statement updates so concurrent commands cannot overdraw a wallet
// or overfill a vault.
type EconomyRepository struct {
	q queryable
}

// NewEconomyRepository creates a new economy repository
func NewEconomyRepository(db *database.DB) *EconomyRepository {
	return &EconomyRepository{q: db.Pool}
}

// newEconomyRepositoryWithTx creates a new economy repository with a transaction
func newEconomyRepositoryWithTx(tx queryable) *EconomyRepository {
	return &EconomyRepository{q: tx}
}

const economyColumns = `
	id, user_id, guild_id, wallet, bank, bank_level, daily_streak,
	last_daily, last_steal, total_winnings, total_losses,
	total_stolen, total_stolen_from, games_played, created_at, updated_at
`

func scanEconomy(row pgx.Row) (*models.EconomyRecord, error) {
	var rec models.EconomyRecord
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.GuildID,
		&rec.Wallet,
		&rec.Bank,
		&rec.BankLevel,
		&rec.DailyStreak,
		&rec.LastDaily,
		&rec.LastSteal,
		&rec.TotalWinnings,
		&rec.TotalLosses,
		&rec.TotalStolen,
		&rec.TotalStolenFrom,
		&rec.GamesPlayed,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Get retrieves a member's economy record, or nil when none exists
func (r *EconomyRepository) Get(ctx context.Context, userID, guildID int64) (*models.EconomyRecord, error) {
	query := `
		SELECT ` + economyColumns + `
		FROM economy
		WHERE user_id = $1 AND guild_id = $2
	`

	rec, err := scanEconomy(r.q.QueryRow(ctx, query, userID, guildID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get economy record for user %d in guild %d: %w", userID, guildID, err)
	}

	return rec, nil
}

// GetOrCreate retrieves a member's economy record, seeding the wallet with the
// starting balance on first contact
func (r *EconomyRepository) GetOrCreate(ctx context.Context, userID, guildID, startingBalance int64) (*models.EconomyRecord, error) {
	query := `
		INSERT INTO economy (user_id, guild_id, wallet)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, guild_id) DO UPDATE SET updated_at = NOW()
		RETURNING ` + economyColumns

	rec, err := scanEconomy(r.q.QueryRow(ctx, query, userID, guildID, startingBalance))
	if err != nil {
		return nil, fmt.Errorf("failed to get or create economy record for user %d in guild %d: %w", userID, guildID, err)
	}

	return rec, nil
}

// GetForUpdate retrieves a member's economy record with a row lock. Only
// meaningful inside a unit of work; the lock is held until commit.
func (r *EconomyRepository) GetForUpdate(ctx context.Context, userID, guildID int64) (*models.EconomyRecord, error) {
	query := `
		SELECT ` + economyColumns + `
		FROM economy
		WHERE user_id = $1 AND guild_id = $2
		FOR UPDATE
	`

	rec, err := scanEconomy(r.q.QueryRow(ctx, query, userID, guildID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock economy record for user %d in guild %d: %w", userID, guildID, err)
	}

	return rec, nil
}

// AdjustWallet applies a signed delta to the wallet and returns the new
// balance. The wallet is allowed to go negative; callers that must not
// overdraw check first or use the conditional operations.
func (r *EconomyRepository) AdjustWallet(ctx context.Context, userID, guildID, delta int64) (int64, error) {
	query := `
		UPDATE economy
		SET wallet = wallet + $1, updated_at = NOW()
		WHERE user_id = $2 AND guild_id = $3
		RETURNING wallet
	`

	var wallet int64
	err := r.q.QueryRow(ctx, query, delta, userID, guildID).Scan(&wallet)
	if err == pgx.ErrNoRows {
		return 0, fmt.Errorf("economy record for user %d in guild %d not found", userID, guildID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to adjust wallet for user %d in guild %d: %w", userID, guildID, err)
	}

	return wallet, nil
}

// TryDebitWallet deducts the amount only when the wallet covers it. Returns
// false when it does not.
func (r *EconomyRepository) TryDebitWallet(ctx context.Context, userID, guildID, amount int64) (bool, error) {
	query := `
		UPDATE economy
		SET wallet = wallet - $1, updated_at = NOW()
		WHERE user_id = $2 AND guild_id = $3 AND wallet >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, userID, guildID)
	if err != nil {
		return false, fmt.Errorf("failed to debit wallet for user %d in guild %d: %w", userID, guildID, err)
	}

	return result.RowsAffected() > 0, nil
}

// SettleGame applies the wallet delta of a finished game and bumps the
// lifetime gambling counters by the net result. For games whose bet was
// debited up front the wallet delta is the payout and net is payout - bet.
func (r *EconomyRepository) SettleGame(ctx context.Context, userID, guildID, walletDelta, net int64) (int64, error) {
	query := `
		UPDATE economy
		SET wallet = wallet + $1,
		    total_winnings = total_winnings + GREATEST($2, 0),
		    total_losses = total_losses + GREATEST(-$2, 0),
		    games_played = games_played + 1,
		    updated_at = NOW()
		WHERE user_id = $3 AND guild_id = $4
		RETURNING wallet
	`

	var wallet int64
	err := r.q.QueryRow(ctx, query, walletDelta, net, userID, guildID).Scan(&wallet)
	if err == pgx.ErrNoRows {
		return 0, fmt.Errorf("economy record for user %d in guild %d not found", userID, guildID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to settle game for user %d in guild %d: %w", userID, guildID, err)
	}

	return wallet, nil
}

// Deposit moves money from wallet to bank if the wallet covers it and the
// vault limit is respected. Returns false when either condition fails.
func (r *EconomyRepository) Deposit(ctx context.Context, userID, guildID, amount, bankLimit int64) (bool, error) {
	query := `
		UPDATE economy
		SET wallet = wallet - $1, bank = bank + $1, updated_at = NOW()
		WHERE user_id = $2 AND guild_id = $3
		  AND wallet >= $1
		  AND bank + $1 <= $4
	`

	result, err := r.q.Exec(ctx, query, amount, userID, guildID, bankLimit)
	if err != nil {
		return false, fmt.Errorf("failed to deposit for user %d in guild %d: %w", userID, guildID, err)
	}

	return result.RowsAffected() > 0, nil
}

// Withdraw moves money from bank to wallet if the bank covers it. Returns
// false when it does not.
func (r *EconomyRepository) Withdraw(ctx context.Context, userID, guildID, amount int64) (bool, error) {
	query := `
		UPDATE economy
		SET wallet = wallet + $1, bank = bank - $1, updated_at = NOW()
		WHERE user_id = $2 AND guild_id = $3
		  AND bank >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, userID, guildID)
	if err != nil {
		return false, fmt.Errorf("failed to withdraw for user %d in guild %d: %w", userID, guildID, err)
	}

	return result.RowsAffected() > 0, nil
}

// UpgradeBank charges the wallet and bumps the bank level if the member is at
// the expected level and can afford the cost. The level guard makes a retried
// command idempotent.
func (r *EconomyRepository) UpgradeBank(ctx context.Context, userID, guildID int64, fromLevel int, cost int64) (bool, error) {
	query := `
		UPDATE economy
		SET wallet = wallet - $1, bank_level = bank_level + 1, updated_at = NOW()
		WHERE user_id = $2 AND guild_id = $3
		  AND bank_level = $4
		  AND wallet >= $1
	`

	result, err := r.q.Exec(ctx, query, cost, userID, guildID, fromLevel)
	if err != nil {
		return false, fmt.Errorf("failed to upgrade bank for user %d in guild %d: %w", userID, guildID, err)
	}

	return result.RowsAffected() > 0, nil
}

// SetDailyClaim stores the new streak and claim timestamp
func (r *EconomyRepository) SetDailyClaim(ctx context.Context, userID, guildID int64, streak int, claimedAt time.Time) error {
	query := `
		UPDATE economy
		SET daily_streak = $1, last_daily = $2, updated_at = NOW()
		WHERE user_id = $3 AND guild_id = $4
	`

	result, err := r.q.Exec(ctx, query, streak, claimedAt, userID, guildID)
	if err != nil {
		return fmt.Errorf("failed to set daily claim for user %d in guild %d: %w", userID, guildID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("economy record for user %d in guild %d not found", userID, guildID)
	}

	return nil
}

// SetLastSteal stores the steal attempt timestamp. The cooldown starts on the
// attempt, not on success.
func (r *EconomyRepository) SetLastSteal(ctx context.Context, userID, guildID int64, attemptedAt time.Time) error {
	query := `
		UPDATE economy
		SET last_steal = $1, updated_at = NOW()
		WHERE user_id = $2 AND guild_id = $3
	`

	result, err := r.q.Exec(ctx, query, attemptedAt, userID, guildID)
	if err != nil {
		return fmt.Errorf("failed to set last steal for user %d in guild %d: %w", userID, guildID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("economy record for user %d in guild %d not found", userID, guildID)
	}

	return nil
}

// TransferStolen moves the amount from the target's wallet to the thief's and
// bumps both lifetime steal counters. Callers run this inside a unit of work
// with both rows locked.
func (r *EconomyRepository) TransferStolen(ctx context.Context, thiefID, targetID, guildID, amount int64) error {
	debit := `
		UPDATE economy
		SET wallet = wallet - $1, total_stolen_from = total_stolen_from + $1, updated_at = NOW()
		WHERE user_id = $2 AND guild_id = $3 AND wallet >= $1
	`
	result, err := r.q.Exec(ctx, debit, amount, targetID, guildID)
	if err != nil {
		return fmt.Errorf("failed to debit steal target %d in guild %d: %w", targetID, guildID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("steal target %d in guild %d cannot cover %d", targetID, guildID, amount)
	}

	credit := `
		UPDATE economy
		SET wallet = wallet + $1, total_stolen = total_stolen + $1, updated_at = NOW()
		WHERE user_id = $2 AND guild_id = $3
	`
	result, err = r.q.Exec(ctx, credit, amount, thiefID, guildID)
	if err != nil {
		return fmt.Errorf("failed to credit thief %d in guild %d: %w", thiefID, guildID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("economy record for thief %d in guild %d not found", thiefID, guildID)
	}

	return nil
}

// RandomStealTarget picks a random member of the guild, other than the thief,
// whose wallet holds at least minWallet. Returns nil when nobody qualifies.
func (r *EconomyRepository) RandomStealTarget(ctx context.Context, guildID, excludeUserID, minWallet int64) (*models.EconomyRecord, error) {
	query := `
		SELECT ` + economyColumns + `
		FROM economy
		WHERE guild_id = $1 AND user_id != $2 AND wallet >= $3
		ORDER BY RANDOM()
		LIMIT 1
	`

	rec, err := scanEconomy(r.q.QueryRow(ctx, query, guildID, excludeUserID, minWallet))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pick steal target in guild %d: %w", guildID, err)
	}

	return rec, nil
}

// MoneyLeaderboard returns the guild's richest members by wallet plus bank
func (r *EconomyRepository) MoneyLeaderboard(ctx context.Context, guildID int64, limit int) ([]models.MoneyLeaderboardEntry, error) {
	query := `
		SELECT user_id, wallet, bank, wallet + bank AS total,
		       RANK() OVER (ORDER BY wallet + bank DESC) AS rank
		FROM economy
		WHERE guild_id = $1
		ORDER BY total DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get money leaderboard for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var entries []models.MoneyLeaderboardEntry
	for rows.Next() {
		var e models.MoneyLeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Wallet, &e.Bank, &e.Total, &e.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan money leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read money leaderboard rows: %w", err)
	}

	return entries, nil
}

// RecordTransaction appends one row to the audit trail
func (r *EconomyRepository) RecordTransaction(ctx context.Context, userID, guildID, amount int64, txType models.TransactionType, details string) error {
	query := `
		INSERT INTO transactions (user_id, guild_id, amount, transaction_type, details)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.q.Exec(ctx, query, userID, guildID, amount, string(txType), details); err != nil {
		return fmt.Errorf("failed to record %s transaction for user %d in guild %d: %w", txType, userID, guildID, err)
	}

	return nil
}
