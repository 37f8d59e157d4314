package models

import "time"

// EconomyRecord is the per-(user, guild) ledger row. Wallet holds spendable,
// stealable money; Bank holds money protected from stealing, bounded by a limit
// derived from BankLevel. The cumulative counters are monitoring-only and are
// never used to derive balances.
type EconomyRecord struct {
	ID              int64      `db:"id"`
	UserID          int64      `db:"user_id"`
	GuildID         int64      `db:"guild_id"`
	Wallet          int64      `db:"wallet"`
	Bank            int64      `db:"bank"`
	BankLevel       int        `db:"bank_level"`
	DailyStreak     int        `db:"daily_streak"`
	LastDaily       *time.Time `db:"last_daily"`
	LastSteal       *time.Time `db:"last_steal"`
	TotalWinnings   int64      `db:"total_winnings"`
	TotalLosses     int64      `db:"total_losses"`
	TotalStolen     int64      `db:"total_stolen"`
	TotalStolenFrom int64      `db:"total_stolen_from"`
	GamesPlayed     int64      `db:"games_played"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// Total returns wallet plus bank.
func (e *EconomyRecord) Total() int64 {
	return e.Wallet + e.Bank
}

// DepositResult is returned on a successful wallet-to-bank move.
type DepositResult struct {
	Deposited int64
	NewWallet int64
	NewBank   int64
	BankLimit int64
}

// WithdrawResult is returned on a successful bank-to-wallet move.
type WithdrawResult struct {
	Withdrawn int64
	NewWallet int64
	NewBank   int64
}

// BankUpgradeResult is returned when a bank level purchase succeeds.
type BankUpgradeResult struct {
	NewLevel  int
	NewLimit  int64
	Cost      int64
	NewWallet int64
}

// DailyResult is returned on a successful daily claim.
type DailyResult struct {
	Reward     int64
	Streak     int
	NewBalance int64
}

// StealResult is returned when a steal attempt transfers money.
type StealResult struct {
	Amount            int64
	TargetID          int64
	StealerNewBalance int64
	TargetNewBalance  int64
}

// MoneyLeaderboardEntry is a single row of the wealth leaderboard, ordered by
// wallet plus bank.
type MoneyLeaderboardEntry struct {
	UserID int64 `db:"user_id"`
	Wallet int64 `db:"wallet"`
	Bank   int64 `db:"bank"`
	Total  int64 `db:"total"`
	Rank   int   `db:"rank"`
}
