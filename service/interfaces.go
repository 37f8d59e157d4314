package service

import (
	"context"
	"time"

	"coinbot/events"
	"coinbot/fishing"
	"coinbot/games"
	"coinbot/models"
	"coinbot/progression"
)

// ProgressionRepository defines the interface for leveling data access
type ProgressionRepository interface {
	// Get retrieves a member's progression record, or nil when none exists
	Get(ctx context.Context, userID, guildID int64) (*models.ProgressionRecord, error)

	// GetOrCreate retrieves a member's progression record, creating it on first contact
	GetOrCreate(ctx context.Context, userID, guildID int64, username string) (*models.ProgressionRecord, error)

	// GetForUpdate retrieves a member's progression record with a row lock (unit of work only)
	GetForUpdate(ctx context.Context, userID, guildID int64) (*models.ProgressionRecord, error)

	// UpdateXP stores the new XP total, level, and message timestamp
	UpdateXP(ctx context.Context, userID, guildID, xp int64, level int, lastMessage time.Time) error

	// Leaderboard returns the guild's top members by XP
	Leaderboard(ctx context.Context, guildID int64, limit int) ([]models.LeaderboardEntry, error)

	// Rank returns a member's 1-based XP rank within the guild, or 0 when unranked
	Rank(ctx context.Context, userID, guildID int64) (int, error)
}

// EconomyRepository defines the interface for ledger data access
type EconomyRepository interface {
	// Get retrieves a member's economy record, or nil when none exists
	Get(ctx context.Context, userID, guildID int64) (*models.EconomyRecord, error)

	// GetOrCreate retrieves a member's economy record, seeding the wallet on first contact
	GetOrCreate(ctx context.Context, userID, guildID, startingBalance int64) (*models.EconomyRecord, error)

	// GetForUpdate retrieves a member's economy record with a row lock (unit of work only)
	GetForUpdate(ctx context.Context, userID, guildID int64) (*models.EconomyRecord, error)

	// AdjustWallet applies a signed delta to the wallet and returns the new balance
	AdjustWallet(ctx context.Context, userID, guildID, delta int64) (int64, error)

	// TryDebitWallet deducts the amount only when the wallet covers it
	TryDebitWallet(ctx context.Context, userID, guildID, amount int64) (bool, error)

	// SettleGame applies the wallet delta of a finished game and bumps the
	// lifetime gambling counters by the net result
	SettleGame(ctx context.Context, userID, guildID, walletDelta, net int64) (int64, error)

	// Deposit conditionally moves money from wallet to bank, honoring the vault limit
	Deposit(ctx context.Context, userID, guildID, amount, bankLimit int64) (bool, error)

	// Withdraw conditionally moves money from bank to wallet
	Withdraw(ctx context.Context, userID, guildID, amount int64) (bool, error)

	// UpgradeBank conditionally charges the wallet and bumps the bank level
	UpgradeBank(ctx context.Context, userID, guildID int64, fromLevel int, cost int64) (bool, error)

	// SetDailyClaim stores the new streak and claim timestamp
	SetDailyClaim(ctx context.Context, userID, guildID int64, streak int, claimedAt time.Time) error

	// SetLastSteal stores the steal attempt timestamp
	SetLastSteal(ctx context.Context, userID, guildID int64, attemptedAt time.Time) error

	// TransferStolen moves the amount between wallets and bumps the steal counters
	TransferStolen(ctx context.Context, thiefID, targetID, guildID, amount int64) error

	// RandomStealTarget picks a random eligible victim, or nil when nobody qualifies
	RandomStealTarget(ctx context.Context, guildID, excludeUserID, minWallet int64) (*models.EconomyRecord, error)

	// MoneyLeaderboard returns the guild's richest members by wallet plus bank
	MoneyLeaderboard(ctx context.Context, guildID int64, limit int) ([]models.MoneyLeaderboardEntry, error)

	// RecordTransaction appends one row to the audit trail
	RecordTransaction(ctx context.Context, userID, guildID, amount int64, txType models.TransactionType, details string) error
}

// EventRepository defines the interface for seasonal event data access
type EventRepository interface {
	// Create starts a new event in the guild
	Create(ctx context.Context, event *models.Event) error

	// GetActive returns the guild's events whose window covers now
	GetActive(ctx context.Context, guildID int64, now time.Time) ([]models.Event, error)

	// GetActiveByType returns the guild's live event of the given type, or nil
	GetActiveByType(ctx context.Context, guildID int64, eventType string, now time.Time) (*models.Event, error)

	// Deactivate marks an event as ended
	Deactivate(ctx context.Context, eventID int64) error

	// DeactivateExpired switches off every event past its end date
	DeactivateExpired(ctx context.Context, guildID int64, now time.Time) ([]models.Event, error)

	// RecordParticipation upserts the member's participant row for the event
	RecordParticipation(ctx context.Context, eventID, userID, guildID, coins int64, rewarded bool, today time.Time) (*models.EventParticipant, error)

	// GetParticipant returns the member's participant row, or nil
	GetParticipant(ctx context.Context, eventID, userID int64) (*models.EventParticipant, error)
}

// ShopRepository defines the interface for shop snapshot data access
type ShopRepository interface {
	// ReplaceSnapshot clears the guild's shop and inserts the new rotation
	ReplaceSnapshot(ctx context.Context, guildID int64, items []models.ShopItem) error

	// GetSnapshot returns the guild's current shop
	GetSnapshot(ctx context.Context, guildID int64) ([]models.ShopItem, error)

	// GetItem returns one item of the current rotation, or nil
	GetItem(ctx context.Context, guildID int64, itemID string) (*models.ShopItem, error)
}

// InventoryRepository defines the interface for user inventory data access
type InventoryRepository interface {
	// Add adds one copy of the item to the member's inventory
	Add(ctx context.Context, userID, guildID int64, item *models.ShopItem) error

	// List returns the member's active inventory
	List(ctx context.Context, userID, guildID int64) ([]models.InventoryItem, error)

	// Get returns one active inventory row, or nil
	Get(ctx context.Context, userID, guildID int64, itemID string) (*models.InventoryItem, error)

	// Consume decrements one copy of the item, deactivating the row at zero
	Consume(ctx context.Context, userID, guildID int64, itemID string) (bool, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// ProgressionService defines the interface for leveling operations
type ProgressionService interface {
	// GrantMessageXP awards XP for a message, honoring the per-member cooldown.
	// Returns nil when the message is inside the cooldown window.
	GrantMessageXP(ctx context.Context, userID, guildID int64, username string, booster bool) (*models.XPGrantResult, error)

	// GetProfile returns a member's progression record plus their rank
	GetProfile(ctx context.Context, userID, guildID int64, username string) (*models.ProgressionRecord, int, error)

	// Leaderboard returns the guild's top members by XP
	Leaderboard(ctx context.Context, guildID int64, limit int) ([]models.LeaderboardEntry, error)

	// Curve exposes the configured progression curve for display helpers
	Curve() progression.Curve
}

// EconomyService defines the interface for wallet, bank, daily, and steal operations
type EconomyService interface {
	// GetOrCreateAccount returns a member's ledger row, creating it on first contact
	GetOrCreateAccount(ctx context.Context, userID, guildID int64, username string) (*models.EconomyRecord, error)

	// ClaimDaily claims the daily reward, extending or resetting the streak
	ClaimDaily(ctx context.Context, userID, guildID int64) (*models.DailyResult, error)

	// Deposit moves money from wallet to bank
	Deposit(ctx context.Context, userID, guildID, amount int64) (*models.DepositResult, error)

	// Withdraw moves money from bank to wallet
	Withdraw(ctx context.Context, userID, guildID, amount int64) (*models.WithdrawResult, error)

	// UpgradeBank purchases the next bank level
	UpgradeBank(ctx context.Context, userID, guildID int64) (*models.BankUpgradeResult, error)

	// Steal attempts to steal from the target, or from a random member when
	// targetID is zero. A failed attempt still consumes the cooldown.
	Steal(ctx context.Context, userID, guildID, targetID int64) (*models.StealResult, error)

	// MoneyLeaderboard returns the guild's richest members
	MoneyLeaderboard(ctx context.Context, guildID int64, limit int) ([]models.MoneyLeaderboardEntry, error)
}

// CoinflipResult describes a resolved coin flip bet.
type CoinflipResult struct {
	Side       games.CoinSide
	Won        bool
	Bet        int64
	Payout     int64
	NewBalance int64
}

// PokerResult describes a resolved five-card draw.
type PokerResult struct {
	Hand       []games.Card
	Rank       games.HandRank
	Bet        int64
	Payout     int64
	NewBalance int64
}

// BlackjackView is the player-visible state of an in-flight blackjack round.
type BlackjackView struct {
	PlayerHand  []games.Card
	DealerHand  []games.Card
	PlayerScore int
	DealerScore int
	Done        bool
	Outcome     games.BlackjackOutcome
	Bet         int64
	Payout      int64
	NewBalance  int64
}

// GamblingService defines the interface for casino operations. Bets are
// debited when the game starts; wins pay the full payout back.
type GamblingService interface {
	// Coinflip bets on a coin landing on the called side
	Coinflip(ctx context.Context, userID, guildID, bet int64, call games.CoinSide) (*CoinflipResult, error)

	// Poker draws five cards and pays by hand rank
	Poker(ctx context.Context, userID, guildID, bet int64) (*PokerResult, error)

	// StartBlackjack opens a blackjack round and debits the bet
	StartBlackjack(ctx context.Context, userID, guildID, bet int64) (*BlackjackView, error)

	// HitBlackjack deals the player one more card
	HitBlackjack(ctx context.Context, userID, guildID int64) (*BlackjackView, error)

	// StandBlackjack finishes the round against the dealer
	StandBlackjack(ctx context.Context, userID, guildID int64) (*BlackjackView, error)
}

// ShopService defines the interface for the rotating shop
type ShopService interface {
	// RefreshShop rebuilds the guild's rotation for the given day
	RefreshShop(ctx context.Context, guildID int64, now time.Time) (*models.ShopRefreshResult, error)

	// GetShop returns the guild's current rotation, refreshing a stale one
	GetShop(ctx context.Context, guildID int64, now time.Time) ([]models.ShopItem, error)

	// Purchase buys one copy of an item from the rotation
	Purchase(ctx context.Context, userID, guildID int64, itemID string) (*models.PurchaseResult, error)

	// UseItem consumes an inventory item and applies its effects
	UseItem(ctx context.Context, userID, guildID int64, itemID string) (*models.UseItemResult, error)

	// Inventory returns the member's active inventory
	Inventory(ctx context.Context, userID, guildID int64) ([]models.InventoryItem, error)
}

// CalendarEntry is one row of the seasonal calendar.
type CalendarEntry struct {
	EventType string
	EventName string
	Start     time.Time
	End       time.Time
	Active    bool
}

// EventService defines the interface for seasonal events
type EventService interface {
	// Tick starts due events and ends expired ones for the guild. Run hourly.
	Tick(ctx context.Context, guildID int64, now time.Time) error

	// StartEvent force-starts an event of the given type
	StartEvent(ctx context.Context, guildID int64, eventType string, now time.Time) (*models.Event, error)

	// EndEvent force-ends the guild's live event of the given type
	EndEvent(ctx context.Context, guildID int64, eventType string, now time.Time) (*models.Event, error)

	// ActiveEvents returns the guild's currently running events
	ActiveEvents(ctx context.Context, guildID int64, now time.Time) ([]models.Event, error)

	// RollParticipation gives a member a small chance at an event reward for
	// activity during a live event, bounded by the per-day cap
	RollParticipation(ctx context.Context, userID, guildID int64, now time.Time) (*models.EventRewardResult, error)

	// Calendar returns this year's event windows
	Calendar(ctx context.Context, guildID int64, now time.Time) ([]CalendarEntry, error)
}

// CatchResult describes one resolved cast.
type CatchResult struct {
	Fish          fishing.Fish
	Value         int64
	BaitRemaining int
}

// FishSaleResult describes a drained bucket turned into coins.
type FishSaleResult struct {
	Count      int
	Total      int64
	NewBalance int64
}

// FishingService defines the interface for the fishing feature
type FishingService interface {
	// Cast consumes one bait and rolls a catch
	Cast(ctx context.Context, userID, guildID int64) (*CatchResult, error)

	// Bucket returns the member's unsold catches
	Bucket(ctx context.Context, userID, guildID int64) ([]fishing.CaughtFish, error)

	// SellAll sells every fish in the member's bucket
	SellAll(ctx context.Context, userID, guildID int64) (*FishSaleResult, error)

	// BaitCount returns how much bait the member has left
	BaitCount(ctx context.Context, userID, guildID int64) (int, error)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	ProgressionRepository() ProgressionRepository
	EconomyRepository() EconomyRepository
	EventRepository() EventRepository
	ShopRepository() ShopRepository
	InventoryRepository() InventoryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
