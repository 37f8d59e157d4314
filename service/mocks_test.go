package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"coinbot/events"
	"coinbot/models"
)

// MockProgressionRepository is a mock implementation of ProgressionRepository
type MockProgressionRepository struct {
	mock.Mock
}

func (m *MockProgressionRepository) Get(ctx context.Context, userID, guildID int64) (*models.ProgressionRecord, error) {
	args := m.Called(ctx, userID, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProgressionRecord), args.Error(1)
}

func (m *MockProgressionRepository) GetOrCreate(ctx context.Context, userID, guildID int64, username string) (*models.ProgressionRecord, error) {
	args := m.Called(ctx, userID, guildID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProgressionRecord), args.Error(1)
}

func (m *MockProgressionRepository) GetForUpdate(ctx context.Context, userID, guildID int64) (*models.ProgressionRecord, error) {
	args := m.Called(ctx, userID, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProgressionRecord), args.Error(1)
}

func (m *MockProgressionRepository) UpdateXP(ctx context.Context, userID, guildID, xp int64, level int, lastMessage time.Time) error {
	args := m.Called(ctx, userID, guildID, xp, level, lastMessage)
	return args.Error(0)
}

func (m *MockProgressionRepository) Leaderboard(ctx context.Context, guildID int64, limit int) ([]models.LeaderboardEntry, error) {
	args := m.Called(ctx, guildID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LeaderboardEntry), args.Error(1)
}

func (m *MockProgressionRepository) Rank(ctx context.Context, userID, guildID int64) (int, error) {
	args := m.Called(ctx, userID, guildID)
	return args.Int(0), args.Error(1)
}

// MockEconomyRepository is a mock implementation of EconomyRepository
type MockEconomyRepository struct {
	mock.Mock
}

func (m *MockEconomyRepository) Get(ctx context.Context, userID, guildID int64) (*models.EconomyRecord, error) {
	args := m.Called(ctx, userID, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EconomyRecord), args.Error(1)
}

func (m *MockEconomyRepository) GetOrCreate(ctx context.Context, userID, guildID, startingBalance int64) (*models.EconomyRecord, error) {
	args := m.Called(ctx, userID, guildID, startingBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EconomyRecord), args.Error(1)
}

func (m *MockEconomyRepository) GetForUpdate(ctx context.Context, userID, guildID int64) (*models.EconomyRecord, error) {
	args := m.Called(ctx, userID, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EconomyRecord), args.Error(1)
}

func (m *MockEconomyRepository) AdjustWallet(ctx context.Context, userID, guildID, delta int64) (int64, error) {
	args := m.Called(ctx, userID, guildID, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEconomyRepository) TryDebitWallet(ctx context.Context, userID, guildID, amount int64) (bool, error) {
	args := m.Called(ctx, userID, guildID, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockEconomyRepository) SettleGame(ctx context.Context, userID, guildID, walletDelta, net int64) (int64, error) {
	args := m.Called(ctx, userID, guildID, walletDelta, net)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEconomyRepository) Deposit(ctx context.Context, userID, guildID, amount, bankLimit int64) (bool, error) {
	args := m.Called(ctx, userID, guildID, amount, bankLimit)
	return args.Bool(0), args.Error(1)
}

func (m *MockEconomyRepository) Withdraw(ctx context.Context, userID, guildID, amount int64) (bool, error) {
	args := m.Called(ctx, userID, guildID, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockEconomyRepository) UpgradeBank(ctx context.Context, userID, guildID int64, fromLevel int, cost int64) (bool, error) {
	args := m.Called(ctx, userID, guildID, fromLevel, cost)
	return args.Bool(0), args.Error(1)
}

func (m *MockEconomyRepository) SetDailyClaim(ctx context.Context, userID, guildID int64, streak int, claimedAt time.Time) error {
	args := m.Called(ctx, userID, guildID, streak, claimedAt)
	return args.Error(0)
}

func (m *MockEconomyRepository) SetLastSteal(ctx context.Context, userID, guildID int64, attemptedAt time.Time) error {
	args := m.Called(ctx, userID, guildID, attemptedAt)
	return args.Error(0)
}

func (m *MockEconomyRepository) TransferStolen(ctx context.Context, thiefID, targetID, guildID, amount int64) error {
	args := m.Called(ctx, thiefID, targetID, guildID, amount)
	return args.Error(0)
}

func (m *MockEconomyRepository) RandomStealTarget(ctx context.Context, guildID, excludeUserID, minWallet int64) (*models.EconomyRecord, error) {
	args := m.Called(ctx, guildID, excludeUserID, minWallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EconomyRecord), args.Error(1)
}

func (m *MockEconomyRepository) MoneyLeaderboard(ctx context.Context, guildID int64, limit int) ([]models.MoneyLeaderboardEntry, error) {
	args := m.Called(ctx, guildID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MoneyLeaderboardEntry), args.Error(1)
}

func (m *MockEconomyRepository) RecordTransaction(ctx context.Context, userID, guildID, amount int64, txType models.TransactionType, details string) error {
	args := m.Called(ctx, userID, guildID, amount, txType, details)
	return args.Error(0)
}

// MockEventRepository is a mock implementation of EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) GetActive(ctx context.Context, guildID int64, now time.Time) ([]models.Event, error) {
	args := m.Called(ctx, guildID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockEventRepository) GetActiveByType(ctx context.Context, guildID int64, eventType string, now time.Time) (*models.Event, error) {
	args := m.Called(ctx, guildID, eventType, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventRepository) Deactivate(ctx context.Context, eventID int64) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *MockEventRepository) DeactivateExpired(ctx context.Context, guildID int64, now time.Time) ([]models.Event, error) {
	args := m.Called(ctx, guildID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockEventRepository) RecordParticipation(ctx context.Context, eventID, userID, guildID, coins int64, rewarded bool, today time.Time) (*models.EventParticipant, error) {
	args := m.Called(ctx, eventID, userID, guildID, coins, rewarded, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventParticipant), args.Error(1)
}

func (m *MockEventRepository) GetParticipant(ctx context.Context, eventID, userID int64) (*models.EventParticipant, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventParticipant), args.Error(1)
}

// MockShopRepository is a mock implementation of ShopRepository
type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) ReplaceSnapshot(ctx context.Context, guildID int64, items []models.ShopItem) error {
	args := m.Called(ctx, guildID, items)
	return args.Error(0)
}

func (m *MockShopRepository) GetSnapshot(ctx context.Context, guildID int64) ([]models.ShopItem, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ShopItem), args.Error(1)
}

func (m *MockShopRepository) GetItem(ctx context.Context, guildID int64, itemID string) (*models.ShopItem, error) {
	args := m.Called(ctx, guildID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShopItem), args.Error(1)
}

// MockInventoryRepository is a mock implementation of InventoryRepository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Add(ctx context.Context, userID, guildID int64, item *models.ShopItem) error {
	args := m.Called(ctx, userID, guildID, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) List(ctx context.Context, userID, guildID int64) ([]models.InventoryItem, error) {
	args := m.Called(ctx, userID, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) Get(ctx context.Context, userID, guildID int64, itemID string) (*models.InventoryItem, error) {
	args := m.Called(ctx, userID, guildID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) Consume(ctx context.Context, userID, guildID int64, itemID string) (bool, error) {
	args := m.Called(ctx, userID, guildID, itemID)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher records published events for assertions
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	progressionRepo ProgressionRepository
	economyRepo     EconomyRepository
	eventRepo       EventRepository
	shopRepo        ShopRepository
	inventoryRepo   InventoryRepository
	eventBus        EventPublisher
}

// SetRepositories wires the repositories the mock hands out
func (m *MockUnitOfWork) SetRepositories(progression ProgressionRepository, economy EconomyRepository, event EventRepository, shop ShopRepository, inventory InventoryRepository, bus EventPublisher) {
	m.progressionRepo = progression
	m.economyRepo = economy
	m.eventRepo = event
	m.shopRepo = shop
	m.inventoryRepo = inventory
	m.eventBus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) ProgressionRepository() ProgressionRepository {
	return m.progressionRepo
}

func (m *MockUnitOfWork) EconomyRepository() EconomyRepository {
	return m.economyRepo
}

func (m *MockUnitOfWork) EventRepository() EventRepository {
	return m.eventRepo
}

func (m *MockUnitOfWork) ShopRepository() ShopRepository {
	return m.shopRepo
}

func (m *MockUnitOfWork) InventoryRepository() InventoryRepository {
	return m.inventoryRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// fixedSource is a rand.Source that always yields the same value, pinning
// Float64 and Intn to a known outcome.
type fixedSource int64

func (s fixedSource) Int63() int64 { return int64(s) }
func (s fixedSource) Seed(int64)   {}
