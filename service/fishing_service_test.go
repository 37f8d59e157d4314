package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coinbot/config"
	"coinbot/fishing"
	"coinbot/models"
)

func fishingConfig() config.Fishing {
	return config.Fishing{
		Enabled:         true,
		CooldownSeconds: 30,
		StartingBait:    5,
		Catalog: []config.FishSpec{
			{ID: "minnow", Name: "Minnow", Rarity: "common", BaseChance: 60, MinValue: 5, MaxValue: 15},
			{ID: "bass", Name: "Bass", Rarity: "uncommon", BaseChance: 30, MinValue: 25, MaxValue: 50},
			{ID: "shark", Name: "Shark", Rarity: "epic", BaseChance: 10, MinValue: 300, MaxValue: 600},
		},
		Rods: map[string]map[string]float64{
			"basic":  {},
			"sturdy": {"uncommon": 1.3},
			"golden": {"epic": 1.4},
		},
		Weather: map[string]map[string]float64{
			"sunny": {},
		},
		Bait: map[string]map[string]float64{
			"worm":   {},
			"shrimp": {"uncommon": 1.3},
		},
	}
}

func newFishingMocks() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockInventoryRepository, *MockEconomyRepository, *MockEventPublisher) {
	inventoryRepo := new(MockInventoryRepository)
	economyRepo := new(MockEconomyRepository)
	bus := new(MockEventPublisher)
	uow := new(MockUnitOfWork)
	uow.SetRepositories(nil, economyRepo, nil, nil, inventoryRepo, bus)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Rollback").Return(nil)
	uow.On("Commit").Return(nil)
	factory := new(MockUnitOfWorkFactory)
	factory.On("Create").Return(uow)
	return factory, uow, inventoryRepo, economyRepo, bus
}

func TestGearFor(t *testing.T) {
	svc := NewFishingService(nil, fishingConfig(), fishing.NewMemoryInventory(), fishing.NewMemoryBait(5), nil)
	impl := svc.(*fishingService)

	rod, baitType, luck := impl.gearFor(nil)
	assert.Equal(t, "basic", rod)
	assert.Equal(t, "worm", baitType)
	assert.Equal(t, float64(1), luck)

	items := []models.InventoryItem{
		{ItemID: "sturdy_rod", Effects: []string{"rod:sturdy"}},
		{ItemID: "golden_rod", Effects: []string{"rod:golden"}},
		{ItemID: "shrimp_bait", Effects: []string{"bait:3", "bait_type:shrimp"}},
		{ItemID: "lucky_coin", Effects: []string{"luck:1.2"}},
	}
	rod, baitType, luck = impl.gearFor(items)
	assert.Equal(t, "golden", rod)
	assert.Equal(t, "shrimp", baitType)
	assert.Equal(t, 1.2, luck)
}

func TestGearFor_IgnoresMarkersAndMalformedEffects(t *testing.T) {
	svc := NewFishingService(nil, fishingConfig(), fishing.NewMemoryInventory(), fishing.NewMemoryBait(5), nil)
	impl := svc.(*fishingService)

	items := []models.InventoryItem{
		{ItemID: "keepsake", Effects: []string{"cosmetic", "rod", "luck:", "luck:abc"}},
		{ItemID: "sturdy_rod", Effects: []string{"rod:sturdy"}},
	}
	rod, baitType, luck := impl.gearFor(items)
	assert.Equal(t, "sturdy", rod)
	assert.Equal(t, "worm", baitType)
	assert.Equal(t, float64(1), luck)
}

func TestCast_NoBait(t *testing.T) {
	factory, _, _, _, _ := newFishingMocks()
	svc := NewFishingService(factory, fishingConfig(), fishing.NewMemoryInventory(), fishing.NewMemoryBait(0), nil)

	_, err := svc.Cast(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrNoBait)
}

func TestCast_Cooldown(t *testing.T) {
	factory, _, inventoryRepo, _, _ := newFishingMocks()
	bait := fishing.NewMemoryBait(5)
	svc := NewFishingService(factory, fishingConfig(), fishing.NewMemoryInventory(), bait, rand.New(rand.NewSource(1)))

	inventoryRepo.On("List", mock.Anything, int64(1), int64(2)).Return([]models.InventoryItem{}, nil)

	_, err := svc.Cast(context.Background(), 1, 2)
	require.NoError(t, err)

	_, err = svc.Cast(context.Background(), 1, 2)
	var cooldownErr *CooldownError
	require.ErrorAs(t, err, &cooldownErr)
	assert.Greater(t, cooldownErr.Remaining, time.Duration(0))
	// The refused cast consumed no bait.
	assert.Equal(t, 4, bait.Count(2, 1))
}

func TestCast_Success(t *testing.T) {
	factory, _, inventoryRepo, _, _ := newFishingMocks()
	bait := fishing.NewMemoryBait(5)
	bucket := fishing.NewMemoryInventory()
	svc := NewFishingService(factory, fishingConfig(), bucket, bait, rand.New(rand.NewSource(1)))

	inventoryRepo.On("List", mock.Anything, int64(1), int64(2)).Return([]models.InventoryItem{}, nil)

	result, err := svc.Cast(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Fish.ID)
	assert.GreaterOrEqual(t, result.Value, result.Fish.MinValue)
	assert.LessOrEqual(t, result.Value, result.Fish.MaxValue)
	assert.Equal(t, 4, result.BaitRemaining)
	assert.Len(t, bucket.List(2, 1), 1)
}

func TestBucketAndBaitCount(t *testing.T) {
	bait := fishing.NewMemoryBait(5)
	bucket := fishing.NewMemoryInventory()
	svc := NewFishingService(nil, fishingConfig(), bucket, bait, nil)

	bucket.Add(2, 1, fishing.CaughtFish{Fish: fishing.Fish{ID: "minnow"}, Value: 10})

	catches, err := svc.Bucket(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, catches, 1)

	count, err := svc.BaitCount(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestSellAll_EmptyBucket(t *testing.T) {
	factory, _, _, _, _ := newFishingMocks()
	svc := NewFishingService(factory, fishingConfig(), fishing.NewMemoryInventory(), fishing.NewMemoryBait(5), nil)

	_, err := svc.SellAll(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrNoFishToSell)
}

func TestSellAll_CreditsTotal(t *testing.T) {
	factory, _, _, economyRepo, bus := newFishingMocks()
	bucket := fishing.NewMemoryInventory()
	svc := NewFishingService(factory, fishingConfig(), bucket, fishing.NewMemoryBait(5), nil)

	bucket.Add(2, 1, fishing.CaughtFish{Fish: fishing.Fish{ID: "minnow"}, Value: 10})
	bucket.Add(2, 1, fishing.CaughtFish{Fish: fishing.Fish{ID: "bass"}, Value: 40})

	economyRepo.On("GetOrCreate", mock.Anything, int64(1), int64(2), int64(0)).Return(&models.EconomyRecord{UserID: 1, GuildID: 2, Wallet: 100}, nil)
	economyRepo.On("AdjustWallet", mock.Anything, int64(1), int64(2), int64(50)).Return(int64(150), nil)
	economyRepo.On("RecordTransaction", mock.Anything, int64(1), int64(2), int64(50), models.TransactionTypeFishSale, "2 fish").Return(nil)
	bus.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return()

	result, err := svc.SellAll(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, int64(50), result.Total)
	assert.Equal(t, int64(150), result.NewBalance)
	assert.Empty(t, bucket.List(2, 1))
	economyRepo.AssertExpectations(t)
}

func TestCast_Disabled(t *testing.T) {
	cfg := fishingConfig()
	cfg.Enabled = false
	svc := NewFishingService(nil, cfg, fishing.NewMemoryInventory(), fishing.NewMemoryBait(5), nil)

	_, err := svc.Cast(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrFeatureDisabled)
}
