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
	"coinbot/models"
)

func levelingConfig() config.Leveling {
	return config.Leveling{
		Enabled:                true,
		XPPerMessageMin:        15,
		XPPerMessageMax:        15,
		MessageCooldownSeconds: 60,
		CurveBase:              100,
		CurveMultiplier:        1.5,
		BoosterMultiplier:      1.5,
	}
}

func newProgressionMocks() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockProgressionRepository, *MockEventPublisher) {
	repo := new(MockProgressionRepository)
	bus := new(MockEventPublisher)
	uow := new(MockUnitOfWork)
	uow.SetRepositories(repo, nil, nil, nil, nil, bus)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Rollback").Return(nil)
	factory := new(MockUnitOfWorkFactory)
	factory.On("Create").Return(uow)
	return factory, uow, repo, bus
}

func TestGrantMessageXP_Disabled(t *testing.T) {
	factory := new(MockUnitOfWorkFactory)
	cfg := levelingConfig()
	cfg.Enabled = false
	svc := NewProgressionService(factory, cfg, rand.New(rand.NewSource(1)))

	result, err := svc.GrantMessageXP(context.Background(), 1, 2, "ann", false)
	require.NoError(t, err)
	assert.Nil(t, result)
	factory.AssertNotCalled(t, "Create")
}

func TestGrantMessageXP_CooldownSkips(t *testing.T) {
	factory, _, repo, _ := newProgressionMocks()
	svc := NewProgressionService(factory, levelingConfig(), rand.New(rand.NewSource(1)))

	rec := &models.ProgressionRecord{
		UserID: 1, GuildID: 2, XP: 50, Level: 1,
		LastMessageTime: time.Now(),
	}
	repo.On("GetOrCreate", mock.Anything, int64(1), int64(2), "ann").Return(rec, nil)
	repo.On("GetForUpdate", mock.Anything, int64(1), int64(2)).Return(rec, nil)

	result, err := svc.GrantMessageXP(context.Background(), 1, 2, "ann", false)
	require.NoError(t, err)
	assert.Nil(t, result)
	repo.AssertNotCalled(t, "UpdateXP")
}

func TestGrantMessageXP_Accumulates(t *testing.T) {
	factory, uow, repo, bus := newProgressionMocks()
	uow.On("Commit").Return(nil)
	svc := NewProgressionService(factory, levelingConfig(), rand.New(rand.NewSource(1)))

	rec := &models.ProgressionRecord{UserID: 1, GuildID: 2, XP: 10, Level: 1}
	repo.On("GetOrCreate", mock.Anything, int64(1), int64(2), "ann").Return(rec, nil)
	repo.On("GetForUpdate", mock.Anything, int64(1), int64(2)).Return(rec, nil)
	repo.On("UpdateXP", mock.Anything, int64(1), int64(2), int64(25), 1, mock.AnythingOfType("time.Time")).Return(nil)

	result, err := svc.GrantMessageXP(context.Background(), 1, 2, "ann", false)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(15), result.XPAdded)
	assert.Equal(t, int64(25), result.NewXP)
	assert.Equal(t, 1, result.NewLevel)
	assert.False(t, result.LeveledUp)
	bus.AssertNotCalled(t, "Publish")
	repo.AssertExpectations(t)
}

func TestGrantMessageXP_LevelUpPublishesEvent(t *testing.T) {
	factory, uow, repo, bus := newProgressionMocks()
	uow.On("Commit").Return(nil)
	svc := NewProgressionService(factory, levelingConfig(), rand.New(rand.NewSource(1)))

	// 90 + 15 crosses the 100 XP threshold for level 2.
	rec := &models.ProgressionRecord{UserID: 1, GuildID: 2, XP: 90, Level: 1}
	repo.On("GetOrCreate", mock.Anything, int64(1), int64(2), "ann").Return(rec, nil)
	repo.On("GetForUpdate", mock.Anything, int64(1), int64(2)).Return(rec, nil)
	repo.On("UpdateXP", mock.Anything, int64(1), int64(2), int64(105), 2, mock.AnythingOfType("time.Time")).Return(nil)
	bus.On("Publish", mock.AnythingOfType("events.LevelUpEvent")).Return()

	result, err := svc.GrantMessageXP(context.Background(), 1, 2, "ann", false)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, 2, result.NewLevel)
	bus.AssertExpectations(t)
}

func TestGrantMessageXP_BoosterMultiplier(t *testing.T) {
	factory, uow, repo, _ := newProgressionMocks()
	uow.On("Commit").Return(nil)
	svc := NewProgressionService(factory, levelingConfig(), rand.New(rand.NewSource(1)))

	rec := &models.ProgressionRecord{UserID: 1, GuildID: 2, XP: 0, Level: 1}
	repo.On("GetOrCreate", mock.Anything, int64(1), int64(2), "ann").Return(rec, nil)
	repo.On("GetForUpdate", mock.Anything, int64(1), int64(2)).Return(rec, nil)
	// 15 * 1.5 booster = 22 after truncation.
	repo.On("UpdateXP", mock.Anything, int64(1), int64(2), int64(22), 1, mock.AnythingOfType("time.Time")).Return(nil)

	result, err := svc.GrantMessageXP(context.Background(), 1, 2, "ann", true)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(22), result.XPAdded)
	repo.AssertExpectations(t)
}

func TestGrantMessageXP_AccumulatesOnLockedRow(t *testing.T) {
	factory, uow, repo, _ := newProgressionMocks()
	uow.On("Commit").Return(nil)
	svc := NewProgressionService(factory, levelingConfig(), rand.New(rand.NewSource(1)))

	// The upsert returns a stale total; a grant committed in between bumped
	// the row to 40. The new total must build on the locked read.
	stale := &models.ProgressionRecord{UserID: 1, GuildID: 2, XP: 10, Level: 1}
	locked := &models.ProgressionRecord{UserID: 1, GuildID: 2, XP: 40, Level: 1}
	repo.On("GetOrCreate", mock.Anything, int64(1), int64(2), "ann").Return(stale, nil)
	repo.On("GetForUpdate", mock.Anything, int64(1), int64(2)).Return(locked, nil)
	repo.On("UpdateXP", mock.Anything, int64(1), int64(2), int64(55), 1, mock.AnythingOfType("time.Time")).Return(nil)

	result, err := svc.GrantMessageXP(context.Background(), 1, 2, "ann", false)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(55), result.NewXP)
	repo.AssertExpectations(t)
}

func TestGetProfile(t *testing.T) {
	factory, uow, repo, _ := newProgressionMocks()
	uow.On("Commit").Return(nil)
	svc := NewProgressionService(factory, levelingConfig(), rand.New(rand.NewSource(1)))

	rec := &models.ProgressionRecord{UserID: 1, GuildID: 2, Username: "ann", XP: 250, Level: 3}
	repo.On("GetOrCreate", mock.Anything, int64(1), int64(2), "ann").Return(rec, nil)
	repo.On("Rank", mock.Anything, int64(1), int64(2)).Return(4, nil)

	got, rank, err := svc.GetProfile(context.Background(), 1, 2, "ann")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.Equal(t, 4, rank)
}
