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

func eventsConfig() config.Events {
	return config.Events{
		Enabled:             true,
		ParticipationChance: 0.05,
		RewardCapPerDay:     5,
		Types: []config.EventType{
			{
				Type: "spring_festival", Name: "Spring Festival",
				Start: "03-20", End: "03-27",
				Reward: config.EventReward{MinCoins: 50, MaxCoins: 200},
			},
			{
				Type: "winter_holiday", Name: "Winter Holiday",
				Start: "12-22", End: "01-05",
				Reward: config.EventReward{MinCoins: 100, MaxCoins: 400},
			},
		},
	}
}

func newEventMocks() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockEventRepository, *MockEconomyRepository, *MockEventPublisher) {
	eventRepo := new(MockEventRepository)
	economyRepo := new(MockEconomyRepository)
	bus := new(MockEventPublisher)
	uow := new(MockUnitOfWork)
	uow.SetRepositories(nil, economyRepo, eventRepo, nil, nil, bus)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Rollback").Return(nil)
	factory := new(MockUnitOfWorkFactory)
	factory.On("Create").Return(uow)
	return factory, uow, eventRepo, economyRepo, bus
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWindowFor(t *testing.T) {
	spring := config.EventType{Type: "spring_festival", Start: "03-20", End: "03-27"}
	winter := config.EventType{Type: "winter_holiday", Start: "12-22", End: "01-05"}

	tests := []struct {
		name      string
		et        config.EventType
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name: "plain window inside",
			et:   spring, now: date(2026, time.March, 22),
			wantStart: date(2026, time.March, 20), wantEnd: date(2026, time.March, 28),
		},
		{
			name: "plain window before season",
			et:   spring, now: date(2026, time.January, 10),
			wantStart: date(2026, time.March, 20), wantEnd: date(2026, time.March, 28),
		},
		{
			name: "wrapping window in january tail",
			et:   winter, now: date(2026, time.January, 2),
			wantStart: date(2025, time.December, 22), wantEnd: date(2026, time.January, 6),
		},
		{
			name: "wrapping window in december head",
			et:   winter, now: date(2026, time.December, 23),
			wantStart: date(2026, time.December, 22), wantEnd: date(2027, time.January, 6),
		},
		{
			name: "wrapping window mid year points at next season",
			et:   winter, now: date(2026, time.June, 15),
			wantStart: date(2026, time.December, 22), wantEnd: date(2027, time.January, 6),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := windowFor(tt.et, tt.now)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestInWindow(t *testing.T) {
	spring := config.EventType{Type: "spring_festival", Start: "03-20", End: "03-27"}
	winter := config.EventType{Type: "winter_holiday", Start: "12-22", End: "01-05"}

	assert.True(t, inWindow(spring, date(2026, time.March, 20)))
	assert.True(t, inWindow(spring, date(2026, time.March, 27)))
	// The end day is covered in full; the day after is not.
	assert.False(t, inWindow(spring, date(2026, time.March, 28)))
	assert.False(t, inWindow(spring, date(2026, time.March, 19)))

	assert.True(t, inWindow(winter, date(2026, time.December, 25)))
	assert.True(t, inWindow(winter, date(2026, time.January, 5)))
	assert.False(t, inWindow(winter, date(2026, time.January, 6)))
	assert.False(t, inWindow(winter, date(2026, time.June, 15)))
}

func TestWindowLength(t *testing.T) {
	spring := config.EventType{Type: "spring_festival", Start: "03-20", End: "03-27"}
	winter := config.EventType{Type: "winter_holiday", Start: "12-22", End: "01-05"}

	assert.Equal(t, 8*24*time.Hour, windowLength(spring))
	assert.Equal(t, 15*24*time.Hour, windowLength(winter))
}

func TestTick_StartsDueEvent(t *testing.T) {
	factory, uow, eventRepo, _, bus := newEventMocks()
	uow.On("Commit").Return(nil)
	svc := NewEventService(factory, eventsConfig(), nil)

	now := date(2026, time.March, 22)
	eventRepo.On("DeactivateExpired", mock.Anything, int64(2), now).Return([]models.Event{}, nil)
	eventRepo.On("GetActiveByType", mock.Anything, int64(2), "spring_festival", now).Return(nil, nil)
	eventRepo.On("GetActiveByType", mock.Anything, int64(2), "winter_holiday", now).Return(nil, nil).Maybe()
	eventRepo.On("Create", mock.Anything, mock.MatchedBy(func(ev *models.Event) bool {
		return ev.EventType == "spring_festival" &&
			ev.StartDate.Equal(date(2026, time.March, 20)) &&
			ev.EndDate.Equal(date(2026, time.March, 28))
	})).Return(nil)
	bus.On("Publish", mock.AnythingOfType("events.EventStartedEvent")).Return()

	err := svc.Tick(context.Background(), 2, now)
	require.NoError(t, err)
	eventRepo.AssertExpectations(t)
}

func TestTick_SkipsRunningEvent(t *testing.T) {
	factory, uow, eventRepo, _, _ := newEventMocks()
	uow.On("Commit").Return(nil)
	svc := NewEventService(factory, eventsConfig(), nil)

	now := date(2026, time.March, 22)
	running := &models.Event{ID: 7, GuildID: 2, EventType: "spring_festival"}
	eventRepo.On("DeactivateExpired", mock.Anything, int64(2), now).Return([]models.Event{}, nil)
	eventRepo.On("GetActiveByType", mock.Anything, int64(2), "spring_festival", now).Return(running, nil)

	err := svc.Tick(context.Background(), 2, now)
	require.NoError(t, err)
	eventRepo.AssertNotCalled(t, "Create")
}

func TestTick_EndsExpiredEvents(t *testing.T) {
	factory, uow, eventRepo, _, bus := newEventMocks()
	uow.On("Commit").Return(nil)
	svc := NewEventService(factory, eventsConfig(), nil)

	now := date(2026, time.June, 15)
	expired := []models.Event{{ID: 7, GuildID: 2, EventType: "spring_festival", EventName: "Spring Festival"}}
	eventRepo.On("DeactivateExpired", mock.Anything, int64(2), now).Return(expired, nil)
	bus.On("Publish", mock.AnythingOfType("events.EventEndedEvent")).Return()

	err := svc.Tick(context.Background(), 2, now)
	require.NoError(t, err)
	bus.AssertExpectations(t)
	eventRepo.AssertNotCalled(t, "Create")
}

func TestStartEvent_UnknownType(t *testing.T) {
	factory, _, _, _, _ := newEventMocks()
	svc := NewEventService(factory, eventsConfig(), nil)

	_, err := svc.StartEvent(context.Background(), 2, "pirate_day", date(2026, time.March, 22))
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestStartEvent_AlreadyActive(t *testing.T) {
	factory, _, eventRepo, _, _ := newEventMocks()
	svc := NewEventService(factory, eventsConfig(), nil)

	now := date(2026, time.March, 22)
	running := &models.Event{ID: 7, GuildID: 2, EventType: "spring_festival"}
	eventRepo.On("GetActiveByType", mock.Anything, int64(2), "spring_festival", now).Return(running, nil)

	_, err := svc.StartEvent(context.Background(), 2, "spring_festival", now)
	assert.ErrorIs(t, err, ErrEventActive)
}

func TestStartEvent_OutOfSeasonRunsWindowLength(t *testing.T) {
	factory, uow, eventRepo, _, bus := newEventMocks()
	uow.On("Commit").Return(nil)
	svc := NewEventService(factory, eventsConfig(), nil)

	now := date(2026, time.June, 15)
	eventRepo.On("GetActiveByType", mock.Anything, int64(2), "spring_festival", now).Return(nil, nil)
	eventRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Event")).Return(nil)
	bus.On("Publish", mock.AnythingOfType("events.EventStartedEvent")).Return()

	ev, err := svc.StartEvent(context.Background(), 2, "spring_festival", now)
	require.NoError(t, err)
	assert.Equal(t, 8*24*time.Hour, ev.EndDate.Sub(ev.StartDate))
}

func TestRollParticipation_ChanceGate(t *testing.T) {
	factory, _, _, _, _ := newEventMocks()
	// Float64 pinned to 0.75, above the 5% participation chance.
	svc := NewEventService(factory, eventsConfig(), rand.New(fixedSource(3<<61)))

	result, err := svc.RollParticipation(context.Background(), 1, 2, date(2026, time.March, 22))
	require.NoError(t, err)
	assert.Nil(t, result)
	factory.AssertNotCalled(t, "Create")
}

func TestRollParticipation_NoActiveEvent(t *testing.T) {
	factory, _, eventRepo, _, _ := newEventMocks()
	svc := NewEventService(factory, eventsConfig(), rand.New(fixedSource(0)))

	now := date(2026, time.June, 15)
	eventRepo.On("GetActive", mock.Anything, int64(2), now).Return([]models.Event{}, nil)

	result, err := svc.RollParticipation(context.Background(), 1, 2, now)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestRollParticipation_DailyCapReached(t *testing.T) {
	factory, _, eventRepo, economyRepo, _ := newEventMocks()
	svc := NewEventService(factory, eventsConfig(), rand.New(fixedSource(0)))

	now := date(2026, time.March, 22)
	active := []models.Event{{ID: 9, GuildID: 2, EventType: "spring_festival", EventName: "Spring Festival"}}
	eventRepo.On("GetActive", mock.Anything, int64(2), now).Return(active, nil)
	eventRepo.On("GetParticipant", mock.Anything, int64(9), int64(1)).Return(&models.EventParticipant{
		EventID: 9, UserID: 1, RewardsToday: 5, LastRewardDate: now,
	}, nil)

	result, err := svc.RollParticipation(context.Background(), 1, 2, now)
	require.NoError(t, err)
	assert.Nil(t, result)
	economyRepo.AssertNotCalled(t, "AdjustWallet")
}

func TestRollParticipation_Rewards(t *testing.T) {
	factory, uow, eventRepo, economyRepo, bus := newEventMocks()
	uow.On("Commit").Return(nil)
	// Float64 pinned to 0: the chance gate passes and the reward roll lands
	// on the minimum.
	svc := NewEventService(factory, eventsConfig(), rand.New(fixedSource(0)))

	now := date(2026, time.March, 22)
	active := []models.Event{{ID: 9, GuildID: 2, EventType: "spring_festival", EventName: "Spring Festival"}}
	eventRepo.On("GetActive", mock.Anything, int64(2), now).Return(active, nil)
	eventRepo.On("GetParticipant", mock.Anything, int64(9), int64(1)).Return(nil, nil)
	economyRepo.On("GetOrCreate", mock.Anything, int64(1), int64(2), int64(0)).Return(&models.EconomyRecord{UserID: 1, GuildID: 2, Wallet: 100}, nil)
	economyRepo.On("AdjustWallet", mock.Anything, int64(1), int64(2), int64(50)).Return(int64(150), nil)
	economyRepo.On("RecordTransaction", mock.Anything, int64(1), int64(2), int64(50), models.TransactionTypeEventReward, "spring_festival").Return(nil)
	eventRepo.On("RecordParticipation", mock.Anything, int64(9), int64(1), int64(2), int64(50), true, now).Return(&models.EventParticipant{}, nil)
	bus.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return()

	result, err := svc.RollParticipation(context.Background(), 1, 2, now)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Spring Festival", result.EventName)
	assert.Equal(t, int64(50), result.Coins)
	eventRepo.AssertExpectations(t)
	economyRepo.AssertExpectations(t)
}

func TestCalendar(t *testing.T) {
	factory, uow, eventRepo, _, _ := newEventMocks()
	uow.On("Commit").Return(nil)
	svc := NewEventService(factory, eventsConfig(), nil)

	now := date(2026, time.March, 22)
	active := []models.Event{{ID: 9, GuildID: 2, EventType: "spring_festival"}}
	eventRepo.On("GetActive", mock.Anything, int64(2), now).Return(active, nil)

	entries, err := svc.Calendar(context.Background(), 2, now)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "spring_festival", entries[0].EventType)
	assert.True(t, entries[0].Active)
	assert.Equal(t, "winter_holiday", entries[1].EventType)
	assert.False(t, entries[1].Active)
}
