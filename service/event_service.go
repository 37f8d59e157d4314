package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"coinbot/config"
	"coinbot/events"
	"coinbot/models"
)

// eventService implements the EventService interface
type eventService struct {
	uowFactory UnitOfWorkFactory
	cfg        config.Events

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEventService creates a new event service. A nil rng falls back to a
// time-seeded one.
func NewEventService(uowFactory UnitOfWorkFactory, cfg config.Events, rng *rand.Rand) EventService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &eventService{
		uowFactory: uowFactory,
		cfg:        cfg,
		rng:        rng,
	}
}

func parseMonthDay(s string) (time.Month, int) {
	month := int(s[0]-'0')*10 + int(s[1]-'0')
	day := int(s[3]-'0')*10 + int(s[4]-'0')
	return time.Month(month), day
}

// windowFor returns the event's concrete window around now. Windows whose end
// month-day precedes their start month-day wrap over the new year; the window
// containing or nearest after now is chosen. The end bound is exclusive,
// covering the whole end day.
func windowFor(et config.EventType, now time.Time) (time.Time, time.Time) {
	sm, sd := parseMonthDay(et.Start)
	em, ed := parseMonthDay(et.End)

	year := now.Year()
	start := time.Date(year, sm, sd, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, em, ed, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

	if !end.After(start) {
		// Wrapping window such as 12-22..01-05.
		if now.Before(end) {
			start = start.AddDate(-1, 0, 0)
		} else {
			end = end.AddDate(1, 0, 0)
		}
	}
	return start, end
}

// inWindow reports whether now falls inside the event's seasonal window.
func inWindow(et config.EventType, now time.Time) bool {
	start, end := windowFor(et, now)
	return !now.Before(start) && now.Before(end)
}

// Tick starts due events and ends expired ones for the guild
func (s *eventService) Tick(ctx context.Context, guildID int64, now time.Time) error {
	if !s.cfg.Enabled {
		return nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	expired, err := uow.EventRepository().DeactivateExpired(ctx, guildID, now)
	if err != nil {
		return fmt.Errorf("failed to deactivate expired events: %w", err)
	}
	for _, ev := range expired {
		uow.EventBus().Publish(events.EventEndedEvent{
			EventID:   ev.ID,
			GuildID:   guildID,
			EventType: ev.EventType,
			EventName: ev.EventName,
		})
	}

	for _, et := range s.cfg.Types {
		if !inWindow(et, now) {
			continue
		}
		existing, err := uow.EventRepository().GetActiveByType(ctx, guildID, et.Type, now)
		if err != nil {
			return fmt.Errorf("failed to check active %s event: %w", et.Type, err)
		}
		if existing != nil {
			continue
		}

		start, end := windowFor(et, now)
		ev := &models.Event{
			GuildID:   guildID,
			EventType: et.Type,
			EventName: et.Name,
			StartDate: start,
			EndDate:   end,
		}
		if err := uow.EventRepository().Create(ctx, ev); err != nil {
			return fmt.Errorf("failed to start %s event: %w", et.Type, err)
		}
		uow.EventBus().Publish(events.EventStartedEvent{
			EventID:   ev.ID,
			GuildID:   guildID,
			EventType: ev.EventType,
			EventName: ev.EventName,
		})
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *eventService) typeConfig(eventType string) *config.EventType {
	for i := range s.cfg.Types {
		if s.cfg.Types[i].Type == eventType {
			return &s.cfg.Types[i]
		}
	}
	return nil
}

// StartEvent force-starts an event of the given type, regardless of its
// seasonal window
func (s *eventService) StartEvent(ctx context.Context, guildID int64, eventType string, now time.Time) (*models.Event, error) {
	et := s.typeConfig(eventType)
	if et == nil {
		return nil, ErrEventNotFound
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.EventRepository().GetActiveByType(ctx, guildID, eventType, now)
	if err != nil {
		return nil, fmt.Errorf("failed to check active event: %w", err)
	}
	if existing != nil {
		return nil, ErrEventActive
	}

	start, end := windowFor(*et, now)
	if now.Before(start) || !now.Before(end) {
		// Outside the seasonal window an admin start runs to the window length
		// from today.
		start = now.Truncate(24 * time.Hour)
		end = start.Add(windowLength(*et))
	}

	ev := &models.Event{
		GuildID:   guildID,
		EventType: et.Type,
		EventName: et.Name,
		StartDate: start,
		EndDate:   end,
	}
	if err := uow.EventRepository().Create(ctx, ev); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	uow.EventBus().Publish(events.EventStartedEvent{
		EventID:   ev.ID,
		GuildID:   guildID,
		EventType: ev.EventType,
		EventName: ev.EventName,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return ev, nil
}

func windowLength(et config.EventType) time.Duration {
	// Length relative to an arbitrary non-wrapping anchor year.
	anchor := time.Date(2001, 6, 1, 0, 0, 0, 0, time.UTC)
	start, end := windowFor(et, anchor)
	return end.Sub(start)
}

// EndEvent force-ends the guild's live event of the given type
func (s *eventService) EndEvent(ctx context.Context, guildID int64, eventType string, now time.Time) (*models.Event, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ev, err := uow.EventRepository().GetActiveByType(ctx, guildID, eventType, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get active event: %w", err)
	}
	if ev == nil {
		return nil, ErrEventNotFound
	}

	if err := uow.EventRepository().Deactivate(ctx, ev.ID); err != nil {
		return nil, fmt.Errorf("failed to deactivate event: %w", err)
	}

	uow.EventBus().Publish(events.EventEndedEvent{
		EventID:   ev.ID,
		GuildID:   guildID,
		EventType: ev.EventType,
		EventName: ev.EventName,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return ev, nil
}

// ActiveEvents returns the guild's currently running events
func (s *eventService) ActiveEvents(ctx context.Context, guildID int64, now time.Time) ([]models.Event, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	active, err := uow.EventRepository().GetActive(ctx, guildID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get active events: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return active, nil
}

func (s *eventService) roll() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *eventService) rollRange(min, max int64) int64 {
	if max <= min {
		return min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.rng.Int63n(max-min+1)
}

// RollParticipation gives a member a small chance at an event reward for
// activity during a live event. Payouts per member are capped per day so a
// message flood cannot farm an event.
func (s *eventService) RollParticipation(ctx context.Context, userID, guildID int64, now time.Time) (*models.EventRewardResult, error) {
	if !s.cfg.Enabled {
		return nil, nil
	}
	if s.roll() >= s.cfg.ParticipationChance {
		return nil, nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	active, err := uow.EventRepository().GetActive(ctx, guildID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get active events: %w", err)
	}
	if len(active) == 0 {
		return nil, nil
	}
	ev := active[0]

	et := s.typeConfig(ev.EventType)
	if et == nil {
		return nil, nil
	}

	participant, err := uow.EventRepository().GetParticipant(ctx, ev.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	if participant != nil {
		today := now.UTC().Truncate(24 * time.Hour)
		if !participant.LastRewardDate.Before(today) && participant.RewardsToday >= s.cfg.RewardCapPerDay {
			return nil, nil
		}
	}

	coins := s.rollRange(et.Reward.MinCoins, et.Reward.MaxCoins)

	if _, err := uow.EconomyRepository().GetOrCreate(ctx, userID, guildID, 0); err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	newBalance, err := uow.EconomyRepository().AdjustWallet(ctx, userID, guildID, coins)
	if err != nil {
		return nil, fmt.Errorf("failed to credit event reward: %w", err)
	}
	if err := uow.EconomyRepository().RecordTransaction(ctx, userID, guildID, coins, models.TransactionTypeEventReward, ev.EventType); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}
	if _, err := uow.EventRepository().RecordParticipation(ctx, ev.ID, userID, guildID, coins, true, now); err != nil {
		return nil, fmt.Errorf("failed to record participation: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          userID,
		GuildID:         guildID,
		OldBalance:      newBalance - coins,
		NewBalance:      newBalance,
		TransactionType: models.TransactionTypeEventReward,
		ChangeAmount:    coins,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.EventRewardResult{
		EventName: ev.EventName,
		Coins:     coins,
	}, nil
}

// Calendar returns this year's event windows
func (s *eventService) Calendar(ctx context.Context, guildID int64, now time.Time) ([]CalendarEntry, error) {
	active, err := s.ActiveEvents(ctx, guildID, now)
	if err != nil {
		return nil, err
	}
	activeTypes := make(map[string]bool, len(active))
	for _, ev := range active {
		activeTypes[ev.EventType] = true
	}

	entries := make([]CalendarEntry, 0, len(s.cfg.Types))
	for _, et := range s.cfg.Types {
		start, end := windowFor(et, now)
		entries = append(entries, CalendarEntry{
			EventType: et.Type,
			EventName: et.Name,
			Start:     start,
			End:       end,
			Active:    activeTypes[et.Type] || inWindow(et, now),
		})
	}
	return entries, nil
}
