package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"coinbot/config"
	"coinbot/events"
	"coinbot/fishing"
	"coinbot/models"
)

// fishingService implements the FishingService interface. Buckets and bait
// live in memory; only the coins from a sale touch the ledger.
type fishingService struct {
	uowFactory UnitOfWorkFactory
	cfg        config.Fishing
	catalog    []fishing.Fish
	bucket     fishing.InventoryStore
	bait       fishing.BaitStore

	mu       sync.Mutex
	rng      *rand.Rand
	lastCast map[sessionKey]time.Time
	now      func() time.Time
}

// NewFishingService creates a new fishing service. A nil rng falls back to a
// time-seeded one.
func NewFishingService(uowFactory UnitOfWorkFactory, cfg config.Fishing, bucket fishing.InventoryStore, bait fishing.BaitStore, rng *rand.Rand) FishingService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	catalog := make([]fishing.Fish, 0, len(cfg.Catalog))
	for _, spec := range cfg.Catalog {
		catalog = append(catalog, fishing.Fish{
			ID:         spec.ID,
			Name:       spec.Name,
			Emoji:      spec.Emoji,
			Rarity:     fishing.Rarity(spec.Rarity),
			BaseChance: spec.BaseChance,
			MinValue:   spec.MinValue,
			MaxValue:   spec.MaxValue,
		})
	}
	return &fishingService{
		uowFactory: uowFactory,
		cfg:        cfg,
		catalog:    catalog,
		bucket:     bucket,
		bait:       bait,
		rng:        rng,
		lastCast:   make(map[sessionKey]time.Time),
		now:        time.Now,
	}
}

func rarityModifiers(m map[string]float64) map[fishing.Rarity]float64 {
	if len(m) == 0 {
		return nil
	}
	out := make(map[fishing.Rarity]float64, len(m))
	for rarity, mult := range m {
		out[fishing.Rarity(rarity)] = mult
	}
	return out
}

// weatherFor picks the guild's weather for the day. It rotates
// deterministically so every cast in a guild shares the same conditions.
func (s *fishingService) weatherFor(guildID int64, now time.Time) map[string]float64 {
	if len(s.cfg.Weather) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.cfg.Weather))
	for name := range s.cfg.Weather {
		names = append(names, name)
	}
	// Map iteration order is random; sort for a stable rotation.
	sort.Strings(names)
	pick := rand.New(rand.NewSource(guildID ^ dayNumber(now))).Intn(len(names))
	return s.cfg.Weather[names[pick]]
}

// gearFor reads the member's inventory for the best rod, the equipped bait
// type, and any luck boost.
func (s *fishingService) gearFor(items []models.InventoryItem) (rod, baitType string, luck float64) {
	rodOrder := map[string]int{"basic": 0, "sturdy": 1, "golden": 2}
	rod = "basic"
	baitType = "worm"
	luck = 1
	for _, item := range items {
		for _, effect := range item.Effects {
			name, arg, ok := strings.Cut(effect, ":")
			if !ok || arg == "" {
				// Markers and malformed effects carry no gear.
				continue
			}
			switch name {
			case "rod":
				if rodOrder[arg] > rodOrder[rod] {
					rod = arg
				}
			case "bait_type":
				baitType = arg
			case "luck":
				if boost, err := strconv.ParseFloat(arg, 64); err == nil && boost > luck {
					luck = boost
				}
			}
		}
	}
	return rod, baitType, luck
}

// Cast consumes one bait and rolls a catch
func (s *fishingService) Cast(ctx context.Context, userID, guildID int64) (*CatchResult, error) {
	if !s.cfg.Enabled {
		return nil, ErrFeatureDisabled
	}

	key := sessionKey{guildID, userID}
	now := s.now()
	cooldown := time.Duration(s.cfg.CooldownSeconds) * time.Second

	s.mu.Lock()
	if last, ok := s.lastCast[key]; ok && now.Sub(last) < cooldown {
		remaining := cooldown - now.Sub(last)
		s.mu.Unlock()
		return nil, &CooldownError{Remaining: remaining}
	}
	s.mu.Unlock()

	// Bait is consumed before the cooldown starts, so a bait failure does not
	// burn the cooldown.
	if !s.bait.Use(guildID, userID) {
		return nil, ErrNoBait
	}

	s.mu.Lock()
	s.lastCast[key] = now
	s.mu.Unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	items, err := uow.InventoryRepository().List(ctx, userID, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	rod, baitType, luck := s.gearFor(items)
	mods := fishing.Modifiers{
		Rod:     rarityModifiers(s.cfg.Rods[rod]),
		Weather: rarityModifiers(s.weatherFor(guildID, now)),
		Bait:    rarityModifiers(s.cfg.Bait[baitType]),
		Luck:    luck,
	}

	s.mu.Lock()
	caught := fishing.Catch(s.rng, s.catalog, mods)
	value := fishing.RollValue(s.rng, caught)
	s.mu.Unlock()

	s.bucket.Add(guildID, userID, fishing.CaughtFish{
		Fish:     caught,
		Value:    value,
		CaughtAt: now,
	})

	return &CatchResult{
		Fish:          caught,
		Value:         value,
		BaitRemaining: s.bait.Count(guildID, userID),
	}, nil
}

// Bucket returns the member's unsold catches
func (s *fishingService) Bucket(ctx context.Context, userID, guildID int64) ([]fishing.CaughtFish, error) {
	if !s.cfg.Enabled {
		return nil, ErrFeatureDisabled
	}
	return s.bucket.List(guildID, userID), nil
}

// SellAll sells every fish in the member's bucket
func (s *fishingService) SellAll(ctx context.Context, userID, guildID int64) (*FishSaleResult, error) {
	if !s.cfg.Enabled {
		return nil, ErrFeatureDisabled
	}

	catches := s.bucket.Clear(guildID, userID)
	if len(catches) == 0 {
		return nil, ErrNoFishToSell
	}

	var total int64
	for _, c := range catches {
		total += c.Value
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		s.restoreBucket(guildID, userID, catches)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, err := uow.EconomyRepository().GetOrCreate(ctx, userID, guildID, 0); err != nil {
		s.restoreBucket(guildID, userID, catches)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	newBalance, err := uow.EconomyRepository().AdjustWallet(ctx, userID, guildID, total)
	if err != nil {
		s.restoreBucket(guildID, userID, catches)
		return nil, fmt.Errorf("failed to credit fish sale: %w", err)
	}
	if err := uow.EconomyRepository().RecordTransaction(ctx, userID, guildID, total, models.TransactionTypeFishSale, fmt.Sprintf("%d fish", len(catches))); err != nil {
		s.restoreBucket(guildID, userID, catches)
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          userID,
		GuildID:         guildID,
		OldBalance:      newBalance - total,
		NewBalance:      newBalance,
		TransactionType: models.TransactionTypeFishSale,
		ChangeAmount:    total,
	})

	if err := uow.Commit(); err != nil {
		s.restoreBucket(guildID, userID, catches)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &FishSaleResult{
		Count:      len(catches),
		Total:      total,
		NewBalance: newBalance,
	}, nil
}

// restoreBucket puts drained catches back after a failed sale.
func (s *fishingService) restoreBucket(guildID, userID int64, catches []fishing.CaughtFish) {
	for _, c := range catches {
		s.bucket.Add(guildID, userID, c)
	}
}

// BaitCount returns how much bait the member has left
func (s *fishingService) BaitCount(ctx context.Context, userID, guildID int64) (int, error) {
	if !s.cfg.Enabled {
		return 0, ErrFeatureDisabled
	}
	return s.bait.Count(guildID, userID), nil
}
