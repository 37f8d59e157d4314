package service

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"coinbot/config"
	"coinbot/events"
	"coinbot/fishing"
	"coinbot/models"
)

// shopService implements the ShopService interface. The rotation is
// deterministic per guild and day, so a restart mid-day rebuilds the same
// shop; only item effects roll on the service rng.
type shopService struct {
	uowFactory      UnitOfWorkFactory
	cfg             config.Shop
	startingBalance int64
	bait            fishing.BaitStore

	mu  sync.Mutex
	rng *rand.Rand
}

// NewShopService creates a new shop service. A nil rng falls back to a
// time-seeded one.
func NewShopService(uowFactory UnitOfWorkFactory, cfg config.Shop, startingBalance int64, bait fishing.BaitStore, rng *rand.Rand) ShopService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &shopService{
		uowFactory:      uowFactory,
		cfg:             cfg,
		startingBalance: startingBalance,
		bait:            bait,
		rng:             rng,
	}
}

func (s *shopService) rollRange(min, max int64) int64 {
	if max <= min {
		return min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.rng.Int63n(max-min+1)
}

func dayNumber(now time.Time) int64 {
	return now.UTC().Unix() / 86400
}

// rotationFor picks the day's items: a deterministic shuffle of the regular
// catalog plus the items unlocked by the active event types.
func (s *shopService) rotationFor(guildID int64, now time.Time, activeEventTypes map[string]bool) []models.ShopItem {
	var regular, eventItems []config.ShopCatalogItem
	for _, item := range s.cfg.Catalog {
		if item.EventType == "" {
			regular = append(regular, item)
		} else if activeEventTypes[item.EventType] {
			eventItems = append(eventItems, item)
		}
	}

	dayRNG := rand.New(rand.NewSource(guildID ^ dayNumber(now)))
	dayRNG.Shuffle(len(regular), func(i, j int) {
		regular[i], regular[j] = regular[j], regular[i]
	})
	if len(regular) > s.cfg.DailyItemCount {
		regular = regular[:s.cfg.DailyItemCount]
	}
	if len(eventItems) > s.cfg.EventItemCount {
		eventItems = eventItems[:s.cfg.EventItemCount]
	}

	items := make([]models.ShopItem, 0, len(regular)+len(eventItems))
	for _, src := range regular {
		items = append(items, s.toShopItem(guildID, src, false))
	}
	for _, src := range eventItems {
		items = append(items, s.toShopItem(guildID, src, true))
	}
	return items
}

func (s *shopService) toShopItem(guildID int64, src config.ShopCatalogItem, eventItem bool) models.ShopItem {
	return models.ShopItem{
		GuildID:     guildID,
		ItemID:      src.ID,
		Name:        src.Name,
		Description: src.Description,
		Price:       s.cfg.PriceFor(src),
		Category:    src.Category,
		Rarity:      src.Rarity,
		Effects:     src.Effects,
		IsEventItem: eventItem,
		EventType:   src.EventType,
	}
}

// RefreshShop rebuilds the guild's rotation for the given day
func (s *shopService) RefreshShop(ctx context.Context, guildID int64, now time.Time) (*models.ShopRefreshResult, error) {
	if !s.cfg.Enabled {
		return nil, ErrFeatureDisabled
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	active, err := uow.EventRepository().GetActive(ctx, guildID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get active events: %w", err)
	}
	activeTypes := make(map[string]bool, len(active))
	for _, ev := range active {
		activeTypes[ev.EventType] = true
	}

	items := s.rotationFor(guildID, now, activeTypes)
	if err := uow.ShopRepository().ReplaceSnapshot(ctx, guildID, items); err != nil {
		return nil, fmt.Errorf("failed to replace shop snapshot: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	result := &models.ShopRefreshResult{}
	for _, item := range items {
		if item.IsEventItem {
			result.EventCount++
		} else {
			result.DailyCount++
		}
	}
	return result, nil
}

// GetShop returns the guild's current rotation, rebuilding a stale or missing
// snapshot first
func (s *shopService) GetShop(ctx context.Context, guildID int64, now time.Time) ([]models.ShopItem, error) {
	if !s.cfg.Enabled {
		return nil, ErrFeatureDisabled
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	items, err := uow.ShopRepository().GetSnapshot(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shop snapshot: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if len(items) > 0 && dayNumber(items[0].DateAdded) == dayNumber(now) {
		return items, nil
	}

	if _, err := s.RefreshShop(ctx, guildID, now); err != nil {
		return nil, err
	}

	uow = s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	items, err = uow.ShopRepository().GetSnapshot(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get refreshed shop snapshot: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return items, nil
}

// Purchase buys one copy of an item from the rotation
func (s *shopService) Purchase(ctx context.Context, userID, guildID int64, itemID string) (*models.PurchaseResult, error) {
	if !s.cfg.Enabled {
		return nil, ErrFeatureDisabled
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	item, err := uow.ShopRepository().GetItem(ctx, guildID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shop item: %w", err)
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	rec, err := uow.EconomyRepository().GetOrCreate(ctx, userID, guildID, s.startingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	ok, err := uow.EconomyRepository().TryDebitWallet(ctx, userID, guildID, item.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to charge purchase: %w", err)
	}
	if !ok {
		return nil, &InsufficientFundsError{Have: rec.Wallet, Need: item.Price}
	}

	if err := uow.InventoryRepository().Add(ctx, userID, guildID, item); err != nil {
		return nil, fmt.Errorf("failed to add item to inventory: %w", err)
	}
	if err := uow.EconomyRepository().RecordTransaction(ctx, userID, guildID, -item.Price, models.TransactionTypePurchase, item.ItemID); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	uow.EventBus().Publish(events.ItemPurchasedEvent{
		UserID:  userID,
		GuildID: guildID,
		ItemID:  item.ItemID,
		Price:   item.Price,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.PurchaseResult{
		Item:       item,
		NewBalance: rec.Wallet - item.Price,
	}, nil
}

// consumableEffect reports whether the effect is used up on activation.
// Passive effects such as rods and cosmetics stay in the inventory.
func consumableEffect(effect string) bool {
	return strings.HasPrefix(effect, "coins:") || strings.HasPrefix(effect, "bait:")
}

func isConsumable(effects []string) bool {
	for _, e := range effects {
		if consumableEffect(e) {
			return true
		}
	}
	return false
}

// UseItem consumes an inventory item and applies its effects
func (s *shopService) UseItem(ctx context.Context, userID, guildID int64, itemID string) (*models.UseItemResult, error) {
	if !s.cfg.Enabled {
		return nil, ErrFeatureDisabled
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	item, err := uow.InventoryRepository().Get(ctx, userID, guildID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	if item == nil {
		return nil, ErrItemNotOwned
	}

	if !isConsumable(item.Effects) {
		// Passive items work from the inventory; nothing to activate.
		return &models.UseItemResult{Applied: item.Effects, Consumed: false}, nil
	}

	ok, err := uow.InventoryRepository().Consume(ctx, userID, guildID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to consume item: %w", err)
	}
	if !ok {
		return nil, ErrItemNotOwned
	}

	result := &models.UseItemResult{Consumed: true}
	for _, effect := range item.Effects {
		name, arg, hasArg := strings.Cut(effect, ":")
		switch {
		case name == "coins" && hasArg:
			minCoins, maxCoins, ok := config.ParseCoinRange(arg)
			if !ok {
				log.Warnf("Ignoring malformed coins effect %q on item %s", effect, itemID)
				continue
			}
			coins := s.rollRange(minCoins, maxCoins)
			if _, err := uow.EconomyRepository().AdjustWallet(ctx, userID, guildID, coins); err != nil {
				return nil, fmt.Errorf("failed to credit item coins: %w", err)
			}
			if err := uow.EconomyRepository().RecordTransaction(ctx, userID, guildID, coins, models.TransactionTypeItemEffect, itemID); err != nil {
				return nil, fmt.Errorf("failed to record transaction: %w", err)
			}
			result.CoinsGained = coins
		case name == "bait" && hasArg:
			amount, _ := strconv.Atoi(arg)
			if amount > 0 {
				s.bait.Add(guildID, userID, amount)
			} else {
				log.Warnf("Ignoring malformed bait effect %q on item %s", effect, itemID)
				continue
			}
		}
		result.Applied = append(result.Applied, effect)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

// Inventory returns the member's active inventory
func (s *shopService) Inventory(ctx context.Context, userID, guildID int64) ([]models.InventoryItem, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	items, err := uow.InventoryRepository().List(ctx, userID, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return items, nil
}
