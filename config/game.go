package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Game holds every tunable game rule. It is loaded once at startup from an
// optional JSON file; anything the file omits keeps its default. Each feature
// carries its own Enabled flag so a guild can run, say, leveling without
// gambling.
type Game struct {
	Leveling Leveling `json:"leveling"`
	Economy  Economy  `json:"economy"`
	Bank     Bank     `json:"bank"`
	Steal    Steal    `json:"steal"`
	Gambling Gambling `json:"gambling"`
	Shop     Shop     `json:"shop"`
	Events   Events   `json:"events"`
	Fishing  Fishing  `json:"fishing"`
}

// Leveling configures message XP and the level curve. RoleRewards maps a level
// (as a decimal string, JSON object keys) to the Discord role granted on
// reaching it.
type Leveling struct {
	Enabled                bool              `json:"enabled"`
	XPPerMessageMin        int64             `json:"xpPerMessageMin"`
	XPPerMessageMax        int64             `json:"xpPerMessageMax"`
	MessageCooldownSeconds int               `json:"messageCooldownSeconds"`
	CurveBase              int64             `json:"curveBase"`
	CurveMultiplier        float64           `json:"curveMultiplier"`
	BoosterMultiplier      float64           `json:"boosterMultiplier"`
	RoleRewards            map[string]string `json:"roleRewards"`
}

// Economy configures the daily reward.
type Economy struct {
	Enabled          bool  `json:"enabled"`
	DailyBase        int64 `json:"dailyBase"`
	DailyStreakBonus int64 `json:"dailyStreakBonus"`
	MaxStreak        int   `json:"maxStreak"`
	CooldownHours    int   `json:"cooldownHours"`
	StreakGraceHours int   `json:"streakGraceHours"`
}

// Bank configures vault limits and upgrade pricing. Limits[i] is the capacity
// at bank level i+1; UpgradeCosts[i] is the price of upgrading from level i+1
// to i+2, so len(UpgradeCosts) == len(Limits)-1.
type Bank struct {
	Enabled      bool    `json:"enabled"`
	Limits       []int64 `json:"limits"`
	UpgradeCosts []int64 `json:"upgradeCosts"`
}

// MaxLevel is the highest reachable bank level.
func (b Bank) MaxLevel() int {
	return len(b.Limits)
}

// LimitFor returns the vault capacity at the given bank level. Levels out of
// range clamp to the nearest table entry.
func (b Bank) LimitFor(level int) int64 {
	if len(b.Limits) == 0 {
		return 0
	}
	if level < 1 {
		level = 1
	}
	if level > len(b.Limits) {
		level = len(b.Limits)
	}
	return b.Limits[level-1]
}

// UpgradeCostFor returns the price of leaving the given level, or 0 when the
// level is already the maximum.
func (b Bank) UpgradeCostFor(level int) int64 {
	if level < 1 || level > len(b.UpgradeCosts) {
		return 0
	}
	return b.UpgradeCosts[level-1]
}

// Steal configures the steal command.
type Steal struct {
	Enabled       bool    `json:"enabled"`
	SuccessChance float64 `json:"successChance"`
	MinAmount     int64   `json:"minAmount"`
	MaxPercentage float64 `json:"maxPercentage"`
	CooldownHours int     `json:"cooldownHours"`
}

// Gambling configures bets and payouts. Payouts are multipliers on the bet;
// the poker table is keyed by hand rank name.
type Gambling struct {
	Enabled              bool               `json:"enabled"`
	MinBet               int64              `json:"minBet"`
	MaxBet               int64              `json:"maxBet"`
	CoinflipPayout       float64            `json:"coinflipPayout"`
	BlackjackPayout      float64            `json:"blackjackPayout"`
	BlackjackNatural     float64            `json:"blackjackNaturalPayout"`
	PokerPayouts         map[string]float64 `json:"pokerPayouts"`
	SessionExpiryMinutes int                `json:"sessionExpiryMinutes"`
}

// ShopCatalogItem is one purchasable item definition. The price shown in the
// shop is BasePrice times the rarity multiplier.
type ShopCatalogItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	BasePrice   int64    `json:"basePrice"`
	Category    string   `json:"category"`
	Rarity      string   `json:"rarity"`
	Effects     []string `json:"effects"`
	EventType   string   `json:"eventType,omitempty"`
}

// ParseCoinRange reads a coins effect argument: either a single amount ("150")
// or an inclusive "min-max" range ("100-200") rolled on use.
func ParseCoinRange(s string) (minCoins, maxCoins int64, ok bool) {
	lo, hi, ranged := strings.Cut(s, "-")
	minCoins, err := strconv.ParseInt(lo, 10, 64)
	if err != nil || minCoins <= 0 {
		return 0, 0, false
	}
	if !ranged {
		return minCoins, minCoins, true
	}
	maxCoins, err = strconv.ParseInt(hi, 10, 64)
	if err != nil || maxCoins < minCoins {
		return 0, 0, false
	}
	return minCoins, maxCoins, true
}

// Shop configures the rotating shop.
type Shop struct {
	Enabled           bool               `json:"enabled"`
	DailyItemCount    int                `json:"dailyItemCount"`
	EventItemCount    int                `json:"eventItemCount"`
	RarityMultipliers map[string]float64 `json:"rarityMultipliers"`
	Catalog           []ShopCatalogItem  `json:"catalog"`
}

// PriceFor returns the final shop price of a catalog item.
func (s Shop) PriceFor(item ShopCatalogItem) int64 {
	mult, ok := s.RarityMultipliers[item.Rarity]
	if !ok {
		mult = 1
	}
	return int64(float64(item.BasePrice) * mult)
}

// EventReward bounds the coins a participation roll can pay. Event items reach
// players through the shop rotation, keyed by the catalog's eventType.
type EventReward struct {
	MinCoins int64 `json:"minCoins"`
	MaxCoins int64 `json:"maxCoins"`
}

// EventType is one seasonal event definition. Start and End are MM-DD; a
// window with End before Start wraps over the new year.
type EventType struct {
	Type   string      `json:"type"`
	Name   string      `json:"name"`
	Start  string      `json:"start"`
	End    string      `json:"end"`
	Reward EventReward `json:"reward"`
}

// Events configures the seasonal event scheduler.
type Events struct {
	Enabled             bool        `json:"enabled"`
	ParticipationChance float64     `json:"participationChance"`
	RewardCapPerDay     int         `json:"rewardCapPerDay"`
	Types               []EventType `json:"types"`
}

// FishSpec is one catchable species definition.
type FishSpec struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Emoji      string  `json:"emoji"`
	Rarity     string  `json:"rarity"`
	BaseChance float64 `json:"baseChance"`
	MinValue   int64   `json:"minValue"`
	MaxValue   int64   `json:"maxValue"`
}

// Fishing configures the fishing feature. Rods, Weather, and Bait map a gear
// or condition name to its per-rarity chance multipliers.
type Fishing struct {
	Enabled         bool                          `json:"enabled"`
	CooldownSeconds int                           `json:"cooldownSeconds"`
	StartingBait    int                           `json:"startingBait"`
	Catalog         []FishSpec                    `json:"catalog"`
	Rods            map[string]map[string]float64 `json:"rods"`
	Weather         map[string]map[string]float64 `json:"weather"`
	Bait            map[string]map[string]float64 `json:"bait"`
}

// DefaultGame returns the built-in rule set.
func DefaultGame() *Game {
	return &Game{
		Leveling: Leveling{
			Enabled:                true,
			XPPerMessageMin:        15,
			XPPerMessageMax:        25,
			MessageCooldownSeconds: 60,
			CurveBase:              100,
			CurveMultiplier:        1.5,
			BoosterMultiplier:      1.5,
		},
		Economy: Economy{
			Enabled:          true,
			DailyBase:        100,
			DailyStreakBonus: 10,
			MaxStreak:        30,
			CooldownHours:    24,
			StreakGraceHours: 48,
		},
		Bank: Bank{
			Enabled:      true,
			Limits:       []int64{1000, 2500, 5000, 10000, 25000, 50000, 100000},
			UpgradeCosts: []int64{500, 1000, 2500, 5000, 10000, 25000},
		},
		Steal: Steal{
			Enabled:       true,
			SuccessChance: 0.45,
			MinAmount:     50,
			MaxPercentage: 0.25,
			CooldownHours: 24,
		},
		Gambling: Gambling{
			Enabled:          true,
			MinBet:           10,
			MaxBet:           10000,
			CoinflipPayout:   2.0,
			BlackjackPayout:  2.0,
			BlackjackNatural: 2.5,
			PokerPayouts: map[string]float64{
				"High Card":       0,
				"Pair":            1,
				"Two Pair":        2,
				"Three of a Kind": 3,
				"Straight":        4,
				"Flush":           6,
				"Full House":      10,
				"Four of a Kind":  25,
				"Straight Flush":  50,
				"Royal Flush":     100,
			},
			SessionExpiryMinutes: 10,
		},
		Shop: Shop{
			Enabled:        true,
			DailyItemCount: 6,
			EventItemCount: 3,
			RarityMultipliers: map[string]float64{
				"common":    1,
				"uncommon":  1.5,
				"rare":      2.5,
				"epic":      4,
				"legendary": 8,
			},
			Catalog: defaultShopCatalog(),
		},
		Events: Events{
			Enabled:             true,
			ParticipationChance: 0.05,
			RewardCapPerDay:     5,
			Types: []EventType{
				{
					Type: "spring_festival", Name: "Spring Festival",
					Start: "03-20", End: "03-27",
					Reward: EventReward{MinCoins: 50, MaxCoins: 200},
				},
				{
					Type: "summer_splash", Name: "Summer Splash",
					Start: "06-21", End: "06-28",
					Reward: EventReward{MinCoins: 50, MaxCoins: 200},
				},
				{
					Type: "halloween", Name: "Halloween Haunt",
					Start: "10-25", End: "11-01",
					Reward: EventReward{MinCoins: 75, MaxCoins: 300},
				},
				{
					// Crosses the year boundary.
					Type: "winter_holiday", Name: "Winter Holiday",
					Start: "12-22", End: "01-05",
					Reward: EventReward{MinCoins: 100, MaxCoins: 400},
				},
			},
		},
		Fishing: Fishing{
			Enabled:         true,
			CooldownSeconds: 30,
			StartingBait:    5,
			Catalog: []FishSpec{
				{ID: "minnow", Name: "Minnow", Emoji: "🐟", Rarity: "common", BaseChance: 30, MinValue: 5, MaxValue: 15},
				{ID: "carp", Name: "Carp", Emoji: "🐟", Rarity: "common", BaseChance: 25, MinValue: 10, MaxValue: 20},
				{ID: "bass", Name: "Bass", Emoji: "🐠", Rarity: "uncommon", BaseChance: 18, MinValue: 25, MaxValue: 50},
				{ID: "salmon", Name: "Salmon", Emoji: "🐠", Rarity: "uncommon", BaseChance: 14, MinValue: 35, MaxValue: 70},
				{ID: "swordfish", Name: "Swordfish", Emoji: "🗡️", Rarity: "rare", BaseChance: 8, MinValue: 100, MaxValue: 200},
				{ID: "shark", Name: "Shark", Emoji: "🦈", Rarity: "epic", BaseChance: 4, MinValue: 300, MaxValue: 600},
				{ID: "kraken", Name: "Kraken", Emoji: "🐙", Rarity: "legendary", BaseChance: 1, MinValue: 1500, MaxValue: 3000},
			},
			Rods: map[string]map[string]float64{
				"basic":  {},
				"sturdy": {"uncommon": 1.3, "rare": 1.2},
				"golden": {"rare": 1.5, "epic": 1.4, "legendary": 1.3},
			},
			Weather: map[string]map[string]float64{
				"sunny":  {},
				"rainy":  {"uncommon": 1.2, "rare": 1.1},
				"stormy": {"common": 0.8, "epic": 1.5, "legendary": 1.5},
			},
			Bait: map[string]map[string]float64{
				"worm":   {},
				"shrimp": {"uncommon": 1.3, "rare": 1.2},
				"magic":  {"epic": 2, "legendary": 2},
			},
		},
	}
}

func defaultShopCatalog() []ShopCatalogItem {
	return []ShopCatalogItem{
		{ID: "bait_pack", Name: "Bait Pack", Description: "Five pieces of fishing bait.", BasePrice: 50, Category: "fishing", Rarity: "common", Effects: []string{"bait:5"}},
		{ID: "shrimp_bait", Name: "Shrimp Bait", Description: "Better bait for better fish.", BasePrice: 120, Category: "fishing", Rarity: "uncommon", Effects: []string{"bait:3", "bait_type:shrimp"}},
		{ID: "lucky_coin", Name: "Lucky Coin", Description: "A small boost to your next catches.", BasePrice: 200, Category: "boost", Rarity: "uncommon", Effects: []string{"luck:1.2"}},
		{ID: "xp_potion", Name: "XP Potion", Description: "Double message XP for a while.", BasePrice: 300, Category: "boost", Rarity: "rare", Effects: []string{"xp_boost:2"}},
		{ID: "coin_pouch", Name: "Coin Pouch", Description: "A pouch of loose coins.", BasePrice: 100, Category: "consumable", Rarity: "common", Effects: []string{"coins:100-200"}},
		{ID: "treasure_chest", Name: "Treasure Chest", Description: "A chest stuffed with coins.", BasePrice: 600, Category: "consumable", Rarity: "epic", Effects: []string{"coins:500-1500"}},
		{ID: "sturdy_rod", Name: "Sturdy Rod", Description: "A rod that holds rarer fish.", BasePrice: 400, Category: "fishing", Rarity: "rare", Effects: []string{"rod:sturdy"}},
		{ID: "golden_rod", Name: "Golden Rod", Description: "The finest rod money can buy.", BasePrice: 1200, Category: "fishing", Rarity: "legendary", Effects: []string{"rod:golden"}},
		{ID: "color_token", Name: "Color Token", Description: "Unlocks a custom name color.", BasePrice: 250, Category: "cosmetic", Rarity: "uncommon", Effects: []string{"color"}},
		{ID: "flower_crown", Name: "Flower Crown", Description: "A springtime keepsake.", BasePrice: 300, Category: "cosmetic", Rarity: "rare", Effects: []string{"cosmetic"}, EventType: "spring_festival"},
		{ID: "beach_ball", Name: "Beach Ball", Description: "A summertime keepsake.", BasePrice: 300, Category: "cosmetic", Rarity: "rare", Effects: []string{"cosmetic"}, EventType: "summer_splash"},
		{ID: "pumpkin_charm", Name: "Pumpkin Charm", Description: "A spooky keepsake.", BasePrice: 350, Category: "cosmetic", Rarity: "rare", Effects: []string{"cosmetic"}, EventType: "halloween"},
		{ID: "snow_globe", Name: "Snow Globe", Description: "A wintry keepsake.", BasePrice: 400, Category: "cosmetic", Rarity: "epic", Effects: []string{"cosmetic"}, EventType: "winter_holiday"},
	}
}

// LoadGame reads the game rules from the given JSON file on top of the
// defaults. An empty path returns the defaults untouched; a missing or broken
// file disables every feature rather than running with half-parsed rules.
func LoadGame(path string) *Game {
	game := DefaultGame()
	if path == "" {
		return game
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Error("Failed to read game config, disabling all features")
		return disabledGame()
	}
	if err := json.Unmarshal(data, game); err != nil {
		log.WithError(err).WithField("path", path).Error("Failed to parse game config, disabling all features")
		return disabledGame()
	}
	if err := game.Validate(); err != nil {
		log.WithError(err).WithField("path", path).Error("Invalid game config, disabling all features")
		return disabledGame()
	}
	return game
}

func disabledGame() *Game {
	game := DefaultGame()
	game.Leveling.Enabled = false
	game.Economy.Enabled = false
	game.Bank.Enabled = false
	game.Steal.Enabled = false
	game.Gambling.Enabled = false
	game.Shop.Enabled = false
	game.Events.Enabled = false
	game.Fishing.Enabled = false
	return game
}

// Validate checks cross-field consistency of the rule set.
func (g *Game) Validate() error {
	if g.Leveling.CurveBase <= 0 {
		return fmt.Errorf("leveling: curveBase must be positive, got %d", g.Leveling.CurveBase)
	}
	if g.Leveling.CurveMultiplier <= 1 {
		return fmt.Errorf("leveling: curveMultiplier must exceed 1, got %v", g.Leveling.CurveMultiplier)
	}
	if g.Leveling.XPPerMessageMin > g.Leveling.XPPerMessageMax {
		return fmt.Errorf("leveling: xpPerMessageMin %d exceeds max %d", g.Leveling.XPPerMessageMin, g.Leveling.XPPerMessageMax)
	}
	if g.Economy.StreakGraceHours <= g.Economy.CooldownHours {
		return fmt.Errorf("economy: streakGraceHours %d must exceed cooldownHours %d", g.Economy.StreakGraceHours, g.Economy.CooldownHours)
	}
	if len(g.Bank.UpgradeCosts) != len(g.Bank.Limits)-1 {
		return fmt.Errorf("bank: %d upgrade costs for %d limits", len(g.Bank.UpgradeCosts), len(g.Bank.Limits))
	}
	for i := 1; i < len(g.Bank.Limits); i++ {
		if g.Bank.Limits[i] <= g.Bank.Limits[i-1] {
			return fmt.Errorf("bank: limits must be strictly increasing at level %d", i+1)
		}
	}
	if g.Steal.SuccessChance < 0 || g.Steal.SuccessChance > 1 {
		return fmt.Errorf("steal: successChance %v outside [0,1]", g.Steal.SuccessChance)
	}
	if g.Steal.MaxPercentage <= 0 || g.Steal.MaxPercentage > 1 {
		return fmt.Errorf("steal: maxPercentage %v outside (0,1]", g.Steal.MaxPercentage)
	}
	if g.Gambling.MinBet <= 0 || g.Gambling.MaxBet < g.Gambling.MinBet {
		return fmt.Errorf("gambling: bad bet range [%d,%d]", g.Gambling.MinBet, g.Gambling.MaxBet)
	}
	for _, item := range g.Shop.Catalog {
		for _, effect := range item.Effects {
			if err := validateEffect(effect); err != nil {
				return fmt.Errorf("shop: item %s: %w", item.ID, err)
			}
		}
	}
	if g.Events.ParticipationChance < 0 || g.Events.ParticipationChance > 1 {
		return fmt.Errorf("events: participationChance %v outside [0,1]", g.Events.ParticipationChance)
	}
	if g.Events.RewardCapPerDay < 0 {
		return fmt.Errorf("events: rewardCapPerDay must not be negative")
	}
	for _, et := range g.Events.Types {
		if !validMonthDay(et.Start) || !validMonthDay(et.End) {
			return fmt.Errorf("events: %s has invalid window %s..%s", et.Type, et.Start, et.End)
		}
	}
	if g.Fishing.Enabled && len(g.Fishing.Catalog) == 0 {
		return fmt.Errorf("fishing: enabled with empty catalog")
	}
	for _, f := range g.Fishing.Catalog {
		if f.BaseChance <= 0 {
			return fmt.Errorf("fishing: %s has non-positive baseChance", f.ID)
		}
		if f.MaxValue < f.MinValue {
			return fmt.Errorf("fishing: %s has maxValue below minValue", f.ID)
		}
	}
	return nil
}

// validateEffect checks an item effect string. Bare names are inert markers;
// parameterized effects are "name:arg" and the names below require the arg.
func validateEffect(effect string) error {
	name, arg, hasArg := strings.Cut(effect, ":")
	if name == "" {
		return fmt.Errorf("effect %q has no name", effect)
	}
	switch name {
	case "coins", "bait", "rod", "bait_type", "luck", "xp_boost":
		if !hasArg || arg == "" {
			return fmt.Errorf("effect %q needs an argument", effect)
		}
	}
	switch name {
	case "coins":
		if _, _, ok := ParseCoinRange(arg); !ok {
			return fmt.Errorf("effect %q has a bad coin range", effect)
		}
	case "bait":
		if n, err := strconv.Atoi(arg); err != nil || n <= 0 {
			return fmt.Errorf("effect %q has a bad bait count", effect)
		}
	case "luck", "xp_boost":
		if mult, err := strconv.ParseFloat(arg, 64); err != nil || mult <= 0 {
			return fmt.Errorf("effect %q has a bad multiplier", effect)
		}
	}
	return nil
}

// validMonthDay checks an MM-DD string without caring about the year.
func validMonthDay(s string) bool {
	if len(s) != 5 || s[2] != '-' {
		return false
	}
	month := int(s[0]-'0')*10 + int(s[1]-'0')
	day := int(s[3]-'0')*10 + int(s[4]-'0')
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}
