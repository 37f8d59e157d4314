package testutil

import (
	"time"

	"coinbot/models"
)

// CreateTestEvent creates a test event running for the given number of days
func CreateTestEvent(guildID int64, eventType, eventName string, days int) *models.Event {
	now := time.Now().UTC()
	return &models.Event{
		GuildID:   guildID,
		EventType: eventType,
		EventName: eventName,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, days),
		IsActive:  true,
	}
}

// CreateTestShopItem creates a shop item with default values
func CreateTestShopItem(guildID int64, itemID string, price int64) models.ShopItem {
	return models.ShopItem{
		GuildID:     guildID,
		ItemID:      itemID,
		Name:        itemID,
		Description: "test item",
		Price:       price,
		Category:    "consumable",
		Rarity:      "common",
		Effects:     []string{"coins:100"},
	}
}

// CreateTestEventShopItem creates a shop item bound to an event type
func CreateTestEventShopItem(guildID int64, itemID, eventType string, price int64) models.ShopItem {
	item := CreateTestShopItem(guildID, itemID, price)
	item.Category = "cosmetic"
	item.Rarity = "rare"
	item.Effects = []string{"cosmetic"}
	item.IsEventItem = true
	item.EventType = eventType
	return item
}
