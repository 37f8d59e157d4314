package models

import "time"

// ShopItem is one row of a guild's current shop snapshot. The snapshot is
// replaced wholesale on refresh; event items carry the type of the event that
// unlocked them.
type ShopItem struct {
	ID          int64     `db:"id"`
	GuildID     int64     `db:"guild_id"`
	ItemID      string    `db:"item_id"`
	Name        string    `db:"item_name"`
	Description string    `db:"item_description"`
	Price       int64     `db:"price"`
	Category    string    `db:"category"`
	Rarity      string    `db:"rarity"`
	Effects     []string  `db:"effects"`
	IsEventItem bool      `db:"is_event_item"`
	EventType   string    `db:"event_type"`
	DateAdded   time.Time `db:"date_added"`
	CreatedAt   time.Time `db:"created_at"`
}

// InventoryItem is a purchased copy of a shop item owned by a user. Consumable
// items are decremented on use and deactivated at quantity zero.
type InventoryItem struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	GuildID     int64     `db:"guild_id"`
	ItemID      string    `db:"item_id"`
	Name        string    `db:"item_name"`
	Quantity    int       `db:"quantity"`
	Effects     []string  `db:"effects"`
	PurchasedAt time.Time `db:"purchased_at"`
	IsActive    bool      `db:"is_active"`
}

// PurchaseResult is returned on a successful shop purchase.
type PurchaseResult struct {
	Item       *ShopItem
	NewBalance int64
}

// UseItemResult describes the effects applied when an inventory item is used.
type UseItemResult struct {
	Applied     []string
	CoinsGained int64
	Consumed    bool
}

// ShopRefreshResult reports how many items the refreshed snapshot contains.
type ShopRefreshResult struct {
	DailyCount int
	EventCount int
}
