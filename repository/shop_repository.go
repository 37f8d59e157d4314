package repository

import (
	"context"
	"fmt"

	"coinbot/database"
	"coinbot/models"

	"github.com/jackc/pgx/v5"
)

// ShopRepository implements the ShopRepository interface. The shop table holds
// one snapshot per guild; refresh replaces it wholesale.
type ShopRepository struct {
	q queryable
}

// NewShopRepository creates a new shop repository
func NewShopRepository(db *database.DB) *ShopRepository {
	return &ShopRepository{q: db.Pool}
}

// newShopRepositoryWithTx creates a new shop repository with a transaction
func newShopRepositoryWithTx(tx queryable) *ShopRepository {
	return &ShopRepository{q: tx}
}

const shopItemColumns = `
	id, guild_id, item_id, item_name, item_description, price, category,
	rarity, effects, is_event_item, event_type, date_added, created_at
`

func scanShopItem(row pgx.Row) (*models.ShopItem, error) {
	var item models.ShopItem
	err := row.Scan(
		&item.ID,
		&item.GuildID,
		&item.ItemID,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.Category,
		&item.Rarity,
		&item.Effects,
		&item.IsEventItem,
		&item.EventType,
		&item.DateAdded,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ReplaceSnapshot clears the guild's shop and inserts the new rotation
func (r *ShopRepository) ReplaceSnapshot(ctx context.Context, guildID int64, items []models.ShopItem) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM shop_items WHERE guild_id = $1`, guildID); err != nil {
		return fmt.Errorf("failed to clear shop for guild %d: %w", guildID, err)
	}

	query := `
		INSERT INTO shop_items (guild_id, item_id, item_name, item_description, price,
		                        category, rarity, effects, is_event_item, event_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for _, item := range items {
		_, err := r.q.Exec(ctx, query,
			guildID, item.ItemID, item.Name, item.Description, item.Price,
			item.Category, item.Rarity, item.Effects, item.IsEventItem, item.EventType,
		)
		if err != nil {
			return fmt.Errorf("failed to insert shop item %s for guild %d: %w", item.ItemID, guildID, err)
		}
	}

	return nil
}

// GetSnapshot returns the guild's current shop, event items first
func (r *ShopRepository) GetSnapshot(ctx context.Context, guildID int64) ([]models.ShopItem, error) {
	query := `
		SELECT ` + shopItemColumns + `
		FROM shop_items
		WHERE guild_id = $1
		ORDER BY is_event_item DESC, price
	`

	rows, err := r.q.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shop for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var items []models.ShopItem
	for rows.Next() {
		item, err := scanShopItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shop item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shop rows: %w", err)
	}

	return items, nil
}

// GetItem returns one item of the guild's current shop, or nil when the item
// is not in rotation
func (r *ShopRepository) GetItem(ctx context.Context, guildID int64, itemID string) (*models.ShopItem, error) {
	query := `
		SELECT ` + shopItemColumns + `
		FROM shop_items
		WHERE guild_id = $1 AND item_id = $2
	`

	item, err := scanShopItem(r.q.QueryRow(ctx, query, guildID, itemID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shop item %s for guild %d: %w", itemID, guildID, err)
	}

	return item, nil
}
