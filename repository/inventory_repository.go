package repository

import (
	"context"
	"fmt"

	"coinbot/database"
	"coinbot/models"

	"github.com/jackc/pgx/v5"
)

// InventoryRepository implements the InventoryRepository interface
type InventoryRepository struct {
	q queryable
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *database.DB) *InventoryRepository {
	return &InventoryRepository{q: db.Pool}
}

// newInventoryRepositoryWithTx creates a new inventory repository with a transaction
func newInventoryRepositoryWithTx(tx queryable) *InventoryRepository {
	return &InventoryRepository{q: tx}
}

const inventoryColumns = `
	id, user_id, guild_id, item_id, item_name, quantity, effects, purchased_at, is_active
`

func scanInventoryItem(row pgx.Row) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.GuildID,
		&item.ItemID,
		&item.Name,
		&item.Quantity,
		&item.Effects,
		&item.PurchasedAt,
		&item.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Add adds one copy of the item to the member's inventory, stacking onto an
// existing row when present
func (r *InventoryRepository) Add(ctx context.Context, userID, guildID int64, item *models.ShopItem) error {
	query := `
		INSERT INTO user_inventory (user_id, guild_id, item_id, item_name, quantity, effects)
		VALUES ($1, $2, $3, $4, 1, $5)
		ON CONFLICT (user_id, guild_id, item_id) DO UPDATE SET
			quantity = user_inventory.quantity + 1,
			is_active = TRUE
	`

	_, err := r.q.Exec(ctx, query, userID, guildID, item.ItemID, item.Name, item.Effects)
	if err != nil {
		return fmt.Errorf("failed to add item %s to inventory of user %d in guild %d: %w", item.ItemID, userID, guildID, err)
	}

	return nil
}

// List returns the member's active inventory
func (r *InventoryRepository) List(ctx context.Context, userID, guildID int64) ([]models.InventoryItem, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM user_inventory
		WHERE user_id = $1 AND guild_id = $2 AND is_active
		ORDER BY purchased_at
	`

	rows, err := r.q.Query(ctx, query, userID, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory for user %d in guild %d: %w", userID, guildID, err)
	}
	defer rows.Close()

	var items []models.InventoryItem
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inventory rows: %w", err)
	}

	return items, nil
}

// Get returns one active inventory row, or nil
func (r *InventoryRepository) Get(ctx context.Context, userID, guildID int64, itemID string) (*models.InventoryItem, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM user_inventory
		WHERE user_id = $1 AND guild_id = $2 AND item_id = $3 AND is_active
	`

	item, err := scanInventoryItem(r.q.QueryRow(ctx, query, userID, guildID, itemID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item %s for user %d in guild %d: %w", itemID, userID, guildID, err)
	}

	return item, nil
}

// Consume decrements one copy of the item, deactivating the row when the last
// copy is used. Returns false when no active copy exists.
func (r *InventoryRepository) Consume(ctx context.Context, userID, guildID int64, itemID string) (bool, error) {
	query := `
		UPDATE user_inventory
		SET quantity = quantity - 1,
		    is_active = quantity > 1
		WHERE user_id = $1 AND guild_id = $2 AND item_id = $3
		  AND is_active AND quantity > 0
	`

	result, err := r.q.Exec(ctx, query, userID, guildID, itemID)
	if err != nil {
		return false, fmt.Errorf("failed to consume item %s for user %d in guild %d: %w", itemID, userID, guildID, err)
	}

	return result.RowsAffected() > 0, nil
}
