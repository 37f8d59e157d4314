package repository

import (
	"context"
	"fmt"

	"coinbot/database"
	"coinbot/events"
	"coinbot/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	progressionRepo  service.ProgressionRepository
	economyRepo      service.EconomyRepository
	eventRepo        service.EventRepository
	shopRepo         service.ShopRepository
	inventoryRepo    service.InventoryRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.progressionRepo = newProgressionRepositoryWithTx(tx)
	u.economyRepo = newEconomyRepositoryWithTx(tx)
	u.eventRepo = newEventRepositoryWithTx(tx)
	u.shopRepo = newShopRepositoryWithTx(tx)
	u.inventoryRepo = newInventoryRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// ProgressionRepository returns the progression repository for this unit of work
func (u *unitOfWork) ProgressionRepository() service.ProgressionRepository {
	if u.progressionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.progressionRepo
}

// EconomyRepository returns the economy repository for this unit of work
func (u *unitOfWork) EconomyRepository() service.EconomyRepository {
	if u.economyRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.economyRepo
}

// EventRepository returns the event repository for this unit of work
func (u *unitOfWork) EventRepository() service.EventRepository {
	if u.eventRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.eventRepo
}

// ShopRepository returns the shop repository for this unit of work
func (u *unitOfWork) ShopRepository() service.ShopRepository {
	if u.shopRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.shopRepo
}

// InventoryRepository returns the inventory repository for this unit of work
func (u *unitOfWork) InventoryRepository() service.InventoryRepository {
	if u.inventoryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.inventoryRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
