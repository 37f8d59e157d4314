package events

import (
	"context"
	"sync"

	"coinbot/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange EventType = "balance_change"
	EventTypeUserCreated   EventType = "user_created"
	EventTypeLevelUp       EventType = "level_up"
	EventTypeEventStarted  EventType = "event_started"
	EventTypeEventEnded    EventType = "event_ended"
	EventTypeItemPurchased EventType = "item_purchased"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          int64
	GuildID         int64
	OldBalance      int64
	NewBalance      int64
	TransactionType models.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// UserCreatedEvent represents a member's first interaction with the bot
type UserCreatedEvent struct {
	UserID         int64
	GuildID        int64
	Username       string
	InitialBalance int64
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// LevelUpEvent fires when a member crosses a level boundary
type LevelUpEvent struct {
	UserID   int64
	GuildID  int64
	Username string
	OldLevel int
	NewLevel int
}

func (e LevelUpEvent) Type() EventType {
	return EventTypeLevelUp
}

// EventStartedEvent fires when a seasonal event begins in a guild
type EventStartedEvent struct {
	EventID   int64
	GuildID   int64
	EventType string
	EventName string
}

func (e EventStartedEvent) Type() EventType {
	return EventTypeEventStarted
}

// EventEndedEvent fires when a seasonal event is deactivated
type EventEndedEvent struct {
	EventID   int64
	GuildID   int64
	EventType string
	EventName string
}

func (e EventEndedEvent) Type() EventType {
	return EventTypeEventEnded
}

// ItemPurchasedEvent represents a completed shop purchase
type ItemPurchasedEvent struct {
	UserID  int64
	GuildID int64
	ItemID  string
	Price   int64
}

func (e ItemPurchasedEvent) Type() EventType {
	return EventTypeItemPurchased
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type on main event bus")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// A transactional event bus for holding pending events coupled to the Unit of Work.
// Flushes to the underlying event bus.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// called after successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Use background context for event emission to avoid issues with transaction context expiration
	// Events should be processed independently of the transaction lifecycle
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// called after db rollback or to clear state.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
