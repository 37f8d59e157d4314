package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"coinbot/models"

	"github.com/stretchr/testify/assert"
)

// TestEventDeliveryIntegration tests the complete event flow from TransactionalBus to main Bus
func TestEventDeliveryIntegration(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventReceived := make(chan BalanceChangeEvent, 1)
	var wg sync.WaitGroup
	wg.Add(1)

	mainBus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		defer wg.Done()
		if balanceEvent, ok := event.(BalanceChangeEvent); ok {
			select {
			case eventReceived <- balanceEvent:
			case <-time.After(1 * time.Second):
				t.Error("Timeout sending event to channel")
			}
		} else {
			t.Errorf("Expected BalanceChangeEvent, got %T", event)
		}
	})

	testEvent := BalanceChangeEvent{
		UserID:          123456,
		GuildID:         789,
		OldBalance:      1000,
		NewBalance:      1500,
		TransactionType: models.TransactionTypeGameWin,
		ChangeAmount:    500,
	}

	// Publish event to transactional bus (simulating service layer)
	transactionalBus.Publish(testEvent)

	// Flush events (simulating successful transaction commit)
	ctx := context.Background()
	err := transactionalBus.Flush(ctx)
	assert.NoError(t, err)

	wg.Wait()

	select {
	case receivedEvent := <-eventReceived:
		assert.Equal(t, testEvent.UserID, receivedEvent.UserID)
		assert.Equal(t, testEvent.GuildID, receivedEvent.GuildID)
		assert.Equal(t, testEvent.OldBalance, receivedEvent.OldBalance)
		assert.Equal(t, testEvent.NewBalance, receivedEvent.NewBalance)
		assert.Equal(t, testEvent.TransactionType, receivedEvent.TransactionType)
		assert.Equal(t, testEvent.ChangeAmount, receivedEvent.ChangeAmount)
	case <-time.After(2 * time.Second):
		t.Fatal("Event was not received within timeout")
	}
}

// TestMultipleEventsDelivery tests delivering multiple events in sequence
func TestMultipleEventsDelivery(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventsReceived := make(chan LevelUpEvent, 3)
	var wg sync.WaitGroup
	wg.Add(3)

	mainBus.Subscribe(EventTypeLevelUp, func(ctx context.Context, event Event) {
		defer wg.Done()
		if levelEvent, ok := event.(LevelUpEvent); ok {
			eventsReceived <- levelEvent
		}
	})

	events := []LevelUpEvent{
		{UserID: 1, GuildID: 100, OldLevel: 1, NewLevel: 2},
		{UserID: 2, GuildID: 100, OldLevel: 4, NewLevel: 5},
		{UserID: 3, GuildID: 100, OldLevel: 9, NewLevel: 10},
	}

	for _, event := range events {
		transactionalBus.Publish(event)
	}

	ctx := context.Background()
	err := transactionalBus.Flush(ctx)
	assert.NoError(t, err)

	wg.Wait()

	receivedEvents := make([]LevelUpEvent, 0, 3)
	for i := 0; i < 3; i++ {
		select {
		case event := <-eventsReceived:
			receivedEvents = append(receivedEvents, event)
		case <-time.After(2 * time.Second):
			t.Fatalf("Only received %d out of 3 events", len(receivedEvents))
		}
	}

	assert.Len(t, receivedEvents, 3)

	// Check that all original events were received (order may vary due to goroutines)
	userIDs := make(map[int64]bool)
	for _, received := range receivedEvents {
		userIDs[received.UserID] = true
	}

	assert.True(t, userIDs[1])
	assert.True(t, userIDs[2])
	assert.True(t, userIDs[3])
}

// TestTransactionalBusDiscard tests that discarded events are not delivered
func TestTransactionalBusDiscard(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventReceived := make(chan bool, 1)

	mainBus.Subscribe(EventTypeItemPurchased, func(ctx context.Context, event Event) {
		eventReceived <- true
	})

	transactionalBus.Publish(ItemPurchasedEvent{
		UserID:  123456,
		GuildID: 789,
		ItemID:  "lucky_coin",
		Price:   300,
	})

	// Discard instead of flush (simulating transaction rollback)
	transactionalBus.Discard()

	select {
	case <-eventReceived:
		t.Fatal("Event was received despite being discarded")
	case <-time.After(100 * time.Millisecond):
		// Expected - no event should be received
	}
}
