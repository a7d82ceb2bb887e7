package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ebubechi-ihediwa/StellarCade/models"
)

// TestEventDeliveryIntegration tests the complete event flow from
// TransactionalBus to the main Bus
func TestEventDeliveryIntegration(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventReceived := make(chan GameSettledEvent, 1)
	var wg sync.WaitGroup
	wg.Add(1)

	mainBus.Subscribe(EventTypeGameSettled, func(ctx context.Context, event Event) {
		defer wg.Done()
		if settledEvent, ok := event.(GameSettledEvent); ok {
			select {
			case eventReceived <- settledEvent:
			case <-time.After(1 * time.Second):
				t.Error("Timeout sending event to channel")
			}
		} else {
			t.Errorf("Expected GameSettledEvent, got %T", event)
		}
	})

	testEvent := GameSettledEvent{
		GameID:      7,
		Player:      "GALICE",
		Choice:      models.CoinSideA,
		Outcome:     models.CoinSideA,
		PayoutDelta: 95,
	}

	// Publish to the transactional bus, then flush as a committing
	// transaction would
	transactionalBus.Publish(testEvent)
	err := transactionalBus.Flush(context.Background())
	assert.NoError(t, err)

	wg.Wait()

	select {
	case received := <-eventReceived:
		assert.Equal(t, testEvent, received)
	case <-time.After(2 * time.Second):
		t.Fatal("Event was not delivered")
	}
}

// TestEventDiscardIntegration verifies rolled back events never reach
// subscribers
func TestEventDiscardIntegration(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	delivered := make(chan Event, 1)
	mainBus.Subscribe(EventTypeDeposited, func(ctx context.Context, event Event) {
		delivered <- event
	})

	transactionalBus.Publish(DepositedEvent{Account: "GALICE", Amount: 1000, Balance: 1000})
	transactionalBus.Discard()

	// Flushing after a discard delivers nothing
	err := transactionalBus.Flush(context.Background())
	assert.NoError(t, err)

	select {
	case <-delivered:
		t.Fatal("Discarded event was delivered")
	case <-time.After(200 * time.Millisecond):
	}
}
