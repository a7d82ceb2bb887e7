package events

import (
	"context"
	"sync"

	"github.com/ebubechi-ihediwa/StellarCade/models"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeDeposited     EventType = "deposited"
	EventTypeWithdrawn     EventType = "withdrawn"
	EventTypeGameCommitted EventType = "game_committed"
	EventTypeGameSettled   EventType = "game_settled"
	EventTypeGameVoided    EventType = "game_voided"
	EventTypeFeeChanged    EventType = "fee_changed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// DepositedEvent represents a completed deposit
type DepositedEvent struct {
	Account string
	Amount  int64
	Balance int64
}

func (e DepositedEvent) Type() EventType {
	return EventTypeDeposited
}

// WithdrawnEvent represents a completed withdrawal
type WithdrawnEvent struct {
	Account string
	Amount  int64
	Balance int64
}

func (e WithdrawnEvent) Type() EventType {
	return EventTypeWithdrawn
}

// GameCommittedEvent represents a new game with its stake locked and the
// server seed commitment recorded
type GameCommittedEvent struct {
	GameID     int64
	Player     string
	Stake      int64
	Choice     models.CoinSide
	CommitHash string
}

func (e GameCommittedEvent) Type() EventType {
	return EventTypeGameCommitted
}

// GameSettledEvent represents a settled game
type GameSettledEvent struct {
	GameID      int64
	Player      string
	Choice      models.CoinSide
	Outcome     models.CoinSide
	PayoutDelta int64
}

func (e GameSettledEvent) Type() EventType {
	return EventTypeGameSettled
}

// GameVoidedEvent represents a voided game whose stake was returned
type GameVoidedEvent struct {
	GameID int64
	Player string
	Stake  int64
}

func (e GameVoidedEvent) Type() EventType {
	return EventTypeGameVoided
}

// FeeChangedEvent represents an admin fee update
type FeeChangedEvent struct {
	FeeBps int64
}

func (e FeeChangedEvent) Type() EventType {
	return EventTypeFeeChanged
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
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Delivery is fire-and-forget; handlers run asynchronously and must
	// not block settlement.
	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}

// TransactionalBus stashes events coupled to a unit of work and flushes
// them to the underlying bus only after a successful commit.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events. Called after a successful DB commit.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Events outlive the transaction; emit with a background context so
	// handler execution is not tied to the request lifetime.
	eventCtx := context.Background()

	for _, ev := range b.pending {
		log.WithFields(log.Fields{
			"eventType": ev.Type(),
		}).Debug("Emitting event")
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events. Called after rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
