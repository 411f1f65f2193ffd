package events

import (
	"context"
	"sync"

	"courtside/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange EventType = "balance_change"
	EventTypeUserJoined    EventType = "user_joined"
	EventTypeWagerSettled  EventType = "wager_settled"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a committed transaction record
type BalanceChangeEvent struct {
	UserID        string                 `json:"user_id"`
	TransactionID string                 `json:"transaction_id"`
	Kind          models.TransactionKind `json:"kind"`
	Amount        int64                  `json:"amount"`
	Wallet        int64                  `json:"wallet"`
	Bank          int64                  `json:"bank"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// UserJoinedEvent represents the grant of a starting stake
type UserJoinedEvent struct {
	UserID  string `json:"user_id"`
	Granted int64  `json:"granted"`
}

func (e UserJoinedEvent) Type() EventType {
	return EventTypeUserJoined
}

// WagerSettledEvent represents a wager that was drawn and paid or lost
type WagerSettledEvent struct {
	UserID string                 `json:"user_id"`
	Game   models.Game            `json:"game"`
	Kind   models.TransactionKind `json:"kind"`
	Stake  int64                  `json:"stake"`
	Payout int64                  `json:"payout"`
}

func (e WagerSettledEvent) Type() EventType {
	return EventTypeWagerSettled
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	wg       sync.WaitGroup
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

// Publish dispatches the event immediately. Satisfies Publisher for callers outside a commit.
func (b *Bus) Publish(event Event) {
	b.Emit(context.Background(), event)
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Handlers run asynchronously so a slow subscriber never holds up a command
	for i, handler := range handlers {
		b.wg.Add(1)
		go func(h Handler, handlerIndex int) {
			defer b.wg.Done()
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

// Wait blocks until every handler started so far has returned
func (b *Bus) Wait() {
	b.wg.Wait()
}

// Publisher accepts events for delivery
type Publisher interface {
	Publish(event Event)
}

// TransactionalBus holds events raised inside a store commit until it is known to be durable.
// Flushes to the underlying bus.
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

// Flush is called after a successful commit
func (b *TransactionalBus) Flush() {
	if b.real != nil {
		// Events are processed independently of the request that caused them
		for _, ev := range b.pending {
			b.real.Emit(context.Background(), ev)
		}
	}
	b.pending = nil
}

// Discard is called after a failed commit
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

// Pending returns the number of buffered events
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}
