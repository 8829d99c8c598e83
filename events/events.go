package events

import (
	"context"
	"sync"

	domainevents "coinbot/domain/events"

	log "github.com/sirupsen/logrus"
)

// Handler is a function that handles events
type Handler func(ctx context.Context, event domainevents.Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[domainevents.EventType][]Handler
	inflight sync.WaitGroup
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[domainevents.EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType domainevents.EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type on event bus")
}

// SubscribeAll adds a handler for every listed event type
func (b *Bus) SubscribeAll(eventTypes []domainevents.EventType, handler Handler) {
	for _, eventType := range eventTypes {
		b.Subscribe(eventType, handler)
	}
}

// Emit dispatches an event to all registered handlers, each on its own goroutine
func (b *Bus) Emit(ctx context.Context, event domainevents.Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers on event bus")

	for i, handler := range handlers {
		b.inflight.Add(1)
		go func(h Handler, handlerIndex int) {
			defer b.inflight.Done()
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

// Publish implements EventPublisher. Handlers run detached from any request context.
func (b *Bus) Publish(event domainevents.Event) error {
	b.Emit(context.Background(), event)
	return nil
}

// Wait blocks until every handler started so far has returned
func (b *Bus) Wait() {
	b.inflight.Wait()
}
