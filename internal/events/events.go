// Package events provides in-process pub/sub for booking outcome events.
package events

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Event is a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Handler reacts to an event.
type Handler func(event Event)

// Bus is an in-process publish/subscribe bus. Handlers run synchronously on
// the publisher's goroutine; subscribers decide their own concurrency.
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for a given event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		handler(event)
	}
}

// PublishJSON marshals payload and publishes it under eventType.
func (b *Bus) PublishJSON(eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	b.Publish(Event{Type: eventType, Payload: data})
	return nil
}
