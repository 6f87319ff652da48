package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

// inMemoryDispatcher is a simple synchronous dispatcher.
type inMemoryDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{
		listeners: make(map[EventType][]EventHandler),
	}
}

// Publish synchronously invokes handlers for the given event.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	for _, handler := range handlers {
		// A failing handler never blocks the others.
		_ = handler(ctx, event)
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// EventChannel is the Redis channel domain events are published on.
const EventChannel = "complaint-service:events"

// redisDispatcher fans events out to in-process handlers and, best effort,
// to a Redis channel for external consumers.
type redisDispatcher struct {
	local  Dispatcher
	client *redis.Client
}

// NewRedisDispatcher wraps the in-memory dispatcher with Redis pub/sub
// fan-out. A nil client degrades to local-only dispatch.
func NewRedisDispatcher(client *redis.Client) Dispatcher {
	return &redisDispatcher{
		local:  NewInMemoryDispatcher(),
		client: client,
	}
}

func (d *redisDispatcher) Publish(ctx context.Context, event Event) error {
	if d.client != nil {
		if data, err := json.Marshal(event); err == nil {
			// Delivery to external subscribers is best effort.
			_ = d.client.Publish(ctx, EventChannel, data).Err()
		}
	}
	return d.local.Publish(ctx, event)
}

func (d *redisDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.local.Subscribe(eventType, handler)
}
