package events

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"
)

type subscription struct {
	id int
	fn Handler
}

// Bus delivers events synchronously to the handlers subscribed to their type.
// Handlers see events in publish order.
type Bus struct {
	mu       sync.Mutex
	versions map[string]int
	handlers map[string][]subscription
	nextID   int
}

func NewBus() *Bus {
	return &Bus{
		versions: make(map[string]int),
		handlers: make(map[string][]subscription),
	}
}

var _ Publisher = (*Bus)(nil)

// Subscribe registers fn for eventTypes and returns a function that removes it
func (b *Bus) Subscribe(fn Handler, eventTypes ...string) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	for _, eventType := range eventTypes {
		b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, fn: fn})
	}

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, eventType := range eventTypes {
			b.handlers[eventType] = slices.DeleteFunc(b.handlers[eventType], func(s subscription) bool {
				return s.id == id
			})
		}
	}
}

func (b *Bus) Publish(stream, eventType string, data any) error {
	if stream == "" {
		return fmt.Errorf("stream id cannot be empty")
	}

	b.mu.Lock()
	b.versions[stream]++
	event := Event{
		Type:    eventType,
		Stream:  stream,
		Data:    data,
		Time:    time.Now(),
		Version: b.versions[stream],
	}
	subs := slices.Clone(b.handlers[eventType])
	b.mu.Unlock()

	for _, s := range subs {
		if err := s.fn(event); err != nil {
			slog.Warn("event handler failed", "type", eventType, "stream", stream, "error", err)
		}
	}
	return nil
}
