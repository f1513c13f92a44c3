package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"sync"

	"github.com/sglre6355/jukebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/jukebot/internal/modules/music_player/domain"
)

// DefaultEventBufferSize is the default buffer size for event channels.
const DefaultEventBufferSize = 100

var (
	// ErrEventBusClosed is returned when publishing or subscribing after Close.
	ErrEventBusClosed = errors.New("event bus closed")
	// ErrEventBufferFull is returned when an event is dropped because its buffer is full.
	ErrEventBufferFull = errors.New("event buffer full")
)

// Compile-time checks that ChannelEventBus implements ports interfaces.
var (
	_ ports.EventPublisher  = (*ChannelEventBus)(nil)
	_ ports.EventSubscriber = (*ChannelEventBus)(nil)
)

// topic holds the delivery channel and handlers for one event type.
type topic struct {
	events   chan domain.Event
	handlers []func(context.Context, domain.Event)
}

// ChannelEventBus provides a channel-based event bus for async event handling.
// Each event type gets its own buffered channel and dispatcher goroutine, so
// events of one type are delivered in publish order.
type ChannelEventBus struct {
	bufferSize int
	topics     map[reflect.Type]*topic

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	mu     sync.RWMutex
}

// NewChannelEventBus creates a new ChannelEventBus with the given buffer size.
func NewChannelEventBus(bufferSize int) *ChannelEventBus {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &ChannelEventBus{
		bufferSize: bufferSize,
		topics:     make(map[reflect.Type]*topic),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Subscribe registers a handler for events of the given type.
// The dispatcher for a type starts with its first subscription.
func (b *ChannelEventBus) Subscribe(
	eventType reflect.Type,
	handler func(context.Context, domain.Event),
) error {
	if eventType == nil || handler == nil {
		return errors.New("event type and handler are required")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrEventBusClosed
	}

	t, ok := b.topics[eventType]
	if !ok {
		t = &topic{events: make(chan domain.Event, b.bufferSize)}
		b.topics[eventType] = t

		b.wg.Add(1)
		go b.dispatch(eventType, t)
	}
	t.handlers = append(t.handlers, handler)

	return nil
}

// Publish queues the event for its subscribers.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
// Events without subscribers are discarded.
func (b *ChannelEventBus) Publish(event domain.Event) error {
	if event == nil {
		return errors.New("event is nil")
	}
	eventType := reflect.TypeOf(event)

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", eventType.Name())
		return ErrEventBusClosed
	}

	t, ok := b.topics[eventType]
	if !ok {
		slog.Debug("no subscribers for event", "type", eventType.Name())
		return nil
	}

	select {
	case t.events <- event:
		slog.Debug("published event", "type", eventType.Name(), "guild", event.EventGuildID())
		return nil
	default:
		slog.Warn("event buffer full, dropping event",
			"type", eventType.Name(),
			"guild", event.EventGuildID(),
		)
		return ErrEventBufferFull
	}
}

func (b *ChannelEventBus) dispatch(eventType reflect.Type, t *topic) {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-t.events:
			if !ok {
				return
			}
			b.mu.RLock()
			handlers := t.handlers
			b.mu.RUnlock()
			for _, handler := range handlers {
				b.invoke(eventType, handler, event)
			}
		}
	}
}

// invoke runs a handler, keeping the dispatcher alive if it panics.
func (b *ChannelEventBus) invoke(
	eventType reflect.Type,
	handler func(context.Context, domain.Event),
	event domain.Event,
) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event handler panicked", "type", eventType.Name(), "panic", r)
		}
	}()
	handler(b.ctx, event)
}

// Close closes all event channels and stops dispatchers.
// After calling Close, publishing will no longer send events.
func (b *ChannelEventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.cancel()

	b.mu.Lock()
	for _, t := range b.topics {
		close(t.events)
	}
	b.mu.Unlock()

	b.wg.Wait()

	slog.Debug("channel event bus closed")
}
