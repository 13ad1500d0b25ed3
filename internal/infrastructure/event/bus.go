package event

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrBusNotRunning is returned when publishing before Start or after Stop
var ErrBusNotRunning = errors.New("event bus is not running")

// DefaultHandlerTimeout bounds a single handler invocation
const DefaultHandlerTimeout = 30 * time.Second

// AsyncEventBus delivers each event to its handlers on separate goroutines.
// Publish returns immediately; handler failures are logged and never reach the publisher.
type AsyncEventBus struct {
	registry       *HandlerRegistry
	logger         *zap.Logger
	handlerTimeout time.Duration

	mu      sync.RWMutex
	running bool
	wg      sync.WaitGroup
}

// NewAsyncEventBus creates a new event bus; a zero handlerTimeout uses DefaultHandlerTimeout
func NewAsyncEventBus(logger *zap.Logger, handlerTimeout time.Duration) *AsyncEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	if handlerTimeout <= 0 {
		handlerTimeout = DefaultHandlerTimeout
	}
	return &AsyncEventBus{
		registry:       NewHandlerRegistry(),
		logger:         logger.Named("event_bus"),
		handlerTimeout: handlerTimeout,
	}
}

// Publish schedules delivery of events to every subscribed handler.
// Handlers run detached from ctx cancellation so a finished request does not abort them.
func (b *AsyncEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.running {
		return ErrBusNotRunning
	}

	detached := context.WithoutCancel(ctx)
	for _, event := range events {
		for _, handler := range b.registry.GetHandlers(event.EventType()) {
			b.wg.Add(1)
			go b.dispatch(detached, handler, event)
		}
	}
	return nil
}

// Subscribe registers a handler for specific event types
func (b *AsyncEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *AsyncEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start starts accepting events
func (b *AsyncEventBus) Start(_ context.Context) error {
	b.mu.Lock()
	b.running = true
	b.mu.Unlock()
	b.logger.Info("event bus started")
	return nil
}

// Stop stops accepting events and waits for in-flight handlers or ctx expiry
func (b *AsyncEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	b.running = false
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		b.logger.Warn("event bus stopped with handlers still running")
		return ctx.Err()
	}
}

func (b *AsyncEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) {
	defer b.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.Any("panic", r),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, b.handlerTimeout)
	defer cancel()

	if err := handler.Handle(ctx, event); err != nil {
		b.logger.Error("handler failed to process event",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.Error(err),
		)
	}
}

var _ shared.EventBus = (*AsyncEventBus)(nil)
