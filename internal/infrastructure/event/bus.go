package event

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/sealshop/backend/internal/domain/shared"
)

// InMemoryEventBus dispatches domain events synchronously to all handlers
// registered for the event type. Handler failures are logged and do not
// stop delivery to the remaining handlers.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	logger   *zap.Logger
}

func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		handlers: make(map[string][]shared.EventHandler),
		logger:   logger,
	}
}

func (b *InMemoryEventBus) Subscribe(eventType string, handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, evt := range events {
		b.mu.RLock()
		handlers := append([]shared.EventHandler(nil), b.handlers[evt.GetEventType()]...)
		b.mu.RUnlock()

		for _, handler := range handlers {
			if err := b.dispatch(ctx, handler, evt); err != nil {
				b.logger.Error("event handler failed",
					zap.String("event_type", evt.GetEventType()),
					zap.String("aggregate_id", evt.GetAggregateID().String()),
					zap.Error(err))
			}
		}
	}
	return nil
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, evt shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event_type", evt.GetEventType()),
				zap.Any("panic", r))
		}
	}()
	return handler.Handle(ctx, evt)
}
