package shared

import "context"

// EventHandler handles a domain event
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
}

// EventHandlerFunc adapts a function to the EventHandler interface
type EventHandlerFunc func(ctx context.Context, event DomainEvent) error

func (f EventHandlerFunc) Handle(ctx context.Context, event DomainEvent) error {
	return f(ctx, event)
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus combines publishing with subscription
type EventBus interface {
	EventPublisher
	Subscribe(eventType string, handler EventHandler)
}
