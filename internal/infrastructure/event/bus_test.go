package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sealshop/backend/internal/domain/shared"
)

func TestInMemoryEventBus(t *testing.T) {
	ctx := context.Background()
	evt := shared.NewBaseDomainEvent("inventory.batch.received", uuid.New())

	t.Run("delivers to subscribed handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())

		var got []string
		bus.Subscribe("inventory.batch.received", shared.EventHandlerFunc(func(_ context.Context, e shared.DomainEvent) error {
			got = append(got, e.GetEventType())
			return nil
		}))

		require.NoError(t, bus.Publish(ctx, evt))
		assert.Equal(t, []string{"inventory.batch.received"}, got)
	})

	t.Run("ignores events with no handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		assert.NoError(t, bus.Publish(ctx, evt))
	})

	t.Run("handler error is logged and does not stop delivery", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())

		delivered := 0
		bus.Subscribe("inventory.batch.received", shared.EventHandlerFunc(func(context.Context, shared.DomainEvent) error {
			return errors.New("boom")
		}))
		bus.Subscribe("inventory.batch.received", shared.EventHandlerFunc(func(context.Context, shared.DomainEvent) error {
			delivered++
			return nil
		}))

		require.NoError(t, bus.Publish(ctx, evt))
		assert.Equal(t, 1, delivered)
	})

	t.Run("handler panic is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())

		delivered := 0
		bus.Subscribe("inventory.batch.received", shared.EventHandlerFunc(func(context.Context, shared.DomainEvent) error {
			panic("handler bug")
		}))
		bus.Subscribe("inventory.batch.received", shared.EventHandlerFunc(func(context.Context, shared.DomainEvent) error {
			delivered++
			return nil
		}))

		require.NoError(t, bus.Publish(ctx, evt))
		assert.Equal(t, 1, delivered)
	})
}
