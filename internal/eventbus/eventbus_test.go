package eventbus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testType EventType = "test.event"

func TestEventBus_Publish(t *testing.T) {
	t.Run("should deliver events in registration order on every publish", func(t *testing.T) {
		// given
		bus := NewEventBus()
		var order []int
		bus.Subscribe(testType, func(e Event) error {
			order = append(order, 1)
			return nil
		})
		bus.Subscribe(testType, func(e Event) error {
			order = append(order, 2)
			return nil
		})
		bus.Subscribe(testType, func(e Event) error {
			order = append(order, 3)
			return nil
		})

		// when
		const publishes = 50
		for i := 0; i < publishes; i++ {
			require.NoError(t, bus.Publish(NewEvent(context.Background(), testType, "payload")))
		}

		// then
		expected := make([]int, 0, 3*publishes)
		for i := 0; i < publishes; i++ {
			expected = append(expected, 1, 2, 3)
		}
		assert.Equal(t, expected, order)
	})

	t.Run("should collect handler errors without stopping delivery", func(t *testing.T) {
		// given
		bus := NewEventBus()
		bus.Subscribe(testType, func(e Event) error {
			return errors.New("first handler failed")
		})
		delivered := false
		bus.Subscribe(testType, func(e Event) error {
			delivered = true
			return nil
		})

		// when
		err := bus.Publish(NewEvent(context.Background(), testType, "payload"))

		// then
		assert.Error(t, err)
		assert.True(t, delivered)
	})

	t.Run("should recover from a panicking handler", func(t *testing.T) {
		// given
		bus := NewEventBus()
		bus.Subscribe(testType, func(e Event) error {
			panic("boom")
		})

		// when
		err := bus.Publish(NewEvent(context.Background(), testType, "payload"))

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("should skip delivery when the context is cancelled", func(t *testing.T) {
		// given
		bus := NewEventBus()
		delivered := false
		bus.Subscribe(testType, func(e Event) error {
			delivered = true
			return nil
		})
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		// when
		err := bus.Publish(NewEvent(cancelled, testType, "payload"))

		// then
		assert.Error(t, err)
		assert.False(t, delivered)
	})
}

func TestEventBus_Subscribe(t *testing.T) {
	t.Run("should stop delivering after unsubscribe", func(t *testing.T) {
		// given
		bus := NewEventBus()
		count := 0
		unsubscribe := bus.Subscribe(testType, func(e Event) error {
			count++
			return nil
		})

		require.NoError(t, bus.Publish(NewEvent(context.Background(), testType, "payload")))

		// when
		unsubscribe()
		require.NoError(t, bus.Publish(NewEvent(context.Background(), testType, "payload")))

		// then
		assert.Equal(t, 1, count)
	})
}

func TestSubscribeTyped(t *testing.T) {
	t.Run("should deliver payloads of the expected type", func(t *testing.T) {
		// given
		bus := NewEventBus()
		var received []TransactionCreated
		SubscribeTyped[TransactionCreated](bus, TransactionCreatedType,
			func(e EventT[TransactionCreated]) error {
				received = append(received, e.Data)
				return nil
			})

		// when
		err := bus.Publish(NewEvent(context.Background(), TransactionCreatedType,
			TransactionCreated{Id: 7, Kind: "expense", Category: "Food", AmountCents: 2500}))

		// then
		assert.NoError(t, err)
		require.Len(t, received, 1)
		assert.Equal(t, 7, received[0].Id)
	})

	t.Run("should skip payloads of a different type", func(t *testing.T) {
		// given
		bus := NewEventBus()
		delivered := false
		SubscribeTyped[TransactionCreated](bus, TransactionCreatedType,
			func(e EventT[TransactionCreated]) error {
				delivered = true
				return nil
			})

		// when
		err := bus.Publish(NewEvent(context.Background(), TransactionCreatedType, "not a struct"))

		// then
		assert.NoError(t, err)
		assert.False(t, delivered)
	})
}
