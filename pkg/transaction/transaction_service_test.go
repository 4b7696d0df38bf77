package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/fintrack/fintrack/internal/eventbus"
	"github.com/fintrack/fintrack/internal/utils"
	"github.com/fintrack/fintrack/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = user.WithUser(context.Background(), user.User{Id: 1, Username: "test_user"})

var repoStub = NewStubRepo()

var service Service
var bus *eventbus.EventBus
var clock *utils.MockClock

func setup(t *testing.T) func() {
	bus = eventbus.NewEventBus()
	clock = &utils.MockClock{FixedNow: time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)}
	service = NewService(repoStub, bus, clock)
	return func() {
		t.Log("Teardown after test")
		repoStub.Cleanup()
	}
}

func TestServiceImpl_Add(t *testing.T) {
	t.Run("should store a transaction successfully", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		stored, err := service.Add(ctx, Transaction{
			Kind:       KindExpense,
			Amount:     2500,
			Category:   "  Food  ",
			OccurredAt: time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC),
		})

		// then
		assert.NoError(t, err)
		assert.NotZero(t, stored.Id)
		assert.Equal(t, "Food", stored.Category)

		all, err := service.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("should default the date to now when missing", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		stored, err := service.Add(ctx, Transaction{Kind: KindIncome, Amount: 100000, Category: "Salary"})

		// then
		assert.NoError(t, err)
		assert.Equal(t, clock.FixedNow, stored.OccurredAt)
	})

	t.Run("should publish a created event", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		var received []eventbus.TransactionCreated
		eventbus.SubscribeTyped[eventbus.TransactionCreated](bus, eventbus.TransactionCreatedType,
			func(e eventbus.EventT[eventbus.TransactionCreated]) error {
				received = append(received, e.Data)
				return nil
			})

		// when
		stored, err := service.Add(ctx, Transaction{Kind: KindExpense, Amount: 2500, Category: "Food"})

		// then
		require.NoError(t, err)
		require.Len(t, received, 1)
		assert.Equal(t, stored.Id, received[0].Id)
		assert.Equal(t, "expense", received[0].Kind)
		assert.Equal(t, "Food", received[0].Category)
		assert.Equal(t, int64(2500), received[0].AmountCents)
	})

	t.Run("should reject an invalid transaction", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Add(ctx, Transaction{Kind: "transfer", Amount: 2500, Category: "Food"})

		// then
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Add(context.Background(), Transaction{Kind: KindExpense, Amount: 2500, Category: "Food"})

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_List(t *testing.T) {
	t.Run("should list transactions newest first", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		older, err := service.Add(ctx, Transaction{
			Kind: KindExpense, Amount: 1000, Category: "Food",
			OccurredAt: time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		newer, err := service.Add(ctx, Transaction{
			Kind: KindExpense, Amount: 2000, Category: "Travel",
			OccurredAt: time.Date(2026, 8, 12, 8, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		// when
		all, err := service.List(ctx)

		// then
		assert.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, newer.Id, all[0].Id)
		assert.Equal(t, older.Id, all[1].Id)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should delete an owned transaction", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		stored, err := service.Add(ctx, Transaction{Kind: KindExpense, Amount: 1000, Category: "Food"})
		require.NoError(t, err)

		// when
		deleted, err := service.Delete(ctx, stored.Id)

		// then
		assert.NoError(t, err)
		assert.True(t, deleted)

		all, _ := service.List(ctx)
		assert.Empty(t, all)
	})

	t.Run("should report false for an unknown transaction", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		deleted, err := service.Delete(ctx, 42)

		// then
		assert.NoError(t, err)
		assert.False(t, deleted)
	})
}
