package budget

import (
	"context"
	"testing"
	"time"

	"github.com/fintrack/fintrack/internal/money"
	"github.com/fintrack/fintrack/internal/utils"
	"github.com/fintrack/fintrack/pkg/transaction"
	"github.com/fintrack/fintrack/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = user.WithUser(context.Background(), user.User{Id: 1, Username: "test_user"})

var repoStub = NewStubRepo()
var ledgerStub = transaction.NewStubRepo()

var service Service
var clock *utils.MockClock

func setup(t *testing.T) func() {
	clock = &utils.MockClock{FixedNow: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)}
	service = NewService(repoStub, ledgerStub, clock)
	return func() {
		t.Log("Teardown after test")
		repoStub.Cleanup()
		ledgerStub.Cleanup()
	}
}

func spend(t *testing.T, category string, amount int64) {
	t.Helper()
	_, err := ledgerStub.Store(context.Background(), 1, transaction.Transaction{
		Kind:       transaction.KindExpense,
		Amount:     money.Cents(amount),
		Category:   category,
		OccurredAt: time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
}

func TestServiceImpl_Set(t *testing.T) {
	t.Run("should create a budget with a default monthly period", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, isNew, err := service.Set(ctx, Budget{Category: "Food", Limit: 100000})

		// then
		assert.NoError(t, err)
		assert.True(t, isNew)
		assert.NotZero(t, created.Id)
		assert.Equal(t, PeriodMonthly, created.Period)
	})

	t.Run("should update the limit when the category differs only by case", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		original, _, err := service.Set(ctx, Budget{Category: "Food", Limit: 100000})
		require.NoError(t, err)

		// when
		updated, isNew, err := service.Set(ctx, Budget{Category: "food", Limit: 150000})

		// then
		assert.NoError(t, err)
		assert.False(t, isNew)
		assert.Equal(t, original.Id, updated.Id)
		assert.Equal(t, "Food", updated.Category)
		assert.EqualValues(t, 150000, updated.Limit)

		all, err := service.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("should reject an empty category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, _, err := service.Set(ctx, Budget{Category: "   ", Limit: 100000})

		// then
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("should reject a non-positive limit", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, _, err := service.Set(ctx, Budget{Category: "Food", Limit: 0})

		// then
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("should reject an unknown period", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, _, err := service.Set(ctx, Budget{Category: "Food", Limit: 100000, Period: "yearly"})

		// then
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, _, err := service.Set(context.Background(), Budget{Category: "Food", Limit: 100000})

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_Alerts(t *testing.T) {
	t.Run("should alert on an overspent budget", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, _, err := service.Set(ctx, Budget{Category: "Food", Limit: 100000})
		require.NoError(t, err)
		spend(t, "Food", 105000)

		// when
		alerts, err := service.Alerts(ctx)

		// then
		assert.NoError(t, err)
		require.Len(t, alerts, 1)
		assert.Equal(t, "Food", alerts[0].Category)
		assert.EqualValues(t, 105000, alerts[0].Spent)
		assert.EqualValues(t, 100000, alerts[0].Limit)
		assert.Equal(t, 105, alerts[0].Percentage)
		assert.Equal(t, "Over budget!", alerts[0].Alert)
	})

	t.Run("should distinguish the almost-reached and approaching messages", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, _, err := service.Set(ctx, Budget{Category: "Food", Limit: 100000})
		require.NoError(t, err)
		_, _, err = service.Set(ctx, Budget{Category: "Travel", Limit: 200000})
		require.NoError(t, err)
		spend(t, "Food", 95000)
		spend(t, "Travel", 170000)

		// when
		alerts, err := service.Alerts(ctx)

		// then
		assert.NoError(t, err)
		require.Len(t, alerts, 2)
		byCategory := map[string]Alert{}
		for _, a := range alerts {
			byCategory[a.Category] = a
		}
		assert.Equal(t, "Almost reached budget limit", byCategory["Food"].Alert)
		assert.Equal(t, 95, byCategory["Food"].Percentage)
		assert.Equal(t, "Approaching budget limit", byCategory["Travel"].Alert)
		assert.Equal(t, 85, byCategory["Travel"].Percentage)
	})

	t.Run("should stay silent below the threshold", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, _, err := service.Set(ctx, Budget{Category: "Travel", Limit: 200000})
		require.NoError(t, err)
		spend(t, "Travel", 20000)

		// when
		alerts, err := service.Alerts(ctx)

		// then
		assert.NoError(t, err)
		assert.Empty(t, alerts)
	})

	t.Run("should match transaction categories case-insensitively", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, _, err := service.Set(ctx, Budget{Category: "Food", Limit: 100000})
		require.NoError(t, err)
		spend(t, "food", 60000)
		spend(t, "FOOD", 45000)

		// when
		alerts, err := service.Alerts(ctx)

		// then
		assert.NoError(t, err)
		require.Len(t, alerts, 1)
		assert.EqualValues(t, 105000, alerts[0].Spent)
	})

	t.Run("should ignore spend outside the current month", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, _, err := service.Set(ctx, Budget{Category: "Food", Limit: 100000})
		require.NoError(t, err)
		_, err = ledgerStub.Store(context.Background(), 1, transaction.Transaction{
			Kind:       transaction.KindExpense,
			Amount:     money.Cents(105000),
			Category:   "Food",
			OccurredAt: time.Date(2026, 7, 28, 12, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		// when
		alerts, err := service.Alerts(ctx)

		// then
		assert.NoError(t, err)
		assert.Empty(t, alerts)
	})
}

func TestServiceImpl_Summary(t *testing.T) {
	t.Run("should report remaining and status per budget", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, _, err := service.Set(ctx, Budget{Category: "Food", Limit: 100000})
		require.NoError(t, err)
		_, _, err = service.Set(ctx, Budget{Category: "Travel", Limit: 200000})
		require.NoError(t, err)
		spend(t, "Food", 120000)
		spend(t, "Travel", 50000)

		// when
		summary, err := service.Summary(ctx)

		// then
		assert.NoError(t, err)
		require.Len(t, summary, 2)
		byCategory := map[string]CategorySummary{}
		for _, cs := range summary {
			byCategory[cs.Category] = cs
		}

		food := byCategory["Food"]
		assert.Equal(t, "over_budget", food.Status)
		assert.EqualValues(t, 0, food.Remaining)
		assert.Equal(t, 120, food.Percentage)

		travel := byCategory["Travel"]
		assert.Equal(t, "under_budget", travel.Status)
		assert.EqualValues(t, 150000, travel.Remaining)
		assert.Equal(t, 25, travel.Percentage)
	})

	t.Run("should report over_budget at exactly the limit", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, _, err := service.Set(ctx, Budget{Category: "Food", Limit: 100000})
		require.NoError(t, err)
		spend(t, "Food", 100000)

		// when
		summary, err := service.Summary(ctx)

		// then
		assert.NoError(t, err)
		require.Len(t, summary, 1)
		assert.Equal(t, "over_budget", summary[0].Status)
		assert.EqualValues(t, 0, summary[0].Remaining)
		assert.Equal(t, 100, summary[0].Percentage)
	})
}
