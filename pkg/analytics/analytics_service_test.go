package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fintrack/fintrack/internal/money"
	"github.com/fintrack/fintrack/internal/utils"
	"github.com/fintrack/fintrack/pkg/budget"
	"github.com/fintrack/fintrack/pkg/transaction"
	"github.com/fintrack/fintrack/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = user.WithUser(context.Background(), user.User{Id: 1, Username: "test_user"})

var ledgerStub = transaction.NewStubRepo()
var budgetsStub = budget.NewStubRepo()

var service Service
var clock *utils.MockClock

func setup(t *testing.T) func() {
	clock = &utils.MockClock{FixedNow: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)}
	service = NewService(ledgerStub, budgetsStub, clock)
	return func() {
		t.Log("Teardown after test")
		ledgerStub.Cleanup()
		budgetsStub.Cleanup()
	}
}

func store(t *testing.T, kind transaction.Kind, category string, amount int64, occurredAt time.Time) {
	t.Helper()
	_, err := ledgerStub.Store(context.Background(), 1, transaction.Transaction{
		Kind:       kind,
		Amount:     money.Cents(amount),
		Category:   category,
		OccurredAt: occurredAt,
	})
	require.NoError(t, err)
}

func setBudget(t *testing.T, category string, limit int64) {
	t.Helper()
	_, err := budgetsStub.Store(context.Background(), 1, budget.Budget{
		Category: category,
		Limit:    money.Cents(limit),
		Period:   budget.PeriodMonthly,
	})
	require.NoError(t, err)
}

func TestServiceImpl_ExpenseDistribution(t *testing.T) {
	t.Run("should group this month's expenses by category, largest first", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		august := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
		store(t, transaction.KindExpense, "Food", 3000, august)
		store(t, transaction.KindExpense, "Food", 2000, august)
		store(t, transaction.KindExpense, "Travel", 8000, august)
		store(t, transaction.KindIncome, "Salary", 500000, august)
		store(t, transaction.KindExpense, "Food", 9999, time.Date(2026, 7, 20, 12, 0, 0, 0, time.UTC))

		// when
		distribution, err := service.ExpenseDistribution(ctx)

		// then
		assert.NoError(t, err)
		assert.Equal(t, []string{"Travel", "Food"}, distribution.Labels)
		assert.Equal(t, []money.Cents{8000, 5000}, distribution.Values)
	})

	t.Run("should return empty distribution without transactions", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		distribution, err := service.ExpenseDistribution(ctx)

		// then
		assert.NoError(t, err)
		assert.Empty(t, distribution.Labels)
		assert.Empty(t, distribution.Values)
	})
}

func TestServiceImpl_MonthlyTrend(t *testing.T) {
	t.Run("should cover the last six months oldest first with zero gaps", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		store(t, transaction.KindIncome, "Salary", 500000, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
		store(t, transaction.KindExpense, "Rent", 40000, time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC))
		store(t, transaction.KindExpense, "Food", 5000, time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC))
		// too old to appear
		store(t, transaction.KindExpense, "Food", 7777, time.Date(2026, 2, 15, 9, 0, 0, 0, time.UTC))

		// when
		trend, err := service.MonthlyTrend(ctx)

		// then
		assert.NoError(t, err)
		require.Len(t, trend, TrendMonths)

		assert.Equal(t, time.March, trend[0].Month.Month())
		assert.EqualValues(t, 500000, trend[0].Income)
		assert.EqualValues(t, 40000, trend[0].Expenses)

		for i := 1; i < 5; i++ {
			assert.EqualValues(t, 0, trend[i].Income, "month %d", i)
			assert.EqualValues(t, 0, trend[i].Expenses, "month %d", i)
		}

		assert.Equal(t, time.August, trend[5].Month.Month())
		assert.EqualValues(t, 0, trend[5].Income)
		assert.EqualValues(t, 5000, trend[5].Expenses)
	})
}

func TestServiceImpl_BudgetComparison(t *testing.T) {
	t.Run("should pair each budget with its actual spend ignoring category case", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		setBudget(t, "Food", 100000)
		setBudget(t, "Travel", 200000)
		august := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
		store(t, transaction.KindExpense, "food", 30000, august)
		store(t, transaction.KindExpense, "FOOD", 20000, august)

		// when
		comparison, err := service.BudgetComparison(ctx)

		// then
		assert.NoError(t, err)
		assert.Equal(t, []string{"Food", "Travel"}, comparison.Categories)
		assert.Equal(t, []money.Cents{100000, 200000}, comparison.Budget)
		assert.Equal(t, []money.Cents{50000, 0}, comparison.Actual)
	})
}

func TestServiceImpl_GenerateInsights(t *testing.T) {
	t.Run("should classify budgets and compute the score", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		setBudget(t, "Food", 100000)   // spent 105000 -> overspent
		setBudget(t, "Travel", 200000) // spent 170000 -> 85%
		setBudget(t, "Fun", 50000)     // spent 10000  -> 20%
		setBudget(t, "Misc", 60000)    // spent 40000  -> middle ground, no recommendation
		august := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
		store(t, transaction.KindExpense, "Food", 105000, august)
		store(t, transaction.KindExpense, "Travel", 170000, august)
		store(t, transaction.KindExpense, "Fun", 10000, august)
		store(t, transaction.KindExpense, "Misc", 40000, august)

		// when
		insights, err := service.GenerateInsights(ctx)

		// then
		assert.NoError(t, err)
		require.Len(t, insights.Recommendations, 3)

		byCategory := map[string]Recommendation{}
		for _, r := range insights.Recommendations {
			byCategory[r.Category] = r
		}

		food := byCategory["Food"]
		assert.Equal(t, PriorityHigh, food.Priority)
		assert.Equal(t, "You overspent by 50.00", food.Message)
		assert.Equal(t, "Reduce unnecessary expenses in this category", food.Suggestion)

		travel := byCategory["Travel"]
		assert.Equal(t, PriorityMedium, travel.Priority)
		assert.Equal(t, "You've used 85% of your budget", travel.Message)

		fun := byCategory["Fun"]
		assert.Equal(t, PriorityLow, fun.Priority)
		assert.Equal(t, "Good job staying well under budget", fun.Message)

		// one overspent budget by 50.00, one of four budgets well under
		assert.EqualValues(t, 50, insights.TotalSaved)
		assert.Equal(t, 25, insights.ImprovementScore)
	})

	t.Run("should return zero score without budgets", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		insights, err := service.GenerateInsights(ctx)

		// then
		assert.NoError(t, err)
		assert.Empty(t, insights.Recommendations)
		assert.EqualValues(t, 0, insights.TotalSaved)
		assert.Equal(t, 0, insights.ImprovementScore)
	})

	t.Run("should score 100 when every budget is well under", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		setBudget(t, "Food", 100000)
		setBudget(t, "Travel", 200000)

		// when
		insights, err := service.GenerateInsights(ctx)

		// then
		assert.NoError(t, err)
		assert.Len(t, insights.Recommendations, 2)
		assert.Equal(t, 100, insights.ImprovementScore)
	})
}

func TestServiceImpl_MonthlyReport(t *testing.T) {
	t.Run("should summarize the month with a rounded savings rate", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		august := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
		store(t, transaction.KindIncome, "Salary", 300000, august)
		store(t, transaction.KindExpense, "Rent", 60000, august)
		store(t, transaction.KindExpense, "Food", 40000, august)

		// when
		report, err := service.MonthlyReport(ctx, august)

		// then
		assert.NoError(t, err)
		assert.Equal(t, "August", report.Month)
		assert.Equal(t, 2026, report.Year)
		assert.EqualValues(t, 300000, report.TotalIncome)
		assert.EqualValues(t, 100000, report.TotalExpenses)
		assert.EqualValues(t, 200000, report.NetSavings)
		assert.InDelta(t, 66.67, report.SavingsRate, 0.001)

		require.Len(t, report.TopCategories, 2)
		assert.Equal(t, ReportCategory{Name: "Rent", Amount: 60000, Percentage: 60}, report.TopCategories[0])
		assert.Equal(t, ReportCategory{Name: "Food", Amount: 40000, Percentage: 40}, report.TopCategories[1])
	})

	t.Run("should cap the top categories at five", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		august := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
		for i := 1; i <= 7; i++ {
			store(t, transaction.KindExpense, fmt.Sprintf("Category %d", i), int64(i)*1000, august)
		}

		// when
		report, err := service.MonthlyReport(ctx, august)

		// then
		assert.NoError(t, err)
		require.Len(t, report.TopCategories, TopCategoriesLimit)
		assert.Equal(t, "Category 7", report.TopCategories[0].Name)
		assert.Equal(t, "Category 3", report.TopCategories[4].Name)
	})

	t.Run("should report zeros for a month without activity", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		report, err := service.MonthlyReport(ctx, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))

		// then
		assert.NoError(t, err)
		assert.Equal(t, "February", report.Month)
		assert.EqualValues(t, 0, report.TotalIncome)
		assert.EqualValues(t, 0, report.TotalExpenses)
		assert.EqualValues(t, 0, report.NetSavings)
		assert.Equal(t, 0.0, report.SavingsRate)
		assert.Empty(t, report.TopCategories)
	})

	t.Run("should include spend on the last instant of the month", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		store(t, transaction.KindExpense, "Food", 1000, time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC))
		store(t, transaction.KindExpense, "Food", 2000, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))

		// when
		report, err := service.MonthlyReport(ctx, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC))

		// then
		assert.NoError(t, err)
		assert.EqualValues(t, 1000, report.TotalExpenses)
	})
}
