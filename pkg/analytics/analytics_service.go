package analytics

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fintrack/fintrack/internal/money"
	"github.com/fintrack/fintrack/internal/utils"
	"github.com/fintrack/fintrack/pkg/budget"
	"github.com/fintrack/fintrack/pkg/transaction"
	"github.com/fintrack/fintrack/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	ExpenseDistribution(ctx context.Context) (ExpenseDistribution, error)
	MonthlyTrend(ctx context.Context) ([]TrendPoint, error)
	BudgetComparison(ctx context.Context) (BudgetComparison, error)
	GenerateInsights(ctx context.Context) (Insights, error)
	MonthlyReport(ctx context.Context, reference time.Time) (Report, error)
}

type ServiceImpl struct {
	ledger  transaction.Aggregator
	budgets budget.Repo
	clock   utils.Clock
}

func NewService(ledger transaction.Aggregator, budgets budget.Repo, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{ledger: ledger, budgets: budgets, clock: clock}
}

// ExpenseDistribution returns this month's expense totals grouped by
// category, largest first.
func (s *ServiceImpl) ExpenseDistribution(ctx context.Context) (ExpenseDistribution, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return ExpenseDistribution{}, fmt.Errorf("failed to get current user: %w", err)
	}

	from, to := currentMonthWindow(s.clock.Now())
	totals, err := s.ledger.SumByCategory(ctx, userId, transaction.KindExpense, from, to)
	if err != nil {
		return ExpenseDistribution{}, err
	}

	distribution := ExpenseDistribution{
		Labels: make([]string, 0, len(totals)),
		Values: make([]money.Cents, 0, len(totals)),
	}
	for _, ct := range totals {
		distribution.Labels = append(distribution.Labels, ct.Category)
		distribution.Values = append(distribution.Values, ct.Total)
	}
	return distribution, nil
}

// MonthlyTrend returns income and expense totals for the last TrendMonths
// calendar months, oldest first. Months with no activity are present with
// zero totals.
func (s *ServiceImpl) MonthlyTrend(ctx context.Context) ([]TrendPoint, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	now := s.clock.Now()
	oldestStart := time.Date(now.Year(), now.Month()-TrendMonths+1, 1, 0, 0, 0, 0, now.Location())
	_, currentEnd := monthWindow(now)

	totals, err := s.ledger.MonthlyTotals(ctx, userId, oldestStart, currentEnd)
	if err != nil {
		return nil, err
	}

	type monthKey struct {
		year  int
		month time.Month
	}
	income := map[monthKey]money.Cents{}
	expenses := map[monthKey]money.Cents{}
	for _, mt := range totals {
		key := monthKey{mt.Month.Year(), mt.Month.Month()}
		switch mt.Kind {
		case transaction.KindIncome:
			income[key] += mt.Total
		case transaction.KindExpense:
			expenses[key] += mt.Total
		}
	}

	trend := make([]TrendPoint, 0, TrendMonths)
	for i := TrendMonths - 1; i >= 0; i-- {
		month := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		key := monthKey{month.Year(), month.Month()}
		trend = append(trend, TrendPoint{
			Month:    month,
			Income:   income[key],
			Expenses: expenses[key],
		})
	}
	return trend, nil
}

// BudgetComparison returns limit and actual current-month spend per budget.
func (s *ServiceImpl) BudgetComparison(ctx context.Context) (BudgetComparison, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return BudgetComparison{}, fmt.Errorf("failed to get current user: %w", err)
	}

	budgets, err := s.budgets.FindAll(ctx, userId)
	if err != nil {
		return BudgetComparison{}, err
	}
	spentByCategory, err := s.currentMonthSpend(ctx, userId)
	if err != nil {
		return BudgetComparison{}, err
	}

	comparison := BudgetComparison{
		Categories: make([]string, 0, len(budgets)),
		Budget:     make([]money.Cents, 0, len(budgets)),
		Actual:     make([]money.Cents, 0, len(budgets)),
	}
	for _, b := range budgets {
		comparison.Categories = append(comparison.Categories, b.Category)
		comparison.Budget = append(comparison.Budget, b.Limit)
		comparison.Actual = append(comparison.Actual, spentByCategory[strings.ToLower(b.Category)])
	}
	return comparison, nil
}

// GenerateInsights classifies every budget against its current-month spend
// and produces recommendations, the total potential savings, and the
// improvement score. First matching rule wins: overspent, then approaching
// the limit, then well under budget; budgets in between produce nothing.
func (s *ServiceImpl) GenerateInsights(ctx context.Context) (Insights, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Insights{}, fmt.Errorf("failed to get current user: %w", err)
	}

	budgets, err := s.budgets.FindAll(ctx, userId)
	if err != nil {
		return Insights{}, err
	}
	spentByCategory, err := s.currentMonthSpend(ctx, userId)
	if err != nil {
		return Insights{}, err
	}

	recommendations := make([]Recommendation, 0, len(budgets))
	var totalSaved money.Cents
	wellUnder := 0

	for _, b := range budgets {
		spent := spentByCategory[strings.ToLower(b.Category)]
		percentage := float64(spent) / float64(b.Limit) * 100

		switch {
		case spent > b.Limit:
			overspent := spent - b.Limit
			totalSaved += overspent
			recommendations = append(recommendations, Recommendation{
				Category:   b.Category,
				Message:    fmt.Sprintf("You overspent by %.2f", overspent.Units()),
				Suggestion: "Reduce unnecessary expenses in this category",
				Priority:   PriorityHigh,
			})
		case percentage > budget.ApproachingLimitPct:
			recommendations = append(recommendations, Recommendation{
				Category:   b.Category,
				Message:    fmt.Sprintf("You've used %d%% of your budget", int(math.Round(percentage))),
				Suggestion: "Be careful with spending this month",
				Priority:   PriorityMedium,
			})
		case percentage < budget.WellUnderBudgetPct:
			wellUnder++
			recommendations = append(recommendations, Recommendation{
				Category:   b.Category,
				Message:    "Good job staying well under budget",
				Suggestion: "Consider allocating funds to other categories",
				Priority:   PriorityLow,
			})
		}
	}

	improvementScore := 0
	if len(budgets) > 0 {
		improvementScore = int(math.Round(float64(wellUnder) / float64(len(budgets)) * 100))
	}

	log.Debugf("generated %d recommendations for user %d (score %d)",
		len(recommendations), userId, improvementScore)

	return Insights{
		Recommendations:  recommendations,
		TotalSaved:       totalSaved.RoundToUnits(),
		ImprovementScore: improvementScore,
	}, nil
}

// MonthlyReport builds the income/expense/savings summary for the calendar
// month containing reference.
func (s *ServiceImpl) MonthlyReport(ctx context.Context, reference time.Time) (Report, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to get current user: %w", err)
	}

	from, to := monthWindow(reference)

	totalIncome, err := s.ledger.SumTotal(ctx, userId, transaction.KindIncome, from, to)
	if err != nil {
		return Report{}, err
	}
	totalExpenses, err := s.ledger.SumTotal(ctx, userId, transaction.KindExpense, from, to)
	if err != nil {
		return Report{}, err
	}
	byCategory, err := s.ledger.SumByCategory(ctx, userId, transaction.KindExpense, from, to)
	if err != nil {
		return Report{}, err
	}

	netSavings := totalIncome - totalExpenses
	savingsRate := 0.0
	if totalIncome > 0 {
		savingsRate = math.Round(float64(netSavings)/float64(totalIncome)*100*100) / 100
	}

	if len(byCategory) > TopCategoriesLimit {
		byCategory = byCategory[:TopCategoriesLimit]
	}
	topCategories := make([]ReportCategory, 0, len(byCategory))
	for _, ct := range byCategory {
		percentage := 0
		if totalExpenses > 0 {
			percentage = int(math.Round(float64(ct.Total) / float64(totalExpenses) * 100))
		}
		topCategories = append(topCategories, ReportCategory{
			Name:       ct.Category,
			Amount:     ct.Total,
			Percentage: percentage,
		})
	}

	return Report{
		Month:         reference.Month().String(),
		Year:          reference.Year(),
		TotalIncome:   totalIncome,
		TotalExpenses: totalExpenses,
		NetSavings:    netSavings,
		SavingsRate:   savingsRate,
		TopCategories: topCategories,
	}, nil
}

// currentMonthSpend is the single batched expense aggregation every
// budget-joining view shares, keyed by lowercased category so budgets match
// transactions regardless of how the category was capitalized.
func (s *ServiceImpl) currentMonthSpend(ctx context.Context, userId int) (map[string]money.Cents, error) {
	from, to := currentMonthWindow(s.clock.Now())
	totals, err := s.ledger.SumByCategory(ctx, userId, transaction.KindExpense, from, to)
	if err != nil {
		return nil, err
	}
	spent := make(map[string]money.Cents, len(totals))
	for _, ct := range totals {
		spent[strings.ToLower(ct.Category)] += ct.Total
	}
	return spent, nil
}
