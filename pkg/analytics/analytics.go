// Package analytics derives spending views from the ledger: the current-month
// expense distribution, a six-month income/expense trend, budget-vs-actual
// comparison, budget insights, and the monthly report.
package analytics

import (
	"time"

	"github.com/fintrack/fintrack/internal/money"
)

// TopCategoriesLimit caps the category breakdown in the monthly report.
const TopCategoriesLimit = 5

// TrendMonths is the number of calendar months covered by the monthly trend,
// the current month included.
const TrendMonths = 6

type ExpenseDistribution struct {
	Labels []string
	Values []money.Cents
}

type TrendPoint struct {
	Month    time.Time
	Income   money.Cents
	Expenses money.Cents
}

type BudgetComparison struct {
	Categories []string
	Budget     []money.Cents
	Actual     []money.Cents
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Recommendation struct {
	Category   string
	Message    string
	Suggestion string
	Priority   Priority
}

type Insights struct {
	Recommendations []Recommendation
	// TotalSaved is the summed overspend across all overspent budgets,
	// rounded to whole currency units: the amount the user would keep by
	// staying within every limit.
	TotalSaved int64
	// ImprovementScore is the share of budgets classified "well under
	// budget", as a percentage in [0,100]. 0 when there are no budgets.
	ImprovementScore int
}

type ReportCategory struct {
	Name       string
	Amount     money.Cents
	Percentage int
}

type Report struct {
	Month         string
	Year          int
	TotalIncome   money.Cents
	TotalExpenses money.Cents
	NetSavings    money.Cents
	SavingsRate   float64
	TopCategories []ReportCategory
}
