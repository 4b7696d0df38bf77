package budget

import (
	"errors"
	"time"

	"github.com/fintrack/fintrack/internal/money"
)

type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// Spending thresholds as a percentage of the budget limit. Fixed policy
// values, shared by alerts, insights, and the overspend watcher.
const (
	WellUnderBudgetPct  = 50
	ApproachingLimitPct = 80
	AlmostReachedPct    = 90
)

var (
	ErrValidation     = errors.New("invalid budget")
	ErrBudgetExists   = errors.New("budget for this category already exists")
	ErrBudgetNotFound = errors.New("budget not found")
)

type Budget struct {
	Id        int
	UserId    int
	Category  string
	Limit     money.Cents
	Period    Period
	CreatedAt time.Time
}

// Alert reports a budget whose current-month spend exceeded the approaching
// threshold.
type Alert struct {
	Category   string
	Spent      money.Cents
	Limit      money.Cents
	Percentage int
	Alert      string
}

// CategorySummary is the per-budget row of the budget summary view.
type CategorySummary struct {
	Category   string
	Limit      money.Cents
	Spent      money.Cents
	Remaining  money.Cents
	Percentage int
	Status     string
}
