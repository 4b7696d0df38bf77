package budget

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fintrack/fintrack/internal/money"
	"github.com/fintrack/fintrack/internal/utils"
	"github.com/fintrack/fintrack/pkg/transaction"
	"github.com/fintrack/fintrack/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// Set creates a budget for a category, or updates the limit in place when
	// a budget for that category already exists (matched case-insensitively).
	// The returned bool is true when a new budget was created.
	Set(ctx context.Context, budget Budget) (Budget, bool, error)
	List(ctx context.Context) ([]Budget, error)
	Delete(ctx context.Context, id int) (bool, error)
	Alerts(ctx context.Context) ([]Alert, error)
	Summary(ctx context.Context) ([]CategorySummary, error)
}

type ServiceImpl struct {
	repo   Repo
	ledger transaction.Aggregator
	clock  utils.Clock
}

func NewService(repo Repo, ledger transaction.Aggregator, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, ledger: ledger, clock: clock}
}

func (s *ServiceImpl) Set(ctx context.Context, budget Budget) (Budget, bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Budget{}, false, fmt.Errorf("failed to get current user: %w", err)
	}

	budget.Category = strings.TrimSpace(budget.Category)
	if budget.Category == "" {
		return Budget{}, false, fmt.Errorf("%w: category must not be empty", ErrValidation)
	}
	if budget.Limit <= 0 {
		return Budget{}, false, fmt.Errorf("%w: limit must be greater than 0", ErrValidation)
	}
	if budget.Period == "" {
		budget.Period = PeriodMonthly
	}
	if budget.Period != PeriodWeekly && budget.Period != PeriodMonthly {
		return Budget{}, false, fmt.Errorf("%w: period must be %q or %q", ErrValidation, PeriodWeekly, PeriodMonthly)
	}

	existing, err := s.repo.FindByCategory(ctx, userId, budget.Category)
	if err == nil {
		updated, err := s.repo.UpdateLimit(ctx, userId, existing.Id, budget.Limit)
		if err != nil {
			return Budget{}, false, err
		}
		if !updated {
			return Budget{}, false, fmt.Errorf("budget not updated")
		}
		existing.Limit = budget.Limit
		return existing, false, nil
	}
	if !errors.Is(err, ErrBudgetNotFound) {
		return Budget{}, false, err
	}

	// ErrBudgetExists can still surface here when two sets race; the store's
	// uniqueness constraint decides the winner.
	created, err := s.repo.Store(ctx, userId, budget)
	if err != nil {
		return Budget{}, false, err
	}
	return created, true, nil
}

func (s *ServiceImpl) List(ctx context.Context) ([]Budget, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.FindAll(ctx, userId)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}

	deleted, err := s.repo.Delete(ctx, userId, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		log.Warnf("budget not deleted, probably because it does not exist (%d) or the user (%d) is not the owner", id, userId)
	}
	return deleted, nil
}

func (s *ServiceImpl) Alerts(ctx context.Context) ([]Alert, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	budgets, err := s.repo.FindAll(ctx, userId)
	if err != nil {
		return nil, err
	}

	spentByCategory, err := s.currentMonthSpend(ctx, userId)
	if err != nil {
		return nil, err
	}

	alerts := make([]Alert, 0)
	for _, b := range budgets {
		spent := spentByCategory[strings.ToLower(b.Category)]
		percentage := percentOf(spent, b.Limit)
		if percentage <= ApproachingLimitPct {
			continue
		}

		var message string
		switch {
		case spent > b.Limit:
			message = "Over budget!"
		case percentage > AlmostReachedPct:
			message = "Almost reached budget limit"
		default:
			message = "Approaching budget limit"
		}

		alerts = append(alerts, Alert{
			Category:   b.Category,
			Spent:      spent,
			Limit:      b.Limit,
			Percentage: int(math.Round(percentage)),
			Alert:      message,
		})
	}
	return alerts, nil
}

func (s *ServiceImpl) Summary(ctx context.Context) ([]CategorySummary, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	budgets, err := s.repo.FindAll(ctx, userId)
	if err != nil {
		return nil, err
	}

	spentByCategory, err := s.currentMonthSpend(ctx, userId)
	if err != nil {
		return nil, err
	}

	summary := make([]CategorySummary, 0, len(budgets))
	for _, b := range budgets {
		spent := spentByCategory[strings.ToLower(b.Category)]
		// A fully consumed budget counts as over.
		remaining := b.Limit - spent
		status := "under_budget"
		if remaining <= 0 {
			remaining = 0
			status = "over_budget"
		}
		summary = append(summary, CategorySummary{
			Category:   b.Category,
			Limit:      b.Limit,
			Spent:      spent,
			Remaining:  remaining,
			Percentage: int(math.Round(percentOf(spent, b.Limit))),
			Status:     status,
		})
	}
	return summary, nil
}

// currentMonthSpend fetches this month's expense totals in a single grouped
// query and folds category case, so one budget check costs one store
// round-trip regardless of the number of budgets.
func (s *ServiceImpl) currentMonthSpend(ctx context.Context, userId int) (map[string]money.Cents, error) {
	now := s.clock.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	totals, err := s.ledger.SumByCategory(ctx, userId, transaction.KindExpense, monthStart, now)
	if err != nil {
		return nil, err
	}
	spent := make(map[string]money.Cents, len(totals))
	for _, ct := range totals {
		spent[strings.ToLower(ct.Category)] += ct.Total
	}
	return spent, nil
}

func percentOf(spent, limit money.Cents) float64 {
	return float64(spent) / float64(limit) * 100
}
