package budget

import (
	"context"
	"sort"
	"strings"

	"github.com/fintrack/fintrack/internal/money"
)

type StubRepo struct {
	nextId int
	data   map[int]Budget
}

func NewStubRepo() *StubRepo {
	return &StubRepo{data: map[int]Budget{}}
}

func (s *StubRepo) Cleanup() {
	s.nextId = 0
	s.data = map[int]Budget{}
}

func (s *StubRepo) FindAll(ctx context.Context, userId int) ([]Budget, error) {
	var budgets []Budget
	for _, b := range s.data {
		if b.UserId == userId {
			budgets = append(budgets, b)
		}
	}
	sort.Slice(budgets, func(i, j int) bool {
		return budgets[i].Category < budgets[j].Category
	})
	return budgets, nil
}

func (s *StubRepo) FindByCategory(ctx context.Context, userId int, category string) (Budget, error) {
	for _, b := range s.data {
		if b.UserId == userId && strings.EqualFold(b.Category, category) {
			return b, nil
		}
	}
	return Budget{}, ErrBudgetNotFound
}

func (s *StubRepo) Store(ctx context.Context, userId int, budget Budget) (Budget, error) {
	for _, b := range s.data {
		if b.UserId == userId && strings.EqualFold(b.Category, budget.Category) {
			return Budget{}, ErrBudgetExists
		}
	}
	s.nextId++
	budget.Id = s.nextId
	budget.UserId = userId
	s.data[budget.Id] = budget
	return budget, nil
}

func (s *StubRepo) UpdateLimit(ctx context.Context, userId int, budgetId int, limit money.Cents) (bool, error) {
	b, ok := s.data[budgetId]
	if !ok || b.UserId != userId {
		return false, nil
	}
	b.Limit = limit
	s.data[budgetId] = b
	return true, nil
}

func (s *StubRepo) Delete(ctx context.Context, userId int, budgetId int) (bool, error) {
	b, ok := s.data[budgetId]
	if !ok || b.UserId != userId {
		return false, nil
	}
	delete(s.data, budgetId)
	return true, nil
}
