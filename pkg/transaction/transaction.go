package transaction

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fintrack/fintrack/internal/money"
)

type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

var ErrValidation = errors.New("invalid transaction")

type Transaction struct {
	Id          int
	UserId      int
	Kind        Kind
	Amount      money.Cents
	Category    string
	Description string
	OccurredAt  time.Time
	CreatedAt   time.Time
}

// Validate checks the ledger invariants: a known kind, a strictly positive
// amount, and a non-empty trimmed category.
func (t *Transaction) Validate() error {
	if t.Kind != KindIncome && t.Kind != KindExpense {
		return fmt.Errorf("%w: kind must be %q or %q, got %q", ErrValidation, KindIncome, KindExpense, t.Kind)
	}
	if t.Amount <= 0 {
		return fmt.Errorf("%w: amount must be greater than 0", ErrValidation)
	}
	if strings.TrimSpace(t.Category) == "" {
		return fmt.Errorf("%w: category must not be empty", ErrValidation)
	}
	return nil
}

// CategoryTotal is a single row of a per-category aggregation.
type CategoryTotal struct {
	Category string
	Total    money.Cents
}

// MonthlyTotal is a single row of a per-calendar-month aggregation. Month is
// the first instant of the month.
type MonthlyTotal struct {
	Month time.Time
	Kind  Kind
	Total money.Cents
}
