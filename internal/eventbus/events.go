package eventbus

import "time"

const (
	TransactionCreatedType EventType = "transaction.created"
	BudgetThresholdType    EventType = "budget.threshold"
)

type TransactionCreated struct {
	Id          int
	Kind        string
	Category    string
	AmountCents int64
	OccurredAt  time.Time
}

// BudgetThresholdReached is published when a new expense pushes a category
// past its budget alert threshold.
type BudgetThresholdReached struct {
	Category   string
	SpentCents int64
	LimitCents int64
	Percentage int
}
