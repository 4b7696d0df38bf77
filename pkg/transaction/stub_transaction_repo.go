package transaction

import (
	"context"
	"sort"
	"time"

	"github.com/fintrack/fintrack/internal/money"
)

// StubRepo is an in-memory Repo used by service tests in this package and in
// the packages that consume the Aggregator interface.
type StubRepo struct {
	nextId int
	data   []Transaction
}

func NewStubRepo() *StubRepo {
	return &StubRepo{}
}

func (s *StubRepo) Cleanup() {
	s.nextId = 0
	s.data = nil
}

func (s *StubRepo) Store(ctx context.Context, userId int, transaction Transaction) (Transaction, error) {
	s.nextId++
	transaction.Id = s.nextId
	transaction.UserId = userId
	transaction.CreatedAt = time.Now()
	s.data = append(s.data, transaction)
	return transaction, nil
}

func (s *StubRepo) GetAll(ctx context.Context, userId int) ([]Transaction, error) {
	var transactions []Transaction
	for _, t := range s.data {
		if t.UserId == userId {
			transactions = append(transactions, t)
		}
	}
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].OccurredAt.After(transactions[j].OccurredAt)
	})
	return transactions, nil
}

func (s *StubRepo) Delete(ctx context.Context, userId int, transactionId int) (bool, error) {
	for i, t := range s.data {
		if t.Id == transactionId && t.UserId == userId {
			s.data = append(s.data[:i], s.data[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *StubRepo) SumTotal(ctx context.Context, userId int, kind Kind, from time.Time, to time.Time) (money.Cents, error) {
	var total money.Cents
	for _, t := range s.matching(userId, kind, from, to) {
		total += t.Amount
	}
	return total, nil
}

func (s *StubRepo) SumByCategory(ctx context.Context, userId int, kind Kind, from time.Time, to time.Time) ([]CategoryTotal, error) {
	byCategory := map[string]money.Cents{}
	for _, t := range s.matching(userId, kind, from, to) {
		byCategory[t.Category] += t.Amount
	}
	totals := make([]CategoryTotal, 0, len(byCategory))
	for category, total := range byCategory {
		totals = append(totals, CategoryTotal{Category: category, Total: total})
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})
	return totals, nil
}

func (s *StubRepo) MonthlyTotals(ctx context.Context, userId int, from time.Time, to time.Time) ([]MonthlyTotal, error) {
	type key struct {
		month time.Time
		kind  Kind
	}
	byMonth := map[key]money.Cents{}
	for _, t := range s.data {
		if t.UserId != userId || t.OccurredAt.Before(from) || t.OccurredAt.After(to) {
			continue
		}
		month := time.Date(t.OccurredAt.Year(), t.OccurredAt.Month(), 1, 0, 0, 0, 0, t.OccurredAt.Location())
		byMonth[key{month, t.Kind}] += t.Amount
	}
	totals := make([]MonthlyTotal, 0, len(byMonth))
	for k, total := range byMonth {
		totals = append(totals, MonthlyTotal{Month: k.month, Kind: k.kind, Total: total})
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Month.Before(totals[j].Month)
	})
	return totals, nil
}

func (s *StubRepo) matching(userId int, kind Kind, from time.Time, to time.Time) []Transaction {
	var matched []Transaction
	for _, t := range s.data {
		if t.UserId != userId || t.Kind != kind {
			continue
		}
		if t.OccurredAt.Before(from) || t.OccurredAt.After(to) {
			continue
		}
		matched = append(matched, t)
	}
	return matched
}
