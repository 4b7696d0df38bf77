package transaction

import (
	"context"
	"time"

	"github.com/fintrack/fintrack/internal/money"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Aggregator is the read-side of the ledger: grouped sums over a time window.
// All methods return zero totals, never an error, when no records match.
type Aggregator interface {
	SumTotal(ctx context.Context, userId int, kind Kind, from time.Time, to time.Time) (money.Cents, error)
	SumByCategory(ctx context.Context, userId int, kind Kind, from time.Time, to time.Time) ([]CategoryTotal, error)
	MonthlyTotals(ctx context.Context, userId int, from time.Time, to time.Time) ([]MonthlyTotal, error)
}

type Repo interface {
	Store(ctx context.Context, userId int, transaction Transaction) (Transaction, error)
	GetAll(ctx context.Context, userId int) ([]Transaction, error)
	Delete(ctx context.Context, userId int, transactionId int) (bool, error)
	Aggregator
}

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, userId int, transaction Transaction) (Transaction, error) {
	query := `INSERT INTO transactions (user_id, kind, amount_cents, category, description, occurred_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		userId,
		transaction.Kind,
		int64(transaction.Amount),
		transaction.Category,
		transaction.Description,
		transaction.OccurredAt,
	).Scan(&transaction.Id, &transaction.CreatedAt)
	if err != nil {
		log.Errorf("could not store transaction: %v", err)
		return Transaction{}, err
	}
	transaction.UserId = userId
	return transaction, nil
}

func (r *RepoImpl) GetAll(ctx context.Context, userId int) ([]Transaction, error) {
	query := `SELECT id, kind, amount_cents, category, description, occurred_at, created_at
			  FROM transactions
			  WHERE user_id = $1
			  ORDER BY occurred_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		log.Errorf("could not query transactions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		var t Transaction
		var amountCents int64
		if err := rows.Scan(
			&t.Id,
			&t.Kind,
			&amountCents,
			&t.Category,
			&t.Description,
			&t.OccurredAt,
			&t.CreatedAt,
		); err != nil {
			log.Errorf("could not scan transaction: %v", err)
			return nil, err
		}
		t.Amount = money.Cents(amountCents)
		t.UserId = userId
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *RepoImpl) Delete(ctx context.Context, userId int, transactionId int) (bool, error) {
	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(ctx, query, transactionId, userId)
	if err != nil {
		log.Errorf("could not delete transaction: %v", err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r *RepoImpl) SumTotal(ctx context.Context, userId int, kind Kind, from time.Time, to time.Time) (money.Cents, error) {
	query := `SELECT COALESCE(SUM(amount_cents), 0)
			  FROM transactions
			  WHERE user_id = $1 AND kind = $2 AND occurred_at >= $3 AND occurred_at <= $4`
	var total int64
	if err := r.db.QueryRow(ctx, query, userId, kind, from, to).Scan(&total); err != nil {
		log.Errorf("could not sum transactions: %v", err)
		return 0, err
	}
	return money.Cents(total), nil
}

func (r *RepoImpl) SumByCategory(ctx context.Context, userId int, kind Kind, from time.Time, to time.Time) ([]CategoryTotal, error) {
	query := `SELECT category, SUM(amount_cents) AS total
			  FROM transactions
			  WHERE user_id = $1 AND kind = $2 AND occurred_at >= $3 AND occurred_at <= $4
			  GROUP BY category
			  ORDER BY total DESC`
	rows, err := r.db.Query(ctx, query, userId, kind, from, to)
	if err != nil {
		log.Errorf("could not sum transactions by category: %v", err)
		return nil, err
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		var total int64
		if err := rows.Scan(&ct.Category, &total); err != nil {
			return nil, err
		}
		ct.Total = money.Cents(total)
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

func (r *RepoImpl) MonthlyTotals(ctx context.Context, userId int, from time.Time, to time.Time) ([]MonthlyTotal, error) {
	query := `SELECT date_trunc('month', occurred_at) AS month, kind, SUM(amount_cents) AS total
			  FROM transactions
			  WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at <= $3
			  GROUP BY month, kind
			  ORDER BY month`
	rows, err := r.db.Query(ctx, query, userId, from, to)
	if err != nil {
		log.Errorf("could not sum transactions by month: %v", err)
		return nil, err
	}
	defer rows.Close()

	var totals []MonthlyTotal
	for rows.Next() {
		var mt MonthlyTotal
		var total int64
		if err := rows.Scan(&mt.Month, &mt.Kind, &total); err != nil {
			return nil, err
		}
		mt.Total = money.Cents(total)
		totals = append(totals, mt)
	}
	return totals, rows.Err()
}
