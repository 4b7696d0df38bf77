package budget

import (
	"context"
	"errors"

	"github.com/fintrack/fintrack/internal/money"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	FindAll(ctx context.Context, userId int) ([]Budget, error)
	// FindByCategory matches the category case-insensitively, mirroring the
	// uniqueness constraint on (user_id, lower(category)).
	FindByCategory(ctx context.Context, userId int, category string) (Budget, error)
	Store(ctx context.Context, userId int, budget Budget) (Budget, error)
	UpdateLimit(ctx context.Context, userId int, budgetId int, limit money.Cents) (bool, error)
	Delete(ctx context.Context, userId int, budgetId int) (bool, error)
}

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) FindAll(ctx context.Context, userId int) ([]Budget, error) {
	query := `SELECT id, category, limit_cents, period, created_at
			  FROM budgets
			  WHERE user_id = $1
			  ORDER BY category`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		log.Errorf("could not query budgets: %v", err)
		return nil, err
	}
	defer rows.Close()

	var budgets []Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		b.UserId = userId
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *RepoImpl) FindByCategory(ctx context.Context, userId int, category string) (Budget, error) {
	query := `SELECT id, category, limit_cents, period, created_at
			  FROM budgets
			  WHERE user_id = $1 AND lower(category) = lower($2)`
	b, err := scanBudget(r.db.QueryRow(ctx, query, userId, category))
	if errors.Is(err, pgx.ErrNoRows) {
		return Budget{}, ErrBudgetNotFound
	}
	if err != nil {
		log.Errorf("could not find budget for category %q: %v", category, err)
		return Budget{}, err
	}
	b.UserId = userId
	return b, nil
}

func (r *RepoImpl) Store(ctx context.Context, userId int, budget Budget) (Budget, error) {
	query := `INSERT INTO budgets (user_id, category, limit_cents, period)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		userId,
		budget.Category,
		int64(budget.Limit),
		budget.Period,
	).Scan(&budget.Id, &budget.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrUniqueViolation {
			// Loser of a concurrent set for the same category.
			return Budget{}, ErrBudgetExists
		}
		log.Errorf("could not store budget: %v", err)
		return Budget{}, err
	}
	budget.UserId = userId
	return budget, nil
}

func (r *RepoImpl) UpdateLimit(ctx context.Context, userId int, budgetId int, limit money.Cents) (bool, error) {
	query := `UPDATE budgets SET limit_cents = $1 WHERE id = $2 AND user_id = $3`
	result, err := r.db.Exec(ctx, query, int64(limit), budgetId, userId)
	if err != nil {
		log.Errorf("could not update budget limit: %v", err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r *RepoImpl) Delete(ctx context.Context, userId int, budgetId int) (bool, error) {
	query := `DELETE FROM budgets WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(ctx, query, budgetId, userId)
	if err != nil {
		log.Errorf("could not delete budget: %v", err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func scanBudget(row pgx.Row) (Budget, error) {
	var b Budget
	var limitCents int64
	if err := row.Scan(&b.Id, &b.Category, &limitCents, &b.Period, &b.CreatedAt); err != nil {
		return Budget{}, err
	}
	b.Limit = money.Cents(limitCents)
	return b, nil
}

const pgerrUniqueViolation = "23505"
