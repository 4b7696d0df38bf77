package app

import (
	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/eventbus"
	"github.com/fintrack/fintrack/internal/utils"
	"github.com/fintrack/fintrack/pkg/analytics"
	"github.com/fintrack/fintrack/pkg/budget"
	"github.com/fintrack/fintrack/pkg/transaction"
	"github.com/fintrack/fintrack/pkg/user"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus   *eventbus.EventBus
	Clock utils.Clock

	UserService user.Service
	UserHandler *user.Handler

	TransactionRepo    transaction.Repo
	TransactionService *transaction.ServiceImpl
	TransactionHandler *transaction.Handler

	BudgetRepo       budget.Repo
	BudgetService    *budget.ServiceImpl
	BudgetHandler    *budget.Handler
	OverspendWatcher *budget.OverspendWatcher

	AnalyticsService *analytics.ServiceImpl
	AnalyticsHandler *analytics.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Bus = eventbus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.TransactionRepo = transaction.NewRepo(db)
	deps.TransactionService = transaction.NewService(deps.TransactionRepo, deps.Bus, deps.Clock)
	deps.TransactionHandler = transaction.NewHandler(deps.TransactionService)

	deps.BudgetRepo = budget.NewRepo(db)
	deps.BudgetService = budget.NewService(deps.BudgetRepo, deps.TransactionRepo, deps.Clock)
	deps.BudgetHandler = budget.NewHandler(deps.BudgetService)
	deps.OverspendWatcher = budget.NewOverspendWatcher(deps.BudgetRepo, deps.TransactionRepo, deps.Bus, deps.Clock)
	deps.OverspendWatcher.Register()

	deps.AnalyticsService = analytics.NewService(deps.TransactionRepo, deps.BudgetRepo, deps.Clock)
	deps.AnalyticsHandler = analytics.NewHandler(deps.AnalyticsService, deps.Clock)

	return deps
}
