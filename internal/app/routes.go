package app

import (
	"github.com/fintrack/fintrack/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Transactions
	r.HandleFunc("/api/transaction", deps.TransactionHandler.Add).Methods("POST")
	r.HandleFunc("/api/transaction", deps.TransactionHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/transaction/{id}", deps.TransactionHandler.Delete).Methods("DELETE")

	// Budgets
	r.HandleFunc("/api/budget", deps.BudgetHandler.Set).Methods("POST")
	r.HandleFunc("/api/budget", deps.BudgetHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/budget/{id}", deps.BudgetHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/budget/alerts", deps.BudgetHandler.GetAlerts).Methods("GET")
	r.HandleFunc("/api/budget/summary", deps.BudgetHandler.GetSummary).Methods("GET")

	// Analytics
	r.HandleFunc("/api/analytics/expense-data", deps.AnalyticsHandler.GetExpenseData).Methods("GET")
	r.HandleFunc("/api/analytics/monthly-data", deps.AnalyticsHandler.GetMonthlyData).Methods("GET")
	r.HandleFunc("/api/analytics/budget-comparison", deps.AnalyticsHandler.GetBudgetComparison).Methods("GET")
	r.HandleFunc("/api/analytics/insights", deps.AnalyticsHandler.GetInsights).Methods("GET")
	r.HandleFunc("/api/analytics/monthly-report", deps.AnalyticsHandler.GetMonthlyReport).Methods("GET")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user", deps.UserHandler.GetAvailableUsers).Methods("GET")
	r.HandleFunc("/api/user/{userUid}", deps.UserHandler.DeleteUser).Methods("DELETE")
}
