package analytics

import (
	"encoding/json"
	"net/http"

	"github.com/fintrack/fintrack/internal/utils"
	log "github.com/sirupsen/logrus"
)

type ExpenseDistributionDTO struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type MonthlyTrendDTO struct {
	Months   []string  `json:"months"`
	Income   []float64 `json:"income"`
	Expenses []float64 `json:"expenses"`
}

type BudgetComparisonDTO struct {
	Categories []string  `json:"categories"`
	Budget     []float64 `json:"budget"`
	Actual     []float64 `json:"actual"`
}

type RecommendationDTO struct {
	Category   string `json:"category"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
	Priority   string `json:"priority"`
}

type InsightsDTO struct {
	Recommendations  []RecommendationDTO `json:"recommendations"`
	TotalSaved       int64               `json:"totalSaved"`
	ImprovementScore int                 `json:"improvementScore"`
}

type ReportCategoryDTO struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Percentage int     `json:"percentage"`
}

type ReportDTO struct {
	Month         string              `json:"month"`
	Year          int                 `json:"year"`
	TotalIncome   float64             `json:"totalIncome"`
	TotalExpenses float64             `json:"totalExpenses"`
	NetSavings    float64             `json:"netSavings"`
	SavingsRate   float64             `json:"savingsRate"`
	TopCategories []ReportCategoryDTO `json:"topCategories"`
}

type Handler struct {
	service Service
	clock   utils.Clock
}

func NewHandler(service Service, clock utils.Clock) *Handler {
	return &Handler{service: service, clock: clock}
}

func (h *Handler) GetExpenseData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	distribution, err := h.service.ExpenseDistribution(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto := ExpenseDistributionDTO{
		Labels: distribution.Labels,
		Values: make([]float64, 0, len(distribution.Values)),
	}
	if dto.Labels == nil {
		dto.Labels = []string{}
	}
	for _, v := range distribution.Values {
		dto.Values = append(dto.Values, v.Units())
	}

	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetMonthlyData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	trend, err := h.service.MonthlyTrend(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto := MonthlyTrendDTO{
		Months:   make([]string, 0, len(trend)),
		Income:   make([]float64, 0, len(trend)),
		Expenses: make([]float64, 0, len(trend)),
	}
	for _, point := range trend {
		dto.Months = append(dto.Months, point.Month.Format("Jan"))
		dto.Income = append(dto.Income, point.Income.Units())
		dto.Expenses = append(dto.Expenses, point.Expenses.Units())
	}

	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetBudgetComparison(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	comparison, err := h.service.BudgetComparison(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto := BudgetComparisonDTO{
		Categories: comparison.Categories,
		Budget:     make([]float64, 0, len(comparison.Budget)),
		Actual:     make([]float64, 0, len(comparison.Actual)),
	}
	if dto.Categories == nil {
		dto.Categories = []string{}
	}
	for i := range comparison.Budget {
		dto.Budget = append(dto.Budget, comparison.Budget[i].Units())
		dto.Actual = append(dto.Actual, comparison.Actual[i].Units())
	}

	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetInsights godoc
// @Summary Budget insights for the current month
// @Tags Analytics
// @Produce json
// @Success 200 {object} InsightsDTO
// @Router /api/analytics/insights [get]
func (h *Handler) GetInsights(w http.ResponseWriter, r *http.Request) {
	log.Debug("Generating budget insights")
	w.Header().Set("Content-Type", "application/json")

	insights, err := h.service.GenerateInsights(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto := InsightsDTO{
		Recommendations:  make([]RecommendationDTO, 0, len(insights.Recommendations)),
		TotalSaved:       insights.TotalSaved,
		ImprovementScore: insights.ImprovementScore,
	}
	for _, rec := range insights.Recommendations {
		dto.Recommendations = append(dto.Recommendations, RecommendationDTO{
			Category:   rec.Category,
			Message:    rec.Message,
			Suggestion: rec.Suggestion,
			Priority:   string(rec.Priority),
		})
	}

	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	report, err := h.service.MonthlyReport(r.Context(), h.clock.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto := ReportDTO{
		Month:         report.Month,
		Year:          report.Year,
		TotalIncome:   report.TotalIncome.Units(),
		TotalExpenses: report.TotalExpenses.Units(),
		NetSavings:    report.NetSavings.Units(),
		SavingsRate:   report.SavingsRate,
		TopCategories: make([]ReportCategoryDTO, 0, len(report.TopCategories)),
	}
	for _, cat := range report.TopCategories {
		dto.TopCategories = append(dto.TopCategories, ReportCategoryDTO{
			Name:       cat.Name,
			Amount:     cat.Amount.Units(),
			Percentage: cat.Percentage,
		})
	}

	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
