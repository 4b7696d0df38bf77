package budget

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fintrack/fintrack/internal/money"
	"github.com/fintrack/fintrack/internal/rest"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// BudgetDTO carries the limit in currency units; money.Units also accepts
// decimal strings like "1000.00" on input.
type BudgetDTO struct {
	Id        int         `json:"id,omitempty"`
	Category  string      `json:"category"`
	Limit     money.Units `json:"limit"`
	Period    string      `json:"period,omitempty"`
	CreatedAt *time.Time  `json:"createdAt,omitempty"`
}

type AlertDTO struct {
	Category   string  `json:"category"`
	Spent      float64 `json:"spent"`
	Limit      float64 `json:"limit"`
	Percentage int     `json:"percentage"`
	Alert      string  `json:"alert"`
}

type SummaryDTO struct {
	Category   string  `json:"category"`
	Limit      float64 `json:"limit"`
	Spent      float64 `json:"spent"`
	Remaining  float64 `json:"remaining"`
	Percentage int     `json:"percentage"`
	Status     string  `json:"status"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Set godoc
// @Summary Set or update the spending limit for a category
// @Tags Budget
// @Accept json
// @Produce json
// @Param budget body BudgetDTO true "Budget"
// @Success 200 {object} BudgetDTO "Existing budget updated"
// @Success 201 {object} BudgetDTO "New budget created"
// @Failure 400 {object} rest.ErrorResponse "Invalid budget"
// @Failure 409 {object} rest.ErrorResponse "Concurrent create for the same category"
// @Router /api/budget [post]
func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	log.Debug("Setting budget")
	w.Header().Set("Content-Type", "application/json")

	var dto BudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Invalid request body format"})
		return
	}

	saved, created, err := h.service.Set(r.Context(), Budget{
		Category: dto.Category,
		Limit:    dto.Limit.Cents(),
		Period:   Period(dto.Period),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrBudgetExists):
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Budget for this category already exists"})
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	if created {
		w.WriteHeader(http.StatusCreated)
	}
	if err := json.NewEncoder(w).Encode(budgetToDTO(saved)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	budgets, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]BudgetDTO, 0, len(budgets))
	for _, b := range budgets {
		dtos = append(dtos, budgetToDTO(b))
	}

	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Invalid budget id"})
		return
	}

	ok, err := h.service.Delete(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Budget not found"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	alerts, err := h.service.Alerts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]AlertDTO, 0, len(alerts))
	for _, a := range alerts {
		dtos = append(dtos, AlertDTO{
			Category:   a.Category,
			Spent:      a.Spent.Units(),
			Limit:      a.Limit.Units(),
			Percentage: a.Percentage,
			Alert:      a.Alert,
		})
	}

	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	summary, err := h.service.Summary(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]SummaryDTO, 0, len(summary))
	for _, s := range summary {
		dtos = append(dtos, SummaryDTO{
			Category:   s.Category,
			Limit:      s.Limit.Units(),
			Spent:      s.Spent.Units(),
			Remaining:  s.Remaining.Units(),
			Percentage: s.Percentage,
			Status:     s.Status,
		})
	}

	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func budgetToDTO(b Budget) BudgetDTO {
	var createdAt *time.Time
	if !b.CreatedAt.IsZero() {
		t := b.CreatedAt
		createdAt = &t
	}
	return BudgetDTO{
		Id:        b.Id,
		Category:  b.Category,
		Limit:     money.Units(b.Limit.Units()),
		Period:    string(b.Period),
		CreatedAt: createdAt,
	}
}
