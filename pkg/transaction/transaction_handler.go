package transaction

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

// TransactionDTO carries the amount in currency units; money.Units also
// accepts decimal strings like "25.50" on input.
type TransactionDTO struct {
	Id          int         `json:"id,omitempty"`
	Type        string      `json:"type"`
	Amount      money.Units `json:"amount"`
	Category    string      `json:"category"`
	Description string      `json:"description,omitempty"`
	Date        *time.Time  `json:"date,omitempty"`
	CreatedAt   *time.Time  `json:"createdAt,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Add godoc
// @Summary Log an income or expense transaction
// @Tags Transaction
// @Accept json
// @Produce json
// @Param transaction body TransactionDTO true "Transaction"
// @Success 201 {object} TransactionDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid transaction"
// @Router /api/transaction [post]
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	log.Debug("Adding new transaction")
	w.Header().Set("Content-Type", "application/json")

	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Invalid request body format"})
		return
	}

	created, err := h.service.Add(r.Context(), dtoToTransaction(dto))
	if err != nil {
		if errors.Is(err, ErrValidation) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: err.Error()})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(transactionToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	transactions, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]TransactionDTO, 0, len(transactions))
	for _, t := range transactions {
		dtos = append(dtos, transactionToDTO(t))
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
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Invalid transaction id"})
		return
	}

	ok, err := h.service.Delete(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Transaction not found"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func transactionToDTO(t Transaction) TransactionDTO {
	occurredAt := t.OccurredAt
	createdAt := t.CreatedAt
	return TransactionDTO{
		Id:          t.Id,
		Type:        string(t.Kind),
		Amount:      money.Units(t.Amount.Units()),
		Category:    t.Category,
		Description: t.Description,
		Date:        &occurredAt,
		CreatedAt:   &createdAt,
	}
}

func dtoToTransaction(dto TransactionDTO) Transaction {
	var occurredAt time.Time
	if dto.Date != nil {
		occurredAt = *dto.Date
	}
	return Transaction{
		Kind:        Kind(dto.Type),
		Amount:      dto.Amount.Cents(),
		Category:    dto.Category,
		Description: dto.Description,
		OccurredAt:  occurredAt,
	}
}
