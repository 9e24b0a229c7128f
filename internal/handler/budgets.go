package handler

import (
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/tmfaria/o-meu-bolso/internal/models"
)

type budgetRequest struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Period string          `json:"period"` // YYYY-MM
	Color  string          `json:"color"`
}

type categoryRequest struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
}

// ListBudgets returns the user's budgets with derived spent figures
func (h *Handler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	budgets, err := h.svc.ListBudgets(r.Context(), owner)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, budgets)
}

// CreateBudget creates a budget and its backing expense category
func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	budget, err := h.svc.CreateBudget(r.Context(), owner, req.Name, req.Amount, req.Period, req.Color)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, budget)
}

// UpdateBudget changes a budget's limit and period
func (h *Handler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	budget, err := h.svc.UpdateBudget(r.Context(), owner, id, req.Amount, req.Period)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

// DeleteBudget removes a budget
func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.svc.DeleteBudget(r.Context(), owner, id); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "budget deleted"})
}

// ListCategories returns the user's categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	categories, err := h.svc.ListCategories(r.Context(), owner)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// CreateCategory creates a standalone category
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	category, err := h.svc.CreateCategory(r.Context(), owner, req.Name, models.TransactionType(req.Type), req.Color)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}
