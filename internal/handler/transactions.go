package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tmfaria/o-meu-bolso/internal/models"
	"github.com/tmfaria/o-meu-bolso/internal/reconciler"
)

type transactionRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"` // YYYY-MM-DD
	Type        string          `json:"type"`
	AccountID   uuid.UUID       `json:"account_id"`
	CategoryID  *uuid.UUID      `json:"category_id"`
}

func (req *transactionRequest) toModel() (*models.Transaction, error) {
	tx := &models.Transaction{
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Type:        models.TransactionType(req.Type),
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", reconciler.ErrInvalidInput, req.Date)
		}
		tx.Date = date
	}
	return tx, nil
}

// ListTransactions returns the user's transactions, newest first
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	txs, err := h.svc.ListTransactions(r.Context(), owner)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

// CreateTransaction posts a transaction and reconciles the account balance
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	tx, err := req.toModel()
	if err != nil {
		h.writeError(w, err)
		return
	}

	created, err := h.svc.CreateTransaction(r.Context(), owner, tx)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateTransaction replaces a transaction and reconciles both balances
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
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

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	tx, err := req.toModel()
	if err != nil {
		h.writeError(w, err)
		return
	}
	tx.ID = id

	updated, err := h.svc.UpdateTransaction(r.Context(), owner, tx)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTransaction removes a transaction and reverts its balance effect
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.DeleteTransaction(r.Context(), owner, id); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "transaction deleted and balance reverted"})
}
