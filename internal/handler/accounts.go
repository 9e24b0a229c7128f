package handler

import (
	"net/http"

	"github.com/shopspring/decimal"
)

type accountRequest struct {
	Name    string           `json:"name"`
	Type    string           `json:"type"`
	Balance *decimal.Decimal `json:"balance"`
}

// ListAccounts returns the user's accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	accounts, err := h.svc.ListAccounts(r.Context(), owner)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

// CreateAccount handles account creation
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req accountRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	balance := decimal.Zero
	if req.Balance != nil {
		balance = *req.Balance
	}

	account, err := h.svc.CreateAccount(r.Context(), owner, req.Name, req.Type, balance)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

// UpdateAccount edits an account; a balance in the body is a manual correction
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
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

	var req accountRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	account, err := h.svc.UpdateAccount(r.Context(), owner, id, req.Name, req.Type, req.Balance)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// DeleteAccount removes an account and its transactions
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.DeleteAccount(r.Context(), owner, id); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}
