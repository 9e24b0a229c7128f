package handler

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/tmfaria/o-meu-bolso/internal/reconciler"
)

// Rates returns the cached EUR reference-rate table for the converter widget
func (h *Handler) Rates(w http.ResponseWriter, r *http.Request) {
	date, rates, err := h.rates.Rates(r.Context())
	if err != nil {
		h.log.Errorf("Failed to load exchange rates: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "exchange rates unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"base":  "EUR",
		"date":  date,
		"rates": rates,
	})
}

// Convert converts an EUR amount into the requested currency
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	to := r.URL.Query().Get("to")
	amountStr := r.URL.Query().Get("amount")
	if to == "" || amountStr == "" {
		h.writeError(w, fmt.Errorf("%w: to and amount are required", reconciler.ErrInvalidInput))
		return
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil || amount.IsNegative() {
		h.writeError(w, fmt.Errorf("%w: amount must be a non-negative decimal", reconciler.ErrInvalidInput))
		return
	}

	_, rates, err := h.rates.Rates(r.Context())
	if err != nil {
		h.log.Errorf("Failed to load exchange rates: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "exchange rates unavailable"})
		return
	}
	rate, found := rates[to]
	if !found {
		h.writeError(w, fmt.Errorf("%w: unknown currency %q", reconciler.ErrInvalidInput, to))
		return
	}
	converted := amount.Mul(rate).Round(2)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"from":   "EUR",
		"to":     to,
		"amount": amount,
		"result": converted,
	})
}

// Summary returns the month's income/expense totals
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	summary, err := h.svc.MonthlySummary(r.Context(), owner, r.URL.Query().Get("month"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
