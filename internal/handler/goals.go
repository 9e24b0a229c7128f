package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tmfaria/o-meu-bolso/internal/reconciler"
)

type goalRequest struct {
	Name          string           `json:"name"`
	TargetAmount  *decimal.Decimal `json:"target_amount"`
	CurrentAmount *decimal.Decimal `json:"current_amount"`
	Deadline      string           `json:"deadline"` // YYYY-MM-DD
}

type contributionRequest struct {
	AccountID uuid.UUID       `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"` // YYYY-MM-DD
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	date, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", reconciler.ErrInvalidInput, s)
	}
	return date, nil
}

// ListGoals returns the user's savings goals
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	goals, err := h.svc.ListGoals(r.Context(), owner)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

// CreateGoal creates a savings goal
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	deadline, err := parseDate(req.Deadline)
	if err != nil {
		h.writeError(w, err)
		return
	}
	target := decimal.Zero
	if req.TargetAmount != nil {
		target = *req.TargetAmount
	}

	goal, err := h.svc.CreateGoal(r.Context(), owner, req.Name, target, deadline)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

// UpdateGoal edits a goal; current_amount is a manual correction
func (h *Handler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
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

	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	var deadline *time.Time
	if req.Deadline != "" {
		d, err := parseDate(req.Deadline)
		if err != nil {
			h.writeError(w, err)
			return
		}
		deadline = &d
	}

	goal, err := h.svc.UpdateGoal(r.Context(), owner, id, req.Name, req.TargetAmount, req.CurrentAmount, deadline)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// DeleteGoal removes a goal and its contributions
func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.DeleteGoal(r.Context(), owner, id); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "goal deleted"})
}

// CreateContribution moves money from an account into the goal
func (h *Handler) CreateContribution(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	goalID, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req contributionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		h.writeError(w, err)
		return
	}

	contribution, err := h.svc.Contribute(r.Context(), owner, goalID, req.AccountID, req.Amount, date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, contribution)
}

// ListContributions returns the contributions made to one goal
func (h *Handler) ListContributions(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	goalID, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	contributions, err := h.svc.ListContributions(r.Context(), owner, goalID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contributions)
}
