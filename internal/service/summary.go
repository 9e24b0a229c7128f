package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tmfaria/o-meu-bolso/internal/models"
	"github.com/tmfaria/o-meu-bolso/internal/reconciler"
)

// MonthlySummary returns income, expense and net totals for one month.
// An empty month defaults to the current one.
func (s *Service) MonthlySummary(ctx context.Context, ownerID uuid.UUID, month string) (*models.MonthlySummary, error) {
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	if !models.ValidMonth(month) {
		return nil, fmt.Errorf("%w: month must be YYYY-MM, got %q", reconciler.ErrInvalidInput, month)
	}

	income, expense, err := s.repo.MonthlyTotals(ctx, ownerID, month)
	if err != nil {
		return nil, err
	}
	return &models.MonthlySummary{
		Month:   month,
		Income:  income,
		Expense: expense,
		Net:     income.Sub(expense),
	}, nil
}
