package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tmfaria/o-meu-bolso/internal/models"
	"github.com/tmfaria/o-meu-bolso/internal/reconciler"
)

// CreateBudget creates a dedicated expense category for the budget and then
// the budget row itself, mirroring how budgets and categories pair up.
func (s *Service) CreateBudget(ctx context.Context, ownerID uuid.UUID, name string, limit decimal.Decimal, month, color string) (*models.BudgetProgress, error) {
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	if color == "" {
		color = "#333333"
	}

	category, err := models.NewCategory(ownerID, name, models.TypeExpense, color)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", reconciler.ErrInvalidInput, err)
	}
	budget, err := models.NewBudget(ownerID, category.ID, limit, month)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", reconciler.ErrInvalidInput, err)
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	if err := s.repo.CreateBudget(ctx, budget); err != nil {
		return nil, err
	}

	s.log.Infof("Budget created for user %s: %s (%s)", ownerID, name, month)
	return &models.BudgetProgress{
		Budget:       *budget,
		CategoryName: category.Name,
		Spent:        decimal.Zero,
	}, nil
}

// ListBudgets returns the user's budgets, each with its derived spent figure.
func (s *Service) ListBudgets(ctx context.Context, ownerID uuid.UUID) ([]models.BudgetProgress, error) {
	budgets, err := s.repo.ListBudgets(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range budgets {
		spent, err := s.repo.SumExpenses(ctx, ownerID, budgets[i].CategoryID, budgets[i].Month)
		if err != nil {
			return nil, err
		}
		budgets[i].Spent = spent
	}
	return budgets, nil
}

// UpdateBudget changes a budget's limit and month
func (s *Service) UpdateBudget(ctx context.Context, ownerID, id uuid.UUID, limit decimal.Decimal, month string) (*models.Budget, error) {
	if !limit.IsPositive() {
		return nil, fmt.Errorf("%w: limit must be positive, got %s", reconciler.ErrInvalidInput, limit)
	}
	if month != "" && !models.ValidMonth(month) {
		return nil, fmt.Errorf("%w: month must be YYYY-MM, got %q", reconciler.ErrInvalidInput, month)
	}

	budget, err := s.repo.BudgetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	budget.Limit = limit
	if month != "" {
		budget.Month = month
	}
	if err := s.repo.UpdateBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// DeleteBudget removes a budget
func (s *Service) DeleteBudget(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeleteBudget(ctx, ownerID, id)
}

// CreateCategory creates a standalone category
func (s *Service) CreateCategory(ctx context.Context, ownerID uuid.UUID, name string, movementType models.TransactionType, color string) (*models.Category, error) {
	if movementType == "" {
		movementType = models.TypeIncome
	}
	category, err := models.NewCategory(ownerID, name, movementType, color)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", reconciler.ErrInvalidInput, err)
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories returns the user's categories
func (s *Service) ListCategories(ctx context.Context, ownerID uuid.UUID) ([]models.Category, error) {
	return s.repo.ListCategories(ctx, ownerID)
}
