package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tmfaria/o-meu-bolso/internal/models"
	"github.com/tmfaria/o-meu-bolso/internal/reconciler"
)

// CreateBudget creates a budget row
func (r *Repository) CreateBudget(ctx context.Context, b *models.Budget) error {
	query := `
		INSERT INTO budgets (id, user_id, category_id, limit_amount, month, alert_percent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`
	err := r.q.QueryRowContext(ctx, query,
		b.ID, b.UserID, b.CategoryID, b.Limit, b.Month, b.AlertPercent).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return storeErr("create budget", err)
	}
	return nil
}

// ListBudgets returns the owner's budgets with their category names
func (r *Repository) ListBudgets(ctx context.Context, ownerID uuid.UUID) ([]models.BudgetProgress, error) {
	query := `
		SELECT b.id, b.user_id, b.category_id, b.limit_amount, b.month, b.alert_percent,
		       b.created_at, b.updated_at, COALESCE(c.name, '')
		FROM budgets b
		LEFT JOIN categories c ON c.id = b.category_id
		WHERE b.user_id = $1
		ORDER BY b.month DESC, c.name`
	rows, err := r.q.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, storeErr("list budgets", err)
	}
	defer rows.Close()

	budgets := []models.BudgetProgress{}
	for rows.Next() {
		var b models.BudgetProgress
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Limit, &b.Month,
			&b.AlertPercent, &b.CreatedAt, &b.UpdatedAt, &b.CategoryName); err != nil {
			return nil, storeErr("scan budget", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list budgets", err)
	}
	return budgets, nil
}

// BudgetByID retrieves one budget scoped to its owner
func (r *Repository) BudgetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Budget, error) {
	b := &models.Budget{}
	query := `
		SELECT id, user_id, category_id, limit_amount, month, alert_percent, created_at, updated_at
		FROM budgets
		WHERE id = $1 AND user_id = $2`
	err := r.q.QueryRowContext(ctx, query, id, ownerID).
		Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Limit, &b.Month,
			&b.AlertPercent, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, notFoundErr("budget", err)
	}
	return b, nil
}

// BudgetByCategoryMonth finds the budget covering one category and month
func (r *Repository) BudgetByCategoryMonth(ctx context.Context, ownerID, categoryID uuid.UUID, month string) (*models.Budget, error) {
	b := &models.Budget{}
	query := `
		SELECT id, user_id, category_id, limit_amount, month, alert_percent, created_at, updated_at
		FROM budgets
		WHERE user_id = $1 AND category_id = $2 AND month = $3`
	err := r.q.QueryRowContext(ctx, query, ownerID, categoryID, month).
		Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Limit, &b.Month,
			&b.AlertPercent, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, notFoundErr("budget", err)
	}
	return b, nil
}

// UpdateBudget persists a new limit and month for an existing budget
func (r *Repository) UpdateBudget(ctx context.Context, b *models.Budget) error {
	query := `
		UPDATE budgets
		SET limit_amount = $1, month = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3 AND user_id = $4
		RETURNING updated_at`
	err := r.q.QueryRowContext(ctx, query, b.Limit, b.Month, b.ID, b.UserID).
		Scan(&b.UpdatedAt)
	if err != nil {
		return notFoundErr("budget", err)
	}
	return nil
}

// DeleteBudget removes a budget row
func (r *Repository) DeleteBudget(ctx context.Context, ownerID, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return storeErr("delete budget", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("delete budget", err)
	}
	if n == 0 {
		return fmt.Errorf("budget: %w", reconciler.ErrNotFound)
	}
	return nil
}
