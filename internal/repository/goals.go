package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tmfaria/o-meu-bolso/internal/models"
	"github.com/tmfaria/o-meu-bolso/internal/reconciler"
)

// CreateGoal creates a savings goal
func (r *Repository) CreateGoal(ctx context.Context, g *models.Goal) error {
	query := `
		INSERT INTO savings_goals (id, user_id, name, target_amount, accumulated_amount, deadline, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`
	err := r.q.QueryRowContext(ctx, query,
		g.ID, g.UserID, g.Name, g.TargetAmount, g.AccumulatedAmount, g.Deadline, g.Status).
		Scan(&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return storeErr("create goal", err)
	}
	return nil
}

// GoalByID retrieves one goal scoped to its owner
func (r *Repository) GoalByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Goal, error) {
	g := &models.Goal{}
	query := `
		SELECT id, user_id, name, target_amount, accumulated_amount, deadline, status, created_at, updated_at
		FROM savings_goals
		WHERE id = $1 AND user_id = $2`
	err := r.q.QueryRowContext(ctx, query, id, ownerID).
		Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.AccumulatedAmount,
			&g.Deadline, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, notFoundErr("goal", err)
	}
	return g, nil
}

// ListGoals returns the owner's savings goals
func (r *Repository) ListGoals(ctx context.Context, ownerID uuid.UUID) ([]models.Goal, error) {
	query := `
		SELECT id, user_id, name, target_amount, accumulated_amount, deadline, status, created_at, updated_at
		FROM savings_goals
		WHERE user_id = $1
		ORDER BY deadline`
	rows, err := r.q.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, storeErr("list goals", err)
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.AccumulatedAmount,
			&g.Deadline, &g.Status, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, storeErr("scan goal", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list goals", err)
	}
	return goals, nil
}

// UpdateGoal persists name, target, a manual accumulated correction and deadline
func (r *Repository) UpdateGoal(ctx context.Context, g *models.Goal) error {
	query := `
		UPDATE savings_goals
		SET name = $1, target_amount = $2, accumulated_amount = $3, deadline = $4,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $5 AND user_id = $6
		RETURNING updated_at`
	err := r.q.QueryRowContext(ctx, query,
		g.Name, g.TargetAmount, g.AccumulatedAmount, g.Deadline, g.ID, g.UserID).
		Scan(&g.UpdatedAt)
	if err != nil {
		return notFoundErr("goal", err)
	}
	return nil
}

// AdjustGoalAccumulated applies delta to the accumulated amount server-side
func (r *Repository) AdjustGoalAccumulated(ctx context.Context, ownerID, goalID uuid.UUID, delta decimal.Decimal) error {
	query := `
		UPDATE savings_goals
		SET accumulated_amount = accumulated_amount + $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND user_id = $3`
	res, err := r.q.ExecContext(ctx, query, delta, goalID, ownerID)
	if err != nil {
		return storeErr("adjust goal", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("adjust goal", err)
	}
	if n == 0 {
		return fmt.Errorf("goal: %w", reconciler.ErrNotFound)
	}
	return nil
}

// UpdateGoalStatus moves a goal between active/reached/expired
func (r *Repository) UpdateGoalStatus(ctx context.Context, ownerID, goalID uuid.UUID, status string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE savings_goals
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND user_id = $3`, status, goalID, ownerID)
	if err != nil {
		return storeErr("update goal status", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("update goal status", err)
	}
	if n == 0 {
		return fmt.Errorf("goal: %w", reconciler.ErrNotFound)
	}
	return nil
}

// DeleteGoal removes a goal; its contributions cascade away with it
func (r *Repository) DeleteGoal(ctx context.Context, ownerID, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM savings_goals WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return storeErr("delete goal", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("delete goal", err)
	}
	if n == 0 {
		return fmt.Errorf("goal: %w", reconciler.ErrNotFound)
	}
	return nil
}

// InsertContribution persists a goal contribution record
func (r *Repository) InsertContribution(ctx context.Context, c *models.GoalContribution) error {
	query := `
		INSERT INTO goal_contributions (id, user_id, goal_id, account_id, amount, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`
	err := r.q.QueryRowContext(ctx, query,
		c.ID, c.UserID, c.GoalID, c.AccountID, c.Amount, c.Date).
		Scan(&c.CreatedAt)
	if err != nil {
		return storeErr("insert contribution", err)
	}
	return nil
}

// ListContributions returns the contributions made to one goal, newest first
func (r *Repository) ListContributions(ctx context.Context, ownerID, goalID uuid.UUID) ([]models.GoalContribution, error) {
	query := `
		SELECT id, user_id, goal_id, account_id, amount, date, created_at
		FROM goal_contributions
		WHERE user_id = $1 AND goal_id = $2
		ORDER BY date DESC, created_at DESC`
	rows, err := r.q.QueryContext(ctx, query, ownerID, goalID)
	if err != nil {
		return nil, storeErr("list contributions", err)
	}
	defer rows.Close()

	contributions := []models.GoalContribution{}
	for rows.Next() {
		var c models.GoalContribution
		if err := rows.Scan(&c.ID, &c.UserID, &c.GoalID, &c.AccountID,
			&c.Amount, &c.Date, &c.CreatedAt); err != nil {
			return nil, storeErr("scan contribution", err)
		}
		contributions = append(contributions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list contributions", err)
	}
	return contributions, nil
}

// ExpireOverdueGoals marks active goals whose deadline has passed as expired.
// Runs across all owners from the daily job.
func (r *Repository) ExpireOverdueGoals(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE savings_goals
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE status = $2 AND deadline < $3`,
		models.GoalStatusExpired, models.GoalStatusActive, now)
	if err != nil {
		return 0, storeErr("expire goals", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("expire goals", err)
	}
	return n, nil
}
