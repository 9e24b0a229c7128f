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

// CreateGoal creates a savings goal for the authenticated user
func (s *Service) CreateGoal(ctx context.Context, ownerID uuid.UUID, name string, target decimal.Decimal, deadline time.Time) (*models.Goal, error) {
	goal, err := models.NewGoal(ownerID, name, target, deadline)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", reconciler.ErrInvalidInput, err)
	}
	if err := s.repo.CreateGoal(ctx, goal); err != nil {
		return nil, err
	}
	s.log.Infof("Goal created for user %s: %s", ownerID, goal.Name)
	return goal, nil
}

// ListGoals returns the user's savings goals
func (s *Service) ListGoals(ctx context.Context, ownerID uuid.UUID) ([]models.Goal, error) {
	return s.repo.ListGoals(ctx, ownerID)
}

// UpdateGoal edits a goal. A non-nil accumulated is an explicit manual
// correction, bypassing the reconciler.
func (s *Service) UpdateGoal(ctx context.Context, ownerID, id uuid.UUID, name string, target *decimal.Decimal, accumulated *decimal.Decimal, deadline *time.Time) (*models.Goal, error) {
	goal, err := s.repo.GoalByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		goal.Name = name
	}
	if target != nil {
		if !target.IsPositive() {
			return nil, fmt.Errorf("%w: target amount must be positive, got %s", reconciler.ErrInvalidInput, target)
		}
		goal.TargetAmount = *target
	}
	if accumulated != nil {
		goal.AccumulatedAmount = *accumulated
	}
	if deadline != nil {
		goal.Deadline = *deadline
	}
	if err := s.repo.UpdateGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// DeleteGoal removes a goal and its contributions
func (s *Service) DeleteGoal(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeleteGoal(ctx, ownerID, id)
}

// Contribute moves money from a source account into a goal via the reconciler
func (s *Service) Contribute(ctx context.Context, ownerID, goalID, accountID uuid.UUID, amount decimal.Decimal, date time.Time) (*models.GoalContribution, error) {
	contribution := &models.GoalContribution{
		GoalID:    goalID,
		AccountID: accountID,
		Amount:    amount,
		Date:      date,
	}
	if err := s.rec.CreateContribution(ctx, ownerID, contribution); err != nil {
		return nil, err
	}
	return contribution, nil
}

// ListContributions returns the contributions made to one goal
func (s *Service) ListContributions(ctx context.Context, ownerID, goalID uuid.UUID) ([]models.GoalContribution, error) {
	if _, err := s.repo.GoalByID(ctx, ownerID, goalID); err != nil {
		return nil, err
	}
	return s.repo.ListContributions(ctx, ownerID, goalID)
}

// ExpireOverdueGoals marks active goals past their deadline as expired.
// Called from the daily job.
func (s *Service) ExpireOverdueGoals(ctx context.Context) error {
	n, err := s.repo.ExpireOverdueGoals(ctx, time.Now())
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Infof("Marked %d overdue goals as expired", n)
	}
	return nil
}
