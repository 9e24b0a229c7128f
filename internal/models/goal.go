package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	GoalStatusActive  = "active"
	GoalStatusReached = "reached"
	GoalStatusExpired = "expired"
)

// Goal is a savings target funded by contributions from accounts.
type Goal struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"user_id"`
	Name              string          `json:"name"`
	TargetAmount      decimal.Decimal `json:"target_amount"`
	AccumulatedAmount decimal.Decimal `json:"accumulated_amount"`
	Deadline          time.Time       `json:"deadline"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewGoal builds an active goal with nothing accumulated yet.
func NewGoal(userID uuid.UUID, name string, target decimal.Decimal, deadline time.Time) (*Goal, error) {
	if name == "" {
		return nil, fmt.Errorf("goal name is required")
	}
	if !target.IsPositive() {
		return nil, fmt.Errorf("target amount must be positive, got %s", target)
	}
	return &Goal{
		ID:                uuid.New(),
		UserID:            userID,
		Name:              name,
		TargetAmount:      target,
		AccumulatedAmount: decimal.Zero,
		Deadline:          deadline,
		Status:            GoalStatusActive,
	}, nil
}
