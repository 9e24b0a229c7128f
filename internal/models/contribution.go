package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalContribution moves money from a source account into a savings goal.
type GoalContribution struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	GoalID    uuid.UUID       `json:"goal_id"`
	AccountID uuid.UUID       `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
}

// Validate checks the fields every stored contribution must carry.
func (c *GoalContribution) Validate() error {
	if c.GoalID == uuid.Nil {
		return fmt.Errorf("goal_id is required")
	}
	if c.AccountID == uuid.Nil {
		return fmt.Errorf("account_id is required")
	}
	if !c.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", c.Amount)
	}
	return nil
}
