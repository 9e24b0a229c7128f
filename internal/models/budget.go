package models

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Budget is a monthly spending limit for one expense category. Its "spent"
// figure is derived at read time from the transaction set, never stored.
type Budget struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	CategoryID   uuid.UUID       `json:"category_id"`
	Limit        decimal.Decimal `json:"limit"`
	Month        string          `json:"month"` // YYYY-MM
	AlertPercent int             `json:"alert_percent"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewBudget builds a budget for the given category and month.
func NewBudget(userID, categoryID uuid.UUID, limit decimal.Decimal, month string) (*Budget, error) {
	if categoryID == uuid.Nil {
		return nil, fmt.Errorf("category_id is required")
	}
	if !limit.IsPositive() {
		return nil, fmt.Errorf("limit must be positive, got %s", limit)
	}
	if !monthPattern.MatchString(month) {
		return nil, fmt.Errorf("month must be YYYY-MM, got %q", month)
	}
	return &Budget{
		ID:           uuid.New(),
		UserID:       userID,
		CategoryID:   categoryID,
		Limit:        limit,
		Month:        month,
		AlertPercent: 100,
	}, nil
}

// ValidMonth reports whether s is a YYYY-MM period.
func ValidMonth(s string) bool {
	return monthPattern.MatchString(s)
}
