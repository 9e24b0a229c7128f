package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Category labels transactions and budgets. Unique per (user, name).
type Category struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	Name         string          `json:"name"`
	MovementType TransactionType `json:"movement_type"`
	Color        string          `json:"color"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewCategory builds a category, defaulting the color when none is given.
func NewCategory(userID uuid.UUID, name string, movementType TransactionType, color string) (*Category, error) {
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}
	if !movementType.Valid() {
		return nil, fmt.Errorf("movement type must be %q or %q, got %q", TypeExpense, TypeIncome, movementType)
	}
	if color == "" {
		color = "#2ecc71"
	}
	return &Category{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         name,
		MovementType: movementType,
		Color:        color,
	}, nil
}
