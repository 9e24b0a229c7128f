package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents a money account (bank account, wallet, card)
type Account struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewAccount builds an account whose current balance starts at the initial balance.
func NewAccount(userID uuid.UUID, name, accountType string, balance decimal.Decimal) (*Account, error) {
	if name == "" {
		return nil, fmt.Errorf("account name is required")
	}
	return &Account{
		ID:             uuid.New(),
		UserID:         userID,
		Name:           name,
		Type:           accountType,
		InitialBalance: balance,
		CurrentBalance: balance,
	}, nil
}
