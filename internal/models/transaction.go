package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType tags a transaction as money leaving or entering an account.
type TransactionType string

const (
	TypeExpense TransactionType = "expense"
	TypeIncome  TransactionType = "income"
)

// Valid reports whether the tag is one of the known movement types.
func (t TransactionType) Valid() bool {
	return t == TypeExpense || t == TypeIncome
}

// Transaction represents a financial transaction posted against one account.
// Amount is stored unsigned; the sign is derived from Type.
type Transaction struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	AccountID    uuid.UUID       `json:"account_id"`
	CategoryID   *uuid.UUID      `json:"category_id,omitempty"`
	Type         TransactionType `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	Description  string          `json:"description"`
	CategoryName string          `json:"category_name,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Validate checks the fields every stored transaction must carry.
func (t *Transaction) Validate() error {
	if t.AccountID == uuid.Nil {
		return fmt.Errorf("account_id is required")
	}
	if !t.Type.Valid() {
		return fmt.Errorf("type must be %q or %q, got %q", TypeExpense, TypeIncome, t.Type)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", t.Amount)
	}
	return nil
}
