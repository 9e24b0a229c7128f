package models

import "github.com/shopspring/decimal"

// MonthlySummary represents income and expense totals for one month
type MonthlySummary struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// BudgetProgress is a budget joined with its category and the amount spent
// against it so far. Spent is computed from the transaction set at read time.
type BudgetProgress struct {
	Budget
	CategoryName string          `json:"category_name"`
	Spent        decimal.Decimal `json:"spent"`
}
