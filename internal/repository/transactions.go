package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tmfaria/o-meu-bolso/internal/models"
	"github.com/tmfaria/o-meu-bolso/internal/reconciler"
)

// InsertTransaction persists a new transaction record
func (r *Repository) InsertTransaction(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, account_id, category_id, type, amount, date, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`
	err := r.q.QueryRowContext(ctx, query,
		tx.ID, tx.UserID, tx.AccountID, tx.CategoryID,
		tx.Type, tx.Amount, tx.Date, tx.Description).
		Scan(&tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return storeErr("insert transaction", err)
	}
	return nil
}

// TransactionByID retrieves one transaction scoped to its owner
func (r *Repository) TransactionByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Transaction, error) {
	tx := &models.Transaction{}
	var category uuid.NullUUID
	query := `
		SELECT id, user_id, account_id, category_id, type, amount, date, description, created_at, updated_at
		FROM transactions
		WHERE id = $1 AND user_id = $2`
	err := r.q.QueryRowContext(ctx, query, id, ownerID).
		Scan(&tx.ID, &tx.UserID, &tx.AccountID, &category,
			&tx.Type, &tx.Amount, &tx.Date, &tx.Description,
			&tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return nil, notFoundErr("transaction", err)
	}
	if category.Valid {
		tx.CategoryID = &category.UUID
	}
	return tx, nil
}

// ListTransactions returns the owner's transactions, newest first, with the
// category name joined in for display.
func (r *Repository) ListTransactions(ctx context.Context, ownerID uuid.UUID) ([]models.Transaction, error) {
	query := `
		SELECT t.id, t.user_id, t.account_id, t.category_id, t.type, t.amount,
		       t.date, t.description, COALESCE(c.name, ''), t.created_at, t.updated_at
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1
		ORDER BY t.date DESC, t.created_at DESC`
	rows, err := r.q.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, storeErr("list transactions", err)
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		var category uuid.NullUUID
		if err := rows.Scan(&t.ID, &t.UserID, &t.AccountID, &category,
			&t.Type, &t.Amount, &t.Date, &t.Description, &t.CategoryName,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, storeErr("scan transaction", err)
		}
		if category.Valid {
			t.CategoryID = &category.UUID
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list transactions", err)
	}
	return txs, nil
}

// UpdateTransaction persists new field values for an existing transaction
func (r *Repository) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	query := `
		UPDATE transactions
		SET account_id = $1, category_id = $2, type = $3, amount = $4,
		    date = $5, description = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $7 AND user_id = $8
		RETURNING updated_at`
	err := r.q.QueryRowContext(ctx, query,
		tx.AccountID, tx.CategoryID, tx.Type, tx.Amount,
		tx.Date, tx.Description, tx.ID, tx.UserID).
		Scan(&tx.UpdatedAt)
	if err != nil {
		return notFoundErr("transaction", err)
	}
	return nil
}

// DeleteTransaction removes a transaction record
func (r *Repository) DeleteTransaction(ctx context.Context, ownerID, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return storeErr("delete transaction", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("delete transaction", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction: %w", reconciler.ErrNotFound)
	}
	return nil
}

// SumExpenses totals the owner's expense transactions for one category and
// month (YYYY-MM). Feeds the derived budget "spent" figure.
func (r *Repository) SumExpenses(ctx context.Context, ownerID, categoryID uuid.UUID, month string) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND category_id = $2 AND type = 'expense'
		  AND to_char(date, 'YYYY-MM') = $3`
	err := r.q.QueryRowContext(ctx, query, ownerID, categoryID, month).Scan(&total)
	if err != nil && err != sql.ErrNoRows {
		return decimal.Zero, storeErr("sum expenses", err)
	}
	return total, nil
}

// MonthlyTotals returns the owner's income and expense totals for one month.
func (r *Repository) MonthlyTotals(ctx context.Context, ownerID uuid.UUID, month string) (income, expense decimal.Decimal, err error) {
	query := `
		SELECT COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1 AND to_char(date, 'YYYY-MM') = $2`
	if err := r.q.QueryRowContext(ctx, query, ownerID, month).Scan(&income, &expense); err != nil {
		return decimal.Zero, decimal.Zero, storeErr("monthly totals", err)
	}
	return income, expense, nil
}
