package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tmfaria/o-meu-bolso/internal/models"
	"github.com/tmfaria/o-meu-bolso/internal/reconciler"
)

// CreateAccount creates a new account in the database
func (r *Repository) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, user_id, name, type, initial_balance, current_balance)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`
	err := r.q.QueryRowContext(ctx, query,
		account.ID, account.UserID, account.Name, account.Type,
		account.InitialBalance, account.CurrentBalance).
		Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return storeErr("create account", err)
	}
	return nil
}

// AccountByID retrieves one account scoped to its owner
func (r *Repository) AccountByID(ctx context.Context, ownerID, accountID uuid.UUID) (*models.Account, error) {
	account := &models.Account{}
	query := `
		SELECT id, user_id, name, type, initial_balance, current_balance, created_at, updated_at
		FROM accounts
		WHERE id = $1 AND user_id = $2`
	err := r.q.QueryRowContext(ctx, query, accountID, ownerID).
		Scan(&account.ID, &account.UserID, &account.Name, &account.Type,
			&account.InitialBalance, &account.CurrentBalance,
			&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, notFoundErr("account", err)
	}
	return account, nil
}

// ListAccounts returns the owner's accounts ordered by name
func (r *Repository) ListAccounts(ctx context.Context, ownerID uuid.UUID) ([]models.Account, error) {
	query := `
		SELECT id, user_id, name, type, initial_balance, current_balance, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY name`
	rows, err := r.q.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, storeErr("list accounts", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Type,
			&a.InitialBalance, &a.CurrentBalance, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, storeErr("scan account", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list accounts", err)
	}
	return accounts, nil
}

// AdjustAccountBalance applies delta to the stored balance server-side so the
// read-modify-write cannot race with a concurrent request.
func (r *Repository) AdjustAccountBalance(ctx context.Context, ownerID, accountID uuid.UUID, delta decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET current_balance = current_balance + $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND user_id = $3`
	res, err := r.q.ExecContext(ctx, query, delta, accountID, ownerID)
	if err != nil {
		return storeErr("adjust balance", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("adjust balance", err)
	}
	if n == 0 {
		return fmt.Errorf("account: %w", reconciler.ErrNotFound)
	}
	return nil
}

// WithdrawFromAccount decrements the balance only when enough is available.
func (r *Repository) WithdrawFromAccount(ctx context.Context, ownerID, accountID uuid.UUID, amount decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET current_balance = current_balance - $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND user_id = $3 AND current_balance >= $1`
	res, err := r.q.ExecContext(ctx, query, amount, accountID, ownerID)
	if err != nil {
		return storeErr("withdraw", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("withdraw", err)
	}
	if n == 1 {
		return nil
	}
	// Zero rows: either the account is gone or the balance is short.
	if _, err := r.AccountByID(ctx, ownerID, accountID); err != nil {
		return err
	}
	return fmt.Errorf("account %s: %w", accountID, reconciler.ErrInsufficientFunds)
}

// UpdateAccount persists name, type and a manual balance correction
func (r *Repository) UpdateAccount(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, type = $2, current_balance = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4 AND user_id = $5
		RETURNING updated_at`
	err := r.q.QueryRowContext(ctx, query,
		account.Name, account.Type, account.CurrentBalance, account.ID, account.UserID).
		Scan(&account.UpdatedAt)
	if err != nil {
		return notFoundErr("account", err)
	}
	return nil
}

// DeleteAccount removes the account; its transactions cascade away with it
func (r *Repository) DeleteAccount(ctx context.Context, ownerID, accountID uuid.UUID) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM accounts WHERE id = $1 AND user_id = $2`, accountID, ownerID)
	if err != nil {
		return storeErr("delete account", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("delete account", err)
	}
	if n == 0 {
		return fmt.Errorf("account: %w", reconciler.ErrNotFound)
	}
	return nil
}
