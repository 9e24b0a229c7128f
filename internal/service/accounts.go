package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tmfaria/o-meu-bolso/internal/models"
	"github.com/tmfaria/o-meu-bolso/internal/reconciler"
)

// CreateAccount creates a new account for the authenticated user
func (s *Service) CreateAccount(ctx context.Context, ownerID uuid.UUID, name, accountType string, balance decimal.Decimal) (*models.Account, error) {
	account, err := models.NewAccount(ownerID, name, accountType, balance)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", reconciler.ErrInvalidInput, err)
	}
	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	s.log.Infof("Account created for user %s: %s", ownerID, account.Name)
	return account, nil
}

// ListAccounts returns the user's accounts
func (s *Service) ListAccounts(ctx context.Context, ownerID uuid.UUID) ([]models.Account, error) {
	return s.repo.ListAccounts(ctx, ownerID)
}

// UpdateAccount renames or retypes an account. A non-nil balance is an
// explicit manual correction of the current balance, bypassing the reconciler.
func (s *Service) UpdateAccount(ctx context.Context, ownerID, id uuid.UUID, name, accountType string, balance *decimal.Decimal) (*models.Account, error) {
	account, err := s.repo.AccountByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		account.Name = name
	}
	if accountType != "" {
		account.Type = accountType
	}
	if balance != nil {
		account.CurrentBalance = *balance
	}
	if err := s.repo.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteAccount removes an account and, by cascade, its transactions
func (s *Service) DeleteAccount(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeleteAccount(ctx, ownerID, id)
}
