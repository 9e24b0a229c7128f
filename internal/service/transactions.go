package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tmfaria/o-meu-bolso/internal/models"
)

// CreateTransaction posts a transaction through the reconciler and checks the
// matching budget afterwards.
func (s *Service) CreateTransaction(ctx context.Context, ownerID uuid.UUID, tx *models.Transaction) (*models.Transaction, error) {
	if err := s.rec.CreateTransaction(ctx, ownerID, tx); err != nil {
		return nil, err
	}
	s.checkBudgetAlert(ctx, ownerID, tx)
	return tx, nil
}

// ListTransactions returns the user's transactions, newest first
func (s *Service) ListTransactions(ctx context.Context, ownerID uuid.UUID) ([]models.Transaction, error) {
	return s.repo.ListTransactions(ctx, ownerID)
}

// UpdateTransaction replaces a transaction through the reconciler
func (s *Service) UpdateTransaction(ctx context.Context, ownerID uuid.UUID, tx *models.Transaction) (*models.Transaction, error) {
	updated, err := s.rec.UpdateTransaction(ctx, ownerID, tx)
	if err != nil {
		return nil, err
	}
	s.checkBudgetAlert(ctx, ownerID, updated)
	return updated, nil
}

// DeleteTransaction removes a transaction through the reconciler
func (s *Service) DeleteTransaction(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.rec.DeleteTransaction(ctx, ownerID, id)
}

// checkBudgetAlert mails the owner when an expense pushes the month's spend
// over the budget's alert threshold. Best effort: failures are logged, never
// returned to the caller.
func (s *Service) checkBudgetAlert(ctx context.Context, ownerID uuid.UUID, tx *models.Transaction) {
	if s.mailer == nil || tx.Type != models.TypeExpense || tx.CategoryID == nil {
		return
	}

	month := tx.Date.Format("2006-01")
	budget, err := s.repo.BudgetByCategoryMonth(ctx, ownerID, *tx.CategoryID, month)
	if err != nil {
		return // no budget covers this category and month
	}

	spent, err := s.repo.SumExpenses(ctx, ownerID, *tx.CategoryID, month)
	if err != nil {
		s.log.Warnf("Budget alert check failed for budget %s: %v", budget.ID, err)
		return
	}

	threshold := budget.Limit.
		Mul(decimal.NewFromInt(int64(budget.AlertPercent))).
		Div(decimal.NewFromInt(100))
	if spent.LessThan(threshold) {
		return
	}

	user, err := s.repo.UserByID(ctx, ownerID)
	if err != nil {
		s.log.Warnf("Budget alert check failed for budget %s: %v", budget.ID, err)
		return
	}

	categoryName := tx.CategoryName
	if categoryName == "" {
		categoryName = "category"
	}
	if err := s.mailer.SendBudgetAlert(user.Email, user.Name, categoryName, spent, budget.Limit, month); err != nil {
		s.log.Warnf("Failed to send budget alert for budget %s: %v", budget.ID, err)
	}
}
