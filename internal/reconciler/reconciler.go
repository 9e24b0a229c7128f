// Package reconciler keeps account balances and goal totals consistent with
// the transactions and contributions attributed to them. Invariant: an
// account's current balance always equals its initial balance plus the signed
// sum of its non-deleted transactions.
package reconciler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/tmfaria/o-meu-bolso/internal/models"
)

// Reconciler applies transaction and contribution lifecycle events to the
// stored aggregates they drive.
type Reconciler struct {
	store Store
	log   *logrus.Logger
}

// New initializes a reconciler over the given store.
func New(store Store, log *logrus.Logger) *Reconciler {
	return &Reconciler{store: store, log: log}
}

// signedDelta is the amount a transaction contributes to its account balance:
// positive for income, negative for expense.
func signedDelta(t models.TransactionType, amount decimal.Decimal) decimal.Decimal {
	if t == models.TypeIncome {
		return amount
	}
	return amount.Neg()
}

// CreateTransaction inserts tx and applies its signed delta to the account
// balance. The account must exist and belong to ownerID; both writes commit
// as one unit.
func (r *Reconciler) CreateTransaction(ctx context.Context, ownerID uuid.UUID, tx *models.Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := r.store.AccountByID(ctx, ownerID, tx.AccountID); err != nil {
		return err
	}

	tx.UserID = ownerID
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}
	delta := signedDelta(tx.Type, tx.Amount)

	err := r.store.Atomic(ctx, func(s Store) error {
		if err := s.InsertTransaction(ctx, tx); err != nil {
			return err
		}
		if err := s.AdjustAccountBalance(ctx, ownerID, tx.AccountID, delta); err != nil {
			return &PartialReconciliationError{Op: "create transaction " + tx.ID.String(), Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.WithFields(logrus.Fields{
		"transaction": tx.ID,
		"account":     tx.AccountID,
		"delta":       delta.String(),
	}).Debug("transaction created, balance adjusted")
	return nil
}

// UpdateTransaction replaces the stored transaction with updated and moves the
// balance effect accordingly: the old delta is reversed on the old account,
// the new delta applied to the new account (which may be the same one). The
// destination account is validated before any balance is touched, so a bad
// account id cannot leave the old account half-reconciled.
func (r *Reconciler) UpdateTransaction(ctx context.Context, ownerID uuid.UUID, updated *models.Transaction) (*models.Transaction, error) {
	if updated.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: transaction id is required", ErrInvalidInput)
	}
	if err := updated.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	old, err := r.store.TransactionByID(ctx, ownerID, updated.ID)
	if err != nil {
		return nil, err
	}
	if _, err := r.store.AccountByID(ctx, ownerID, updated.AccountID); err != nil {
		return nil, err
	}

	updated.UserID = ownerID
	if updated.Date.IsZero() {
		updated.Date = old.Date
	}
	oldDelta := signedDelta(old.Type, old.Amount)
	newDelta := signedDelta(updated.Type, updated.Amount)

	// Reverse old before applying new: when both deltas land on the same
	// account this keeps the intermediate balance well-defined.
	err = r.store.Atomic(ctx, func(s Store) error {
		if err := s.AdjustAccountBalance(ctx, ownerID, old.AccountID, oldDelta.Neg()); err != nil {
			return err
		}
		if err := s.UpdateTransaction(ctx, updated); err != nil {
			return &PartialReconciliationError{Op: "update transaction " + updated.ID.String(), Err: err}
		}
		if err := s.AdjustAccountBalance(ctx, ownerID, updated.AccountID, newDelta); err != nil {
			return &PartialReconciliationError{Op: "update transaction " + updated.ID.String(), Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.WithFields(logrus.Fields{
		"transaction": updated.ID,
		"old_account": old.AccountID,
		"new_account": updated.AccountID,
		"old_delta":   oldDelta.String(),
		"new_delta":   newDelta.String(),
	}).Debug("transaction updated, balances reconciled")
	return updated, nil
}

// DeleteTransaction removes the transaction and reverses its delta, leaving
// the account balance as if the transaction had never existed.
func (r *Reconciler) DeleteTransaction(ctx context.Context, ownerID, id uuid.UUID) error {
	tx, err := r.store.TransactionByID(ctx, ownerID, id)
	if err != nil {
		return err
	}
	delta := signedDelta(tx.Type, tx.Amount)

	err = r.store.Atomic(ctx, func(s Store) error {
		if err := s.AdjustAccountBalance(ctx, ownerID, tx.AccountID, delta.Neg()); err != nil {
			return err
		}
		if err := s.DeleteTransaction(ctx, ownerID, id); err != nil {
			return &PartialReconciliationError{Op: "delete transaction " + id.String(), Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.WithFields(logrus.Fields{
		"transaction": id,
		"account":     tx.AccountID,
		"delta":       delta.Neg().String(),
	}).Debug("transaction deleted, balance reverted")
	return nil
}

// CreateContribution moves c.Amount from the source account into the goal:
// the account balance decreases, the goal's accumulated amount increases and
// the contribution record is persisted, all as one unit. A contribution that
// exceeds the available balance is rejected before anything is written.
func (r *Reconciler) CreateContribution(ctx context.Context, ownerID uuid.UUID, c *models.GoalContribution) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	goal, err := r.store.GoalByID(ctx, ownerID, c.GoalID)
	if err != nil {
		return err
	}
	account, err := r.store.AccountByID(ctx, ownerID, c.AccountID)
	if err != nil {
		return err
	}
	if account.CurrentBalance.LessThan(c.Amount) {
		return fmt.Errorf("%w: account %s holds %s, contribution is %s",
			ErrInsufficientFunds, account.ID, account.CurrentBalance, c.Amount)
	}

	c.UserID = ownerID
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Date.IsZero() {
		c.Date = time.Now()
	}
	reached := goal.Status == models.GoalStatusActive &&
		goal.AccumulatedAmount.Add(c.Amount).GreaterThanOrEqual(goal.TargetAmount)

	err = r.store.Atomic(ctx, func(s Store) error {
		// Conditional decrement: re-checks the balance server-side so a
		// concurrent withdrawal cannot drive the account negative.
		if err := s.WithdrawFromAccount(ctx, ownerID, c.AccountID, c.Amount); err != nil {
			return err
		}
		if err := s.AdjustGoalAccumulated(ctx, ownerID, c.GoalID, c.Amount); err != nil {
			return &PartialReconciliationError{Op: "contribute to goal " + c.GoalID.String(), Err: err}
		}
		if err := s.InsertContribution(ctx, c); err != nil {
			return &PartialReconciliationError{Op: "contribute to goal " + c.GoalID.String(), Err: err}
		}
		if reached {
			if err := s.UpdateGoalStatus(ctx, ownerID, c.GoalID, models.GoalStatusReached); err != nil {
				return &PartialReconciliationError{Op: "contribute to goal " + c.GoalID.String(), Err: err}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.WithFields(logrus.Fields{
		"contribution": c.ID,
		"goal":         c.GoalID,
		"account":      c.AccountID,
		"amount":       c.Amount.String(),
		"reached":      reached,
	}).Debug("goal contribution applied")
	return nil
}
