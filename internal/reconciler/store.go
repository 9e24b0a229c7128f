package reconciler

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tmfaria/o-meu-bolso/internal/models"
)

// Store is the persistence contract the reconciler requires. Every read and
// write is scoped to the owning user. Balance adjustments must be applied
// server-side (balance = balance + delta) so concurrent requests cannot lose
// each other's updates.
type Store interface {
	AccountByID(ctx context.Context, ownerID, accountID uuid.UUID) (*models.Account, error)
	AdjustAccountBalance(ctx context.Context, ownerID, accountID uuid.UUID, delta decimal.Decimal) error
	// WithdrawFromAccount decrements the balance only if at least amount is
	// available; otherwise it returns ErrInsufficientFunds and writes nothing.
	WithdrawFromAccount(ctx context.Context, ownerID, accountID uuid.UUID, amount decimal.Decimal) error

	TransactionByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Transaction, error)
	InsertTransaction(ctx context.Context, tx *models.Transaction) error
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error
	DeleteTransaction(ctx context.Context, ownerID, id uuid.UUID) error

	GoalByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Goal, error)
	AdjustGoalAccumulated(ctx context.Context, ownerID, goalID uuid.UUID, delta decimal.Decimal) error
	UpdateGoalStatus(ctx context.Context, ownerID, goalID uuid.UUID, status string) error
	InsertContribution(ctx context.Context, c *models.GoalContribution) error

	// Atomic runs fn against a store view whose writes commit or roll back as
	// one unit.
	Atomic(ctx context.Context, fn func(Store) error) error
}
