// Package repository provides the Postgres-backed store. Balance and goal
// adjustments are executed server-side (SET x = x + delta) so concurrent
// requests against the same row cannot lose each other's writes, and every
// multi-step reconciliation runs inside a single database transaction.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/tmfaria/o-meu-bolso/internal/reconciler"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository provides database operations
type Repository struct {
	db *sql.DB
	q  querier
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, q: db}
}

// Atomic runs fn against a repository bound to one database transaction.
// Nested calls reuse the transaction already in flight.
func (r *Repository) Atomic(ctx context.Context, fn func(reconciler.Store) error) error {
	if _, ok := r.q.(*sql.Tx); ok {
		return fn(r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", reconciler.ErrStoreFailure, err)
	}
	if err := fn(&Repository{db: r.db, q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return &reconciler.PartialReconciliationError{
				Op:  "rollback",
				Err: fmt.Errorf("%v (rollback failed: %v)", err, rbErr),
			}
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", reconciler.ErrStoreFailure, err)
	}
	return nil
}

const uniqueViolation = "23505"

// storeErr maps driver errors onto the shared error kinds.
func storeErr(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, reconciler.ErrConflict)
	}
	return fmt.Errorf("%s: %w: %v", op, reconciler.ErrStoreFailure, err)
}

// notFoundErr wraps a missing or foreign-owned row.
func notFoundErr(entity string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", entity, reconciler.ErrNotFound)
	}
	return storeErr("find "+entity, err)
}
