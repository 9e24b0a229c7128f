package reconciler

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. Handlers map these onto HTTP statuses.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrConflict          = errors.New("already exists")
	ErrStoreFailure      = errors.New("store failure")
)

// PartialReconciliationError reports a store failure that hit a multi-step
// reconciliation after an earlier write in the same sequence had already been
// issued. A transactional store rolls the sequence back, but the error is kept
// distinct so it is never silently swallowed: callers must not blindly retry
// without checking whether the first attempt applied.
type PartialReconciliationError struct {
	Op  string
	Err error
}

func (e *PartialReconciliationError) Error() string {
	return fmt.Sprintf("partial reconciliation failure during %s: %v", e.Op, e.Err)
}

func (e *PartialReconciliationError) Unwrap() error {
	return e.Err
}
