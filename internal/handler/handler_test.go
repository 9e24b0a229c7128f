package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/tmfaria/o-meu-bolso/internal/reconciler"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", fmt.Errorf("%w: amount", reconciler.ErrInvalidInput), http.StatusBadRequest},
		{"not found", fmt.Errorf("account: %w", reconciler.ErrNotFound), http.StatusNotFound},
		{"conflict", fmt.Errorf("category: %w", reconciler.ErrConflict), http.StatusConflict},
		{"insufficient funds", fmt.Errorf("account x: %w", reconciler.ErrInsufficientFunds), http.StatusUnprocessableEntity},
		{"store failure", fmt.Errorf("query: %w", reconciler.ErrStoreFailure), http.StatusInternalServerError},
		{
			name: "partial reconciliation",
			err:  &reconciler.PartialReconciliationError{Op: "update", Err: errors.New("boom")},
			want: http.StatusInternalServerError,
		},
		{
			name: "partial wrapping not-found still 500",
			err:  &reconciler.PartialReconciliationError{Op: "update", Err: reconciler.ErrNotFound},
			want: http.StatusInternalServerError,
		},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForError(tt.err); got != tt.want {
				t.Fatalf("statusForError() = %d, want %d", got, tt.want)
			}
		})
	}
}
