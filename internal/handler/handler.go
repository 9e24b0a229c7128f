package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/tmfaria/o-meu-bolso/internal/integrations/ecb"
	"github.com/tmfaria/o-meu-bolso/internal/middleware"
	"github.com/tmfaria/o-meu-bolso/internal/reconciler"
	"github.com/tmfaria/o-meu-bolso/internal/service"
)

type Handler struct {
	svc   *service.Service
	rates *ecb.Client
	log   *logrus.Logger
}

func NewHandler(svc *service.Service, rates *ecb.Client, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, rates: rates, log: log}
}

// writeJSON encodes v with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusForError maps the shared error kinds onto HTTP statuses.
func statusForError(err error) int {
	var partial *reconciler.PartialReconciliationError
	switch {
	case errors.As(err, &partial):
		return http.StatusInternalServerError
	case errors.Is(err, reconciler.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, reconciler.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, reconciler.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, reconciler.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError surfaces err to the client. Store failures and partial
// reconciliations are logged with detail but reported generically.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		var partial *reconciler.PartialReconciliationError
		if errors.As(err, &partial) {
			h.log.WithField("op", partial.Op).Errorf("Partial reconciliation failure: %v", partial.Err)
		} else {
			h.log.Errorf("Internal error: %v", err)
		}
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON parses the request body into v
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return reconciler.ErrInvalidInput
	}
	return nil
}

// ownerID pulls the authenticated user id set by the auth middleware
func ownerID(r *http.Request) (uuid.UUID, bool) {
	return middleware.UserID(r.Context())
}

// pathID parses the {id} route variable
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, reconciler.ErrInvalidInput
	}
	return id, nil
}
