// Package service holds the business layer: authentication, entity CRUD and
// the orchestration around the balance reconciler.
package service

import (
	"github.com/sirupsen/logrus"
	"github.com/tmfaria/o-meu-bolso/internal/config"
	"github.com/tmfaria/o-meu-bolso/internal/reconciler"
	"github.com/tmfaria/o-meu-bolso/internal/repository"
	"github.com/tmfaria/o-meu-bolso/internal/utils/email"
)

// Service handles business logic
type Service struct {
	repo   *repository.Repository
	rec    *reconciler.Reconciler
	mailer *email.Sender
	log    *logrus.Logger
	config *config.Config
}

// NewService initializes a new service. mailer may be nil when SMTP is not
// configured; budget alerts are then skipped.
func NewService(repo *repository.Repository, rec *reconciler.Reconciler, mailer *email.Sender, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{repo: repo, rec: rec, mailer: mailer, log: log, config: cfg}
}
