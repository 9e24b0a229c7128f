package email

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/tmfaria/o-meu-bolso/internal/config"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendBudgetAlert notifies the user that a month's spending reached the
// budget's alert threshold.
func (s *Sender) SendBudgetAlert(to, username, category string, spent, limit decimal.Decimal, month string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	if spent.GreaterThan(limit) {
		e.Subject = fmt.Sprintf("Budget exceeded: %s (%s)", category, month)
	} else {
		e.Subject = fmt.Sprintf("Budget limit reached: %s (%s)", category, month)
	}

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your spending on %q reached %s EUR of the %s EUR limit set for %s.\n"+
			"Review your transactions to stay on track.\n"+
			"\nBest regards,\nO Meu Bolso",
		username, category, spent.StringFixed(2), limit.StringFixed(2), month,
	)
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
