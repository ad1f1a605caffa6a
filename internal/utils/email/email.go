package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/Madushan-tech/CashFlow/internal/config"
	"github.com/Madushan-tech/CashFlow/internal/realization"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// Notify mails the realization reminder to the configured recipient
func (s *Sender) Notify(_ context.Context, notice realization.Notice) error {
	return s.SendRealizationReminder(s.cfg.ReminderEmail, notice)
}

// SendRealizationReminder sends a reminder about transactions awaiting confirmation
func (s *Sender) SendRealizationReminder(to string, notice realization.Notice) error {
	e := s.buildReminder(to, notice)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

func (s *Sender) buildReminder(to string, notice realization.Notice) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = notice.Title

	body := "Hello,\n\n"
	body += notice.Body + "\n"
	body += "Open CashFlow to confirm, reschedule or skip them.\n"
	body += "\nBest regards,\nCashFlow"
	e.Text = []byte(body)
	return e
}
