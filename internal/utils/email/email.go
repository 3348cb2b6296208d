package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/Dan9191/bank-insights/internal/config"
	"github.com/Dan9191/bank-insights/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	s := &Sender{
		cfg:    cfg,
		logger: logger,
	}
	s.send = s.sendSMTP
	return s
}

// SendOverdraftAlert sends an overdraft risk warning email
func (s *Sender) SendOverdraftAlert(ctx context.Context, to, username string, risk models.OverdraftRisk) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Overdraft Risk: %s", risk.RiskLevel)
	e.Text = []byte(overdraftBody(username, risk))

	if err := s.send(e); err != nil {
		s.logger.Errorf("Failed to send overdraft alert to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

func overdraftBody(username string, risk models.OverdraftRisk) string {
	body := fmt.Sprintf("Dear %s,\n\n", username)
	body += fmt.Sprintf(
		"Current balance: %.2f\n"+
			"Average spending per transaction: %.2f\n",
		risk.CurrentBalance, risk.AvgDailySpending,
	)
	if risk.DaysUntilOverdraft != nil {
		body += fmt.Sprintf("Estimated days until overdraft: %.0f\n", *risk.DaysUntilOverdraft)
	}
	body += "\n" + risk.Recommendation + "\n"
	body += "\nBest regards,\nBank Service"
	return body
}

func (s *Sender) sendSMTP(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	return e.Send(addr, auth)
}
