package scheduler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Dan9191/bank-insights/internal/integrations/webhook"
	"github.com/Dan9191/bank-insights/internal/metrics"
	"github.com/Dan9191/bank-insights/internal/models"
	"github.com/sirupsen/logrus"
)

// AccountSource lists accounts to assess
type AccountSource interface {
	ListAccountOwners(ctx context.Context) ([]models.AccountOwner, error)
}

// RiskAssessor computes overdraft risk for a user's history against a balance
type RiskAssessor interface {
	OverdraftRiskForUser(ctx context.Context, userID int64, balance float64) (models.OverdraftRisk, error)
}

// EventNotifier delivers webhook events
type EventNotifier interface {
	Send(ctx context.Context, eventType string, payload any, user *webhook.EventUser, meta map[string]any) bool
}

// Mailer delivers alert e-mails
type Mailer interface {
	SendOverdraftAlert(ctx context.Context, to, username string, risk models.OverdraftRisk) error
}

// SweepResult summarizes one sweep
type SweepResult struct {
	Accounts int
	AtRisk   int
	Failed   int
}

// OverdraftSweep assesses every account and alerts owners of accounts at MEDIUM or HIGH risk
type OverdraftSweep struct {
	accounts AccountSource
	assessor RiskAssessor
	notifier EventNotifier
	mailer   Mailer
	metrics  metrics.Recorder
	log      *logrus.Logger
}

// NewOverdraftSweep creates a sweep. mailer may be nil when e-mail is not configured.
func NewOverdraftSweep(accounts AccountSource, assessor RiskAssessor, notifier EventNotifier, mailer Mailer, rec metrics.Recorder, log *logrus.Logger) *OverdraftSweep {
	if rec == nil {
		rec = metrics.NoOpRecorder{}
	}
	return &OverdraftSweep{
		accounts: accounts,
		assessor: assessor,
		notifier: notifier,
		mailer:   mailer,
		metrics:  rec,
		log:      log,
	}
}

// Run performs one sweep. A failure on one account is logged and the sweep continues.
func (s *OverdraftSweep) Run(ctx context.Context) (SweepResult, error) {
	owners, err := s.accounts.ListAccountOwners(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("overdraft sweep: %w", err)
	}

	var result SweepResult
	for _, owner := range owners {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Accounts++

		atRisk, err := s.assess(ctx, owner)
		if atRisk {
			result.AtRisk++
		}
		if err != nil {
			result.Failed++
			s.log.WithFields(logrus.Fields{"account_id": owner.ID, "user_id": owner.UserID}).
				Errorf("Overdraft assessment failed: %v", err)
		}
	}

	s.log.WithFields(logrus.Fields{
		"accounts": result.Accounts,
		"at_risk":  result.AtRisk,
		"failed":   result.Failed,
	}).Info("Overdraft sweep finished")
	return result, nil
}

// Job adapts the sweep for the Scheduler. The summary is logged by Run.
func (s *OverdraftSweep) Job() Job {
	return JobFunc(func(ctx context.Context) error {
		_, err := s.Run(ctx)
		return err
	})
}

func (s *OverdraftSweep) assess(ctx context.Context, owner models.AccountOwner) (bool, error) {
	risk, err := s.assessor.OverdraftRiskForUser(ctx, owner.UserID, owner.Balance)
	if err != nil {
		return false, err
	}
	if risk.NoData() || (risk.RiskLevel != models.RiskMedium && risk.RiskLevel != models.RiskHigh) {
		return false, nil
	}

	user := &webhook.EventUser{
		ID:       strconv.FormatInt(owner.UserID, 10),
		Email:    owner.Email,
		Username: owner.Username,
	}
	meta := map[string]any{"account_id": owner.ID, "currency": owner.Currency}
	delivered := s.notifier.Send(ctx, webhook.EventOverdraftRisk, risk, user, meta)
	s.metrics.RecordNotification("webhook", delivered)

	if s.mailer != nil && owner.Email != "" {
		err := s.mailer.SendOverdraftAlert(ctx, owner.Email, owner.Username, risk)
		s.metrics.RecordNotification("email", err == nil)
		if err != nil {
			return true, fmt.Errorf("alert e-mail for account %d: %w", owner.ID, err)
		}
	}
	return true, nil
}
