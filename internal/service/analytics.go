package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/bank-insights/internal/analytics"
	"github.com/Dan9191/bank-insights/internal/middleware"
	"github.com/Dan9191/bank-insights/internal/models"
	"github.com/sirupsen/logrus"
)

// Insights returns combined insights for the authenticated user.
// It returns nil when the user has no transactions.
func (s *Service) Insights(ctx context.Context, balance float64) (*models.Insights, error) {
	txns, err := s.userTransactions(ctx)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, nil
	}

	start := time.Now()
	insights := s.engine.Insights(txns, &balance)
	s.record("insights", len(txns), start)
	s.metrics.RecordAnomalies(len(insights.Anomalies))
	if insights.OverdraftRisk != nil && !insights.OverdraftRisk.NoData() {
		s.metrics.RecordOverdraftRisk(insights.OverdraftRisk.RiskLevel)
	}
	return &insights, nil
}

// SpendingTrends analyzes the authenticated user's spending over the trailing days
func (s *Service) SpendingTrends(ctx context.Context, days int) (models.SpendingSummary, error) {
	txns, err := s.userTransactions(ctx)
	if err != nil {
		return models.SpendingSummary{}, err
	}

	start := time.Now()
	summary := s.engine.Patterns.AnalyzeSpendingTrends(txns, days)
	s.record("spending", len(txns), start)
	return summary, nil
}

// Anomalies flags the authenticated user's unusual transactions
func (s *Service) Anomalies(ctx context.Context, thresholdStd float64) ([]models.Anomaly, error) {
	txns, err := s.userTransactions(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	anomalies := s.engine.Patterns.DetectAnomalies(txns, thresholdStd)
	s.record("anomalies", len(txns), start)
	s.metrics.RecordAnomalies(len(anomalies))
	return anomalies, nil
}

// Forecast projects the authenticated user's balance over the given days
func (s *Service) Forecast(ctx context.Context, days int, balance float64) (models.BalanceForecast, error) {
	txns, err := s.userTransactions(ctx)
	if err != nil {
		return models.BalanceForecast{}, err
	}

	start := time.Now()
	forecast := s.engine.Forecaster.ForecastBalance(txns, balance, days)
	s.record("forecast", len(txns), start)
	return forecast, nil
}

// OverdraftRisk assesses the authenticated user's overdraft risk
func (s *Service) OverdraftRisk(ctx context.Context, balance float64) (models.OverdraftRisk, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return models.OverdraftRisk{}, ErrUserIDMissing
	}
	return s.OverdraftRiskForUser(ctx, userID, balance)
}

// OverdraftRiskForUser assesses overdraft risk for any user, as used by the scheduled sweep
func (s *Service) OverdraftRiskForUser(ctx context.Context, userID int64, balance float64) (models.OverdraftRisk, error) {
	txns, err := s.transactionsFor(ctx, userID)
	if err != nil {
		return models.OverdraftRisk{}, err
	}

	start := time.Now()
	risk := s.engine.Forecaster.PredictOverdraftRisk(txns, balance, 0)
	s.record("overdraft_risk", len(txns), start)
	if !risk.NoData() {
		s.metrics.RecordOverdraftRisk(risk.RiskLevel)
	}
	return risk, nil
}

// Categorize assigns a category to each submitted transaction
func (s *Service) Categorize(inputs []models.TransactionInput) ([]models.CategorizedTransaction, error) {
	if len(inputs) == 0 {
		return nil, ErrNoTransactions
	}

	start := time.Now()
	out := make([]models.CategorizedTransaction, 0, len(inputs))
	for _, in := range inputs {
		merchant := in.MerchantName
		if merchant == "" {
			merchant = in.Channel
		}
		out = append(out, models.CategorizedTransaction{
			TransactionID: in.TransactionID,
			Merchant:      merchant,
			Amount:        in.Amount,
			Category:      string(analytics.Categorize(merchant, in.Amount, "")),
		})
	}
	s.record("categorize", len(inputs), start)
	return out, nil
}

// Segments assigns a spending segment to each customer
func (s *Service) Segments(customers map[string][]models.Transaction) map[string]models.CustomerSegment {
	start := time.Now()
	segments := s.engine.Patterns.SegmentCustomers(customers)
	total := 0
	for _, txns := range customers {
		total += len(txns)
	}
	s.record("segments", total, start)
	return segments
}

func (s *Service) userTransactions(ctx context.Context) ([]models.Transaction, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserIDMissing
	}
	return s.transactionsFor(ctx, userID)
}

func (s *Service) transactionsFor(ctx context.Context, userID int64) ([]models.Transaction, error) {
	txns, err := s.store.ListTransactionsByUser(ctx, userID, s.config.FetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for user %d: %w", userID, err)
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "count": len(txns)}).Debug("Fetched transactions")
	return txns, nil
}

func (s *Service) record(operation string, batchSize int, start time.Time) {
	s.metrics.RecordAnalysis(operation, batchSize, time.Since(start))
}
