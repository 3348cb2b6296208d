// Package analytics derives categories, spending trends, anomalies and cash-flow
// forecasts from in-memory transaction batches. Every operation is a pure function
// of its inputs and the injected clock.
package analytics

import (
	"time"

	"github.com/Dan9191/bank-insights/internal/models"
)

// Defaults applied by callers that do not supply their own parameters.
const (
	DefaultTrendDays    = 30
	DefaultThresholdStd = 2.0
	DefaultForecastDays = 30
)

// Engine composes pattern analysis and forecasting over one clock.
type Engine struct {
	Patterns   *PatternAnalyzer
	Forecaster *Forecaster
}

// NewEngine creates an engine using the wall clock.
func NewEngine() *Engine {
	return NewEngineWithClock(time.Now)
}

// NewEngineWithClock creates an engine whose components read time from now.
func NewEngineWithClock(now func() time.Time) *Engine {
	return &Engine{
		Patterns:   &PatternAnalyzer{Now: now},
		Forecaster: &Forecaster{Now: now},
	}
}

// Insights combines a 30-day trend summary with full-history anomalies. When
// currentBalance is set, a 30-day forecast and an overdraft assessment are attached.
func (e *Engine) Insights(txns []models.Transaction, currentBalance *float64) models.Insights {
	insights := models.Insights{
		SpendingAnalysis: e.Patterns.AnalyzeSpendingTrends(txns, DefaultTrendDays),
		Anomalies:        e.Patterns.DetectAnomalies(txns, DefaultThresholdStd),
	}
	if currentBalance != nil {
		forecast := e.Forecaster.ForecastBalance(txns, *currentBalance, DefaultForecastDays)
		risk := e.Forecaster.PredictOverdraftRisk(txns, *currentBalance, 0)
		insights.CashFlowForecast = &forecast
		insights.OverdraftRisk = &risk
	}
	return insights
}
