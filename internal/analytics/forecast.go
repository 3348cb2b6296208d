package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/Dan9191/bank-insights/internal/models"
)

const (
	// MsgNoForecastHistory is reported when no dated history is available.
	MsgNoForecastHistory = "No historical data for forecasting"
	// MsgNoRiskHistory is reported by overdraft assessment for an empty batch.
	MsgNoRiskHistory = "No historical data"

	// MaxForecastDays bounds the projection horizon.
	MaxForecastDays = 365

	highRiskDays   = 7
	mediumRiskDays = 14

	// confidenceWidth is the band half-width in daily standard deviations.
	confidenceWidth = 2
)

// Forecaster projects balances from historical daily net cash flow.
type Forecaster struct {
	Now func() time.Time
}

// NewForecaster creates a forecaster using the wall clock.
func NewForecaster() *Forecaster {
	return &Forecaster{Now: time.Now}
}

func (f *Forecaster) now() time.Time {
	if f == nil || f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

// ForecastBalance projects currentBalance daysAhead days forward by subtracting the mean
// daily net change each day. The confidence band is a constant ±2 daily standard
// deviations around each point. A history with a single date has a deviation of 0.
// daysAhead is clamped to [0, MaxForecastDays].
func (f *Forecaster) ForecastBalance(txns []models.Transaction, currentBalance float64, daysAhead int) models.BalanceForecast {
	if len(txns) == 0 {
		return models.BalanceForecast{Error: MsgNoForecastHistory}
	}

	now := f.now()
	daily := make(map[string]float64)
	for _, t := range txns {
		if ts, ok := resolveTimestamp(t, now.Location()); ok {
			daily[dateKey(ts)] += t.Amount
		}
	}
	if len(daily) == 0 {
		return models.BalanceForecast{Error: MsgNoForecastHistory}
	}

	dates := make([]string, 0, len(daily))
	for date := range daily {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var m moments
	for _, date := range dates {
		m.add(daily[date])
	}
	avg := finite(m.mean)
	std := finite(m.sampleStd())

	daysAhead = min(max(daysAhead, 0), MaxForecastDays)
	points := make([]models.ForecastPoint, 0, daysAhead)
	balance := currentBalance
	for day := 1; day <= daysAhead; day++ {
		balance -= avg
		points = append(points, models.ForecastPoint{
			Date:                    now.AddDate(0, 0, day).Format(dateLayout),
			PredictedBalance:        balance,
			ConfidenceIntervalLower: balance - confidenceWidth*std,
			ConfidenceIntervalUpper: balance + confidenceWidth*std,
		})
	}

	return models.BalanceForecast{
		CurrentBalance:   currentBalance,
		AvgDailySpending: avg,
		StdDailySpending: std,
		ForecastDays:     daysAhead,
		Forecast:         points,
	}
}

// PredictOverdraftRisk estimates how many days of average spending the balance above
// threshold covers. Average spending here is the per-transaction mean of the batch.
// When that mean is not positive there is no overdraft horizon and the risk is LOW.
func (f *Forecaster) PredictOverdraftRisk(txns []models.Transaction, currentBalance, threshold float64) models.OverdraftRisk {
	if len(txns) == 0 {
		return models.OverdraftRisk{Error: MsgNoRiskHistory}
	}

	var acc accumulator
	for _, t := range txns {
		acc.add(t.Amount)
	}
	avg := finite(acc.mean())

	risk := models.OverdraftRisk{
		CurrentBalance:   currentBalance,
		AvgDailySpending: avg,
		RiskLevel:        models.RiskLow,
	}
	if avg > 0 {
		days := finite((currentBalance - threshold) / avg)
		risk.DaysUntilOverdraft = &days
		risk.RiskLevel = riskLevel(days)
	}
	risk.Recommendation = recommendation(risk.RiskLevel, risk.DaysUntilOverdraft)
	return risk
}

func riskLevel(days float64) string {
	switch {
	case days < highRiskDays:
		return models.RiskHigh
	case days < mediumRiskDays:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

func recommendation(level string, days *float64) string {
	switch level {
	case models.RiskHigh:
		return fmt.Sprintf("⚠️ High risk: Only %.0f days of spending remaining. Consider reducing expenses or depositing funds.", *days)
	case models.RiskMedium:
		return fmt.Sprintf("⚠️ Medium risk: %.0f days of spending remaining. Monitor your spending closely.", *days)
	default:
		return "✓ Low risk: Your account balance is healthy."
	}
}
