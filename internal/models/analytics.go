package models

import "encoding/json"

// Risk tiers reported by an overdraft assessment.
const (
	RiskLow    = "LOW"
	RiskMedium = "MEDIUM"
	RiskHigh   = "HIGH"
)

// noData is the wire shape of a result computed from an empty batch.
type noData struct {
	Error string `json:"error"`
}

// CategoryStats represents spending aggregates for one category
type CategoryStats struct {
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// SpendingSummary represents spending trends over a trailing window
type SpendingSummary struct {
	Error              string                   `json:"error,omitempty"`
	PeriodDays         int                      `json:"period_days"`
	TotalSpent         float64                  `json:"total_spent"`
	AvgTransaction     float64                  `json:"avg_transaction"`
	MaxTransaction     float64                  `json:"max_transaction"`
	MinTransaction     float64                  `json:"min_transaction"`
	TransactionCount   int                      `json:"transaction_count"`
	SpendingByCategory map[string]CategoryStats `json:"spending_by_category"`
	DailySpending      map[string]float64       `json:"daily_spending"` // Keyed by YYYY-MM-DD
}

// NoData reports whether the summary was produced from an empty batch.
func (s SpendingSummary) NoData() bool { return s.Error != "" }

// MarshalJSON renders a no-data summary as a bare error object.
func (s SpendingSummary) MarshalJSON() ([]byte, error) {
	if s.NoData() {
		return json.Marshal(noData{Error: s.Error})
	}
	type plain SpendingSummary
	return json.Marshal(plain(s))
}

// Anomaly represents a transaction whose amount deviates from the batch mean
type Anomaly struct {
	TransactionID *TransactionID `json:"transaction_id"`
	Amount        float64        `json:"amount"`
	Merchant      string         `json:"merchant"`
	ZScore        float64        `json:"z_score"`
	Reason        string         `json:"reason"`
	Timestamp     string         `json:"timestamp"`
}

// BalanceForecast represents balance forecast for N days
type BalanceForecast struct {
	Error            string          `json:"error,omitempty"`
	CurrentBalance   float64         `json:"current_balance"`
	AvgDailySpending float64         `json:"avg_daily_spending"`
	StdDailySpending float64         `json:"std_daily_spending"`
	ForecastDays     int             `json:"forecast_days"`
	Forecast         []ForecastPoint `json:"forecast"`
}

// NoData reports whether the forecast was produced without usable history.
func (f BalanceForecast) NoData() bool { return f.Error != "" }

// MarshalJSON renders a no-data forecast as a bare error object.
func (f BalanceForecast) MarshalJSON() ([]byte, error) {
	if f.NoData() {
		return json.Marshal(noData{Error: f.Error})
	}
	type plain BalanceForecast
	return json.Marshal(plain(f))
}

// ForecastPoint represents the predicted balance for a specific day
type ForecastPoint struct {
	Date                    string  `json:"date"` // Format: YYYY-MM-DD
	PredictedBalance        float64 `json:"predicted_balance"`
	ConfidenceIntervalLower float64 `json:"confidence_interval_lower"`
	ConfidenceIntervalUpper float64 `json:"confidence_interval_upper"`
}

// OverdraftRisk represents an overdraft risk assessment.
// DaysUntilOverdraft is nil when average spending is not positive.
type OverdraftRisk struct {
	Error              string   `json:"error,omitempty"`
	CurrentBalance     float64  `json:"current_balance"`
	AvgDailySpending   float64  `json:"avg_daily_spending"`
	DaysUntilOverdraft *float64 `json:"days_until_overdraft"`
	RiskLevel          string   `json:"risk_level"`
	Recommendation     string   `json:"recommendation"`
}

// NoData reports whether the assessment was produced from an empty batch.
func (r OverdraftRisk) NoData() bool { return r.Error != "" }

// MarshalJSON renders a no-data assessment as a bare error object.
func (r OverdraftRisk) MarshalJSON() ([]byte, error) {
	if r.NoData() {
		return json.Marshal(noData{Error: r.Error})
	}
	type plain OverdraftRisk
	return json.Marshal(plain(r))
}

// CustomerSegment represents the spending segment of one customer
type CustomerSegment struct {
	Segment           string  `json:"segment"`
	TotalSpent        float64 `json:"total_spent"`
	AvgTransaction    float64 `json:"avg_transaction"`
	TransactionCount  int     `json:"transaction_count"`
	SpendingFrequency int     `json:"spending_frequency"`
}

// Insights combines trend, anomaly and optional cash-flow results
type Insights struct {
	SpendingAnalysis SpendingSummary  `json:"spending_analysis"`
	Anomalies        []Anomaly        `json:"anomalies"`
	CashFlowForecast *BalanceForecast `json:"cash_flow_forecast,omitempty"`
	OverdraftRisk    *OverdraftRisk   `json:"overdraft_risk,omitempty"`
}

// CategorizedTransaction echoes an ad-hoc transaction with its category
type CategorizedTransaction struct {
	TransactionID *TransactionID `json:"transaction_id"`
	Merchant      string         `json:"merchant"`
	Amount        *float64       `json:"amount"`
	Category      string         `json:"category"`
}
