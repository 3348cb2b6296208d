package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Dan9191/bank-insights/internal/models"
)

const (
	// MsgNoTransactions is reported by trend analysis for an empty batch.
	MsgNoTransactions = "No transactions provided"

	// minAnomalySample is the smallest batch with a meaningful sample deviation.
	minAnomalySample = 3

	unknownLabel = "Unknown"
)

// PatternAnalyzer aggregates spending and flags outliers.
type PatternAnalyzer struct {
	Now func() time.Time
}

// NewPatternAnalyzer creates an analyzer using the wall clock.
func NewPatternAnalyzer() *PatternAnalyzer {
	return &PatternAnalyzer{Now: time.Now}
}

func (a *PatternAnalyzer) now() time.Time {
	if a == nil || a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// AnalyzeSpendingTrends summarizes transactions dated within the last days days.
// Records without a valid timestamp fall outside the window.
func (a *PatternAnalyzer) AnalyzeSpendingTrends(txns []models.Transaction, days int) models.SpendingSummary {
	if len(txns) == 0 {
		return models.SpendingSummary{Error: MsgNoTransactions}
	}

	now := a.now()
	cutoff := now.AddDate(0, 0, -days)

	var overall accumulator
	byCategory := make(map[Category]*accumulator)
	daily := make(map[string]float64)

	for _, t := range txns {
		ts, ok := resolveTimestamp(t, now.Location())
		if !ok || ts.Before(cutoff) {
			continue
		}
		amount := t.Amount
		category := Categorize(t.Label(), &amount, t.TransactionType)

		overall.add(amount)
		acc, ok := byCategory[category]
		if !ok {
			acc = &accumulator{}
			byCategory[category] = acc
		}
		acc.add(amount)
		daily[dateKey(ts)] += amount
	}

	summary := models.SpendingSummary{
		PeriodDays:         days,
		TotalSpent:         finite(overall.sum),
		AvgTransaction:     finite(overall.mean()),
		MaxTransaction:     finite(overall.max),
		MinTransaction:     finite(overall.min),
		TransactionCount:   overall.count,
		SpendingByCategory: make(map[string]models.CategoryStats, len(byCategory)),
		DailySpending:      daily,
	}
	for category, acc := range byCategory {
		summary.SpendingByCategory[string(category)] = models.CategoryStats{
			Total:   finite(acc.sum),
			Count:   acc.count,
			Average: finite(acc.mean()),
		}
	}
	return summary
}

// DetectAnomalies flags transactions whose amount lies more than thresholdStd sample
// standard deviations from the batch mean. The whole batch is used, with no date window.
// The result is ordered by z-score, most anomalous first, and is never nil.
func (a *PatternAnalyzer) DetectAnomalies(txns []models.Transaction, thresholdStd float64) []models.Anomaly {
	anomalies := []models.Anomaly{}
	if len(txns) < minAnomalySample {
		return anomalies
	}

	var m moments
	for _, t := range txns {
		m.add(t.Amount)
	}
	std := m.sampleStd()
	if std == 0 || math.IsNaN(std) || math.IsInf(std, 0) {
		return anomalies
	}

	for _, t := range txns {
		z := math.Abs(t.Amount-m.mean) / std
		if !(z > thresholdStd) {
			continue
		}
		anomalies = append(anomalies, models.Anomaly{
			TransactionID: t.ID,
			Amount:        t.Amount,
			Merchant:      orUnknown(t.Label()),
			ZScore:        z,
			Reason:        fmt.Sprintf("Amount is %.1fx standard deviations from mean ($%.2f)", z, m.mean),
			Timestamp:     orUnknown(t.RawTimestamp()),
		})
	}

	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].ZScore > anomalies[j].ZScore
	})
	return anomalies
}

func orUnknown(s string) string {
	if s == "" {
		return unknownLabel
	}
	return s
}
