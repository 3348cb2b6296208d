package analytics

import (
	"time"

	"github.com/Dan9191/bank-insights/internal/models"
)

// Segment labels by total historical spend.
const (
	SegmentHighValue       = "High-Value"
	SegmentMidTier         = "Mid-Tier"
	SegmentBudgetConscious = "Budget-Conscious"

	highValueSpend = 10000.0
	midTierSpend   = 5000.0
)

// SegmentCustomers buckets customers by total spend. Customers without transactions
// are left out of the result.
func (a *PatternAnalyzer) SegmentCustomers(customers map[string][]models.Transaction) map[string]models.CustomerSegment {
	now := a.now()
	segments := make(map[string]models.CustomerSegment, len(customers))

	for customerID, txns := range customers {
		if len(txns) == 0 {
			continue
		}

		var acc accumulator
		var earliest time.Time
		for _, t := range txns {
			acc.add(t.Amount)
			if ts, ok := resolveTimestamp(t, now.Location()); ok && (earliest.IsZero() || ts.Before(earliest)) {
				earliest = ts
			}
		}

		activeDays := 1
		if !earliest.IsZero() {
			if d := int(now.Sub(earliest) / (24 * time.Hour)); d > activeDays {
				activeDays = d
			}
		}

		segments[customerID] = models.CustomerSegment{
			Segment:           segmentFor(acc.sum),
			TotalSpent:        finite(acc.sum),
			AvgTransaction:    finite(acc.mean()),
			TransactionCount:  acc.count,
			SpendingFrequency: acc.count / activeDays,
		}
	}
	return segments
}

func segmentFor(total float64) string {
	switch {
	case total > highValueSpend:
		return SegmentHighValue
	case total > midTierSpend:
		return SegmentMidTier
	default:
		return SegmentBudgetConscious
	}
}
