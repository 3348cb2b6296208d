package analytics

import (
	"strings"
	"time"

	"github.com/Dan9191/bank-insights/internal/models"
)

const dateLayout = "2006-01-02"

// zoned layouts carry their own offset; naive layouts are read in the caller's location.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02 15:04:05-07",
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		dateLayout,
	}
)

// parseTimestamp parses a stored timestamp. ok is false for empty or unrecognized values.
func parseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	for _, layout := range naiveLayouts {
		if ts, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// resolveTimestamp parses timestamp, falling back to created_at when timestamp is empty.
func resolveTimestamp(t models.Transaction, loc *time.Location) (time.Time, bool) {
	return parseTimestamp(t.RawTimestamp(), loc)
}

// dateKey truncates a timestamp to its calendar date in its own location.
func dateKey(ts time.Time) string {
	return ts.Format(dateLayout)
}
