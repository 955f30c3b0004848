package crm

import (
	"time"

	"github.com/spec-kit/travel-crm/internal/domain"
)

// window holds the calendar boundaries the aggregations bucket by, all in the
// YYYY-MM-DD form so they compare directly against stored dates.
type window struct {
	now        time.Time
	today      string
	weekStart  string
	monthStart string
}

func newWindow(now time.Time) window {
	return window{
		now:        now,
		today:      now.Format(domain.DateLayout),
		weekStart:  now.AddDate(0, 0, -7).Format(domain.DateLayout),
		monthStart: now.AddDate(0, 0, -30).Format(domain.DateLayout),
	}
}

// followUpOverdue reports whether a follow-up date lies in the past. Plain
// dates are compared by calendar day, so a follow-up due today is not overdue.
// Timestamps are compared to the instant. Unparseable values are never overdue.
func followUpOverdue(raw string, now time.Time) bool {
	if len(raw) == len(domain.DateLayout) {
		if _, err := time.Parse(domain.DateLayout, raw); err != nil {
			return false
		}
		return raw < now.Format(domain.DateLayout)
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return false
	}
	return ts.Before(now)
}

// followUpDay returns the calendar day of a follow-up date for ordering.
func followUpDay(raw string, loc *time.Location) string {
	if len(raw) == len(domain.DateLayout) {
		return raw
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return ts.In(loc).Format(domain.DateLayout)
}
