package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuotaWindowLength is the span of one quota window. Windows are anchored to
// calendar weeks (Monday 00:00 UTC), not to each vehicle's last access, so the
// reset point is the same for every vehicle and never drifts.
const QuotaWindowLength = 7 * 24 * time.Hour

// WeekStart returns the most recent Monday 00:00 UTC at or before t.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	day := t.Truncate(24 * time.Hour)
	// time.Weekday numbers Sunday as 0; shift so Monday is the anchor.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// NormalizedWindow returns the quota window state the vehicle would have at
// now: the advanced week start and the used amount valid for that window.
// The week start only moves forward, in whole-week steps. Callers that mutate
// state must commit the returned values in the same atomic write as the
// mutation itself.
func (v Vehicle) NormalizedWindow(now time.Time) (weekStart time.Time, usedLiters decimal.Decimal) {
	now = now.UTC()
	if now.Before(v.WeekStartDate.Add(QuotaWindowLength)) {
		return v.WeekStartDate, v.CurrentWeekUsed
	}
	elapsed := now.Sub(v.WeekStartDate) / QuotaWindowLength
	return v.WeekStartDate.Add(time.Duration(elapsed) * QuotaWindowLength), decimal.Zero
}

// WindowContains reports whether t falls inside the window starting at
// weekStart.
func WindowContains(weekStart, t time.Time) bool {
	t = t.UTC()
	return !t.Before(weekStart) && t.Before(weekStart.Add(QuotaWindowLength))
}
