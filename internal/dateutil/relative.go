package dateutil

import "time"

// Band edges for RelativeTime.
const (
	daysBandLimit  = 30 * 24 * time.Hour
	weeksBandLimit = 60 * 24 * time.Hour
	clockSkew      = time.Minute
)

// RelativeTime describes the time elapsed since v: just now, N minutes, hours,
// days or weeks ago, and the absolute YYYY-MM-DD date from 60 days on.
// Counts are truncated, so 119 seconds is one minute. Times more than a minute
// in the future are shown as absolute dates.
func (c *Calendar) RelativeTime(v interface{}) string {
	t, ok := c.Parse(v)
	if !ok {
		return ""
	}
	elapsed := c.Now().Sub(t)
	if elapsed < -clockSkew {
		return renderPattern(t, DefaultPattern)
	}

	tbl := c.table()
	switch {
	case elapsed < time.Minute:
		return tbl.justNow
	case elapsed < time.Hour:
		return tbl.minutes.FormatRelativeDuration(elapsed.Truncate(time.Minute))
	case elapsed < 24*time.Hour:
		return tbl.hours.FormatRelativeDuration(elapsed.Truncate(time.Hour))
	case elapsed < daysBandLimit:
		return tbl.days.FormatRelativeDuration(elapsed.Truncate(24 * time.Hour))
	case elapsed < weeksBandLimit:
		return tbl.weeks.FormatRelativeDuration(elapsed.Truncate(week))
	}
	return renderPattern(t, DefaultPattern)
}
