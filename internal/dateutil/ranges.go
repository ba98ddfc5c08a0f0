package dateutil

import (
	"strings"
	"time"
)

// Range is an inclusive span of time.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies within the range, both ends included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Named ranges accepted by DateRange.
const (
	RangeToday      = "today"
	RangeYesterday  = "yesterday"
	RangeWeek       = "week"
	RangeMonth      = "month"
	RangeYear       = "year"
	RangeLast7Days  = "last7days"
	RangeLast30Days = "last30days"
)

// RangeNames lists the names DateRange understands.
func RangeNames() []string {
	return []string{RangeToday, RangeYesterday, RangeWeek, RangeMonth, RangeYear, RangeLast7Days, RangeLast30Days}
}

const lastNanosecond = time.Second - time.Millisecond

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// endOfDay is 23:59:59.999, the last instant a millisecond clock can show.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(lastNanosecond), t.Location())
}

// startOfWeek returns Monday 00:00 of the week containing t.
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return startOfDay(t).AddDate(0, 0, -offset)
}

// DateRange resolves today, yesterday, week, month, year, last7days and
// last30days against the calendar's clock. Named periods end on their last
// day at 23:59:59.999; the rolling last-N-days ranges end now.
// Unknown names return false.
func (c *Calendar) DateRange(name string) (Range, bool) {
	now := c.Now()
	today := startOfDay(now)

	switch strings.ToLower(strings.TrimSpace(name)) {
	case RangeToday:
		return Range{Start: today, End: endOfDay(now)}, true
	case RangeYesterday:
		y := today.AddDate(0, 0, -1)
		return Range{Start: y, End: endOfDay(y)}, true
	case RangeWeek:
		start := startOfWeek(now)
		return Range{Start: start, End: endOfDay(start.AddDate(0, 0, 6))}, true
	case RangeMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, c.loc)
		last := start.AddDate(0, 1, -1)
		return Range{Start: start, End: endOfDay(last)}, true
	case RangeYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, c.loc)
		return Range{Start: start, End: endOfDay(time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, c.loc))}, true
	case RangeLast7Days:
		return Range{Start: today.AddDate(0, 0, -6), End: now}, true
	case RangeLast30Days:
		return Range{Start: today.AddDate(0, 0, -29), End: now}, true
	}
	return Range{}, false
}

// StartEndOfDay returns 00:00:00.000 and 23:59:59.999 of the day holding v.
func (c *Calendar) StartEndOfDay(v interface{}) (Range, bool) {
	t, ok := c.Parse(v)
	if !ok {
		return Range{}, false
	}
	return Range{Start: startOfDay(t), End: endOfDay(t)}, true
}

func (c *Calendar) inRange(v interface{}, name string) bool {
	t, ok := c.Parse(v)
	if !ok {
		return false
	}
	r, _ := c.DateRange(name)
	// Half-open so sub-millisecond instants of the last second still count.
	return !t.Before(r.Start) && t.Before(r.End.Add(time.Millisecond))
}

// IsToday reports whether v falls on the current calendar day.
func (c *Calendar) IsToday(v interface{}) bool { return c.inRange(v, RangeToday) }

// IsYesterday reports whether v falls on the previous calendar day.
func (c *Calendar) IsYesterday(v interface{}) bool { return c.inRange(v, RangeYesterday) }

// IsThisWeek reports whether v falls between Monday 00:00 and Sunday 23:59:59.999
// of the current week.
func (c *Calendar) IsThisWeek(v interface{}) bool { return c.inRange(v, RangeWeek) }

// IsThisMonth reports whether v falls in the current calendar month.
func (c *Calendar) IsThisMonth(v interface{}) bool { return c.inRange(v, RangeMonth) }

// IsThisYear reports whether v falls in the current calendar year.
func (c *Calendar) IsThisYear(v interface{}) bool { return c.inRange(v, RangeYear) }
