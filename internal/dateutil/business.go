package dateutil

// maxWorkdaySpan bounds WorkdaysBetween to roughly a century of days.
const maxWorkdaySpan = 36600

// IsWorkday reports whether v is a weekday that is not a registered holiday.
func (c *Calendar) IsWorkday(v interface{}) bool {
	t, ok := c.Parse(v)
	if !ok {
		return false
	}
	return c.business.IsWorkday(t)
}

// WorkdaysBetween counts workdays from a to b with both days included. The
// order of the arguments does not matter. Unreadable input yields 0.
func (c *Calendar) WorkdaysBetween(a, b interface{}) int {
	ta, ok := c.Parse(a)
	if !ok {
		return 0
	}
	tb, ok := c.Parse(b)
	if !ok {
		return 0
	}
	if tb.Before(ta) {
		ta, tb = tb, ta
	}
	span := c.DaysDifference(ta, tb)
	if span > maxWorkdaySpan {
		return 0
	}

	count := 0
	day := startOfDay(ta)
	for i := 0; i <= span; i++ {
		if c.business.IsWorkday(day.AddDate(0, 0, i)) {
			count++
		}
	}
	return count
}
