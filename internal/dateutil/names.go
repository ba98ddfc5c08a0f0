package dateutil

// WeekdayName returns the localized weekday of v, e.g. 星期一 or 周一 for the
// Chinese locale. Unreadable input yields "".
func (c *Calendar) WeekdayName(v interface{}, short bool) string {
	t, ok := c.Parse(v)
	if !ok {
		return ""
	}
	tbl := c.table()
	if short {
		return tbl.weekdaysShort[t.Weekday()]
	}
	return tbl.weekdays[t.Weekday()]
}

// MonthName returns the localized month of v. Unreadable input yields "".
func (c *Calendar) MonthName(v interface{}, short bool) string {
	t, ok := c.Parse(v)
	if !ok {
		return ""
	}
	tbl := c.table()
	if short {
		return tbl.monthsShort[t.Month()-1]
	}
	return tbl.months[t.Month()-1]
}
