package dateutil

import "time"

// AddDays shifts t by n calendar days, keeping the wall clock time.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// AddMonths shifts t by n months. When the target month is shorter, the day is
// clamped to its last day, so Jan 31 plus one month is Feb 29 in a leap year.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + n
	year := y + floorDiv(total, 12)
	month := time.Month(floorMod(total, 12) + 1)
	if last := DaysInMonth(year, int(month)-1); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(year, month, d, hh, mm, ss, t.Nanosecond(), t.Location())
}

// AddYears shifts t by n years, clamping Feb 29 to Feb 28 in common years.
func AddYears(t time.Time, n int) time.Time {
	return AddMonths(t, 12*n)
}

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var monthLengths = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the length of a month given as 0 (January) through 11.
// Months outside that range yield 0.
func DaysInMonth(year, month int) int {
	if month < 0 || month > 11 {
		return 0
	}
	if month == 1 && IsLeapYear(year) {
		return 29
	}
	return monthLengths[month]
}

// DaysDifference counts calendar days from a to b; it is negative when b is
// earlier. Days are compared by date in the calendar's location, so DST
// transitions do not skew the count. Unreadable input yields 0.
func (c *Calendar) DaysDifference(a, b interface{}) int {
	ta, ok := c.Parse(a)
	if !ok {
		return 0
	}
	tb, ok := c.Parse(b)
	if !ok {
		return 0
	}
	return int((civilDay(tb).Unix() - civilDay(ta).Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// civilDay maps the wall date of t onto UTC midnight.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Age returns the whole years between birthdate and today. Birthdays on Feb 29
// are reached on Mar 1 in common years. Future or unreadable dates yield 0.
func (c *Calendar) Age(birthdate interface{}) int {
	born, ok := c.Parse(birthdate)
	if !ok {
		return 0
	}
	now := c.Now()
	if born.After(now) {
		return 0
	}
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
