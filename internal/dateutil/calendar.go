// Package dateutil provides the date and time helpers used by dashboard tables,
// filters and exports: formatting, relative "time ago" phrases, named ranges and
// calendar arithmetic.
//
// Functions that accept a date-like value take an interface{} holding a time.Time,
// *time.Time, epoch milliseconds (any Go number or json.Number) or an ISO-8601-like
// string. Values that cannot be read never cause a panic or an error: formatting
// returns "", counts return 0 and predicates return false.
package dateutil

import (
	"sync/atomic"
	"time"

	"github.com/rickar/cal/v2"
)

// Calendar evaluates dates in a fixed location against an injectable clock.
type Calendar struct {
	loc      *time.Location
	now      func() time.Time
	locale   Locale
	business *cal.BusinessCalendar
}

// Option configures a Calendar.
type Option func(*Calendar)

// WithLocation sets the location used to read zone-less strings and to align days.
func WithLocation(loc *time.Location) Option {
	return func(c *Calendar) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Calendar) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLocale selects the phrase and name tables.
func WithLocale(l Locale) Option {
	return func(c *Calendar) {
		if _, ok := locales[l]; ok {
			c.locale = l
		}
	}
}

// WithHolidays registers holidays that IsWorkday and WorkdaysBetween skip.
func WithHolidays(holidays ...*cal.Holiday) Option {
	return func(c *Calendar) {
		c.business.AddHoliday(holidays...)
	}
}

// New creates a Calendar. Defaults are time.Local, time.Now and the Chinese locale.
func New(opts ...Option) *Calendar {
	c := &Calendar{
		loc:      time.Local,
		now:      time.Now,
		locale:   LocaleChinese,
		business: cal.NewBusinessCalendar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Location returns the calendar's location.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Locale returns the calendar's locale.
func (c *Calendar) Locale() Locale {
	return c.locale
}

// Now returns the current time in the calendar's location.
func (c *Calendar) Now() time.Time {
	return c.now().In(c.loc)
}

var defaultCalendar atomic.Pointer[Calendar]

func init() {
	defaultCalendar.Store(New())
}

// Default returns the calendar used by the package-level functions.
func Default() *Calendar {
	return defaultCalendar.Load()
}

// SetDefault replaces the calendar used by the package-level functions.
func SetDefault(c *Calendar) {
	if c != nil {
		defaultCalendar.Store(c)
	}
}

// Parse normalizes v with the default calendar.
func Parse(v interface{}) (time.Time, bool) { return Default().Parse(v) }

// FormatDate formats v with the default calendar.
func FormatDate(v interface{}, pattern string) string { return Default().FormatDate(v, pattern) }

// FormatChineseDate formats v as 2024年3月5日 with the default calendar.
func FormatChineseDate(v interface{}, includeTime bool) string {
	return Default().FormatChineseDate(v, includeTime)
}

// RelativeTime describes how long ago v was, using the default calendar.
func RelativeTime(v interface{}) string { return Default().RelativeTime(v) }

// DateRange resolves a named range with the default calendar.
func DateRange(name string) (Range, bool) { return Default().DateRange(name) }

// IsToday reports whether v falls on the current day.
func IsToday(v interface{}) bool { return Default().IsToday(v) }

// IsYesterday reports whether v falls on the previous day.
func IsYesterday(v interface{}) bool { return Default().IsYesterday(v) }

// IsThisWeek reports whether v falls in the current Monday-based week.
func IsThisWeek(v interface{}) bool { return Default().IsThisWeek(v) }

// IsThisMonth reports whether v falls in the current calendar month.
func IsThisMonth(v interface{}) bool { return Default().IsThisMonth(v) }

// IsThisYear reports whether v falls in the current calendar year.
func IsThisYear(v interface{}) bool { return Default().IsThisYear(v) }

// DaysDifference returns the calendar days from a to b.
func DaysDifference(a, b interface{}) int { return Default().DaysDifference(a, b) }

// Age returns the whole years elapsed since birthdate.
func Age(birthdate interface{}) int { return Default().Age(birthdate) }

// StartEndOfDay returns the first and last instant of the day containing v.
func StartEndOfDay(v interface{}) (Range, bool) { return Default().StartEndOfDay(v) }

// WeekdayName returns the weekday name of v.
func WeekdayName(v interface{}, short bool) string { return Default().WeekdayName(v, short) }

// MonthName returns the month name of v.
func MonthName(v interface{}, short bool) string { return Default().MonthName(v, short) }

// IsWorkday reports whether v is a business day.
func IsWorkday(v interface{}) bool { return Default().IsWorkday(v) }

// WorkdaysBetween counts business days from a to b inclusive.
func WorkdaysBetween(a, b interface{}) int { return Default().WorkdaysBetween(a, b) }
