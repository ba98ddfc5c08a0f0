package dateutil

import (
	"strings"
	"time"

	"github.com/goatkit/novadmin/internal/convert"
)

// Layouts carrying their own offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z07:00",
}

// Layouts read in the calendar's location.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
}

// Parse normalizes a date-like value into a time in the calendar's location.
// The second result is false for nil, zero times, unreadable strings and
// anything that is neither a time, a number of epoch milliseconds nor a string.
func (c *Calendar) Parse(v interface{}) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return val.In(c.loc), true
	case *time.Time:
		if val == nil || val.IsZero() {
			return time.Time{}, false
		}
		return val.In(c.loc), true
	case string:
		return c.parseString(val)
	case bool:
		return time.Time{}, false
	}

	ms, ok := convert.Int64(v)
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).In(c.loc), true
}

func (c *Calendar) parseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(c.loc), true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, c.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
