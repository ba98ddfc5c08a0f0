package dateutil

import (
	"time"

	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
)

// Locale selects phrase and name tables.
type Locale string

// Supported locales.
const (
	LocaleChinese Locale = "zh"
	LocaleEnglish Locale = "en"
)

// Indexed by the matcher tag order.
var supportedLocales = []Locale{LocaleChinese, LocaleEnglish}

var localeMatcher = language.NewMatcher([]language.Tag{
	language.SimplifiedChinese,
	language.English,
})

// ParseLocale maps a BCP 47 tag or Accept-Language value to a supported locale.
// Unmatched input falls back to Chinese.
func ParseLocale(tag string) Locale {
	if tag == "" {
		return LocaleChinese
	}
	_, index := language.MatchStrings(localeMatcher, tag)
	if index < 0 || index >= len(supportedLocales) {
		return LocaleChinese
	}
	return supportedLocales[index]
}

type localeTable struct {
	justNow       string
	minutes       timeago.Config
	hours         timeago.Config
	days          timeago.Config
	weeks         timeago.Config
	weekdays      [7]string
	weekdaysShort [7]string
	months        [12]string
	monthsShort   [12]string
}

// Each band gets a single-period config; the caller passes an exact multiple of
// the period so timeago's rounding never moves a value across a band edge.
func band(unit time.Duration, one, many, suffix string) timeago.Config {
	return timeago.Config{
		PastSuffix:    suffix,
		FutureSuffix:  suffix,
		Periods:       []timeago.FormatPeriod{{D: unit, One: one, Many: many}},
		Zero:          one,
		Max:           73 * 24 * time.Hour,
		DefaultLayout: "2006-01-02",
	}
}

const week = 7 * 24 * time.Hour

var locales = map[Locale]*localeTable{
	LocaleChinese: {
		justNow:       "刚刚",
		minutes:       band(time.Minute, "1分钟", "%d分钟", "前"),
		hours:         band(time.Hour, "1小时", "%d小时", "前"),
		days:          band(24*time.Hour, "1天", "%d天", "前"),
		weeks:         band(week, "1周", "%d周", "前"),
		weekdays:      [7]string{"星期日", "星期一", "星期二", "星期三", "星期四", "星期五", "星期六"},
		weekdaysShort: [7]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"},
		months:        [12]string{"一月", "二月", "三月", "四月", "五月", "六月", "七月", "八月", "九月", "十月", "十一月", "十二月"},
		monthsShort:   [12]string{"1月", "2月", "3月", "4月", "5月", "6月", "7月", "8月", "9月", "10月", "11月", "12月"},
	},
	LocaleEnglish: {
		justNow:       "just now",
		minutes:       band(time.Minute, "1 minute", "%d minutes", " ago"),
		hours:         band(time.Hour, "1 hour", "%d hours", " ago"),
		days:          band(24*time.Hour, "1 day", "%d days", " ago"),
		weeks:         band(week, "1 week", "%d weeks", " ago"),
		weekdays:      [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		weekdaysShort: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
		months: [12]string{"January", "February", "March", "April", "May", "June", "July",
			"August", "September", "October", "November", "December"},
		monthsShort: [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	},
}

func (c *Calendar) table() *localeTable {
	if t, ok := locales[c.locale]; ok {
		return t
	}
	return locales[LocaleChinese]
}
