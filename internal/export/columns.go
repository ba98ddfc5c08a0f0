package export

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goatkit/novadmin/internal/convert"
	"github.com/goatkit/novadmin/internal/dateutil"
	"github.com/goatkit/novadmin/internal/status"
)

var plainText = bluemonday.StrictPolicy()

// DateColumn renders its value with dateutil.FormatDate. Unreadable dates are
// left blank.
func DateColumn(key, title, pattern string) Column {
	return Column{
		Key:   key,
		Title: title,
		Formatter: func(v interface{}, _ Record) string {
			return dateutil.FormatDate(v, pattern)
		},
	}
}

// RelativeTimeColumn renders "3小时前"-style phrases.
func RelativeTimeColumn(key, title string) Column {
	return Column{
		Key:   key,
		Title: title,
		Formatter: func(v interface{}, _ Record) string {
			return dateutil.RelativeTime(v)
		},
	}
}

// StatusColumn renders the status label of its code within category.
func StatusColumn(key, title string, category status.Category) Column {
	return Column{
		Key:   key,
		Title: title,
		Formatter: func(v interface{}, _ Record) string {
			return status.Config(string(category), convert.ToString(v, "")).Label
		},
	}
}

// PriorityColumn renders the priority label of its level.
func PriorityColumn(key, title string) Column {
	return Column{
		Key:   key,
		Title: title,
		Formatter: func(v interface{}, _ Record) string {
			return status.PriorityConfig(convert.ToString(v, "")).Label
		},
	}
}

// PlainTextColumn strips markup from rich text such as comment bodies.
func PlainTextColumn(key, title string) Column {
	return Column{
		Key:   key,
		Title: title,
		Formatter: func(v interface{}, _ Record) string {
			return StripHTML(convert.ToString(v, ""))
		},
	}
}

// StripHTML removes tags and decodes entities.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(plainText.Sanitize(s)))
}
