package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// DefaultPattern is used when FormatDate receives an empty pattern.
const DefaultPattern = "YYYY-MM-DD"

// Longest tokens first so YYYY is never read as two YY.
var patternTokens = []string{"YYYY", "YY", "MM", "DD", "HH", "mm", "ss"}

// FormatDate renders v using a pattern of YYYY, YY, MM, DD, HH, mm and ss tokens.
// Anything else in the pattern is copied literally. Unreadable input yields "".
func (c *Calendar) FormatDate(v interface{}, pattern string) string {
	t, ok := c.Parse(v)
	if !ok {
		return ""
	}
	if pattern == "" {
		pattern = DefaultPattern
	}
	return renderPattern(t, pattern)
}

// FormatChineseDate renders v as 2024年3月5日, optionally followed by " 14:07".
func (c *Calendar) FormatChineseDate(v interface{}, includeTime bool) string {
	t, ok := c.Parse(v)
	if !ok {
		return ""
	}
	s := fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
	if includeTime {
		s += fmt.Sprintf(" %02d:%02d", t.Hour(), t.Minute())
	}
	return s
}

func renderPattern(t time.Time, pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern) + 8)
	for i := 0; i < len(pattern); {
		token := matchToken(pattern[i:])
		if token == "" {
			b.WriteByte(pattern[i])
			i++
			continue
		}
		b.WriteString(tokenValue(t, token))
		i += len(token)
	}
	return b.String()
}

func matchToken(s string) string {
	for _, token := range patternTokens {
		if strings.HasPrefix(s, token) {
			return token
		}
	}
	return ""
}

func tokenValue(t time.Time, token string) string {
	switch token {
	case "YYYY":
		return fmt.Sprintf("%04d", t.Year())
	case "YY":
		return fmt.Sprintf("%02d", t.Year()%100)
	case "MM":
		return fmt.Sprintf("%02d", int(t.Month()))
	case "DD":
		return fmt.Sprintf("%02d", t.Day())
	case "HH":
		return fmt.Sprintf("%02d", t.Hour())
	case "mm":
		return fmt.Sprintf("%02d", t.Minute())
	case "ss":
		return fmt.Sprintf("%02d", t.Second())
	}
	return token
}
