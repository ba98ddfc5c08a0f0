// Package convert provides loose value conversions for dashboard data.
// Rows arrive from the admin API as decoded JSON, so numbers may be float64,
// json.Number or numeric strings. This package has no dependencies on other
// internal packages to avoid circular imports.
package convert

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the layout used when a time value is rendered as a plain string.
const TimeLayout = "2006-01-02 15:04:05"

// Int64 converts integer, float, json.Number and numeric string values to int64.
// Floats are truncated toward zero. The second result is false when v is not numeric
// or does not fit in an int64.
func Int64(v interface{}) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int8:
		return int64(val), true
	case int16:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	case uint:
		return uintToInt64(uint64(val))
	case uint8:
		return int64(val), true
	case uint16:
		return int64(val), true
	case uint32:
		return int64(val), true
	case uint64:
		return uintToInt64(val)
	case float32:
		return floatToInt64(float64(val))
	case float64:
		return floatToInt64(val)
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n, true
		}
		if f, err := val.Float64(); err == nil {
			return floatToInt64(f)
		}
	case string:
		s := strings.TrimSpace(val)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// ToInt64 converts v to int64 with a fallback value.
func ToInt64(v interface{}, fallback int64) int64 {
	if n, ok := Int64(v); ok {
		return n
	}
	return fallback
}

// ToString converts v to its display string.
// Times use TimeLayout, the zero time renders as an empty string and nil yields fallback.
func ToString(v interface{}, fallback string) string {
	switch val := v.(type) {
	case nil:
		return fallback
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int8, int16, int32, int64:
		n, _ := Int64(val)
		return strconv.FormatInt(n, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint8:
		return strconv.FormatUint(uint64(val), 10)
	case uint16:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format(TimeLayout)
	case *time.Time:
		if val == nil || val.IsZero() {
			return fallback
		}
		return val.Format(TimeLayout)
	case fmt.Stringer:
		return val.String()
	case error:
		return val.Error()
	}
	return fmt.Sprintf("%v", v)
}

func uintToInt64(u uint64) (int64, bool) {
	if u > math.MaxInt64 {
		return 0, false
	}
	return int64(u), true
}

func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
