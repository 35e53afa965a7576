package reconcile

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Layouts accepted for textual date cells besides an ISO date prefix.
var textDateLayouts = []string{
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
}

// Number converts a cell to a finite float64. Empty, non-numeric and
// non-finite cells report ok=false.
func Number(value interface{}) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		str := strings.TrimSpace(v)
		if str == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case time.Time:
		return 0, false
	default:
		return Number(fmt.Sprint(v))
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// NumberOr returns the numeric value of the cell, or fallback when the cell
// is absent, non-numeric or zero.
func NumberOr(value interface{}, fallback float64) float64 {
	if f, ok := Number(value); ok && f != 0 {
		return f
	}
	return fallback
}

// Text renders a cell as trimmed text. Whole numbers are written without an
// exponent so numeric identifiers such as NIK survive spreadsheet round trips.
func Text(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	case time.Time:
		return CalendarDate(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// CalendarDate formats the calendar day a time value represents, read in UTC.
func CalendarDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// NormalizeDate converts a date cell to YYYY-MM-DD. Native time values are
// read in UTC; text with an ISO date prefix keeps the day as written.
// ok is false for empty or unparseable cells.
func NormalizeDate(value interface{}) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case time.Time:
		if v.IsZero() {
			return "", false
		}
		return CalendarDate(v), true
	case *time.Time:
		if v == nil || v.IsZero() {
			return "", false
		}
		return CalendarDate(*v), true
	}

	str := Text(value)
	if str == "" {
		return "", false
	}

	if len(str) >= len(dateLayout) {
		if t, err := time.Parse(dateLayout, str[:len(dateLayout)]); err == nil {
			return t.Format(dateLayout), true
		}
	}

	for _, layout := range textDateLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t.Format(dateLayout), true
		}
	}

	return "", false
}

// present reports whether the row carries a non-empty value for key.
func present(value interface{}) bool {
	return Text(value) != ""
}
