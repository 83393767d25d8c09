package scenario

import (
	"fmt"
	"strconv"
	"time"

	"golang.org/x/text/unicode/norm"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// evaluate returns a message describing why check fails against row, or ""
func evaluate(check RowCheck, row map[string]any, clock Clock) string {
	v, ok := row[check.Column]
	if !ok {
		return fmt.Sprintf("column %s not present in stored row", check.Column)
	}
	text, isNull := render(v)

	switch {
	case check.IsNull:
		if !isNull {
			return fmt.Sprintf("%s: expected NULL, got %q", check.Column, text)
		}
	case check.Equals != nil:
		if isNull {
			return fmt.Sprintf("%s: expected %q, got NULL", check.Column, *check.Equals)
		}
		if norm.NFC.String(text) != norm.NFC.String(*check.Equals) {
			return fmt.Sprintf("%s: expected %q, got %q", check.Column, *check.Equals, text)
		}
	case check.SameYear:
		ts, ok := asTime(v)
		if !ok {
			return fmt.Sprintf("%s: expected a timestamp, got %q", check.Column, text)
		}
		if want := clock.Now().Year(); ts.Year() != want {
			return fmt.Sprintf("%s: expected year %d, got %d", check.Column, want, ts.Year())
		}
	}
	return ""
}

// render turns a driver value into the text a scenario author would write
func render(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", true
	case string:
		return x, false
	case []byte:
		return string(x), false
	case bool:
		return strconv.FormatBool(x), false
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02"), false
		}
		return x.Format("2006-01-02 15:04:05"), false
	case fmt.Stringer:
		return x.String(), false
	default:
		return fmt.Sprint(x), false
	}
}

func asTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		return parseTimestamp(x)
	case []byte:
		return parseTimestamp(string(x))
	}
	return time.Time{}, false
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
