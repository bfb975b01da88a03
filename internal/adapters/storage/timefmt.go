package storage

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the stored timestamp format. It is fixed-width and always UTC,
// so lexical comparison in SQL orders the same way as the instants.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// DateLayout is the stored calendar date format.
const DateLayout = "2006-01-02"

// FormatTime renders t for storage.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// NullableTime renders t for storage, or nil when t is zero.
func NullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return FormatTime(t)
}

// NullableString returns nil for an empty string so the column stores NULL.
func NullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// ParseTime parses a stored timestamp. Older layouts are accepted so rows
// written by hand or by other tools still load.
func ParseTime(value string) (time.Time, error) {
	if idx := strings.Index(value, " m="); idx != -1 {
		value = value[:idx]
	}
	layouts := []string{
		TimeLayout,
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999 -0700 MST",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format: %q", value)
}
