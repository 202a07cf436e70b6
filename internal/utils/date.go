package utils

import (
	"fmt"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
}

// ParseDate parses a date value from client input. Plain dates
// ("2006-01-02") and full RFC 3339 timestamps are both accepted.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
}
