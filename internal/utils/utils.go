package utils

import (
	"fmt"
	"time"
)

// ParseDate accepts either a bare date ("2025-01-10") or a full RFC3339
// timestamp, which is what the dashboard sends depending on the widget.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
