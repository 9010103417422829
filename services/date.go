package services

import (
	"fmt"
	"time"
)

// ParseDate parses a calendar date in YYYY-MM-DD form
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

// ParseDateTime parses an RFC 3339 timestamp
func ParseDateTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q, expected RFC 3339", value)
	}
	return t, nil
}
