package entities

import (
	"fmt"
	"strings"
	"time"
)

// Timestamp parses the several date formats the API emits.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON accepts RFC3339, naive datetimes, plain dates, "" and null.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "" || s == "null" {
		ts.Time = time.Time{}
		return nil
	}

	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
		time.DateTime,
		time.DateOnly,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			ts.Time = t
			return nil
		}
	}

	return fmt.Errorf("unable to parse timestamp: %s", s)
}
