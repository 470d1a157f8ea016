package entities

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidTimezone = errors.New("unsupported timezone")
	ErrInvalidClock    = errors.New("invalid time, expected HH:MM")
)

// LoadTimezone resolves a user timezone. It accepts IANA names ("Europe/Berlin"),
// "UTC"/"GMT" and fixed offsets such as "UTC+3", "+05:30" or "-7".
func LoadTimezone(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	switch strings.ToUpper(tz) {
	case "", "UTC", "GMT", "ETC/UTC":
		return time.UTC, nil
	}

	if loc, err := time.LoadLocation(tz); err == nil {
		return loc, nil
	}

	s := tz
	if strings.HasPrefix(strings.ToUpper(s), "UTC") {
		s = strings.TrimSpace(s[3:])
	}

	offset, ok := parseOffset(s)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrInvalidTimezone, tz)
	}

	sign := "+"
	abs := offset
	if abs < 0 {
		sign = "-"
		abs = -abs
	}
	name := fmt.Sprintf("UTC%s%02d:%02d", sign, abs/3600, (abs%3600)/60)

	return time.FixedZone(name, offset), nil
}

// parseOffset turns "+3", "-03:30" into seconds east of UTC.
func parseOffset(s string) (int, bool) {
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return 0, false
	}
	sign := 1
	if s[0] == '-' {
		sign = -1
	}

	hh, mm, found := strings.Cut(s[1:], ":")
	if !found {
		mm = "0"
	}

	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 14 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m >= 60 {
		return 0, false
	}

	return sign * (h*3600 + m*60), true
}

// ParseClock validates a "HH:MM" time of day and returns it normalised.
func ParseClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) == 4 && s[1] == ':' {
		s = "0" + s
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return t.Format("15:04"), nil
}
