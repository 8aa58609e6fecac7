package timeutil

import (
	"fmt"
	"regexp"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	timeRe = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// NormalizeHHMM zero-pads a single-digit hour ("9:30" -> "09:30").
// Anything else is returned untouched for ParseHHMM to reject.
func NormalizeHHMM(s string) string {
	if len(s) == 4 && s[1] == ':' {
		return "0" + s
	}
	return s
}

// ParseHHMM converts a wall-clock "HH:MM" string to minutes since midnight.
func ParseHHMM(s string) (int, error) {
	s = NormalizeHHMM(s)
	m := timeRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	var h, min int
	fmt.Sscanf(s, "%02d:%02d", &h, &min)
	return h*60 + min, nil
}

func ValidDate(s string) bool {
	if !dateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Combine builds a timezone-aware instant from a "YYYY-MM-DD" date, a
// "HH:MM" time and an IANA location.
func Combine(date, hhmm string, loc *time.Location) (time.Time, error) {
	if !ValidDate(date) {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	if _, err := ParseHHMM(hhmm); err != nil {
		return time.Time{}, err
	}
	return time.ParseInLocation(
		DateLayout+" "+TimeLayout,
		date+" "+NormalizeHHMM(hhmm),
		loc,
	)
}

// WeekdayOfDate returns the day label of a "YYYY-MM-DD" date.
func WeekdayOfDate(date string, loc *time.Location) (Weekday, error) {
	if !ValidDate(date) {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	t, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return "", err
	}
	return WeekdayOf(t), nil
}
