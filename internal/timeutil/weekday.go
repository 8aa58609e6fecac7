package timeutil

import "time"

// Weekday is the three-letter day label stored on availability windows and
// bookings. The ordering below is the single source of truth for weekday
// sorting anywhere in the system.
type Weekday string

const (
	Sunday    Weekday = "Sun"
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
)

var Weekdays = [7]Weekday{
	Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday,
}

func (d Weekday) Valid() bool {
	for _, w := range Weekdays {
		if d == w {
			return true
		}
	}
	return false
}

// Index returns the position of d in the Sun..Sat ordering, or -1.
func (d Weekday) Index() int {
	for i, w := range Weekdays {
		if d == w {
			return i
		}
	}
	return -1
}

// WeekdayOf maps a time.Time to its day label in the time's own location.
func WeekdayOf(t time.Time) Weekday {
	return Weekdays[int(t.Weekday())]
}
