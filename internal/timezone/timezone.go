package timezone

import "time"

// Spots carry an IANA timezone resolved from their coordinates; anything that
// fails to resolve falls back to UTC.
const DefaultTimezone = "UTC"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.UTC
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}
