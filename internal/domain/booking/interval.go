package booking

import "time"

// MinuteRangesOverlap is the half-open overlap test used for availability
// windows within a single day: [aStart,aEnd) meets [bStart,bEnd).
func MinuteRangesOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// MinuteRangeContains reports whether [innerStart,innerEnd) fits entirely
// inside [outerStart,outerEnd). Normal bookings need containment in an
// availability window, not mere overlap.
func MinuteRangeContains(outerStart, outerEnd, innerStart, innerEnd int) bool {
	return innerStart >= outerStart && innerEnd <= outerEnd
}

// InstantsOverlap tests two instant ranges for any overlap, including full
// containment either direction.
func InstantsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	// a starts inside b
	if !aStart.Before(bStart) && aStart.Before(bEnd) {
		return true
	}
	// a ends inside b
	if aEnd.After(bStart) && !aEnd.After(bEnd) {
		return true
	}
	// a spans b
	if !aStart.After(bStart) && !aEnd.Before(bEnd) {
		return true
	}
	return false
}
