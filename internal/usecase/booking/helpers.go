package booking

import (
	"context"
	"time"

	"github.com/parqio/spot-booking/internal/audit"
	domain "github.com/parqio/spot-booking/internal/domain/booking"
	"github.com/parqio/spot-booking/internal/httperr"
	"github.com/parqio/spot-booking/internal/models"
	"github.com/parqio/spot-booking/internal/notify"
	"github.com/parqio/spot-booking/internal/timeutil"
	"github.com/parqio/spot-booking/internal/timezone"
)

// Auditor and Notifier are the slices of the post-commit dispatchers the
// booking use cases need.
type Auditor interface {
	Dispatch(ev audit.Event)
}

type Notifier interface {
	Dispatch(p notify.Push)
}

// nowInZone is swapped out by tests.
var nowInZone = timezone.NowIn

// span is a booking's validated wall-clock range resolved to instants in the
// spot's timezone.
type span struct {
	Day       timeutil.Weekday
	StartDate string
	StartTime string
	EndDate   string
	EndTime   string
	StartAt   time.Time
	EndAt     time.Time
}

// resolveSpan validates the wall-clock fields of a proposed range and
// resolves them in the spot's timezone. The supplied day label must match
// the weekday of startDate; mismatches are rejected, never corrected.
func resolveSpan(
	spot *models.Spot,
	day string,
	startDate, startTime, endDate, endTime string,
) (*span, error) {

	loc := timezone.Location(spot.Timezone)

	wd := timeutil.Weekday(day)
	if !wd.Valid() {
		return nil, httperr.ErrBusiness("invalid_day")
	}

	startWd, err := timeutil.WeekdayOfDate(startDate, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_format")
	}
	if startWd != wd {
		return nil, httperr.ErrBusiness("day_mismatch")
	}

	startAt, err := timeutil.Combine(startDate, startTime, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	endAt, err := timeutil.Combine(endDate, endTime, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	if !endAt.After(startAt) {
		return nil, httperr.ErrBusiness("end_before_start")
	}

	return &span{
		Day:       wd,
		StartDate: startDate,
		StartTime: timeutil.NormalizeHHMM(startTime),
		EndDate:   endDate,
		EndTime:   timeutil.NormalizeHHMM(endTime),
		StartAt:   startAt,
		EndAt:     endAt,
	}, nil
}

// instantsOf re-resolves a stored booking's wall-clock fields in the spot's
// timezone. Conflict math always runs on spot-timezone instants.
func instantsOf(b *models.Booking, loc *time.Location) (time.Time, time.Time, error) {
	start, err := timeutil.Combine(b.StartDate, b.StartTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := timeutil.Combine(b.EndDate, b.EndTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// findConflict returns the first existing booking whose range overlaps the
// candidate range. The blocking set depends on the candidate type: pending
// custom holds block normal candidates, while custom candidates are blocked
// by every payment-pending or accepted booking.
func findConflict(
	ctx context.Context,
	tx domain.Repository,
	spot *models.Spot,
	candidate domain.Type,
	start, end time.Time,
	excludeBookingID uint,
) (*models.Booking, error) {

	statuses, pendingCustomOnly := domain.BlockingStatuses(candidate)

	existing, err := tx.ListBlockingBookings(ctx, spot.ID, statuses, pendingCustomOnly, excludeBookingID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(spot.Timezone)
	for i := range existing {
		bStart, bEnd, err := instantsOf(&existing[i], loc)
		if err != nil {
			continue
		}
		if domain.InstantsOverlap(start, end, bStart, bEnd) {
			return &existing[i], nil
		}
	}
	return nil, nil
}

// fitsAvailability reports whether [start,end] is contained in some window
// for the spot on the given day. Containment, not overlap: a booking hanging
// over a window edge does not fit.
func fitsAvailability(
	ctx context.Context,
	tx domain.Repository,
	spotID uint,
	s *span,
) (bool, error) {

	windows, err := tx.ListWindowsForDay(ctx, spotID, string(s.Day))
	if err != nil {
		return false, err
	}

	startMin, err := timeutil.ParseHHMM(s.StartTime)
	if err != nil {
		return false, err
	}
	endMin, err := timeutil.ParseHHMM(s.EndTime)
	if err != nil {
		return false, err
	}
	if s.EndDate != s.StartDate {
		// windows never span midnight, so a cross-midnight booking can only
		// fit a full-day window
		endMin += 24 * 60
	}

	for _, w := range windows {
		ws, err := timeutil.ParseHHMM(w.StartTime)
		if err != nil {
			continue
		}
		we, err := timeutil.ParseHHMM(w.EndTime)
		if err != nil {
			continue
		}
		if domain.MinuteRangeContains(ws, we, startMin, endMin) {
			return true, nil
		}
	}
	return false, nil
}
