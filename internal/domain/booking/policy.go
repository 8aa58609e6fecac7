package booking

import (
	"time"

	"github.com/parqio/spot-booking/internal/httperr"
)

// ===============================
// Booking Type
// ===============================

type Type string

const (
	TypeNormal Type = "normal"
	TypeCustom Type = "custom"
)

func (t Type) Valid() bool {
	return t == TypeNormal || t == TypeCustom
}

// Duration bounds in minutes per type.
const (
	NormalMinMinutes = 15
	NormalMaxMinutes = 24 * 60
	CustomMinMinutes = 24 * 60
	CustomMaxMinutes = 30 * 24 * 60
)

// ValidateDuration enforces the per-type duration bounds on [start, end).
func ValidateDuration(t Type, start, end time.Time) error {
	if !end.After(start) {
		return httperr.ErrBusiness("end_before_start")
	}

	minutes := int(end.Sub(start) / time.Minute)

	switch t {
	case TypeNormal:
		if minutes < NormalMinMinutes || minutes > NormalMaxMinutes {
			return httperr.ErrBusiness("invalid_duration")
		}
	case TypeCustom:
		if minutes < CustomMinMinutes || minutes > CustomMaxMinutes {
			return httperr.ErrBusiness("invalid_duration")
		}
	default:
		return httperr.ErrBusiness("invalid_type")
	}

	return nil
}

// BlockingStatuses returns the set of existing-booking statuses that block a
// candidate of the given type. A pending custom hold blocks short bookings;
// a pending normal hold does not (it only materializes once paid).
func BlockingStatuses(candidate Type) (statuses []Status, pendingCustomOnly bool) {
	if candidate == TypeNormal {
		return []Status{StatusAccepted, StatusPaymentPending}, true
	}
	return []Status{StatusAccepted, StatusPaymentPending}, false
}

// MinCancelNotice is the minimum gap between "now" (in the spot timezone) and
// the booking start for a cancellation or a time-change request.
const MinCancelNotice = 24 * time.Hour
