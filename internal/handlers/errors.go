package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/parqio/spot-booking/internal/httperr"
)

// respondError translates use-case errors into HTTP responses. Business codes
// carry their own semantics; anything unrecognized is a 500.
func respondError(c *gin.Context, err error) {
	if httperr.IsExclusionConflict(err) {
		httperr.Conflict(c, "booking_conflict", "The requested range is no longer available.")
		return
	}

	var be httperr.BusinessError
	if !errors.As(err, &be) {
		httperr.Internal(c, "internal_error", "Something went wrong.")
		return
	}

	switch be.Code {
	case "booking_conflict", "availability_conflict", "time_change_exists",
		"already_checked", "already_cancelled", "payout_limit_reached":
		httperr.Conflict(c, be.Code, messageFor(be.Code))

	case "not_spot_owner", "not_booking_host", "not_booking_client",
		"not_booking_party", "cannot_book_own_spot":
		httperr.Forbidden(c, be.Code, messageFor(be.Code))

	default:
		if strings.HasSuffix(be.Code, "_not_found") {
			httperr.NotFound(c, be.Code, messageFor(be.Code))
			return
		}
		httperr.BadRequest(c, be.Code, messageFor(be.Code))
	}
}

func messageFor(code string) string {
	switch code {
	case "booking_conflict":
		return "The requested range overlaps an existing booking."
	case "availability_conflict":
		return "The window overlaps an existing one."
	case "outside_availability":
		return "The booking does not fit inside an availability window."
	case "price_mismatch":
		return "The submitted price does not match the spot's rate."
	case "day_mismatch":
		return "The day label does not match the start date."
	case "start_not_in_future":
		return "The booking must start in the future."
	case "invalid_duration":
		return "The duration is outside the allowed bounds."
	case "cancel_window_passed", "change_window_passed":
		return "Less than 24 hours remain before the booking starts."
	case "time_change_exists":
		return "A pending time change already exists for this booking."
	case "booking_not_ended":
		return "The booking has not ended yet."
	case "insufficient_balance":
		return "The requested amount exceeds the available balance."
	case "payout_limit_reached":
		return "Daily payout limit reached. Try again tomorrow."
	default:
		return strings.ReplaceAll(code, "_", " ")
	}
}
