package booking

import (
	"context"

	"github.com/parqio/spot-booking/internal/audit"
	domain "github.com/parqio/spot-booking/internal/domain/booking"
	"github.com/parqio/spot-booking/internal/httperr"
	"github.com/parqio/spot-booking/internal/models"
	"github.com/parqio/spot-booking/internal/timezone"
)

// CheckInOut records arrival/departure events per booking. The log is
// independent of the main status field, except that a user check-out
// completes the booking.
type CheckInOut struct {
	repo  domain.Repository
	audit Auditor
}

func NewCheckInOut(repo domain.Repository, audit Auditor) *CheckInOut {
	return &CheckInOut{repo: repo, audit: audit}
}

func (uc *CheckInOut) Execute(
	ctx context.Context,
	bookingID uint,
	actorID uint,
	actor string,
	direction string,
) (*models.Booking, error) {

	if actor != models.CheckActorUser && actor != models.CheckActorHost {
		return nil, httperr.ErrBusiness("invalid_actor")
	}
	if direction != models.CheckDirectionIn && direction != models.CheckDirectionOut {
		return nil, httperr.ErrBusiness("invalid_direction")
	}

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if actor == models.CheckActorUser && actorID != b.ClientID {
		return nil, httperr.ErrBusiness("not_booking_client")
	}
	if actor == models.CheckActorHost && actorID != b.HostID {
		return nil, httperr.ErrBusiness("not_booking_host")
	}

	spot, err := uc.repo.GetSpotByID(ctx, b.SpotID)
	if err != nil {
		return nil, err
	}
	now := nowInZone(spot.Timezone)

	// Hosts may only close a booking out after its stored end instant.
	if actor == models.CheckActorHost && direction == models.CheckDirectionOut {
		loc := timezone.Location(spot.Timezone)
		_, end, err := instantsOf(b, loc)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date_or_time")
		}
		if now.Before(end) {
			return nil, httperr.ErrBusiness("booking_not_ended")
		}
	}

	err = uc.repo.InTx(ctx, func(tx domain.Repository) error {
		if existing, err := tx.GetCheckLog(ctx, b.ID, actor, direction); err == nil && existing != nil {
			return httperr.ErrBusiness("already_checked")
		}

		if err := tx.CreateCheckLog(ctx, &models.CheckLog{
			BookingID: b.ID,
			Actor:     actor,
			Direction: direction,
			At:        now,
		}); err != nil {
			return err
		}

		if actor == models.CheckActorUser && direction == models.CheckDirectionOut {
			if err := domain.CanComplete(domain.Status(b.Status)); err != nil {
				return err
			}
			b.Status = string(domain.StatusCompleted)
			return tx.UpdateBooking(ctx, b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SpotID:   &b.SpotID,
		UserID:   &actorID,
		Action:   "booking_check_" + direction,
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"actor": actor},
	})

	return b, nil
}
