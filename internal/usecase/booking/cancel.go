package booking

import (
	"context"
	"fmt"

	"github.com/parqio/spot-booking/internal/audit"
	domain "github.com/parqio/spot-booking/internal/domain/booking"
	"github.com/parqio/spot-booking/internal/httperr"
	"github.com/parqio/spot-booking/internal/models"
	"github.com/parqio/spot-booking/internal/notify"
	"github.com/parqio/spot-booking/internal/payments"
	"github.com/parqio/spot-booking/internal/pricing"
	"github.com/parqio/spot-booking/internal/timezone"
)

type CancelBookingResult struct {
	Booking *models.Booking `json:"booking"`

	// Informational split under the 30% cancellation fee; consumed by the
	// balance report, not by this transition.
	ClientRefund float64 `json:"client_refund"`
	HostGain     float64 `json:"host_gain"`
}

type CancelBooking struct {
	repo      domain.Repository
	processor payments.Processor
	audit     Auditor
	notify    Notifier
}

func NewCancelBooking(
	repo domain.Repository,
	processor payments.Processor,
	audit Auditor,
	notify Notifier,
) *CancelBooking {
	return &CancelBooking{
		repo:      repo,
		processor: processor,
		audit:     audit,
		notify:    notify,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	bookingID uint,
	actorID uint,
) (*CancelBookingResult, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var actor domain.CancelActor
	switch actorID {
	case b.ClientID:
		actor = domain.CancelledByClient
	case b.HostID:
		actor = domain.CancelledByHost
	default:
		return nil, httperr.ErrBusiness("not_booking_party")
	}

	if err := domain.CanCancel(domain.Status(b.Status)); err != nil {
		return nil, err
	}

	spot, err := uc.repo.GetSpotByID(ctx, b.SpotID)
	if err != nil {
		return nil, err
	}

	// 24-hour notice, measured in the spot's timezone.
	loc := timezone.Location(spot.Timezone)
	start, _, err := instantsOf(b, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	now := nowInZone(spot.Timezone)
	if start.Sub(now) < domain.MinCancelNotice {
		return nil, httperr.ErrBusiness("cancel_window_passed")
	}

	res := &CancelBookingResult{}

	err = uc.repo.InTx(ctx, func(tx domain.Repository) error {
		// Close out any open intent with the processor before flipping state.
		p, err := tx.GetPaymentForBooking(ctx, b.ID)
		if err == nil && p.Status == models.PaymentStatusPending {
			if err := uc.processor.CancelPaymentIntent(ctx, p.IntentID); err != nil {
				return err
			}
			p.Status = models.PaymentStatusCancelled
			if err := tx.UpdatePayment(ctx, p); err != nil {
				return err
			}
		} else if err == nil && p.Status == models.PaymentStatusSucceeded {
			if err := uc.processor.RefundPayment(ctx, p.IntentID); err != nil {
				return err
			}
			p.Status = models.PaymentStatusRefunded
			if err := tx.UpdatePayment(ctx, p); err != nil {
				return err
			}
		}

		by := string(actor)
		b.Status = string(domain.StatusCancelled)
		b.CanceledBy = &by
		return tx.UpdateBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	res.Booking = b
	res.ClientRefund, res.HostGain = pricing.CancellationSplit(
		b.GrossAmount,
		actor == domain.CancelledByClient,
	)

	target := b.HostID
	if actor == domain.CancelledByHost {
		target = b.ClientID
	}
	uc.notify.Dispatch(notify.Push{
		UserID: target,
		Title:  "Booking cancelled",
		Body:   fmt.Sprintf("A booking for %s was cancelled.", spot.Title),
		Data: map[string]string{
			"type": "booking_cancelled",
			"id":   fmt.Sprint(b.ID),
		},
	})

	uc.audit.Dispatch(audit.Event{
		SpotID:   &b.SpotID,
		UserID:   &actorID,
		Action:   "booking_cancelled",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"canceled_by": string(actor)},
	})

	return res, nil
}
