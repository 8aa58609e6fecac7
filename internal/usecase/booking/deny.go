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
)

// DenyRequest hard-deletes a booking that has not been accepted yet. Either
// side may do it: the host rejects the request, the client withdraws it.
// Accepted bookings cannot be denied, only cancelled.
type DenyRequest struct {
	repo      domain.Repository
	processor payments.Processor
	audit     Auditor
	notify    Notifier
}

func NewDenyRequest(
	repo domain.Repository,
	processor payments.Processor,
	audit Auditor,
	notify Notifier,
) *DenyRequest {
	return &DenyRequest{
		repo:      repo,
		processor: processor,
		audit:     audit,
		notify:    notify,
	}
}

func (uc *DenyRequest) Execute(
	ctx context.Context,
	bookingID uint,
	actorID uint,
) error {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if actorID != b.HostID && actorID != b.ClientID {
		return httperr.ErrBusiness("not_booking_party")
	}
	if err := domain.CanDeny(domain.Status(b.Status)); err != nil {
		return err
	}

	err = uc.repo.InTx(ctx, func(tx domain.Repository) error {
		// A payment-pending booking may already have an open intent.
		if b.Status == string(domain.StatusPaymentPending) {
			p, err := tx.GetPaymentForBooking(ctx, b.ID)
			if err == nil && p.Status == models.PaymentStatusPending {
				if err := uc.processor.CancelPaymentIntent(ctx, p.IntentID); err != nil {
					return err
				}
				p.Status = models.PaymentStatusCancelled
				if err := tx.UpdatePayment(ctx, p); err != nil {
					return err
				}
			}
		}

		return tx.DeleteBooking(ctx, b.ID)
	})
	if err != nil {
		return err
	}

	// Notify the other party.
	target := b.ClientID
	action := "booking_request_denied"
	if actorID == b.ClientID {
		target = b.HostID
		action = "booking_request_withdrawn"
	}
	uc.notify.Dispatch(notify.Push{
		UserID: target,
		Title:  "Booking request closed",
		Body:   "The booking request is no longer active.",
		Data: map[string]string{
			"type": action,
			"id":   fmt.Sprint(b.ID),
		},
	})

	uc.audit.Dispatch(audit.Event{
		SpotID:   &b.SpotID,
		UserID:   &actorID,
		Action:   action,
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return nil
}
