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
	"github.com/parqio/spot-booking/internal/timezone"
)

// ConfirmPayment moves a payment-pending booking to accepted once the
// processor reports the intent as succeeded. Reached from the client's
// confirm call and from the webhook; both paths converge on applyIntent.
type ConfirmPayment struct {
	repo      domain.Repository
	processor payments.Processor
	audit     Auditor
	notify    Notifier
}

func NewConfirmPayment(
	repo domain.Repository,
	processor payments.Processor,
	audit Auditor,
	notify Notifier,
) *ConfirmPayment {
	return &ConfirmPayment{
		repo:      repo,
		processor: processor,
		audit:     audit,
		notify:    notify,
	}
}

// Execute is the client-initiated path: look the intent up at the processor
// and apply whatever status it reports.
func (uc *ConfirmPayment) Execute(
	ctx context.Context,
	bookingID uint,
	clientID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.ClientID != clientID {
		return nil, httperr.ErrBusiness("not_booking_client")
	}

	p, err := uc.repo.GetPaymentForBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	intent, err := uc.processor.RetrievePaymentIntent(ctx, p.IntentID)
	if err != nil {
		return nil, err
	}

	return uc.ApplyIntentStatus(ctx, p.IntentID, intent.Status)
}

// ApplyIntentStatus is shared with the webhook handler.
func (uc *ConfirmPayment) ApplyIntentStatus(
	ctx context.Context,
	intentID string,
	intentStatus string,
) (*models.Booking, error) {

	var (
		booking *models.Booking
		lost    bool
	)

	err := uc.repo.InTx(ctx, func(tx domain.Repository) error {
		p, err := tx.GetPaymentByIntentID(ctx, intentID)
		if err != nil {
			return err
		}

		b, err := tx.GetBooking(ctx, p.BookingID)
		if err != nil {
			return err
		}
		booking = b

		if intentStatus != payments.IntentStatusSucceeded {
			// Failed attempt: record it, keep the booking payment-pending so
			// the client can retry with a refreshed intent.
			p.Status = models.PaymentStatusFailed
			return tx.UpdatePayment(ctx, p)
		}

		if err := domain.CanConfirmPayment(domain.Status(b.Status)); err != nil {
			return err
		}

		// Two normal holds may have raced to payment; only the first paid one
		// may become accepted.
		spot, err := tx.GetSpotByID(ctx, b.SpotID)
		if err != nil {
			return err
		}
		loc := timezone.Location(spot.Timezone)
		start, end, err := instantsOf(b, loc)
		if err != nil {
			return httperr.ErrBusiness("invalid_date_or_time")
		}
		conflict, err := findConflict(ctx, tx, spot, domain.Type(b.Type), start, end, b.ID)
		if err != nil {
			return err
		}
		if conflict != nil && conflict.Status == string(domain.StatusAccepted) {
			// Lost the race after the funds were captured: send the money back
			// and release the hold instead of stranding a paid pending row.
			if err := uc.processor.RefundPayment(ctx, p.IntentID); err != nil {
				return err
			}
			p.Status = models.PaymentStatusRefunded
			if err := tx.UpdatePayment(ctx, p); err != nil {
				return err
			}
			b.Status = string(domain.StatusCancelled)
			lost = true
			return tx.UpdateBooking(ctx, b)
		}

		p.Status = models.PaymentStatusSucceeded
		if err := tx.UpdatePayment(ctx, p); err != nil {
			return err
		}

		b.Status = string(domain.StatusAccepted)
		return tx.UpdateBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	if lost {
		uc.notify.Dispatch(notify.Push{
			UserID: booking.ClientID,
			Title:  "Booking unavailable",
			Body:   "The spot was taken before your payment settled. Your payment was refunded.",
			Data: map[string]string{
				"type": "booking_refunded",
				"id":   fmt.Sprint(booking.ID),
			},
		})

		uc.audit.Dispatch(audit.Event{
			SpotID:   &booking.SpotID,
			UserID:   &booking.ClientID,
			Action:   "booking_payment_refunded",
			Entity:   "booking",
			EntityID: &booking.ID,
		})

		return booking, httperr.ErrBusiness("booking_conflict")
	}

	if booking.Status == string(domain.StatusAccepted) {
		uc.notify.Dispatch(notify.Push{
			UserID: booking.HostID,
			Title:  "Booking confirmed",
			Body:   "A booking on your spot is confirmed and paid.",
			Data: map[string]string{
				"type": "booking_confirmed",
				"id":   fmt.Sprint(booking.ID),
			},
		})

		uc.audit.Dispatch(audit.Event{
			SpotID:   &booking.SpotID,
			UserID:   &booking.ClientID,
			Action:   "booking_payment_confirmed",
			Entity:   "booking",
			EntityID: &booking.ID,
		})
	}

	return booking, nil
}
