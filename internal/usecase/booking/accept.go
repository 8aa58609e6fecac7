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

type AcceptRequestResult struct {
	Booking      *models.Booking   `json:"booking"`
	Pricing      pricing.Breakdown `json:"pricing"`
	ClientSecret string            `json:"client_secret"`
}

// AcceptRequest is the host approving a request-pending custom booking. The
// payment intent is opened now, and conflicts are re-checked because several
// requests may have raced for the same range.
type AcceptRequest struct {
	repo      domain.Repository
	processor payments.Processor
	audit     Auditor
	notify    Notifier
}

func NewAcceptRequest(
	repo domain.Repository,
	processor payments.Processor,
	audit Auditor,
	notify Notifier,
) *AcceptRequest {
	return &AcceptRequest{
		repo:      repo,
		processor: processor,
		audit:     audit,
		notify:    notify,
	}
}

func (uc *AcceptRequest) Execute(
	ctx context.Context,
	bookingID uint,
	hostID uint,
) (*AcceptRequestResult, error) {

	var (
		b    *models.Booking
		spot *models.Spot
	)
	res := &AcceptRequestResult{}

	err := uc.repo.InTx(ctx, func(tx domain.Repository) error {
		var err error

		// Loaded and gated inside the transaction: two racing accepts of the
		// same request serialize on the row lock, and the loser fails the
		// status gate instead of opening a second intent.
		b, err = tx.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.HostID != hostID {
			return httperr.ErrBusiness("not_booking_host")
		}
		if err := domain.CanAcceptRequest(domain.Status(b.Status)); err != nil {
			return err
		}

		spot, err = tx.GetSpotByID(ctx, b.SpotID)
		if err != nil {
			return err
		}

		// Fee breakdown recomputed from the stored gross amount.
		fees := pricing.Fees(b.GrossAmount)
		res.Pricing = fees

		loc := timezone.Location(spot.Timezone)
		start, end, err := instantsOf(b, loc)
		if err != nil {
			return httperr.ErrBusiness("invalid_date_or_time")
		}

		conflict, err := findConflict(ctx, tx, spot, domain.TypeCustom, start, end, b.ID)
		if err != nil {
			return err
		}
		if conflict != nil {
			return httperr.ErrBusiness("booking_conflict")
		}

		intent, err := uc.processor.CreatePaymentIntent(
			ctx,
			pricing.MinorUnits(fees.TotalAmount),
			"usd",
			map[string]string{"booking_id": fmt.Sprint(b.ID)},
		)
		if err != nil {
			return err
		}

		if err := tx.CreatePayment(ctx, &models.Payment{
			BookingID:    b.ID,
			GrossAmount:  fees.GrossAmount,
			StripeFee:    fees.StripeFee,
			TaxFee:       fees.TaxFee,
			PlatformFee:  fees.PlatformFee,
			TotalAmount:  fees.TotalAmount,
			IntentID:     intent.ID,
			ClientSecret: intent.ClientSecret,
			Status:       models.PaymentStatusPending,
		}); err != nil {
			return err
		}

		b.Status = string(domain.StatusPaymentPending)
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}

		res.Booking = b
		res.ClientSecret = intent.ClientSecret
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notify.Dispatch(notify.Push{
		UserID: b.ClientID,
		Title:  "Request accepted",
		Body:   fmt.Sprintf("Your request for %s was accepted. Complete payment to confirm.", spot.Title),
		Data: map[string]string{
			"type": "booking_accepted",
			"id":   fmt.Sprint(b.ID),
		},
	})

	uc.audit.Dispatch(audit.Event{
		SpotID:   &b.SpotID,
		UserID:   &hostID,
		Action:   "booking_request_accepted",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return res, nil
}
