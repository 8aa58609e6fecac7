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
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CreateBookingInput struct {
	ClientID  uint
	SpotID    uint
	VehicleID uint

	Day       string
	StartDate string
	StartTime string
	EndDate   string
	EndTime   string

	Type        string
	GrossAmount float64
}

type CreateBookingResult struct {
	Booking *models.Booking   `json:"booking"`
	Pricing pricing.Breakdown `json:"pricing"`

	// Set for normal bookings only: the secret the client needs to complete
	// the payment intent opened at creation time.
	ClientSecret string `json:"client_secret,omitempty"`
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo      domain.Repository
	processor payments.Processor
	audit     Auditor
	notify    Notifier
}

func NewCreateBooking(
	repo domain.Repository,
	processor payments.Processor,
	audit Auditor,
	notify Notifier,
) *CreateBooking {
	return &CreateBooking{
		repo:      repo,
		processor: processor,
		audit:     audit,
		notify:    notify,
	}
}

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*CreateBookingResult, error) {

	spot, err := uc.repo.GetSpotByID(ctx, in.SpotID)
	if err != nil {
		return nil, err
	}
	if spot.Status != models.SpotStatusPublished {
		return nil, httperr.ErrBusiness("spot_not_published")
	}
	if spot.HostID == in.ClientID {
		return nil, httperr.ErrBusiness("cannot_book_own_spot")
	}

	if _, err := uc.repo.GetVehicleForUser(ctx, in.VehicleID, in.ClientID); err != nil {
		return nil, err
	}

	bType := domain.Type(in.Type)
	if !bType.Valid() {
		return nil, httperr.ErrBusiness("invalid_type")
	}

	s, err := resolveSpan(spot, in.Day, in.StartDate, in.StartTime, in.EndDate, in.EndTime)
	if err != nil {
		return nil, err
	}

	now := nowInZone(spot.Timezone)
	if !s.StartAt.After(now) {
		return nil, httperr.ErrBusiness("start_not_in_future")
	}

	if err := domain.ValidateDuration(bType, s.StartAt, s.EndAt); err != nil {
		return nil, err
	}

	// Price tamper check: the submitted gross must equal rate × hours.
	if err := pricing.ValidateGross(in.GrossAmount, spot.HourlyRate, s.StartAt, s.EndAt); err != nil {
		return nil, err
	}
	fees := pricing.Fees(pricing.GrossPrice(spot.HourlyRate, s.StartAt, s.EndAt))

	res := &CreateBookingResult{Pricing: fees}

	err = uc.repo.InTx(ctx, func(tx domain.Repository) error {
		// Normal bookings must fit inside a recurring window; custom bookings
		// only need to avoid existing bookings.
		if bType == domain.TypeNormal {
			ok, err := fitsAvailability(ctx, tx, spot.ID, s)
			if err != nil {
				return err
			}
			if !ok {
				return httperr.ErrBusiness("outside_availability")
			}
		}

		conflict, err := findConflict(ctx, tx, spot, bType, s.StartAt, s.EndAt, 0)
		if err != nil {
			return err
		}
		if conflict != nil {
			return httperr.ErrBusiness("booking_conflict")
		}

		b := &models.Booking{
			ClientID:    in.ClientID,
			HostID:      spot.HostID,
			SpotID:      spot.ID,
			VehicleID:   in.VehicleID,
			Day:         string(s.Day),
			StartDate:   s.StartDate,
			StartTime:   s.StartTime,
			EndDate:     s.EndDate,
			EndTime:     s.EndTime,
			StartAt:     s.StartAt,
			EndAt:       s.EndAt,
			Type:        string(bType),
			GrossAmount: fees.GrossAmount,
		}

		if bType == domain.TypeCustom {
			// Custom requests wait for host approval before any money moves.
			b.Status = string(domain.StatusRequestPending)
			if err := tx.CreateBooking(ctx, b); err != nil {
				return err
			}
			res.Booking = b
			return nil
		}

		b.Status = string(domain.StatusPaymentPending)
		if err := tx.CreateBooking(ctx, b); err != nil {
			return err
		}

		// Intent creation happens inside the transaction: a processor failure
		// rolls the booking row back instead of leaving an orphaned
		// payment-pending booking.
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

		res.Booking = b
		res.ClientSecret = intent.ClientSecret
		return nil
	})
	if err != nil {
		return nil, err
	}

	if bType == domain.TypeCustom {
		uc.notify.Dispatch(notify.Push{
			UserID: spot.HostID,
			Title:  "New booking request",
			Body:   fmt.Sprintf("You have a new request for %s", spot.Title),
			Data: map[string]string{
				"type": "booking_requested",
				"id":   fmt.Sprint(res.Booking.ID),
			},
		})
	}

	uc.audit.Dispatch(audit.Event{
		SpotID:   &in.SpotID,
		UserID:   &in.ClientID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &res.Booking.ID,
		Metadata: map[string]any{"type": in.Type},
	})

	return res, nil
}
