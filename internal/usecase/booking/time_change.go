package booking

import (
	"context"
	"fmt"

	"github.com/parqio/spot-booking/internal/audit"
	domain "github.com/parqio/spot-booking/internal/domain/booking"
	"github.com/parqio/spot-booking/internal/httperr"
	"github.com/parqio/spot-booking/internal/models"
	"github.com/parqio/spot-booking/internal/notify"
	"github.com/parqio/spot-booking/internal/timezone"
)

// ======================================================
// REQUEST (client)
// ======================================================

type RequestTimeChangeInput struct {
	BookingID uint
	ClientID  uint

	NewDay       string
	NewStartDate string
	NewStartTime string
	NewEndDate   string
	NewEndTime   string
}

type RequestTimeChange struct {
	repo   domain.Repository
	audit  Auditor
	notify Notifier
}

func NewRequestTimeChange(repo domain.Repository, audit Auditor, notify Notifier) *RequestTimeChange {
	return &RequestTimeChange{repo: repo, audit: audit, notify: notify}
}

func (uc *RequestTimeChange) Execute(
	ctx context.Context,
	in RequestTimeChangeInput,
) (*models.TimeChange, error) {

	b, err := uc.repo.GetBooking(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if b.ClientID != in.ClientID {
		return nil, httperr.ErrBusiness("not_booking_client")
	}
	if b.Type != string(domain.TypeCustom) {
		return nil, httperr.ErrBusiness("time_change_custom_only")
	}

	spot, err := uc.repo.GetSpotByID(ctx, b.SpotID)
	if err != nil {
		return nil, err
	}

	// The original start must still be at least 24h away.
	loc := timezone.Location(spot.Timezone)
	origStart, _, err := instantsOf(b, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	now := nowInZone(spot.Timezone)
	if origStart.Sub(now) < domain.MinCancelNotice {
		return nil, httperr.ErrBusiness("change_window_passed")
	}

	// The new range is validated exactly like a fresh custom booking, except
	// availability-window containment (custom bookings never had it).
	s, err := resolveSpan(spot, in.NewDay, in.NewStartDate, in.NewStartTime, in.NewEndDate, in.NewEndTime)
	if err != nil {
		return nil, err
	}
	if !s.StartAt.After(now) {
		return nil, httperr.ErrBusiness("start_not_in_future")
	}
	if err := domain.ValidateDuration(domain.TypeCustom, s.StartAt, s.EndAt); err != nil {
		return nil, err
	}

	var tc *models.TimeChange

	err = uc.repo.InTx(ctx, func(tx domain.Repository) error {
		if existing, err := tx.GetPendingTimeChange(ctx, b.ID); err == nil && existing != nil {
			return httperr.ErrBusiness("time_change_exists")
		}

		tc = &models.TimeChange{
			BookingID:    b.ID,
			OldDay:       b.Day,
			OldStartDate: b.StartDate,
			OldStartTime: b.StartTime,
			OldEndDate:   b.EndDate,
			OldEndTime:   b.EndTime,
			NewDay:       string(s.Day),
			NewStartDate: s.StartDate,
			NewStartTime: s.StartTime,
			NewEndDate:   s.EndDate,
			NewEndTime:   s.EndTime,
			Status:       string(domain.TimeChangePending),
		}
		return tx.CreateTimeChange(ctx, tc)
	})
	if err != nil {
		return nil, err
	}

	uc.notify.Dispatch(notify.Push{
		UserID: b.HostID,
		Title:  "Time change requested",
		Body:   fmt.Sprintf("A guest asked to move a booking on %s.", spot.Title),
		Data: map[string]string{
			"type": "time_change_requested",
			"id":   fmt.Sprint(tc.ID),
		},
	})

	uc.audit.Dispatch(audit.Event{
		SpotID:   &b.SpotID,
		UserID:   &in.ClientID,
		Action:   "time_change_requested",
		Entity:   "time_change",
		EntityID: &tc.ID,
	})

	return tc, nil
}

// ======================================================
// RESOLVE (host accepts or either party rejects)
// ======================================================

type ResolveTimeChange struct {
	repo   domain.Repository
	audit  Auditor
	notify Notifier
}

func NewResolveTimeChange(repo domain.Repository, audit Auditor, notify Notifier) *ResolveTimeChange {
	return &ResolveTimeChange{repo: repo, audit: audit, notify: notify}
}

// Accept re-validates the proposed range against the spot's other accepted
// bookings, then applies the new times to the booking and removes the
// request.
func (uc *ResolveTimeChange) Accept(
	ctx context.Context,
	timeChangeID uint,
	hostID uint,
) (*models.Booking, error) {

	tc, err := uc.repo.GetTimeChange(ctx, timeChangeID)
	if err != nil {
		return nil, err
	}
	if tc.Status != string(domain.TimeChangePending) {
		return nil, httperr.ErrBusiness("time_change_resolved")
	}

	b, err := uc.repo.GetBooking(ctx, tc.BookingID)
	if err != nil {
		return nil, err
	}
	if b.HostID != hostID {
		return nil, httperr.ErrBusiness("not_booking_host")
	}

	spot, err := uc.repo.GetSpotByID(ctx, b.SpotID)
	if err != nil {
		return nil, err
	}

	s, err := resolveSpan(spot, tc.NewDay, tc.NewStartDate, tc.NewStartTime, tc.NewEndDate, tc.NewEndTime)
	if err != nil {
		return nil, err
	}

	err = uc.repo.InTx(ctx, func(tx domain.Repository) error {
		existing, err := tx.ListBlockingBookings(
			ctx, spot.ID,
			[]domain.Status{domain.StatusAccepted},
			false,
			b.ID,
		)
		if err != nil {
			return err
		}

		loc := timezone.Location(spot.Timezone)
		for i := range existing {
			oStart, oEnd, err := instantsOf(&existing[i], loc)
			if err != nil {
				continue
			}
			if domain.InstantsOverlap(s.StartAt, s.EndAt, oStart, oEnd) {
				return httperr.ErrBusiness("booking_conflict")
			}
		}

		b.Day = string(s.Day)
		b.StartDate = s.StartDate
		b.StartTime = s.StartTime
		b.EndDate = s.EndDate
		b.EndTime = s.EndTime
		b.StartAt = s.StartAt
		b.EndAt = s.EndAt
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}

		return tx.DeleteTimeChange(ctx, tc.ID)
	})
	if err != nil {
		return nil, err
	}

	uc.notify.Dispatch(notify.Push{
		UserID: b.ClientID,
		Title:  "Time change accepted",
		Body:   fmt.Sprintf("Your booking on %s was moved.", spot.Title),
		Data: map[string]string{
			"type": "time_change_accepted",
			"id":   fmt.Sprint(b.ID),
		},
	})

	uc.audit.Dispatch(audit.Event{
		SpotID:   &b.SpotID,
		UserID:   &hostID,
		Action:   "time_change_accepted",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}

// Reject flips the request's status without touching the booking.
func (uc *ResolveTimeChange) Reject(
	ctx context.Context,
	timeChangeID uint,
	actorID uint,
) (*models.TimeChange, error) {

	tc, err := uc.repo.GetTimeChange(ctx, timeChangeID)
	if err != nil {
		return nil, err
	}
	if tc.Status != string(domain.TimeChangePending) {
		return nil, httperr.ErrBusiness("time_change_resolved")
	}

	b, err := uc.repo.GetBooking(ctx, tc.BookingID)
	if err != nil {
		return nil, err
	}
	if actorID != b.HostID && actorID != b.ClientID {
		return nil, httperr.ErrBusiness("not_booking_party")
	}

	tc.Status = string(domain.TimeChangeRejected)
	if err := uc.repo.UpdateTimeChange(ctx, tc); err != nil {
		return nil, err
	}

	target := b.ClientID
	if actorID == b.ClientID {
		target = b.HostID
	}
	uc.notify.Dispatch(notify.Push{
		UserID: target,
		Title:  "Time change rejected",
		Body:   "The proposed schedule change was declined.",
		Data: map[string]string{
			"type": "time_change_rejected",
			"id":   fmt.Sprint(tc.ID),
		},
	})

	uc.audit.Dispatch(audit.Event{
		SpotID:   &b.SpotID,
		UserID:   &actorID,
		Action:   "time_change_rejected",
		Entity:   "time_change",
		EntityID: &tc.ID,
	})

	return tc, nil
}
