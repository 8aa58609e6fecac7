package payout

import (
	"context"
	"fmt"
	"time"

	"github.com/parqio/spot-booking/internal/audit"
	domain "github.com/parqio/spot-booking/internal/domain/booking"
	"github.com/parqio/spot-booking/internal/httperr"
	"github.com/parqio/spot-booking/internal/models"
	"github.com/parqio/spot-booking/internal/payments"
	"github.com/parqio/spot-booking/internal/pricing"
	usecasebooking "github.com/parqio/spot-booking/internal/usecase/booking"
)

// Limiter caps how many payout attempts a host may make per day.
type Limiter interface {
	Allow(ctx context.Context, userID uint, now time.Time) error
}

type Auditor interface {
	Dispatch(ev audit.Event)
}

type RequestPayoutInput struct {
	HostID uint
	Amount float64
}

// RequestPayout transfers part of a host's available balance to their
// connected account. The amount is checked against the live balance report,
// the daily limiter is consumed, and only then the transfer is created.
type RequestPayout struct {
	repo      domain.Repository
	balance   *usecasebooking.HostBalance
	processor payments.Processor
	limiter   Limiter
	audit     Auditor
}

func NewRequestPayout(
	repo domain.Repository,
	balance *usecasebooking.HostBalance,
	processor payments.Processor,
	limiter Limiter,
	audit Auditor,
) *RequestPayout {
	return &RequestPayout{
		repo:      repo,
		balance:   balance,
		processor: processor,
		limiter:   limiter,
		audit:     audit,
	}
}

func (uc *RequestPayout) Execute(ctx context.Context, in RequestPayoutInput) (*models.Payout, error) {
	if in.Amount <= 0 {
		return nil, httperr.ErrBusiness("invalid_amount")
	}

	user, err := uc.repo.GetUserByID(ctx, in.HostID)
	if err != nil {
		return nil, err
	}
	if user.StripeAccountID == "" {
		return nil, httperr.ErrBusiness("no_connected_account")
	}

	bal, err := uc.balance.Execute(ctx, in.HostID)
	if err != nil {
		return nil, err
	}
	if in.Amount > bal.Available {
		return nil, httperr.ErrBusiness("insufficient_balance")
	}

	if err := uc.limiter.Allow(ctx, in.HostID, time.Now()); err != nil {
		return nil, err
	}

	transferID, err := uc.processor.CreateTransfer(
		ctx,
		pricing.MinorUnits(in.Amount),
		user.StripeAccountID,
		map[string]string{"user_id": fmt.Sprint(in.HostID)},
	)
	if err != nil {
		return nil, err
	}

	p := &models.Payout{
		UserID:           in.HostID,
		Amount:           in.Amount,
		StripeTransferID: transferID,
		Status:           models.PayoutStatusPaid,
	}
	if err := uc.repo.CreatePayout(ctx, p); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.HostID,
		Action:   "payout_requested",
		Entity:   "payout",
		EntityID: &p.ID,
		Metadata: map[string]any{"amount": in.Amount},
	})

	return p, nil
}

// ListPayouts returns the host's payout history, newest first.
type ListPayouts struct {
	repo domain.Repository
}

func NewListPayouts(repo domain.Repository) *ListPayouts {
	return &ListPayouts{repo: repo}
}

func (uc *ListPayouts) Execute(ctx context.Context, hostID uint) ([]models.Payout, error) {
	return uc.repo.ListPayoutsForUser(ctx, hostID)
}
