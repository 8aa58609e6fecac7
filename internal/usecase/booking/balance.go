package booking

import (
	"context"

	domain "github.com/parqio/spot-booking/internal/domain/booking"
	"github.com/parqio/spot-booking/internal/models"
	"github.com/parqio/spot-booking/internal/pricing"
)

// BalanceResult is the host's earnings report: what completed bookings and
// cancellation penalties have produced, minus what was already paid out.
type BalanceResult struct {
	CompletedEarnings float64 `json:"completed_earnings"`
	CancellationNet   float64 `json:"cancellation_net"`
	TotalEarned       float64 `json:"total_earned"`
	TotalPaidOut      float64 `json:"total_paid_out"`
	Available         float64 `json:"available"`

	CompletedCount int `json:"completed_count"`
	CancelledCount int `json:"cancelled_count"`
}

type HostBalance struct {
	repo domain.Repository
}

func NewHostBalance(repo domain.Repository) *HostBalance {
	return &HostBalance{repo: repo}
}

func (uc *HostBalance) Execute(ctx context.Context, hostID uint) (*BalanceResult, error) {
	bookings, err := uc.repo.ListBookingsForHost(ctx, hostID)
	if err != nil {
		return nil, err
	}

	res := &BalanceResult{}

	for i := range bookings {
		b := &bookings[i]
		switch domain.Status(b.Status) {
		case domain.StatusCompleted:
			res.CompletedEarnings += b.GrossAmount
			res.CompletedCount++
		case domain.StatusCancelled:
			if b.CanceledBy == nil {
				continue
			}
			byClient := *b.CanceledBy == string(domain.CancelledByClient)
			_, hostGain := pricing.CancellationSplit(b.GrossAmount, byClient)
			res.CancellationNet += hostGain
			res.CancelledCount++
		}
	}

	payouts, err := uc.repo.ListPayoutsForUser(ctx, hostID)
	if err != nil {
		return nil, err
	}
	for _, p := range payouts {
		if p.Status == models.PayoutStatusFailed {
			continue
		}
		res.TotalPaidOut += p.Amount
	}

	res.TotalEarned = res.CompletedEarnings + res.CancellationNet
	res.Available = res.TotalEarned - res.TotalPaidOut
	return res, nil
}
