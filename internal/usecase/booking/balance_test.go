package booking

import (
	"context"
	"testing"

	domain "github.com/parqio/spot-booking/internal/domain/booking"
	"github.com/parqio/spot-booking/internal/models"
)

func TestHostBalance(t *testing.T) {
	repo := newFakeRepo()
	spot := seedSpot(repo, 99, 20)

	setStatus := func(b *models.Booking, gross float64, canceledBy string) {
		b.GrossAmount = gross
		if canceledBy != "" {
			b.CanceledBy = &canceledBy
		}
		repo.bookings[b.ID] = *b
	}

	// Completed: +100.
	b1 := seedBooking(repo, spot, 7, "normal", domain.StatusCompleted,
		"Mon", "2024-05-06", "08:00", "2024-05-06", "13:00")
	setStatus(b1, 100.00, "")

	// Client cancelled: host keeps the 30% penalty, +60.
	b2 := seedBooking(repo, spot, 7, "custom", domain.StatusCancelled,
		"Mon", "2024-05-13", "00:00", "2024-05-15", "00:00")
	setStatus(b2, 200.00, "client")

	// Host cancelled: host owes the 30% compensation, -15.
	b3 := seedBooking(repo, spot, 8, "normal", domain.StatusCancelled,
		"Mon", "2024-05-20", "08:00", "2024-05-20", "10:30")
	setStatus(b3, 50.00, "host")

	// Accepted but not finished yet: contributes nothing.
	b4 := seedBooking(repo, spot, 8, "normal", domain.StatusAccepted,
		"Mon", "2024-07-01", "08:00", "2024-07-01", "10:00")
	setStatus(b4, 40.00, "")

	// One payout already made, one failed attempt that does not count.
	repo.CreatePayout(context.Background(), &models.Payout{
		UserID: 99, Amount: 25.00, Status: models.PayoutStatusPaid,
	})
	repo.CreatePayout(context.Background(), &models.Payout{
		UserID: 99, Amount: 500.00, Status: models.PayoutStatusFailed,
	})

	res, err := NewHostBalance(repo).Execute(context.Background(), 99)
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}

	if res.CompletedEarnings != 100.00 {
		t.Fatalf("completed = %v, want 100.00", res.CompletedEarnings)
	}
	if res.CancellationNet != 45.00 { // +60 - 15
		t.Fatalf("cancellation net = %v, want 45.00", res.CancellationNet)
	}
	if res.TotalEarned != 145.00 {
		t.Fatalf("earned = %v, want 145.00", res.TotalEarned)
	}
	if res.TotalPaidOut != 25.00 {
		t.Fatalf("paid out = %v, want 25.00", res.TotalPaidOut)
	}
	if res.Available != 120.00 {
		t.Fatalf("available = %v, want 120.00", res.Available)
	}
	if res.CompletedCount != 1 || res.CancelledCount != 2 {
		t.Fatalf("counts = (%d, %d), want (1, 2)", res.CompletedCount, res.CancelledCount)
	}
}
