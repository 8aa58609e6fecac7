package booking

import (
	"context"
	"time"

	"github.com/parqio/spot-booking/internal/models"
)

// Repository is the storage surface the booking and availability use cases
// depend on. InTx runs fn against a transaction-bound copy of the repository;
// conflict reads inside a transaction take row locks on the spot's bookings.
type Repository interface {
	InTx(ctx context.Context, fn func(Repository) error) error

	// -------- Spot / ownership --------
	GetSpotByID(ctx context.Context, id uint) (*models.Spot, error)
	GetVehicleForUser(ctx context.Context, vehicleID, userID uint) (*models.Vehicle, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)

	// -------- Availability windows --------
	ListWindows(ctx context.Context, spotID uint) ([]models.Availability, error)
	ListWindowsForDay(ctx context.Context, spotID uint, day string) ([]models.Availability, error)
	GetWindow(ctx context.Context, id, spotID uint) (*models.Availability, error)
	CreateWindows(ctx context.Context, windows []models.Availability) error
	UpdateWindow(ctx context.Context, w *models.Availability) error
	DeleteWindows(ctx context.Context, ids []uint) error

	// -------- Booking (create / conflict) --------
	CreateBooking(ctx context.Context, b *models.Booking) error
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	UpdateBooking(ctx context.Context, b *models.Booking) error
	DeleteBooking(ctx context.Context, id uint) error

	// ListBlockingBookings loads, with a row lock when inside a transaction,
	// the bookings on a spot whose status can block a new candidate.
	// pendingCustomOnly narrows payment-pending rows to custom type.
	ListBlockingBookings(
		ctx context.Context,
		spotID uint,
		statuses []Status,
		pendingCustomOnly bool,
		excludeBookingID uint,
	) ([]models.Booking, error)

	ListBookingsForSpotBetween(
		ctx context.Context,
		spotID uint,
		statuses []Status,
		from time.Time,
		to time.Time,
	) ([]models.Booking, error)

	ListBookingsForHost(ctx context.Context, hostID uint) ([]models.Booking, error)
	ListBookingsForClient(ctx context.Context, clientID uint) ([]models.Booking, error)

	// -------- Payment --------
	CreatePayment(ctx context.Context, p *models.Payment) error
	GetPaymentForBooking(ctx context.Context, bookingID uint) (*models.Payment, error)
	GetPaymentByIntentID(ctx context.Context, intentID string) (*models.Payment, error)
	UpdatePayment(ctx context.Context, p *models.Payment) error

	// -------- TimeChange --------
	GetPendingTimeChange(ctx context.Context, bookingID uint) (*models.TimeChange, error)
	GetTimeChange(ctx context.Context, id uint) (*models.TimeChange, error)
	CreateTimeChange(ctx context.Context, tc *models.TimeChange) error
	UpdateTimeChange(ctx context.Context, tc *models.TimeChange) error
	DeleteTimeChange(ctx context.Context, id uint) error

	// -------- Check-in / check-out --------
	CreateCheckLog(ctx context.Context, cl *models.CheckLog) error
	GetCheckLog(ctx context.Context, bookingID uint, actor, direction string) (*models.CheckLog, error)

	// -------- Payout --------
	CreatePayout(ctx context.Context, p *models.Payout) error
	ListPayoutsForUser(ctx context.Context, userID uint) ([]models.Payout, error)
}
