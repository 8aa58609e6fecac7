package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/parqio/spot-booking/internal/domain/booking"
	"github.com/parqio/spot-booking/internal/httperr"
	"github.com/parqio/spot-booking/internal/models"
)

type BookingGormRepository struct {
	db   *gorm.DB
	inTx bool
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// InTx runs fn against a transaction-bound repository. Conflict reads made
// through the bound repository take FOR UPDATE locks, so read-check-write is
// safe under concurrent writers.
func (r *BookingGormRepository) InTx(ctx context.Context, fn func(domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx, inTx: true})
	})
}

// --------------------------------------------------
// Spot / ownership
// --------------------------------------------------

func (r *BookingGormRepository) GetSpotByID(
	ctx context.Context,
	id uint,
) (*models.Spot, error) {

	var spot models.Spot
	if err := r.db.WithContext(ctx).First(&spot, id).Error; err != nil {
		return nil, httperr.ErrBusiness("spot_not_found")
	}
	return &spot, nil
}

func (r *BookingGormRepository) GetVehicleForUser(
	ctx context.Context,
	vehicleID uint,
	userID uint,
) (*models.Vehicle, error) {

	var v models.Vehicle
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", vehicleID, userID).
		First(&v).Error; err != nil {
		return nil, httperr.ErrBusiness("vehicle_not_found")
	}
	return &v, nil
}

func (r *BookingGormRepository) GetUserByID(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, httperr.ErrBusiness("user_not_found")
	}
	return &u, nil
}

// --------------------------------------------------
// Availability windows
// --------------------------------------------------

func (r *BookingGormRepository) ListWindows(
	ctx context.Context,
	spotID uint,
) ([]models.Availability, error) {

	var windows []models.Availability
	if err := r.db.WithContext(ctx).
		Where("spot_id = ?", spotID).
		Order("day ASC, start_time ASC").
		Find(&windows).Error; err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *BookingGormRepository) ListWindowsForDay(
	ctx context.Context,
	spotID uint,
	day string,
) ([]models.Availability, error) {

	var windows []models.Availability
	q := r.db.WithContext(ctx)
	if r.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.
		Where("spot_id = ? AND day = ?", spotID, day).
		Order("start_time ASC").
		Find(&windows).Error; err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *BookingGormRepository) GetWindow(
	ctx context.Context,
	id uint,
	spotID uint,
) (*models.Availability, error) {

	var w models.Availability
	if err := r.db.WithContext(ctx).
		Where("id = ? AND spot_id = ?", id, spotID).
		First(&w).Error; err != nil {
		return nil, httperr.ErrBusiness("window_not_found")
	}
	return &w, nil
}

func (r *BookingGormRepository) CreateWindows(
	ctx context.Context,
	windows []models.Availability,
) error {
	if len(windows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&windows).Error
}

func (r *BookingGormRepository) UpdateWindow(
	ctx context.Context,
	w *models.Availability,
) error {
	return r.db.WithContext(ctx).Save(w).Error
}

func (r *BookingGormRepository) DeleteWindows(
	ctx context.Context,
	ids []uint,
) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&models.Availability{}, ids).Error
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	q := r.db.WithContext(ctx)
	if r.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var b models.Booking
	if err := q.First(&b, id).Error; err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BookingGormRepository) DeleteBooking(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.Booking{}, id).Error
}

func (r *BookingGormRepository) ListBlockingBookings(
	ctx context.Context,
	spotID uint,
	statuses []domain.Status,
	pendingCustomOnly bool,
	excludeBookingID uint,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).Model(&models.Booking{})
	if r.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	if pendingCustomOnly {
		q = q.Where(
			"spot_id = ? AND (status = ? OR (status = ? AND type = ?))",
			spotID,
			string(domain.StatusAccepted),
			string(domain.StatusPaymentPending),
			string(domain.TypeCustom),
		)
	} else {
		stats := make([]string, 0, len(statuses))
		for _, s := range statuses {
			stats = append(stats, string(s))
		}
		q = q.Where("spot_id = ? AND status IN ?", spotID, stats)
	}

	if excludeBookingID != 0 {
		q = q.Where("id <> ?", excludeBookingID)
	}

	var bookings []models.Booking
	if err := q.Order("start_at ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListBookingsForSpotBetween(
	ctx context.Context,
	spotID uint,
	statuses []domain.Status,
	from time.Time,
	to time.Time,
) ([]models.Booking, error) {

	stats := make([]string, 0, len(statuses))
	for _, s := range statuses {
		stats = append(stats, string(s))
	}

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where(
			"spot_id = ? AND status IN ? AND start_at < ? AND end_at > ?",
			spotID, stats, to, from,
		).
		Order("start_at ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListBookingsForHost(
	ctx context.Context,
	hostID uint,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where("host_id = ?", hostID).
		Order("start_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListBookingsForClient(
	ctx context.Context,
	clientID uint,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("start_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// --------------------------------------------------
// Payment
// --------------------------------------------------

func (r *BookingGormRepository) CreatePayment(
	ctx context.Context,
	p *models.Payment,
) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *BookingGormRepository) GetPaymentForBooking(
	ctx context.Context,
	bookingID uint,
) (*models.Payment, error) {

	var p models.Payment
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		First(&p).Error; err != nil {
		return nil, httperr.ErrBusiness("payment_not_found")
	}
	return &p, nil
}

func (r *BookingGormRepository) GetPaymentByIntentID(
	ctx context.Context,
	intentID string,
) (*models.Payment, error) {

	var p models.Payment
	if err := r.db.WithContext(ctx).
		Where("intent_id = ?", intentID).
		First(&p).Error; err != nil {
		return nil, httperr.ErrBusiness("payment_not_found")
	}
	return &p, nil
}

func (r *BookingGormRepository) UpdatePayment(
	ctx context.Context,
	p *models.Payment,
) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// --------------------------------------------------
// TimeChange
// --------------------------------------------------

func (r *BookingGormRepository) GetPendingTimeChange(
	ctx context.Context,
	bookingID uint,
) (*models.TimeChange, error) {

	var tc models.TimeChange
	if err := r.db.WithContext(ctx).
		Where("booking_id = ? AND status = ?", bookingID, string(domain.TimeChangePending)).
		First(&tc).Error; err != nil {
		return nil, httperr.ErrBusiness("time_change_not_found")
	}
	return &tc, nil
}

func (r *BookingGormRepository) GetTimeChange(
	ctx context.Context,
	id uint,
) (*models.TimeChange, error) {

	var tc models.TimeChange
	if err := r.db.WithContext(ctx).First(&tc, id).Error; err != nil {
		return nil, httperr.ErrBusiness("time_change_not_found")
	}
	return &tc, nil
}

func (r *BookingGormRepository) CreateTimeChange(
	ctx context.Context,
	tc *models.TimeChange,
) error {
	return r.db.WithContext(ctx).Create(tc).Error
}

func (r *BookingGormRepository) UpdateTimeChange(
	ctx context.Context,
	tc *models.TimeChange,
) error {
	return r.db.WithContext(ctx).Save(tc).Error
}

func (r *BookingGormRepository) DeleteTimeChange(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.TimeChange{}, id).Error
}

// --------------------------------------------------
// Check-in / check-out
// --------------------------------------------------

func (r *BookingGormRepository) CreateCheckLog(
	ctx context.Context,
	cl *models.CheckLog,
) error {
	return r.db.WithContext(ctx).Create(cl).Error
}

func (r *BookingGormRepository) GetCheckLog(
	ctx context.Context,
	bookingID uint,
	actor string,
	direction string,
) (*models.CheckLog, error) {

	var cl models.CheckLog
	if err := r.db.WithContext(ctx).
		Where("booking_id = ? AND actor = ? AND direction = ?", bookingID, actor, direction).
		First(&cl).Error; err != nil {
		return nil, httperr.ErrBusiness("check_log_not_found")
	}
	return &cl, nil
}

// --------------------------------------------------
// Payout
// --------------------------------------------------

func (r *BookingGormRepository) CreatePayout(
	ctx context.Context,
	p *models.Payout,
) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *BookingGormRepository) ListPayoutsForUser(
	ctx context.Context,
	userID uint,
) ([]models.Payout, error) {

	var payouts []models.Payout
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payouts).Error; err != nil {
		return nil, err
	}
	return payouts, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
