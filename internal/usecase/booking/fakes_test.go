package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/parqio/spot-booking/internal/audit"
	domain "github.com/parqio/spot-booking/internal/domain/booking"
	"github.com/parqio/spot-booking/internal/models"
	"github.com/parqio/spot-booking/internal/notify"
	"github.com/parqio/spot-booking/internal/payments"
)

// --------------------------------------------------
// in-memory repository
// --------------------------------------------------

type fakeRepo struct {
	spots       map[uint]models.Spot
	vehicles    map[uint]models.Vehicle
	users       map[uint]models.User
	windows     map[uint]models.Availability
	bookings    map[uint]models.Booking
	payments    map[uint]models.Payment
	timeChanges map[uint]models.TimeChange
	checkLogs   map[uint]models.CheckLog
	payouts     map[uint]models.Payout

	// onTx, when set, runs once at the start of the next transaction. Tests
	// use it to interleave a concurrent writer between a caller's reads and
	// its transaction.
	onTx func(*fakeRepo)

	nextID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		spots:       map[uint]models.Spot{},
		vehicles:    map[uint]models.Vehicle{},
		users:       map[uint]models.User{},
		windows:     map[uint]models.Availability{},
		bookings:    map[uint]models.Booking{},
		payments:    map[uint]models.Payment{},
		timeChanges: map[uint]models.TimeChange{},
		checkLogs:   map[uint]models.CheckLog{},
		payouts:     map[uint]models.Payout{},
	}
}

func (f *fakeRepo) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeRepo) snapshot() *fakeRepo {
	cp := newFakeRepo()
	cp.nextID = f.nextID
	for k, v := range f.spots {
		cp.spots[k] = v
	}
	for k, v := range f.vehicles {
		cp.vehicles[k] = v
	}
	for k, v := range f.users {
		cp.users[k] = v
	}
	for k, v := range f.windows {
		cp.windows[k] = v
	}
	for k, v := range f.bookings {
		cp.bookings[k] = v
	}
	for k, v := range f.payments {
		cp.payments[k] = v
	}
	for k, v := range f.timeChanges {
		cp.timeChanges[k] = v
	}
	for k, v := range f.checkLogs {
		cp.checkLogs[k] = v
	}
	for k, v := range f.payouts {
		cp.payouts[k] = v
	}
	return cp
}

func (f *fakeRepo) restore(s *fakeRepo) {
	f.nextID = s.nextID
	f.spots = s.spots
	f.vehicles = s.vehicles
	f.users = s.users
	f.windows = s.windows
	f.bookings = s.bookings
	f.payments = s.payments
	f.timeChanges = s.timeChanges
	f.checkLogs = s.checkLogs
	f.payouts = s.payouts
}

// InTx mimics a rollback: a failing fn leaves the repo untouched.
func (f *fakeRepo) InTx(ctx context.Context, fn func(domain.Repository) error) error {
	if f.onTx != nil {
		hook := f.onTx
		f.onTx = nil
		hook(f)
	}
	snap := f.snapshot()
	if err := fn(f); err != nil {
		f.restore(snap)
		return err
	}
	return nil
}

func (f *fakeRepo) GetSpotByID(_ context.Context, id uint) (*models.Spot, error) {
	s, ok := f.spots[id]
	if !ok {
		return nil, errors.New("spot not found")
	}
	return &s, nil
}

func (f *fakeRepo) GetVehicleForUser(_ context.Context, vehicleID, userID uint) (*models.Vehicle, error) {
	v, ok := f.vehicles[vehicleID]
	if !ok || v.UserID != userID {
		return nil, errors.New("vehicle not found")
	}
	return &v, nil
}

func (f *fakeRepo) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return &u, nil
}

func (f *fakeRepo) ListWindows(_ context.Context, spotID uint) ([]models.Availability, error) {
	var out []models.Availability
	for _, w := range f.windows {
		if w.SpotID == spotID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListWindowsForDay(_ context.Context, spotID uint, day string) ([]models.Availability, error) {
	var out []models.Availability
	for _, w := range f.windows {
		if w.SpotID == spotID && w.Day == day {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetWindow(_ context.Context, id, spotID uint) (*models.Availability, error) {
	w, ok := f.windows[id]
	if !ok || w.SpotID != spotID {
		return nil, errors.New("window not found")
	}
	return &w, nil
}

func (f *fakeRepo) CreateWindows(_ context.Context, windows []models.Availability) error {
	for i := range windows {
		windows[i].ID = f.id()
		f.windows[windows[i].ID] = windows[i]
	}
	return nil
}

func (f *fakeRepo) UpdateWindow(_ context.Context, w *models.Availability) error {
	f.windows[w.ID] = *w
	return nil
}

func (f *fakeRepo) DeleteWindows(_ context.Context, ids []uint) error {
	for _, id := range ids {
		delete(f.windows, id)
	}
	return nil
}

func (f *fakeRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	b.ID = f.id()
	f.bookings[b.ID] = *b
	return nil
}

func (f *fakeRepo) GetBooking(_ context.Context, id uint) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, errors.New("booking not found")
	}
	return &b, nil
}

func (f *fakeRepo) UpdateBooking(_ context.Context, b *models.Booking) error {
	f.bookings[b.ID] = *b
	return nil
}

func (f *fakeRepo) DeleteBooking(_ context.Context, id uint) error {
	delete(f.bookings, id)
	return nil
}

func (f *fakeRepo) ListBlockingBookings(
	_ context.Context,
	spotID uint,
	statuses []domain.Status,
	pendingCustomOnly bool,
	excludeBookingID uint,
) ([]models.Booking, error) {

	want := make(map[domain.Status]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}

	var out []models.Booking
	for _, b := range f.bookings {
		if b.SpotID != spotID || b.ID == excludeBookingID {
			continue
		}
		if !want[domain.Status(b.Status)] {
			continue
		}
		if pendingCustomOnly &&
			b.Status == string(domain.StatusPaymentPending) &&
			b.Type != string(domain.TypeCustom) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeRepo) ListBookingsForSpotBetween(
	_ context.Context,
	spotID uint,
	statuses []domain.Status,
	from, to time.Time,
) ([]models.Booking, error) {

	want := make(map[domain.Status]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}

	var out []models.Booking
	for _, b := range f.bookings {
		if b.SpotID != spotID || !want[domain.Status(b.Status)] {
			continue
		}
		if b.StartAt.Before(to) && b.EndAt.After(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListBookingsForHost(_ context.Context, hostID uint) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.HostID == hostID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListBookingsForClient(_ context.Context, clientID uint) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.ClientID == clientID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreatePayment(_ context.Context, p *models.Payment) error {
	p.ID = f.id()
	f.payments[p.ID] = *p
	return nil
}

func (f *fakeRepo) GetPaymentForBooking(_ context.Context, bookingID uint) (*models.Payment, error) {
	for _, p := range f.payments {
		if p.BookingID == bookingID {
			p := p
			return &p, nil
		}
	}
	return nil, errors.New("payment not found")
}

func (f *fakeRepo) GetPaymentByIntentID(_ context.Context, intentID string) (*models.Payment, error) {
	for _, p := range f.payments {
		if p.IntentID == intentID {
			p := p
			return &p, nil
		}
	}
	return nil, errors.New("payment not found")
}

func (f *fakeRepo) UpdatePayment(_ context.Context, p *models.Payment) error {
	f.payments[p.ID] = *p
	return nil
}

func (f *fakeRepo) GetPendingTimeChange(_ context.Context, bookingID uint) (*models.TimeChange, error) {
	for _, tc := range f.timeChanges {
		if tc.BookingID == bookingID && tc.Status == string(domain.TimeChangePending) {
			tc := tc
			return &tc, nil
		}
	}
	return nil, errors.New("time change not found")
}

func (f *fakeRepo) GetTimeChange(_ context.Context, id uint) (*models.TimeChange, error) {
	tc, ok := f.timeChanges[id]
	if !ok {
		return nil, errors.New("time change not found")
	}
	return &tc, nil
}

func (f *fakeRepo) CreateTimeChange(_ context.Context, tc *models.TimeChange) error {
	tc.ID = f.id()
	f.timeChanges[tc.ID] = *tc
	return nil
}

func (f *fakeRepo) UpdateTimeChange(_ context.Context, tc *models.TimeChange) error {
	f.timeChanges[tc.ID] = *tc
	return nil
}

func (f *fakeRepo) DeleteTimeChange(_ context.Context, id uint) error {
	delete(f.timeChanges, id)
	return nil
}

func (f *fakeRepo) CreateCheckLog(_ context.Context, cl *models.CheckLog) error {
	cl.ID = f.id()
	f.checkLogs[cl.ID] = *cl
	return nil
}

func (f *fakeRepo) GetCheckLog(_ context.Context, bookingID uint, actor, direction string) (*models.CheckLog, error) {
	for _, cl := range f.checkLogs {
		if cl.BookingID == bookingID && cl.Actor == actor && cl.Direction == direction {
			cl := cl
			return &cl, nil
		}
	}
	return nil, errors.New("check log not found")
}

func (f *fakeRepo) CreatePayout(_ context.Context, p *models.Payout) error {
	p.ID = f.id()
	f.payouts[p.ID] = *p
	return nil
}

func (f *fakeRepo) ListPayoutsForUser(_ context.Context, userID uint) ([]models.Payout, error) {
	var out []models.Payout
	for _, p := range f.payouts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

// --------------------------------------------------
// processor / dispatcher fakes
// --------------------------------------------------

type fakeProcessor struct {
	createErr   error
	intents     map[string]*payments.Intent
	cancelled   []string
	refunds     []string
	transfers   []int64
	transferErr error
	n           int
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{intents: map[string]*payments.Intent{}}
}

func (p *fakeProcessor) CreatePaymentIntent(_ context.Context, amountMinor int64, _ string, _ map[string]string) (*payments.Intent, error) {
	if p.createErr != nil {
		return nil, p.createErr
	}
	p.n++
	in := &payments.Intent{
		ID:           fmt.Sprintf("pi_%d", p.n),
		ClientSecret: fmt.Sprintf("pi_%d_secret", p.n),
		Status:       "requires_payment_method",
	}
	p.intents[in.ID] = in
	return in, nil
}

func (p *fakeProcessor) RetrievePaymentIntent(_ context.Context, id string) (*payments.Intent, error) {
	in, ok := p.intents[id]
	if !ok {
		return nil, errors.New("no such intent")
	}
	return in, nil
}

func (p *fakeProcessor) CancelPaymentIntent(_ context.Context, id string) error {
	p.cancelled = append(p.cancelled, id)
	return nil
}

func (p *fakeProcessor) RefundPayment(_ context.Context, intentID string) error {
	p.refunds = append(p.refunds, intentID)
	return nil
}

func (p *fakeProcessor) CreateTransfer(_ context.Context, amountMinor int64, _ string, _ map[string]string) (string, error) {
	if p.transferErr != nil {
		return "", p.transferErr
	}
	p.transfers = append(p.transfers, amountMinor)
	return fmt.Sprintf("tr_%d", len(p.transfers)), nil
}

type fakeAuditor struct{ events []audit.Event }

func (a *fakeAuditor) Dispatch(ev audit.Event) { a.events = append(a.events, ev) }

type fakeNotifier struct{ pushes []notify.Push }

func (n *fakeNotifier) Dispatch(p notify.Push) { n.pushes = append(n.pushes, p) }

// --------------------------------------------------
// fixture helpers
// --------------------------------------------------

// setClock pins nowInZone to a fixed instant interpreted in the given zone.
// Returns a restore func for defer.
func setClock(instant string) func() {
	old := nowInZone
	nowInZone = func(tz string) time.Time {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			loc = time.UTC
		}
		t, err := time.ParseInLocation("2006-01-02 15:04", instant, loc)
		if err != nil {
			panic(err)
		}
		return t
	}
	return func() { nowInZone = old }
}

func seedSpot(f *fakeRepo, hostID uint, rate float64) *models.Spot {
	id := f.id()
	s := models.Spot{
		ID:         id,
		HostID:     hostID,
		Title:      "Downtown driveway",
		HourlyRate: rate,
		Status:     models.SpotStatusPublished,
		Timezone:   "UTC",
	}
	f.spots[id] = s
	return &s
}

func seedVehicle(f *fakeRepo, userID uint) *models.Vehicle {
	id := f.id()
	v := models.Vehicle{ID: id, UserID: userID, Plate: "ABC-1234"}
	f.vehicles[id] = v
	return &v
}

func seedUser(f *fakeRepo, stripeAccount string) *models.User {
	id := f.id()
	u := models.User{ID: id, Name: "u", Email: fmt.Sprintf("u%d@x.test", id), StripeAccountID: stripeAccount}
	f.users[id] = u
	return &u
}

func seedWindow(f *fakeRepo, spotID uint, day, start, end string) *models.Availability {
	id := f.id()
	w := models.Availability{ID: id, SpotID: spotID, Day: day, StartTime: start, EndTime: end}
	f.windows[id] = w
	return &w
}

func seedBooking(f *fakeRepo, spot *models.Spot, clientID uint, typ string, status domain.Status, day, startDate, startTime, endDate, endTime string) *models.Booking {
	id := f.id()
	loc, _ := time.LoadLocation(spot.Timezone)
	startAt, _ := time.ParseInLocation("2006-01-02 15:04", startDate+" "+startTime, loc)
	endAt, _ := time.ParseInLocation("2006-01-02 15:04", endDate+" "+endTime, loc)
	b := models.Booking{
		ID:        id,
		ClientID:  clientID,
		HostID:    spot.HostID,
		SpotID:    spot.ID,
		Day:       day,
		StartDate: startDate,
		StartTime: startTime,
		EndDate:   endDate,
		EndTime:   endTime,
		StartAt:   startAt,
		EndAt:     endAt,
		Type:      typ,
		Status:    string(status),
	}
	f.bookings[id] = b
	return &b
}
