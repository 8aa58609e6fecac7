package booking

import (
	"context"
	"sort"
	"time"

	domain "github.com/parqio/spot-booking/internal/domain/booking"
	"github.com/parqio/spot-booking/internal/httperr"
	"github.com/parqio/spot-booking/internal/models"
	"github.com/parqio/spot-booking/internal/timeutil"
	"github.com/parqio/spot-booking/internal/timezone"
)

// Projection horizon in days.
const blockedDatesHorizon = 90

type BlockedDatesInput struct {
	SpotID uint
	Type   string
	// Requested duration in minutes; for custom lookups this determines how
	// many consecutive free dates a stay needs.
	DurationMinutes int
}

type BlockedDatesResult struct {
	BlockedDates   []string `json:"blocked_dates"`
	FirstAvailable string   `json:"first_available,omitempty"`
}

// BlockedDates projects, for the next 90 days, which calendar dates cannot
// accommodate a new booking of the requested type and duration.
type BlockedDates struct {
	repo domain.Repository
}

func NewBlockedDates(repo domain.Repository) *BlockedDates {
	return &BlockedDates{repo: repo}
}

func (uc *BlockedDates) Execute(
	ctx context.Context,
	in BlockedDatesInput,
) (*BlockedDatesResult, error) {

	bType := domain.Type(in.Type)
	if !bType.Valid() {
		return nil, httperr.ErrBusiness("invalid_type")
	}
	if in.DurationMinutes <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	spot, err := uc.repo.GetSpotByID(ctx, in.SpotID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(spot.Timezone)
	now := nowInZone(spot.Timezone)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	horizonEnd := today.AddDate(0, 0, blockedDatesHorizon+1)

	statuses, _ := domain.BlockingStatuses(bType)
	active, err := uc.repo.ListBookingsForSpotBetween(ctx, spot.ID, statuses, today, horizonEnd)
	if err != nil {
		return nil, err
	}

	if bType == domain.TypeCustom {
		return uc.projectCustom(in, loc, today, active), nil
	}
	return uc.projectNormal(ctx, in, spot, loc, now, today, active)
}

// --------------------------------------------------
// custom: whole dates
// --------------------------------------------------

func (uc *BlockedDates) projectCustom(
	in BlockedDatesInput,
	loc *time.Location,
	today time.Time,
	active []models.Booking,
) *BlockedDatesResult {

	// Dates covered by an existing booking's date span.
	occupied := make(map[string]bool)
	for i := range active {
		start, end, err := instantsOf(&active[i], loc)
		if err != nil {
			continue
		}
		for d := dateOnly(start, loc); !d.After(dateOnly(end, loc)); d = d.AddDate(0, 0, 1) {
			occupied[d.Format(timeutil.DateLayout)] = true
		}
	}

	stayDays := (in.DurationMinutes + 24*60 - 1) / (24 * 60)

	blocked := make(map[string]bool)
	for i := 0; i < blockedDatesHorizon; i++ {
		d := today.AddDate(0, 0, i)
		key := d.Format(timeutil.DateLayout)
		if occupied[key] {
			blocked[key] = true
			continue
		}
		// A stay of the requested length starting here must not run into an
		// occupied date.
		for j := 1; j < stayDays; j++ {
			if occupied[d.AddDate(0, 0, j).Format(timeutil.DateLayout)] {
				blocked[key] = true
				break
			}
		}
	}

	return buildResult(blocked, today)
}

// --------------------------------------------------
// normal: per-day gap scan
// --------------------------------------------------

func (uc *BlockedDates) projectNormal(
	ctx context.Context,
	in BlockedDatesInput,
	spot *models.Spot,
	loc *time.Location,
	now time.Time,
	today time.Time,
	active []models.Booking,
) (*BlockedDatesResult, error) {

	windows, err := uc.repo.ListWindows(ctx, spot.ID)
	if err != nil {
		return nil, err
	}

	windowsByDay := make(map[timeutil.Weekday][][2]int)
	for _, w := range windows {
		ws, err1 := timeutil.ParseHHMM(w.StartTime)
		we, err2 := timeutil.ParseHHMM(w.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		day := timeutil.Weekday(w.Day)
		windowsByDay[day] = append(windowsByDay[day], [2]int{ws, we})
	}

	nowMin := now.Hour()*60 + now.Minute()

	blocked := make(map[string]bool)
	for i := 0; i < blockedDatesHorizon; i++ {
		d := today.AddDate(0, 0, i)
		key := d.Format(timeutil.DateLayout)

		dayWindows := windowsByDay[timeutil.WeekdayOf(d)]
		if len(dayWindows) == 0 {
			blocked[key] = true
			continue
		}

		busy := busyMinuteRanges(active, d, loc)

		fits := false
		for _, w := range dayWindows {
			start, end := w[0], w[1]
			if i == 0 && start < nowMin {
				// today: the part of the window already behind us is gone
				start = nowMin
			}
			if start >= end {
				continue
			}
			if maxGap(start, end, busy) >= in.DurationMinutes {
				fits = true
				break
			}
		}
		if !fits {
			blocked[key] = true
		}
	}

	return buildResult(blocked, today), nil
}

// busyMinuteRanges clips the bookings overlapping date d to that day's
// minute scale, sorted by start.
func busyMinuteRanges(active []models.Booking, d time.Time, loc *time.Location) [][2]int {
	dayStart := d
	dayEnd := d.AddDate(0, 0, 1)

	var busy [][2]int
	for i := range active {
		bStart, bEnd, err := instantsOf(&active[i], loc)
		if err != nil {
			continue
		}
		if !bStart.Before(dayEnd) || !bEnd.After(dayStart) {
			continue
		}

		startMin := 0
		if bStart.After(dayStart) {
			startMin = bStart.Hour()*60 + bStart.Minute()
		}
		endMin := 24 * 60
		if bEnd.Before(dayEnd) {
			endMin = bEnd.Hour()*60 + bEnd.Minute()
		}
		busy = append(busy, [2]int{startMin, endMin})
	}

	sort.Slice(busy, func(i, j int) bool { return busy[i][0] < busy[j][0] })
	return busy
}

// maxGap returns the largest contiguous free stretch (minutes) inside
// [start,end) once the busy ranges are subtracted: before the first booking,
// between consecutive ones, after the last.
func maxGap(start, end int, busy [][2]int) int {
	gap := 0
	cur := start
	for _, b := range busy {
		if b[1] <= start || b[0] >= end {
			continue
		}
		bs := b[0]
		if bs < start {
			bs = start
		}
		if bs-cur > gap {
			gap = bs - cur
		}
		if b[1] > cur {
			cur = b[1]
		}
	}
	if end-cur > gap {
		gap = end - cur
	}
	return gap
}

func dateOnly(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func buildResult(blocked map[string]bool, today time.Time) *BlockedDatesResult {
	res := &BlockedDatesResult{}

	for k := range blocked {
		res.BlockedDates = append(res.BlockedDates, k)
	}
	sort.Strings(res.BlockedDates)

	for i := 0; i < blockedDatesHorizon; i++ {
		key := today.AddDate(0, 0, i).Format(timeutil.DateLayout)
		if !blocked[key] {
			res.FirstAvailable = key
			break
		}
	}
	return res
}
