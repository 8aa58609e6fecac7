package availability

import (
	"context"
	"sort"

	"github.com/parqio/spot-booking/internal/audit"
	domain "github.com/parqio/spot-booking/internal/domain/booking"
	"github.com/parqio/spot-booking/internal/httperr"
	"github.com/parqio/spot-booking/internal/models"
	"github.com/parqio/spot-booking/internal/timeutil"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

// Overlap policies for window writes.
const (
	PolicyConflict = "false"  // any overlap aborts the whole operation
	PolicyReplace  = "true"   // overlapping windows are deleted first
	PolicyIgnore   = "ignore" // overlapping days are skipped
)

func validPolicy(p string) bool {
	return p == PolicyConflict || p == PolicyReplace || p == PolicyIgnore
}

type AddWindowInput struct {
	SpotID uint
	HostID uint

	Day         string
	SimilarDays []string

	StartTime string
	EndTime   string

	OverlapPolicy string
}

// DayConflict lists the existing windows colliding with the candidate range
// on one day, so a client UI can offer replace/ignore/reschedule.
type DayConflict struct {
	Day     string                `json:"day"`
	Windows []models.Availability `json:"windows"`
}

type AddWindowResult struct {
	Created     int                   `json:"created"`
	Replaced    int                   `json:"replaced"`
	Ignored     int                   `json:"ignored"`
	SkippedDays []string              `json:"skipped_days,omitempty"`
	Conflicts   []DayConflict         `json:"conflicts,omitempty"`
	Windows     []models.Availability `json:"windows"`
}

// ======================================================
// USE CASE
// ======================================================

type AddWindow struct {
	repo  domain.Repository
	audit Auditor
}

func NewAddWindow(repo domain.Repository, audit Auditor) *AddWindow {
	return &AddWindow{repo: repo, audit: audit}
}

func (uc *AddWindow) Execute(
	ctx context.Context,
	in AddWindowInput,
) (*AddWindowResult, error) {

	spot, err := uc.repo.GetSpotByID(ctx, in.SpotID)
	if err != nil {
		return nil, err
	}
	if spot.HostID != in.HostID {
		return nil, httperr.ErrBusiness("not_spot_owner")
	}

	if !validPolicy(in.OverlapPolicy) {
		return nil, httperr.ErrBusiness("invalid_overlap_policy")
	}

	startMin, endMin, err := validateRange(in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}

	days, err := expandDays(in.Day, in.SimilarDays)
	if err != nil {
		return nil, err
	}

	res := &AddWindowResult{}

	err = uc.repo.InTx(ctx, func(tx domain.Repository) error {
		conflictsByDay := make(map[string][]models.Availability, len(days))

		for _, day := range days {
			existing, err := tx.ListWindowsForDay(ctx, in.SpotID, day)
			if err != nil {
				return err
			}
			colliding := collidingWindows(existing, startMin, endMin, 0)
			if len(colliding) > 0 {
				conflictsByDay[day] = colliding
			}
		}

		switch in.OverlapPolicy {

		case PolicyConflict:
			if len(conflictsByDay) > 0 {
				for _, day := range days {
					if ws, ok := conflictsByDay[day]; ok {
						res.Conflicts = append(res.Conflicts, DayConflict{Day: day, Windows: ws})
					}
				}
				return httperr.ErrBusiness("availability_conflict")
			}
			return uc.createFor(ctx, tx, in, days, res)

		case PolicyReplace:
			var toDelete []uint
			for _, ws := range conflictsByDay {
				for _, w := range ws {
					toDelete = append(toDelete, w.ID)
				}
			}
			if err := tx.DeleteWindows(ctx, toDelete); err != nil {
				return err
			}
			res.Replaced = len(toDelete)
			return uc.createFor(ctx, tx, in, days, res)

		default: // PolicyIgnore
			var clean []string
			for _, day := range days {
				if ws, ok := conflictsByDay[day]; ok {
					res.SkippedDays = append(res.SkippedDays, day)
					res.Conflicts = append(res.Conflicts, DayConflict{Day: day, Windows: ws})
					res.Ignored++
					continue
				}
				clean = append(clean, day)
			}
			return uc.createFor(ctx, tx, in, clean, res)
		}
	})
	if err != nil {
		if httperr.IsBusiness(err, "availability_conflict") {
			// surface the colliding windows alongside the error
			return res, err
		}
		return nil, err
	}

	res.Windows, err = uc.repo.ListWindows(ctx, in.SpotID)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SpotID: &in.SpotID,
		UserID: &in.HostID,
		Action: "availability_added",
		Entity: "availability",
		Metadata: map[string]any{
			"days":    days,
			"start":   in.StartTime,
			"end":     in.EndTime,
			"policy":  in.OverlapPolicy,
			"created": res.Created,
		},
	})

	return res, nil
}

func (uc *AddWindow) createFor(
	ctx context.Context,
	tx domain.Repository,
	in AddWindowInput,
	days []string,
	res *AddWindowResult,
) error {

	windows := make([]models.Availability, 0, len(days))
	for _, day := range days {
		windows = append(windows, models.Availability{
			SpotID:    in.SpotID,
			Day:       day,
			StartTime: timeutil.NormalizeHHMM(in.StartTime),
			EndTime:   timeutil.NormalizeHHMM(in.EndTime),
		})
	}

	if err := tx.CreateWindows(ctx, windows); err != nil {
		return err
	}
	res.Created = len(windows)
	return nil
}

// ======================================================
// HELPERS (shared by update)
// ======================================================

func validateRange(start, end string) (int, int, error) {
	startMin, err := timeutil.ParseHHMM(start)
	if err != nil {
		return 0, 0, httperr.ErrBusiness("invalid_time_format")
	}
	endMin, err := timeutil.ParseHHMM(end)
	if err != nil {
		return 0, 0, httperr.ErrBusiness("invalid_time_format")
	}
	if endMin <= startMin {
		return 0, 0, httperr.ErrBusiness("end_before_start")
	}
	return startMin, endMin, nil
}

// expandDays validates and de-duplicates day ∪ similarDays, ordered Sun..Sat.
func expandDays(day string, similar []string) ([]string, error) {
	seen := make(map[timeutil.Weekday]bool, 7)

	all := append([]string{day}, similar...)
	for _, d := range all {
		wd := timeutil.Weekday(d)
		if !wd.Valid() {
			return nil, httperr.ErrBusiness("invalid_day")
		}
		seen[wd] = true
	}

	var days []string
	for wd := range seen {
		days = append(days, string(wd))
	}
	sort.Slice(days, func(i, j int) bool {
		return timeutil.Weekday(days[i]).Index() < timeutil.Weekday(days[j]).Index()
	})
	return days, nil
}

// collidingWindows returns the windows whose minute range intersects the
// candidate half-open range, excluding excludeID (0 = exclude nothing).
func collidingWindows(existing []models.Availability, startMin, endMin int, excludeID uint) []models.Availability {
	var out []models.Availability
	for _, w := range existing {
		if excludeID != 0 && w.ID == excludeID {
			continue
		}
		ws, err := timeutil.ParseHHMM(w.StartTime)
		if err != nil {
			continue
		}
		we, err := timeutil.ParseHHMM(w.EndTime)
		if err != nil {
			continue
		}
		if domain.MinuteRangesOverlap(startMin, endMin, ws, we) {
			out = append(out, w)
		}
	}
	return out
}
