package availability

import (
	"context"

	"github.com/parqio/spot-booking/internal/audit"
	domain "github.com/parqio/spot-booking/internal/domain/booking"
	"github.com/parqio/spot-booking/internal/httperr"
	"github.com/parqio/spot-booking/internal/models"
	"github.com/parqio/spot-booking/internal/timeutil"
)

type UpdateWindowInput struct {
	WindowID uint
	SpotID   uint
	HostID   uint

	Day       string
	StartTime string
	EndTime   string

	// Same values as AddWindow; anything other than "true" is treated as
	// conflict-on-overlap.
	OverlapPolicy string
}

type UpdateWindowResult struct {
	Replaced  int                   `json:"replaced"`
	Conflicts []DayConflict         `json:"conflicts,omitempty"`
	Window    *models.Availability  `json:"window,omitempty"`
	Windows   []models.Availability `json:"windows"`
}

type UpdateWindow struct {
	repo  domain.Repository
	audit Auditor
}

func NewUpdateWindow(repo domain.Repository, audit Auditor) *UpdateWindow {
	return &UpdateWindow{repo: repo, audit: audit}
}

func (uc *UpdateWindow) Execute(
	ctx context.Context,
	in UpdateWindowInput,
) (*UpdateWindowResult, error) {

	spot, err := uc.repo.GetSpotByID(ctx, in.SpotID)
	if err != nil {
		return nil, err
	}
	if spot.HostID != in.HostID {
		return nil, httperr.ErrBusiness("not_spot_owner")
	}

	if !timeutil.Weekday(in.Day).Valid() {
		return nil, httperr.ErrBusiness("invalid_day")
	}

	startMin, endMin, err := validateRange(in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}

	res := &UpdateWindowResult{}

	err = uc.repo.InTx(ctx, func(tx domain.Repository) error {
		w, err := tx.GetWindow(ctx, in.WindowID, in.SpotID)
		if err != nil {
			return err
		}

		existing, err := tx.ListWindowsForDay(ctx, in.SpotID, in.Day)
		if err != nil {
			return err
		}

		colliding := collidingWindows(existing, startMin, endMin, w.ID)
		if len(colliding) > 0 {
			if in.OverlapPolicy != PolicyReplace {
				res.Conflicts = []DayConflict{{Day: in.Day, Windows: colliding}}
				return httperr.ErrBusiness("availability_conflict")
			}

			ids := make([]uint, 0, len(colliding))
			for _, c := range colliding {
				ids = append(ids, c.ID)
			}
			if err := tx.DeleteWindows(ctx, ids); err != nil {
				return err
			}
			res.Replaced = len(ids)
		}

		w.Day = in.Day
		w.StartTime = timeutil.NormalizeHHMM(in.StartTime)
		w.EndTime = timeutil.NormalizeHHMM(in.EndTime)
		if err := tx.UpdateWindow(ctx, w); err != nil {
			return err
		}

		res.Window = w
		return nil
	})
	if err != nil {
		if httperr.IsBusiness(err, "availability_conflict") {
			return res, err
		}
		return nil, err
	}

	res.Windows, err = uc.repo.ListWindows(ctx, in.SpotID)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SpotID:   &in.SpotID,
		UserID:   &in.HostID,
		Action:   "availability_updated",
		Entity:   "availability",
		EntityID: &in.WindowID,
	})

	return res, nil
}
