package availability

import (
	"context"

	"github.com/parqio/spot-booking/internal/audit"
	domain "github.com/parqio/spot-booking/internal/domain/booking"
	"github.com/parqio/spot-booking/internal/httperr"
)

type RemoveWindow struct {
	repo  domain.Repository
	audit Auditor
}

func NewRemoveWindow(repo domain.Repository, audit Auditor) *RemoveWindow {
	return &RemoveWindow{repo: repo, audit: audit}
}

func (uc *RemoveWindow) Execute(
	ctx context.Context,
	windowID uint,
	spotID uint,
	hostID uint,
) error {

	spot, err := uc.repo.GetSpotByID(ctx, spotID)
	if err != nil {
		return err
	}
	if spot.HostID != hostID {
		return httperr.ErrBusiness("not_spot_owner")
	}

	w, err := uc.repo.GetWindow(ctx, windowID, spotID)
	if err != nil {
		return err
	}

	if err := uc.repo.DeleteWindows(ctx, []uint{w.ID}); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		SpotID:   &spotID,
		UserID:   &hostID,
		Action:   "availability_removed",
		Entity:   "availability",
		EntityID: &windowID,
	})

	return nil
}
