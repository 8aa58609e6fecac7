package availability

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/parqio/spot-booking/internal/audit"
	domain "github.com/parqio/spot-booking/internal/domain/booking"
	"github.com/parqio/spot-booking/internal/httperr"
	"github.com/parqio/spot-booking/internal/models"
)

// fakeRepo embeds the Repository interface and overrides only the spot and
// window methods the availability use cases touch.
type fakeRepo struct {
	domain.Repository

	spot    models.Spot
	windows map[uint]models.Availability
	nextID  uint
}

func newFakeRepo(hostID uint) *fakeRepo {
	return &fakeRepo{
		spot:    models.Spot{ID: 1, HostID: hostID, Status: models.SpotStatusPublished, Timezone: "UTC"},
		windows: map[uint]models.Availability{},
	}
}

func (f *fakeRepo) InTx(_ context.Context, fn func(domain.Repository) error) error {
	return fn(f)
}

func (f *fakeRepo) GetSpotByID(_ context.Context, id uint) (*models.Spot, error) {
	if id != f.spot.ID {
		return nil, errors.New("spot not found")
	}
	s := f.spot
	return &s, nil
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
		f.nextID++
		windows[i].ID = f.nextID
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

type fakeAuditor struct{ events []audit.Event }

func (a *fakeAuditor) Dispatch(ev audit.Event) { a.events = append(a.events, ev) }

func seed(f *fakeRepo, day, start, end string) models.Availability {
	f.nextID++
	w := models.Availability{ID: f.nextID, SpotID: f.spot.ID, Day: day, StartTime: start, EndTime: end}
	f.windows[w.ID] = w
	return w
}

// -------- add --------

func TestAddWindowMultiDay(t *testing.T) {
	repo := newFakeRepo(99)
	uc := NewAddWindow(repo, &fakeAuditor{})

	res, err := uc.Execute(context.Background(), AddWindowInput{
		SpotID:        1,
		HostID:        99,
		Day:           "Wed",
		SimilarDays:   []string{"Mon", "Fri", "Mon"}, // dup is collapsed
		StartTime:     "08:00",
		EndTime:       "18:00",
		OverlapPolicy: PolicyConflict,
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if res.Created != 3 {
		t.Fatalf("created = %d, want 3", res.Created)
	}

	var days []string
	for _, w := range res.Windows {
		days = append(days, w.Day)
	}
	// ListWindows iterates a map, so compare as a set.
	want := map[string]bool{"Mon": true, "Wed": true, "Fri": true}
	if len(days) != 3 {
		t.Fatalf("windows = %v, want 3 days", days)
	}
	for _, d := range days {
		if !want[d] {
			t.Fatalf("unexpected day %s in %v", d, days)
		}
	}
}

func TestAddWindowNotOwner(t *testing.T) {
	repo := newFakeRepo(99)
	uc := NewAddWindow(repo, &fakeAuditor{})

	_, err := uc.Execute(context.Background(), AddWindowInput{
		SpotID: 1, HostID: 7, Day: "Mon",
		StartTime: "08:00", EndTime: "18:00", OverlapPolicy: PolicyConflict,
	})
	if !httperr.IsBusiness(err, "not_spot_owner") {
		t.Fatalf("err = %v, want not_spot_owner", err)
	}
}

func TestAddWindowPolicyConflict(t *testing.T) {
	repo := newFakeRepo(99)
	existing := seed(repo, "Mon", "09:00", "12:00")
	uc := NewAddWindow(repo, &fakeAuditor{})

	res, err := uc.Execute(context.Background(), AddWindowInput{
		SpotID: 1, HostID: 99,
		Day: "Mon", SimilarDays: []string{"Tue"},
		StartTime: "10:00", EndTime: "14:00",
		OverlapPolicy: PolicyConflict,
	})
	if !httperr.IsBusiness(err, "availability_conflict") {
		t.Fatalf("err = %v, want availability_conflict", err)
	}
	if len(res.Conflicts) != 1 || res.Conflicts[0].Day != "Mon" {
		t.Fatalf("conflicts = %+v, want the Mon collision", res.Conflicts)
	}
	// Nothing was written, not even for the clean Tue.
	if len(repo.windows) != 1 || repo.windows[existing.ID].StartTime != "09:00" {
		t.Fatalf("windows mutated on conflict: %+v", repo.windows)
	}
}

func TestAddWindowPolicyReplace(t *testing.T) {
	repo := newFakeRepo(99)
	existing := seed(repo, "Mon", "09:00", "12:00")
	uc := NewAddWindow(repo, &fakeAuditor{})

	res, err := uc.Execute(context.Background(), AddWindowInput{
		SpotID: 1, HostID: 99,
		Day:       "Mon",
		StartTime: "10:00", EndTime: "14:00",
		OverlapPolicy: PolicyReplace,
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if res.Replaced != 1 || res.Created != 1 {
		t.Fatalf("replaced/created = %d/%d, want 1/1", res.Replaced, res.Created)
	}
	if _, ok := repo.windows[existing.ID]; ok {
		t.Fatal("replaced window still present")
	}
	if len(repo.windows) != 1 {
		t.Fatalf("windows = %d, want 1", len(repo.windows))
	}
}

func TestAddWindowPolicyIgnore(t *testing.T) {
	repo := newFakeRepo(99)
	seed(repo, "Mon", "09:00", "12:00")
	uc := NewAddWindow(repo, &fakeAuditor{})

	res, err := uc.Execute(context.Background(), AddWindowInput{
		SpotID: 1, HostID: 99,
		Day: "Mon", SimilarDays: []string{"Tue", "Wed"},
		StartTime: "10:00", EndTime: "14:00",
		OverlapPolicy: PolicyIgnore,
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if res.Ignored != 1 || res.Created != 2 {
		t.Fatalf("ignored/created = %d/%d, want 1/2", res.Ignored, res.Created)
	}
	if !reflect.DeepEqual(res.SkippedDays, []string{"Mon"}) {
		t.Fatalf("skipped = %v, want [Mon]", res.SkippedDays)
	}
}

func TestAddWindowAdjacentNoConflict(t *testing.T) {
	repo := newFakeRepo(99)
	seed(repo, "Mon", "09:00", "12:00")
	uc := NewAddWindow(repo, &fakeAuditor{})

	// Half-open ranges: 12:00-14:00 touches but does not overlap.
	_, err := uc.Execute(context.Background(), AddWindowInput{
		SpotID: 1, HostID: 99, Day: "Mon",
		StartTime: "12:00", EndTime: "14:00",
		OverlapPolicy: PolicyConflict,
	})
	if err != nil {
		t.Fatalf("adjacent window rejected: %v", err)
	}
}

func TestAddWindowInvalidInputs(t *testing.T) {
	repo := newFakeRepo(99)
	uc := NewAddWindow(repo, &fakeAuditor{})

	cases := []struct {
		in   AddWindowInput
		code string
	}{
		{AddWindowInput{SpotID: 1, HostID: 99, Day: "Monday", StartTime: "08:00", EndTime: "18:00", OverlapPolicy: PolicyConflict}, "invalid_day"},
		{AddWindowInput{SpotID: 1, HostID: 99, Day: "Mon", StartTime: "8am", EndTime: "18:00", OverlapPolicy: PolicyConflict}, "invalid_time_format"},
		{AddWindowInput{SpotID: 1, HostID: 99, Day: "Mon", StartTime: "18:00", EndTime: "08:00", OverlapPolicy: PolicyConflict}, "end_before_start"},
		{AddWindowInput{SpotID: 1, HostID: 99, Day: "Mon", StartTime: "08:00", EndTime: "18:00", OverlapPolicy: "replace"}, "invalid_overlap_policy"},
	}
	for _, c := range cases {
		_, err := uc.Execute(context.Background(), c.in)
		if !httperr.IsBusiness(err, c.code) {
			t.Fatalf("in %+v: err = %v, want %s", c.in, err, c.code)
		}
	}
}

// -------- update --------

func TestUpdateWindowReplace(t *testing.T) {
	repo := newFakeRepo(99)
	target := seed(repo, "Mon", "08:00", "10:00")
	other := seed(repo, "Mon", "11:00", "13:00")
	uc := NewUpdateWindow(repo, &fakeAuditor{})

	res, err := uc.Execute(context.Background(), UpdateWindowInput{
		WindowID: target.ID, SpotID: 1, HostID: 99,
		Day: "Mon", StartTime: "09:00", EndTime: "12:00",
		OverlapPolicy: PolicyReplace,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if res.Replaced != 1 {
		t.Fatalf("replaced = %d, want 1", res.Replaced)
	}
	if _, ok := repo.windows[other.ID]; ok {
		t.Fatal("colliding window survived a replace")
	}
	if got := repo.windows[target.ID]; got.StartTime != "09:00" || got.EndTime != "12:00" {
		t.Fatalf("window not updated: %+v", got)
	}
}

func TestUpdateWindowConflict(t *testing.T) {
	repo := newFakeRepo(99)
	target := seed(repo, "Mon", "08:00", "10:00")
	seed(repo, "Mon", "11:00", "13:00")
	uc := NewUpdateWindow(repo, &fakeAuditor{})

	res, err := uc.Execute(context.Background(), UpdateWindowInput{
		WindowID: target.ID, SpotID: 1, HostID: 99,
		Day: "Mon", StartTime: "09:00", EndTime: "12:00",
		OverlapPolicy: PolicyConflict,
	})
	if !httperr.IsBusiness(err, "availability_conflict") {
		t.Fatalf("err = %v, want availability_conflict", err)
	}
	if len(res.Conflicts) != 1 {
		t.Fatalf("conflicts = %+v, want 1", res.Conflicts)
	}
	if got := repo.windows[target.ID]; got.StartTime != "08:00" {
		t.Fatalf("window mutated on conflict: %+v", got)
	}
}

func TestUpdateWindowMoveDay(t *testing.T) {
	repo := newFakeRepo(99)
	target := seed(repo, "Mon", "08:00", "10:00")
	uc := NewUpdateWindow(repo, &fakeAuditor{})

	_, err := uc.Execute(context.Background(), UpdateWindowInput{
		WindowID: target.ID, SpotID: 1, HostID: 99,
		Day: "Sat", StartTime: "08:00", EndTime: "10:00",
		OverlapPolicy: PolicyConflict,
	})
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if got := repo.windows[target.ID]; got.Day != "Sat" {
		t.Fatalf("day = %s, want Sat", got.Day)
	}
}

// -------- remove --------

func TestRemoveWindow(t *testing.T) {
	repo := newFakeRepo(99)
	target := seed(repo, "Mon", "08:00", "10:00")
	uc := NewRemoveWindow(repo, &fakeAuditor{})

	if err := uc.Execute(context.Background(), target.ID, 1, 99); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(repo.windows) != 0 {
		t.Fatal("window survived removal")
	}

	if err := uc.Execute(context.Background(), target.ID, 1, 99); err == nil {
		t.Fatal("removing a missing window should fail")
	}
}

func TestRemoveWindowNotOwner(t *testing.T) {
	repo := newFakeRepo(99)
	target := seed(repo, "Mon", "08:00", "10:00")
	uc := NewRemoveWindow(repo, &fakeAuditor{})

	err := uc.Execute(context.Background(), target.ID, 1, 7)
	if !httperr.IsBusiness(err, "not_spot_owner") {
		t.Fatalf("err = %v, want not_spot_owner", err)
	}
}
