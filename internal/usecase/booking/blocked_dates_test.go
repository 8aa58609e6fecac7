package booking

import (
	"context"
	"reflect"
	"testing"

	domain "github.com/parqio/spot-booking/internal/domain/booking"
)

func TestBlockedDatesCustomStayCollision(t *testing.T) {
	defer setClock("2024-06-08 09:00")()

	repo := newFakeRepo()
	spot := seedSpot(repo, 99, 20)

	// Accepted booking occupying Jun 10 - Jun 11.
	seedBooking(repo, spot, 5, "custom", domain.StatusAccepted,
		"Mon", "2024-06-10", "00:00", "2024-06-11", "23:59")

	uc := NewBlockedDates(repo)
	res, err := uc.Execute(context.Background(), BlockedDatesInput{
		SpotID:          spot.ID,
		Type:            "custom",
		DurationMinutes: 3 * 24 * 60,
	})
	if err != nil {
		t.Fatalf("projection failed: %v", err)
	}

	// A 3-day stay starting Jun 8 or Jun 9 would run into the booking, and
	// Jun 10-11 are occupied outright.
	want := []string{"2024-06-08", "2024-06-09", "2024-06-10", "2024-06-11"}
	if !reflect.DeepEqual(res.BlockedDates, want) {
		t.Fatalf("blocked = %v, want %v", res.BlockedDates, want)
	}
	if res.FirstAvailable != "2024-06-12" {
		t.Fatalf("first available = %s, want 2024-06-12", res.FirstAvailable)
	}
}

func TestBlockedDatesCustomEmptyCalendar(t *testing.T) {
	defer setClock("2024-06-08 09:00")()

	repo := newFakeRepo()
	spot := seedSpot(repo, 99, 20)

	uc := NewBlockedDates(repo)
	res, err := uc.Execute(context.Background(), BlockedDatesInput{
		SpotID:          spot.ID,
		Type:            "custom",
		DurationMinutes: 24 * 60,
	})
	if err != nil {
		t.Fatalf("projection failed: %v", err)
	}
	if len(res.BlockedDates) != 0 {
		t.Fatalf("blocked = %v, want none", res.BlockedDates)
	}
	if res.FirstAvailable != "2024-06-08" {
		t.Fatalf("first available = %s, want today", res.FirstAvailable)
	}
}

func TestBlockedDatesNormalNoWindows(t *testing.T) {
	defer setClock("2024-06-08 09:00")()

	repo := newFakeRepo()
	spot := seedSpot(repo, 99, 20)
	// Only Mondays are open; every other weekday is blocked.
	seedWindow(repo, spot.ID, "Mon", "08:00", "18:00")

	uc := NewBlockedDates(repo)
	res, err := uc.Execute(context.Background(), BlockedDatesInput{
		SpotID:          spot.ID,
		Type:            "normal",
		DurationMinutes: 60,
	})
	if err != nil {
		t.Fatalf("projection failed: %v", err)
	}

	// 2024-06-08 is a Saturday, so the first open date is Mon 2024-06-10.
	if res.FirstAvailable != "2024-06-10" {
		t.Fatalf("first available = %s, want 2024-06-10", res.FirstAvailable)
	}
	for _, d := range res.BlockedDates {
		if d == "2024-06-10" || d == "2024-06-17" {
			t.Fatalf("monday %s wrongly blocked", d)
		}
	}
	// 90-day horizon has at most 13 open Mondays.
	if len(res.BlockedDates) < 75 {
		t.Fatalf("blocked %d days, want most of the horizon", len(res.BlockedDates))
	}
}

func TestBlockedDatesNormalGapTooSmall(t *testing.T) {
	defer setClock("2024-06-08 09:00")()

	repo := newFakeRepo()
	spot := seedSpot(repo, 99, 20)
	seedWindow(repo, spot.ID, "Mon", "08:00", "12:00")

	// Mon Jun 10: booked 09:00-11:00, leaving 60-minute gaps either side.
	seedBooking(repo, spot, 5, "normal", domain.StatusAccepted,
		"Mon", "2024-06-10", "09:00", "2024-06-10", "11:00")

	uc := NewBlockedDates(repo)

	res, err := uc.Execute(context.Background(), BlockedDatesInput{
		SpotID: spot.ID, Type: "normal", DurationMinutes: 60,
	})
	if err != nil {
		t.Fatalf("projection failed: %v", err)
	}
	if res.FirstAvailable != "2024-06-10" {
		t.Fatalf("60-min request: first available = %s, want 2024-06-10", res.FirstAvailable)
	}

	res, err = uc.Execute(context.Background(), BlockedDatesInput{
		SpotID: spot.ID, Type: "normal", DurationMinutes: 90,
	})
	if err != nil {
		t.Fatalf("projection failed: %v", err)
	}
	// No 90-minute gap survives on Jun 10; the next Monday is clean.
	if res.FirstAvailable != "2024-06-17" {
		t.Fatalf("90-min request: first available = %s, want 2024-06-17", res.FirstAvailable)
	}
}

func TestBlockedDatesNormalTodayTruncatedByNow(t *testing.T) {
	defer setClock("2024-06-10 11:30")() // Monday, late morning

	repo := newFakeRepo()
	spot := seedSpot(repo, 99, 20)
	seedWindow(repo, spot.ID, "Mon", "08:00", "12:00")

	uc := NewBlockedDates(repo)
	res, err := uc.Execute(context.Background(), BlockedDatesInput{
		SpotID: spot.ID, Type: "normal", DurationMinutes: 60,
	})
	if err != nil {
		t.Fatalf("projection failed: %v", err)
	}
	// Only 30 minutes of today's window remain, so today is blocked.
	if res.FirstAvailable != "2024-06-17" {
		t.Fatalf("first available = %s, want 2024-06-17", res.FirstAvailable)
	}
	if len(res.BlockedDates) == 0 || res.BlockedDates[0] != "2024-06-10" {
		t.Fatalf("today not blocked: %v", res.BlockedDates)
	}
}
