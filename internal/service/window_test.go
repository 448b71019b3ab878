package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/saadjs/kcal-balance/internal/service"
)

func TestResolveWindowSingleAndWeek(t *testing.T) {
	t.Parallel()
	today := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

	cases := []struct {
		name      string
		state     service.ViewState
		wantStart string
		wantEnd   string
		wantDays  int
	}{
		{"single today", service.ViewState{Mode: service.ViewSingle}, "2024-03-15", "2024-03-15", 1},
		{"single yesterday", service.ViewState{Mode: service.ViewSingle, Offset: -1}, "2024-03-14", "2024-03-14", 1},
		{"single across month", service.ViewState{Mode: service.ViewSingle, Offset: 17}, "2024-04-01", "2024-04-01", 1},
		{"week current", service.ViewState{Mode: service.ViewWeek}, "2024-03-09", "2024-03-15", 7},
		{"week previous", service.ViewState{Mode: service.ViewWeek, Offset: -1}, "2024-03-02", "2024-03-08", 7},
		{"custom", service.ViewState{Mode: service.ViewCustom, From: day(2024, 2, 27), To: day(2024, 3, 1)}, "2024-02-27", "2024-03-01", 4},
	}
	for _, tc := range cases {
		w, err := service.ResolveWindow(tc.state, today)
		if err != nil {
			t.Fatalf("%s: resolve: %v", tc.name, err)
		}
		if w.StartKey() != tc.wantStart || w.EndKey() != tc.wantEnd {
			t.Fatalf("%s: got %s..%s, want %s..%s", tc.name, w.StartKey(), w.EndKey(), tc.wantStart, tc.wantEnd)
		}
		if w.NumDays() != tc.wantDays || len(w.Dates()) != tc.wantDays {
			t.Fatalf("%s: expected %d days, got %d (%d dates)", tc.name, tc.wantDays, w.NumDays(), len(w.Dates()))
		}
	}
}

func TestResolveWindowRejectsReversedCustomRange(t *testing.T) {
	t.Parallel()
	state := service.ViewState{}.WithRange(day(2024, 3, 10), day(2024, 3, 9))
	_, err := service.ResolveWindow(state, day(2024, 3, 15))
	if !errors.Is(err, service.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestResolveWindowAllowsFutureDates(t *testing.T) {
	t.Parallel()
	w, err := service.ResolveWindow(service.ViewState{Mode: service.ViewWeek, Offset: 3}, day(2024, 3, 15))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if w.EndKey() != "2024-04-05" {
		t.Fatalf("expected future end 2024-04-05, got %s", w.EndKey())
	}
}

func TestViewStateTransitions(t *testing.T) {
	t.Parallel()
	s := service.ViewState{Mode: service.ViewWeek}
	s = s.Previous().Previous().Next()
	if s.Offset != -1 {
		t.Fatalf("expected offset -1, got %d", s.Offset)
	}

	custom := s.WithMode(service.ViewCustom)
	if custom.Mode != service.ViewCustom || custom.Offset != 0 {
		t.Fatalf("switching to custom must reset offset, got %+v", custom)
	}
	if custom.Next().Offset != 0 {
		t.Fatalf("custom mode must ignore paging")
	}

	back := custom.WithMode(service.ViewSingle)
	if back.Offset != 0 {
		t.Fatalf("switching from custom must reset offset, got %d", back.Offset)
	}
	if s.WithMode(service.ViewSingle).Offset != 0 {
		t.Fatalf("switching from week to single must reset offset")
	}
}

func TestWindowNumDaysAcrossDSTChange(t *testing.T) {
	t.Parallel()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	today := time.Date(2024, 3, 12, 9, 0, 0, 0, loc)
	w, err := service.ResolveWindow(service.ViewState{Mode: service.ViewWeek}, today)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if w.StartKey() != "2024-03-06" || w.NumDays() != 7 {
		t.Fatalf("expected 7-day window from 2024-03-06, got %s with %d days", w.StartKey(), w.NumDays())
	}
}

func TestWindowNumDaysOverCenturies(t *testing.T) {
	t.Parallel()
	state := service.ViewState{}.WithRange(day(1800, time.January, 1), day(2200, time.January, 1))
	w, err := service.ResolveWindow(state, day(2024, time.March, 15))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// A Gregorian 400-year cycle is 146097 days; the range is inclusive.
	if got := w.NumDays(); got != 146098 {
		t.Fatalf("expected 146098 days, got %d", got)
	}
}

func TestParseViewMode(t *testing.T) {
	t.Parallel()
	if m, err := service.ParseViewMode(" Week "); err != nil || m != service.ViewWeek {
		t.Fatalf("expected week, got %q, %v", m, err)
	}
	if _, err := service.ParseViewMode("month"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
