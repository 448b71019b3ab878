package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/saadjs/kcal-balance/internal/clock"
)

type ViewMode string

const (
	ViewSingle ViewMode = "single"
	ViewWeek   ViewMode = "week"
	ViewCustom ViewMode = "custom"
)

var ErrInvalidRange = errors.New("end date must be on or after start date")

func ParseViewMode(value string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "single", "day":
		return ViewSingle, nil
	case "week", "7d":
		return ViewWeek, nil
	case "custom", "range":
		return ViewCustom, nil
	default:
		return "", fmt.Errorf("invalid view mode %q (use single, week, custom)", value)
	}
}

// ViewState is the pagination state of a dashboard. It is a plain value:
// every transition returns a new state.
type ViewState struct {
	Mode   ViewMode
	Offset int
	From   time.Time
	To     time.Time
}

func (s ViewState) Next() ViewState {
	if s.Mode != ViewCustom {
		s.Offset++
	}
	return s
}

func (s ViewState) Previous() ViewState {
	if s.Mode != ViewCustom {
		s.Offset--
	}
	return s
}

// WithMode switches modes. The offset never carries over.
func (s ViewState) WithMode(mode ViewMode) ViewState {
	s.Mode = mode
	s.Offset = 0
	return s
}

func (s ViewState) WithRange(from, to time.Time) ViewState {
	return ViewState{Mode: ViewCustom, From: from, To: to}
}

type Window struct {
	Mode   ViewMode  `json:"mode"`
	Offset int       `json:"offset"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// ResolveWindow turns a view state into an inclusive date interval relative
// to today.
func ResolveWindow(state ViewState, today time.Time) (Window, error) {
	today = clock.StartOfDay(today)
	w := Window{Mode: state.Mode, Offset: state.Offset}
	switch state.Mode {
	case ViewSingle, "":
		w.Mode = ViewSingle
		w.Start = today.AddDate(0, 0, state.Offset)
		w.End = w.Start
	case ViewWeek:
		w.End = today.AddDate(0, 0, 7*state.Offset)
		w.Start = w.End.AddDate(0, 0, -6)
	case ViewCustom:
		if state.From.IsZero() || state.To.IsZero() {
			return Window{}, fmt.Errorf("custom range requires both start and end dates")
		}
		w.Offset = 0
		w.Start = clock.StartOfDay(state.From)
		w.End = clock.StartOfDay(state.To)
		if w.End.Before(w.Start) {
			return Window{}, fmt.Errorf("%w: %s is before %s", ErrInvalidRange, w.End.Format(dateLayout), w.Start.Format(dateLayout))
		}
	default:
		return Window{}, fmt.Errorf("invalid view mode %q", state.Mode)
	}
	return w, nil
}

// NumDays is the inclusive calendar-day count of the window.
func (w Window) NumDays() int {
	return calendarDaysBetween(w.Start, w.End) + 1
}

// Dates lists every calendar day of the window in order.
func (w Window) Dates() []time.Time {
	n := w.NumDays()
	if n <= 0 {
		return []time.Time{}
	}
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, w.Start.AddDate(0, 0, i))
	}
	return out
}

func (w Window) StartKey() string {
	return w.Start.Format(dateLayout)
}

func (w Window) EndKey() string {
	return w.End.Format(dateLayout)
}

// ContainsKey reports whether a 2006-01-02 date key falls inside the window.
func (w Window) ContainsKey(key string) bool {
	return key != "" && key >= w.StartKey() && key <= w.EndKey()
}

func (w Window) Label() string {
	if w.NumDays() == 1 {
		return w.Start.Format("Mon 2006-01-02")
	}
	return fmt.Sprintf("%s to %s (%d days)", w.StartKey(), w.EndKey(), w.NumDays())
}

const dateLayout = "2006-01-02"

// calendarDaysBetween counts civil days, ignoring DST-shortened days.
func calendarDaysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int((b.Unix() - a.Unix()) / 86400)
}
