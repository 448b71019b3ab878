package store

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/saadjs/kcal-balance/internal/model"
)

// MaxCalories is the largest calorie value a stored row may carry.
const MaxCalories = 1_000_000

// Header is the workbook header row: the eight legacy fields plus the id.
var Header = []string{"Date", "Time", "Type", "Item", "Calories", "ExerciseType", "DurationMin", "DistanceMi", "ID"}

const (
	colDate = iota
	colTime
	colCategory
	colDescription
	colCalories
	colExerciseType
	colDuration
	colDistance
	colID
)

// CoercionWarning describes a field that failed to parse and was replaced by
// its zero value. The record itself is still loaded.
type CoercionWarning struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

func (w CoercionWarning) String() string {
	return fmt.Sprintf("row %d: %s %q %s", w.Row, w.Field, w.Value, w.Reason)
}

var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339, "01/02/2006", "1/2/2006"}

var timeLayouts = []string{"15:04:05", "15:04", "3:04 PM", "3:04:05 PM"}

// EncodeRow renders rec in the persisted field order.
func EncodeRow(rec model.Record) []string {
	return []string{
		rec.DateKey(),
		rec.ClockString(),
		string(rec.Category),
		rec.Description,
		strconv.Itoa(rec.Calories),
		string(rec.ExerciseType),
		formatNumber(rec.DurationMinutes),
		formatNumber(rec.DistanceMiles),
		rec.ID,
	}
}

// DecodeRow parses one stored row. Short rows (the original five-column
// layout) are accepted; missing trailing fields take their defaults.
func DecodeRow(row []string, pos int, loc *time.Location) (model.Record, []CoercionWarning) {
	if loc == nil {
		loc = time.Local
	}
	field := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	var warnings []CoercionWarning
	warn := func(name, value, reason string) {
		warnings = append(warnings, CoercionWarning{Row: pos, Field: name, Value: value, Reason: reason})
	}

	rec := model.Record{
		ID:          field(colID),
		Description: field(colDescription),
	}

	if raw := field(colDate); raw == "" {
		warn("date", raw, "is empty")
	} else if d, ok := parseDate(raw, loc); ok {
		rec.Date = d
	} else {
		warn("date", raw, "is not a date")
	}

	if raw := field(colTime); raw != "" {
		if tod, ok := parseTimeOfDay(raw); ok {
			rec.TimeOfDay = tod
		} else {
			warn("time", raw, "is not a time of day")
		}
	}

	if raw := field(colCategory); raw != "" {
		if c, err := model.ParseCategory(raw); err == nil {
			rec.Category = c
		} else {
			warn("category", raw, "is not a known category")
		}
	} else {
		warn("category", raw, "is empty")
	}

	raw := field(colCalories)
	switch v, ok := parseNumber(raw); {
	case raw == "":
		warn("calories", raw, "is empty")
	case !ok:
		warn("calories", raw, "is not numeric")
	case v < 0:
		warn("calories", raw, "is negative")
	case v > MaxCalories:
		warn("calories", raw, "is too large")
	default:
		rec.Calories = int(math.Round(v))
	}

	if raw := field(colExerciseType); raw != "" {
		t, err := model.ParseExerciseType(raw)
		switch {
		case err != nil:
			warn("exercise_type", raw, "is not a known exercise type")
		case rec.Category != model.CategoryExercise:
			warn("exercise_type", raw, "is set on a non-exercise record")
		default:
			rec.ExerciseType = t
		}
	}

	rec.DurationMinutes = decodeMeasure(field(colDuration), "duration_minutes", rec.Category, warn)
	rec.DistanceMiles = decodeMeasure(field(colDistance), "distance_miles", rec.Category, warn)
	return rec, warnings
}

func decodeMeasure(raw, name string, category model.Category, warn func(string, string, string)) float64 {
	if raw == "" {
		return 0
	}
	v, ok := parseNumber(raw)
	switch {
	case !ok:
		warn(name, raw, "is not numeric")
		return 0
	case v < 0:
		warn(name, raw, "is negative")
		return 0
	case v > 0 && category != model.CategoryExercise:
		warn(name, raw, "is set on a non-exercise record")
		return 0
	}
	return v
}

func parseDate(raw string, loc *time.Location) (time.Time, bool) {
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, raw, loc)
		if err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, loc), true
		}
	}
	return time.Time{}, false
}

func parseTimeOfDay(raw string) (time.Duration, bool) {
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second, true
		}
	}
	return 0, false
}

func parseNumber(raw string) (float64, bool) {
	raw = strings.ReplaceAll(raw, ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
