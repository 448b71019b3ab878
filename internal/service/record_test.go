package service_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/saadjs/kcal-balance/internal/clock"
	"github.com/saadjs/kcal-balance/internal/model"
	"github.com/saadjs/kcal-balance/internal/service"
	"github.com/saadjs/kcal-balance/internal/store"
)

func TestLogRecordDefaultsToClockNow(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	c := clock.Fixed(time.Date(2024, 3, 15, 13, 45, 10, 0, time.UTC))

	rec, err := service.LogRecord(s, service.LogInput{
		Category:    model.CategoryFood,
		Description: "  3 Eggs ",
		Calories:    210,
	}, c)
	if err != nil {
		t.Fatalf("log record: %v", err)
	}
	if rec.ID == "" || rec.DateKey() != "2024-03-15" || rec.ClockString() != "13:45:10" || rec.Description != "3 Eggs" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	records, err := s.LoadAll()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 1 || records[0].ID != rec.ID {
		t.Fatalf("expected stored record, got %+v", records)
	}
}

func TestLogRecordExerciseFields(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	c := clock.Fixed(time.Date(2024, 3, 15, 7, 0, 0, 0, time.UTC))
	tod := 6*time.Hour + 30*time.Minute

	rec, err := service.LogRecord(s, service.LogInput{
		Category:        model.CategoryExercise,
		Description:     "Morning run",
		Calories:        300,
		Date:            day(2024, 3, 14),
		TimeOfDay:       &tod,
		ExerciseType:    "run",
		DurationMinutes: 28,
		DistanceMiles:   3.1,
	}, c)
	if err != nil {
		t.Fatalf("log exercise: %v", err)
	}
	if rec.ExerciseType != model.ExerciseRun || rec.DateKey() != "2024-03-14" || rec.ClockString() != "06:30:00" {
		t.Fatalf("unexpected exercise record: %+v", rec)
	}
}

func TestLogRecordValidation(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	c := clock.Fixed(time.Date(2024, 3, 15, 7, 0, 0, 0, time.UTC))
	late := 25 * time.Hour

	cases := []struct {
		name string
		in   service.LogInput
		want string
	}{
		{"missing description", service.LogInput{Category: model.CategoryFood, Calories: 10}, "description is required"},
		{"negative calories", service.LogInput{Category: model.CategoryFood, Description: "x", Calories: -1}, "calories must be >= 0"},
		{"oversized calories", service.LogInput{Category: model.CategoryFood, Description: "x", Calories: store.MaxCalories + 1}, "calories must be <="},
		{"unknown category", service.LogInput{Category: "Snack", Description: "x"}, "invalid category"},
		{"exercise type on food", service.LogInput{Category: model.CategoryFood, Description: "x", ExerciseType: "run"}, "only valid for exercise"},
		{"distance on alcohol", service.LogInput{Category: model.CategoryAlcohol, Description: "x", DistanceMiles: 1}, "only valid for exercise"},
		{"negative duration", service.LogInput{Category: model.CategoryExercise, Description: "x", DurationMinutes: -5}, "duration must be >= 0"},
		{"bad exercise type", service.LogInput{Category: model.CategoryExercise, Description: "x", ExerciseType: "swim"}, "invalid exercise type"},
		{"time out of range", service.LogInput{Category: model.CategoryFood, Description: "x", TimeOfDay: &late}, "time of day"},
	}
	for _, tc := range cases {
		_, err := service.LogRecord(s, tc.in, c)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.want, err)
		}
	}
	records, err := s.LoadAll()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("invalid input must not be stored, got %d records", len(records))
	}
}

func TestDeleteRecordAtAndByID(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	c := clock.Fixed(time.Date(2024, 3, 15, 7, 0, 0, 0, time.UTC))
	var ids []string
	for _, desc := range []string{"a", "b", "c"} {
		rec, err := service.LogRecord(s, service.LogInput{Category: model.CategoryFood, Description: desc, Calories: 1}, c)
		if err != nil {
			t.Fatalf("log %s: %v", desc, err)
		}
		ids = append(ids, rec.ID)
	}

	if err := service.DeleteRecordAt(s, 0); err != nil {
		t.Fatalf("delete at 0: %v", err)
	}
	if err := service.DeleteRecord(s, ids[2]); err != nil {
		t.Fatalf("delete by id: %v", err)
	}
	if err := service.DeleteRecordAt(s, 5); !errors.Is(err, store.ErrIndexOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
	if err := service.DeleteRecordAt(s, -1); err == nil {
		t.Fatalf("expected error for negative index")
	}

	records, err := s.LoadAll()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 1 || records[0].Description != "b" {
		t.Fatalf("expected only b to remain, got %+v", records)
	}
}
