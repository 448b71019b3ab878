package service_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/saadjs/kcal-balance/internal/model"
	"github.com/saadjs/kcal-balance/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "balance.db")
	s, err := store.OpenSQLite(path, store.Options{Location: time.UTC})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func food(date time.Time, hour int, desc string, calories int) model.Record {
	return model.Record{Date: date, TimeOfDay: time.Duration(hour) * time.Hour, Category: model.CategoryFood, Description: desc, Calories: calories}
}

func alcohol(date time.Time, hour int, desc string, calories int) model.Record {
	return model.Record{Date: date, TimeOfDay: time.Duration(hour) * time.Hour, Category: model.CategoryAlcohol, Description: desc, Calories: calories}
}

func exercise(date time.Time, hour int, t model.ExerciseType, calories int, minutes, miles float64) model.Record {
	return model.Record{
		Date:            date,
		TimeOfDay:       time.Duration(hour) * time.Hour,
		Category:        model.CategoryExercise,
		Description:     string(t),
		Calories:        calories,
		ExerciseType:    t,
		DurationMinutes: minutes,
		DistanceMiles:   miles,
	}
}
