package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/saadjs/kcal-balance/internal/clock"
	"github.com/saadjs/kcal-balance/internal/model"
	"github.com/saadjs/kcal-balance/internal/store"
)

// LogInput is a record as entered by the user. A zero Date means today and
// a nil TimeOfDay means now, both read from the clock.
type LogInput struct {
	Category        model.Category
	Description     string
	Calories        int
	Date            time.Time
	TimeOfDay       *time.Duration
	ExerciseType    string
	DurationMinutes float64
	DistanceMiles   float64
}

func LogRecord(s store.Store, in LogInput, c clock.Clock) (model.Record, error) {
	rec, err := normalizeLogInput(in, c)
	if err != nil {
		return model.Record{}, err
	}
	return s.Append(rec)
}

func normalizeLogInput(in LogInput, c clock.Clock) (model.Record, error) {
	switch in.Category {
	case model.CategoryFood, model.CategoryAlcohol, model.CategoryExercise:
	default:
		return model.Record{}, fmt.Errorf("invalid category %q", in.Category)
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return model.Record{}, fmt.Errorf("description is required")
	}
	if err := validateNonNegativeInt("calories", in.Calories); err != nil {
		return model.Record{}, err
	}
	if in.Calories > store.MaxCalories {
		return model.Record{}, fmt.Errorf("calories must be <= %d", store.MaxCalories)
	}
	if err := validateNonNegativeFloat("duration", in.DurationMinutes); err != nil {
		return model.Record{}, err
	}
	if err := validateNonNegativeFloat("distance", in.DistanceMiles); err != nil {
		return model.Record{}, err
	}
	exType, err := model.ParseExerciseType(in.ExerciseType)
	if err != nil {
		return model.Record{}, err
	}
	if in.Category != model.CategoryExercise {
		if exType != "" {
			return model.Record{}, fmt.Errorf("exercise type is only valid for exercise records")
		}
		if in.DurationMinutes > 0 || in.DistanceMiles > 0 {
			return model.Record{}, fmt.Errorf("duration and distance are only valid for exercise records")
		}
	}

	now := c.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	tod := time.Duration(now.Hour())*time.Hour + time.Duration(now.Minute())*time.Minute + time.Duration(now.Second())*time.Second
	if in.TimeOfDay != nil {
		tod = *in.TimeOfDay
	}
	if tod < 0 || tod >= 24*time.Hour {
		return model.Record{}, fmt.Errorf("time of day must be between 00:00:00 and 23:59:59")
	}

	return model.Record{
		Date:            clock.StartOfDay(date.In(c.Location())),
		TimeOfDay:       tod.Truncate(time.Second),
		Category:        in.Category,
		Description:     desc,
		Calories:        in.Calories,
		ExerciseType:    exType,
		DurationMinutes: in.DurationMinutes,
		DistanceMiles:   in.DistanceMiles,
	}, nil
}

// DeleteRecordAt removes the record at a 0-based position of the
// append-ordered history.
func DeleteRecordAt(s store.Store, index int) error {
	if index < 0 {
		return fmt.Errorf("record index must be >= 0")
	}
	return s.DeleteAt(index)
}

func DeleteRecord(s store.Store, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("record id is required")
	}
	return s.DeleteByID(id)
}
