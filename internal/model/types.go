package model

import (
	"fmt"
	"strings"
	"time"
)

type Category string

const (
	CategoryFood     Category = "Food (In)"
	CategoryAlcohol  Category = "Alcohol (In)"
	CategoryExercise Category = "Exercise (Out)"
)

var Categories = []Category{CategoryFood, CategoryAlcohol, CategoryExercise}

// ParseCategory accepts the stored labels as well as the short names
// food, alcohol and exercise.
func ParseCategory(value string) (Category, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "food (in)", "food", "foodin":
		return CategoryFood, nil
	case "alcohol (in)", "alcohol", "alcoholin", "drink":
		return CategoryAlcohol, nil
	case "exercise (out)", "exercise", "exerciseout":
		return CategoryExercise, nil
	default:
		return "", fmt.Errorf("invalid category %q (use food, alcohol, exercise)", value)
	}
}

func (c Category) IsIntake() bool {
	return c == CategoryFood || c == CategoryAlcohol
}

type ExerciseType string

const (
	ExerciseRun          ExerciseType = "Run"
	ExerciseWalk         ExerciseType = "Walk"
	ExerciseBike         ExerciseType = "Bike"
	ExercisePeloton      ExerciseType = "Peloton"
	ExerciseLift         ExerciseType = "Lift"
	ExerciseStairStepper ExerciseType = "StairStepper"
	ExerciseOther        ExerciseType = "Other"
)

var ExerciseTypes = []ExerciseType{
	ExerciseRun,
	ExerciseWalk,
	ExerciseBike,
	ExercisePeloton,
	ExerciseLift,
	ExerciseStairStepper,
	ExerciseOther,
}

func ParseExerciseType(value string) (ExerciseType, error) {
	v := strings.ToLower(strings.Join(strings.Fields(value), ""))
	if v == "" {
		return "", nil
	}
	for _, t := range ExerciseTypes {
		if strings.ToLower(string(t)) == v {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid exercise type %q (use run, walk, bike, peloton, lift, stairstepper, other)", value)
}

// Record is one logged activity. Date holds local midnight of the logged day
// and is zero when the stored date could not be read.
type Record struct {
	ID              string
	Date            time.Time
	TimeOfDay       time.Duration
	Category        Category
	Description     string
	Calories        int
	ExerciseType    ExerciseType
	DurationMinutes float64
	DistanceMiles   float64
}

func (r Record) HasDate() bool {
	return !r.Date.IsZero()
}

func (r Record) DateKey() string {
	if r.Date.IsZero() {
		return ""
	}
	return r.Date.Format("2006-01-02")
}

func (r Record) Hour() int {
	h := int(r.TimeOfDay / time.Hour)
	if h < 0 || h > 23 {
		return 0
	}
	return h
}

func (r Record) Timestamp() time.Time {
	if r.Date.IsZero() {
		return time.Time{}
	}
	secs := int(r.TimeOfDay / time.Second)
	return time.Date(r.Date.Year(), r.Date.Month(), r.Date.Day(), secs/3600, (secs%3600)/60, secs%60, 0, r.Date.Location())
}

func (r Record) ClockString() string {
	secs := int(r.TimeOfDay / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
