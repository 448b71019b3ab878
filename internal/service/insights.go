package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/saadjs/kcal-balance/internal/model"
)

type WeekdayMode string

const (
	WeekdaySum WeekdayMode = "sum"
	WeekdayAvg WeekdayMode = "avg"
)

func ParseWeekdayMode(value string) (WeekdayMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "sum", "total":
		return WeekdaySum, nil
	case "avg", "average", "mean":
		return WeekdayAvg, nil
	default:
		return "", fmt.Errorf("invalid weekday mode %q (use sum or avg)", value)
	}
}

// NextDayExercise compares exercise on days that follow a drinking day with
// exercise on days that do not. Averages are only set when both cohorts have
// at least one day.
type NextDayExercise struct {
	Sufficient         bool     `json:"sufficient"`
	PostDrinkingDays   []string `json:"post_drinking_days"`
	SoberDays          []string `json:"sober_days"`
	PostDrinkingAvg    *float64 `json:"post_drinking_avg_exercise,omitempty"`
	SoberAvg           *float64 `json:"sober_avg_exercise,omitempty"`
	DifferenceCalories *float64 `json:"difference_calories,omitempty"`
}

type WeekdayVolume struct {
	Weekday     string  `json:"weekday"`
	Occurrences int     `json:"occurrences"`
	FoodSum     int     `json:"food_sum"`
	AlcoholSum  int     `json:"alcohol_sum"`
	ExerciseSum int     `json:"exercise_sum"`
	FoodAvg     float64 `json:"food_avg"`
	AlcoholAvg  float64 `json:"alcohol_avg"`
	ExerciseAvg float64 `json:"exercise_avg"`
}

// Value is the headline number for category c under mode.
func (w WeekdayVolume) Value(c model.Category, mode WeekdayMode) float64 {
	avg := mode == WeekdayAvg
	switch c {
	case model.CategoryFood:
		if avg {
			return w.FoodAvg
		}
		return float64(w.FoodSum)
	case model.CategoryAlcohol:
		if avg {
			return w.AlcoholAvg
		}
		return float64(w.AlcoholSum)
	case model.CategoryExercise:
		if avg {
			return w.ExerciseAvg
		}
		return float64(w.ExerciseSum)
	}
	return 0
}

type HourBucket struct {
	Hour     int `json:"hour"`
	Calories int `json:"calories"`
	Entries  int `json:"entries"`
}

type HistorySpan struct {
	FirstDate      string `json:"first_date,omitempty"`
	LastDate       string `json:"last_date,omitempty"`
	DaysLogged     int    `json:"days_logged"`
	Records        int    `json:"records"`
	UndatedRecords int    `json:"undated_records"`
}

type InsightsReport struct {
	Span            HistorySpan     `json:"span"`
	NextDayExercise NextDayExercise `json:"next_day_exercise"`
	WeekdayMode     WeekdayMode     `json:"weekday_mode"`
	Weekdays        []WeekdayVolume `json:"weekdays"`
	MealTiming      []HourBucket    `json:"meal_timing"`
	PeakMealHour    *int            `json:"peak_meal_hour,omitempty"`
}

type dayTotals struct {
	date     time.Time
	food     int
	alcohol  int
	exercise int
}

// InsightsFromHistory derives cross-day signals over the whole history,
// independent of any dashboard window.
func InsightsFromHistory(records []model.Record, mode WeekdayMode) *InsightsReport {
	if mode == "" {
		mode = WeekdaySum
	}
	days, undated := groupByDay(records)
	report := &InsightsReport{
		WeekdayMode: mode,
		Span:        historySpan(days, len(records), undated),
	}
	report.NextDayExercise = nextDayExercise(days)
	report.Weekdays = weekdayVolume(days)
	report.MealTiming, report.PeakMealHour = mealTiming(records)
	return report
}

// groupByDay returns per-date totals sorted by date. Records without a
// readable date are counted but not grouped.
func groupByDay(records []model.Record) ([]dayTotals, int) {
	byKey := map[string]*dayTotals{}
	undated := 0
	for _, rec := range records {
		if !rec.HasDate() {
			undated++
			continue
		}
		key := rec.DateKey()
		d, ok := byKey[key]
		if !ok {
			d = &dayTotals{date: rec.Date}
			byKey[key] = d
		}
		switch rec.Category {
		case model.CategoryFood:
			d.food += rec.Calories
		case model.CategoryAlcohol:
			d.alcohol += rec.Calories
		case model.CategoryExercise:
			d.exercise += rec.Calories
		}
	}
	out := make([]dayTotals, 0, len(byKey))
	for _, d := range byKey {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].date.Format(dateLayout) < out[j].date.Format(dateLayout)
	})
	return out, undated
}

func historySpan(days []dayTotals, records, undated int) HistorySpan {
	out := HistorySpan{DaysLogged: len(days), Records: records, UndatedRecords: undated}
	if len(days) > 0 {
		out.FirstDate = days[0].date.Format(dateLayout)
		out.LastDate = days[len(days)-1].date.Format(dateLayout)
	}
	return out
}

// nextDayExercise assigns every logged date to a cohort by the alcohol total
// of the calendar day before it. A day with nothing logged counts as zero.
func nextDayExercise(days []dayTotals) NextDayExercise {
	alcohol := make(map[string]int, len(days))
	for _, d := range days {
		alcohol[d.date.Format(dateLayout)] = d.alcohol
	}

	out := NextDayExercise{PostDrinkingDays: []string{}, SoberDays: []string{}}
	var postSum, soberSum int
	for _, d := range days {
		key := d.date.Format(dateLayout)
		prev := alcohol[d.date.AddDate(0, 0, -1).Format(dateLayout)]
		if prev > 0 {
			out.PostDrinkingDays = append(out.PostDrinkingDays, key)
			postSum += d.exercise
		} else {
			out.SoberDays = append(out.SoberDays, key)
			soberSum += d.exercise
		}
	}
	if len(out.PostDrinkingDays) == 0 || len(out.SoberDays) == 0 {
		return out
	}
	post := float64(postSum) / float64(len(out.PostDrinkingDays))
	sober := float64(soberSum) / float64(len(out.SoberDays))
	diff := post - sober
	out.Sufficient = true
	out.PostDrinkingAvg = &post
	out.SoberAvg = &sober
	out.DifferenceCalories = &diff
	return out
}

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// weekdayVolume sums calories per weekday Monday to Sunday. Averages divide
// by the number of logged dates that fell on that weekday.
func weekdayVolume(days []dayTotals) []WeekdayVolume {
	rows := make(map[time.Weekday]*WeekdayVolume, 7)
	out := make([]WeekdayVolume, 0, 7)
	for _, wd := range weekdayOrder {
		rows[wd] = &WeekdayVolume{Weekday: wd.String()}
	}
	for _, d := range days {
		row := rows[d.date.Weekday()]
		row.Occurrences++
		row.FoodSum += d.food
		row.AlcoholSum += d.alcohol
		row.ExerciseSum += d.exercise
	}
	for _, wd := range weekdayOrder {
		row := rows[wd]
		if row.Occurrences > 0 {
			div := float64(row.Occurrences)
			row.FoodAvg = float64(row.FoodSum) / div
			row.AlcoholAvg = float64(row.AlcoholSum) / div
			row.ExerciseAvg = float64(row.ExerciseSum) / div
		}
		out = append(out, *row)
	}
	return out
}

func mealTiming(records []model.Record) ([]HourBucket, *int) {
	buckets := make([]HourBucket, 24)
	for h := range buckets {
		buckets[h].Hour = h
	}
	seen := false
	for _, rec := range records {
		if !rec.Category.IsIntake() {
			continue
		}
		b := &buckets[rec.Hour()]
		b.Calories += rec.Calories
		b.Entries++
		seen = true
	}
	if !seen {
		return buckets, nil
	}
	peak := 0
	for h := range buckets {
		if buckets[h].Calories > buckets[peak].Calories {
			peak = h
		}
	}
	return buckets, &peak
}
