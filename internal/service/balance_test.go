package service_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/saadjs/kcal-balance/internal/model"
	"github.com/saadjs/kcal-balance/internal/service"
)

func customWindow(t *testing.T, from, to int) service.Window {
	t.Helper()
	w, err := service.ResolveWindow(service.ViewState{}.WithRange(day(2024, 3, from), day(2024, 3, to)), day(2024, 3, 31))
	if err != nil {
		t.Fatalf("resolve window: %v", err)
	}
	return w
}

func TestBalanceRangeSingleDayScenario(t *testing.T) {
	t.Parallel()
	d := day(2024, 3, 15)
	records := []model.Record{
		food(d, 12, "Burrito", 500),
		exercise(d, 7, model.ExerciseRun, 300, 30, 3),
	}
	w, err := service.ResolveWindow(service.ViewState{Mode: service.ViewSingle}, d)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	r, err := service.BalanceRange(records, w, service.DefaultSettings())
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if r.TotalIntake != 500 || r.TotalBurn != 2700 || r.NetBalance != -2200 {
		t.Fatalf("unexpected totals: intake=%d burn=%d net=%d", r.TotalIntake, r.TotalBurn, r.NetBalance)
	}
	if math.Abs(r.EstimatedWeightDeltaLbs-0.629) > 0.001 {
		t.Fatalf("expected weight delta ~0.629, got %f", r.EstimatedWeightDeltaLbs)
	}
	if len(r.Days) != 1 || r.Days[0].TargetIntake != 2200 {
		t.Fatalf("expected one day with target 2200, got %+v", r.Days)
	}
	if len(r.Records) != 2 || r.Records[0].Category != model.CategoryExercise {
		t.Fatalf("expected log details sorted by time, got %+v", r.Records)
	}
}

func TestBalanceRangeEmptyHistoryZeroFills(t *testing.T) {
	t.Parallel()
	r, err := service.BalanceRange(nil, customWindow(t, 1, 3), service.DefaultSettings())
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if r.TotalIntake != 0 || r.TotalBasalBurn != 7200 || r.NetBalance != -7200 {
		t.Fatalf("unexpected totals: %+v", r)
	}
	if len(r.Days) != 3 {
		t.Fatalf("expected 3 zero-filled days, got %d", len(r.Days))
	}
	for i, want := range []string{"2024-03-01", "2024-03-02", "2024-03-03"} {
		d := r.Days[i]
		if d.Date != want || d.IntakeCalories != 0 || d.BasalCalories != 2400 || d.ExerciseCalories != 0 {
			t.Fatalf("day %d: unexpected %+v", i, d)
		}
	}
	if r.Adherence.LoggedDays != 0 || r.DeficitStreak.Longest != 0 {
		t.Fatalf("empty days must not count toward adherence or streaks: %+v %+v", r.Adherence, r.DeficitStreak)
	}
}

func TestBalanceRangeConservationAndBreakdowns(t *testing.T) {
	t.Parallel()
	records := []model.Record{
		food(day(2024, 3, 1), 8, "Oatmeal", 300),
		alcohol(day(2024, 3, 1), 21, "IPA", 200),
		alcohol(day(2024, 3, 1), 22, "IPA", 200),
		exercise(day(2024, 3, 2), 7, model.ExerciseRun, 400, 40, 4),
		exercise(day(2024, 3, 2), 18, model.ExerciseLift, 200, 45, 0),
		food(day(2024, 3, 4), 13, "Salad", 3100),
		alcohol(day(2024, 3, 4), 20, "Wine", 125),
		exercise(day(2024, 3, 4), 6, model.ExerciseRun, 200, 0, 2),
		food(day(2024, 2, 28), 12, "Outside window", 9999),
		{Category: model.CategoryFood, Description: "undated", Calories: 5000},
	}
	r, err := service.BalanceRange(records, customWindow(t, 1, 4), service.DefaultSettings())
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if r.TotalIntake-r.TotalExerciseBurn-r.TotalBasalBurn != r.NetBalance {
		t.Fatalf("conservation violated: %+v", r)
	}
	if r.TotalFood != 3400 || r.TotalAlcohol != 525 || r.TotalExerciseBurn != 800 || r.TotalBasalBurn != 9600 {
		t.Fatalf("unexpected totals: food=%d alcohol=%d exercise=%d basal=%d", r.TotalFood, r.TotalAlcohol, r.TotalExerciseBurn, r.TotalBasalBurn)
	}
	if len(r.Days) != 4 || r.Days[2].Date != "2024-03-03" || r.Days[2].IntakeCalories != 0 {
		t.Fatalf("expected zero-filled gap on 2024-03-03, got %+v", r.Days)
	}

	if len(r.ExerciseByType) != 2 || r.ExerciseByType[0].Type != "Run" || r.ExerciseByType[0].Calories != 600 || r.ExerciseByType[0].Sessions != 2 {
		t.Fatalf("unexpected exercise breakdown: %+v", r.ExerciseByType)
	}
	if math.Abs(r.ExerciseByType[0].SharePct-75) > 1e-9 {
		t.Fatalf("expected run share 75%%, got %f", r.ExerciseByType[0].SharePct)
	}

	wantAlcohol := []service.AlcoholDay{
		{Date: "2024-03-01", Calories: 400, Drinks: 2},
		{Date: "2024-03-04", Calories: 125, Drinks: 1},
	}
	if !reflect.DeepEqual(r.AlcoholByDay, wantAlcohol) {
		t.Fatalf("unexpected alcohol by day: %+v", r.AlcoholByDay)
	}

	if len(r.DistanceEntries) != 2 || r.TotalDistanceMiles != 6 {
		t.Fatalf("unexpected distance entries: %+v", r.DistanceEntries)
	}
	if r.DistanceEntries[0].PaceMinPerMile == nil || *r.DistanceEntries[0].PaceMinPerMile != 10 {
		t.Fatalf("expected 10 min/mile pace, got %+v", r.DistanceEntries[0])
	}
	if r.DistanceEntries[1].PaceMinPerMile != nil {
		t.Fatalf("pace needs a duration, got %+v", r.DistanceEntries[1])
	}

	// Day 1 stays under its 1900 target; day 4 logs 3225 against 2100.
	if r.Adherence.LoggedDays != 2 || r.Adherence.WithinTargetDays != 1 {
		t.Fatalf("unexpected adherence: %+v", r.Adherence)
	}
	if r.HighestNetDay == nil || r.HighestNetDay.Date != "2024-03-04" {
		t.Fatalf("expected highest net day 2024-03-04, got %+v", r.HighestNetDay)
	}
	if r.DeficitStreak.Current != 0 || r.DeficitStreak.Longest != 1 {
		t.Fatalf("unexpected deficit streak: %+v", r.DeficitStreak)
	}
}

func TestBalanceRangeIsIdempotentAndDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	records := []model.Record{
		food(day(2024, 3, 2), 19, "Dinner", 800),
		food(day(2024, 3, 2), 8, "Breakfast", 300),
		exercise(day(2024, 3, 1), 7, model.ExerciseBike, 500, 60, 15),
	}
	snapshot := append([]model.Record(nil), records...)
	w := customWindow(t, 1, 2)

	first, err := service.BalanceRange(records, w, service.DefaultSettings())
	if err != nil {
		t.Fatalf("first balance: %v", err)
	}
	second, err := service.BalanceRange(records, w, service.DefaultSettings())
	if err != nil {
		t.Fatalf("second balance: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical reports")
	}
	if !reflect.DeepEqual(records, snapshot) {
		t.Fatalf("input records were mutated")
	}
}

func TestBalanceRangeUsesConfiguredSettings(t *testing.T) {
	t.Parallel()
	settings := service.Settings{DailyBasalCalories: 2000, DeficitGoalOffset: -250, CaloriesPerPound: 3000}
	d := day(2024, 3, 5)
	r, err := service.BalanceRange([]model.Record{food(d, 9, "Toast", 750)}, customWindow(t, 5, 5), settings)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if r.Days[0].TargetIntake != 1750 {
		t.Fatalf("expected target 1750, got %d", r.Days[0].TargetIntake)
	}
	if math.Abs(r.EstimatedWeightDeltaLbs-(1250.0/3000.0)) > 1e-9 {
		t.Fatalf("unexpected weight delta %f", r.EstimatedWeightDeltaLbs)
	}
}

func TestBalanceRangeRejectsInvalidSettings(t *testing.T) {
	t.Parallel()
	_, err := service.BalanceRange(nil, customWindow(t, 1, 1), service.Settings{DailyBasalCalories: 2400})
	if err == nil {
		t.Fatalf("expected error for zero calories per pound")
	}
}
