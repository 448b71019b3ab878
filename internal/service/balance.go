package service

import (
	"fmt"
	"sort"

	"github.com/saadjs/kcal-balance/internal/model"
)

// Settings are the energy constants of the balance model.
type Settings struct {
	DailyBasalCalories int     `json:"daily_basal_calories" mapstructure:"daily_basal_calories"`
	DeficitGoalOffset  int     `json:"deficit_goal_offset" mapstructure:"deficit_goal_offset"`
	CaloriesPerPound   float64 `json:"calories_per_pound" mapstructure:"calories_per_pound"`
}

func DefaultSettings() Settings {
	return Settings{
		DailyBasalCalories: 2400,
		DeficitGoalOffset:  -500,
		CaloriesPerPound:   3500,
	}
}

func (s Settings) Validate() error {
	if s.DailyBasalCalories <= 0 {
		return fmt.Errorf("daily basal calories must be > 0")
	}
	if s.CaloriesPerPound <= 0 {
		return fmt.Errorf("calories per pound must be > 0")
	}
	return nil
}

type DayBalance struct {
	Date             string `json:"date"`
	FoodCalories     int    `json:"food_calories"`
	AlcoholCalories  int    `json:"alcohol_calories"`
	IntakeCalories   int    `json:"intake_calories"`
	BasalCalories    int    `json:"basal_calories"`
	ExerciseCalories int    `json:"exercise_calories"`
	BurnCalories     int    `json:"burn_calories"`
	NetCalories      int    `json:"net_calories"`
	TargetIntake     int    `json:"target_intake"`
	IntakeEntries    int    `json:"intake_entries"`
	ExerciseEntries  int    `json:"exercise_entries"`
}

func (d DayBalance) HasIntake() bool {
	return d.IntakeEntries > 0
}

type ExerciseTypeBreakdown struct {
	Type            string  `json:"type"`
	Calories        int     `json:"calories"`
	SharePct        float64 `json:"share_pct"`
	Sessions        int     `json:"sessions"`
	DurationMinutes float64 `json:"duration_minutes"`
	DistanceMiles   float64 `json:"distance_miles"`
}

type AlcoholDay struct {
	Date     string `json:"date"`
	Calories int    `json:"calories"`
	Drinks   int    `json:"drinks"`
}

type DistanceEntry struct {
	Date            string   `json:"date"`
	Time            string   `json:"time"`
	Type            string   `json:"type"`
	Description     string   `json:"description"`
	DistanceMiles   float64  `json:"distance_miles"`
	DurationMinutes float64  `json:"duration_minutes"`
	PaceMinPerMile  *float64 `json:"pace_min_per_mile,omitempty"`
}

type GoalAdherence struct {
	LoggedDays       int     `json:"logged_days"`
	WithinTargetDays int     `json:"within_target_days"`
	PercentWithin    float64 `json:"percent_within_target"`
}

type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

type BalanceReport struct {
	Mode     ViewMode `json:"mode"`
	FromDate string   `json:"from_date"`
	ToDate   string   `json:"to_date"`
	NumDays  int      `json:"num_days"`
	Settings Settings `json:"settings"`

	TotalFood         int `json:"total_food"`
	TotalAlcohol      int `json:"total_alcohol"`
	TotalIntake       int `json:"total_intake"`
	TotalExerciseBurn int `json:"total_exercise_burn"`
	TotalBasalBurn    int `json:"total_basal_burn"`
	TotalBurn         int `json:"total_burn"`
	NetBalance        int `json:"net_balance"`

	// EstimatedWeightDeltaLbs uses a flat calories-per-pound rule of thumb.
	// Positive means estimated loss.
	EstimatedWeightDeltaLbs float64 `json:"estimated_weight_delta_lbs"`

	AvgIntakePerDay float64 `json:"avg_intake_per_day"`
	AvgBurnPerDay   float64 `json:"avg_burn_per_day"`
	AvgNetPerDay    float64 `json:"avg_net_per_day"`

	HighestNetDay *DayBalance   `json:"highest_net_day,omitempty"`
	LowestNetDay  *DayBalance   `json:"lowest_net_day,omitempty"`
	Adherence     GoalAdherence `json:"adherence"`
	DeficitStreak Streak        `json:"deficit_streak"`

	Days               []DayBalance            `json:"days"`
	ExerciseByType     []ExerciseTypeBreakdown `json:"exercise_by_type"`
	AlcoholByDay       []AlcoholDay            `json:"alcohol_by_day"`
	DistanceEntries    []DistanceEntry         `json:"distance_entries"`
	TotalDistanceMiles float64                 `json:"total_distance_miles"`
	Records            []model.Record          `json:"-"`
}

// BalanceRange aggregates the records whose date falls inside w. It never
// mutates records and returns the same report for the same inputs.
func BalanceRange(records []model.Record, w Window, s Settings) (*BalanceReport, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if w.End.Before(w.Start) {
		return nil, fmt.Errorf("%w: %s is before %s", ErrInvalidRange, w.EndKey(), w.StartKey())
	}

	report := &BalanceReport{
		Mode:     w.Mode,
		FromDate: w.StartKey(),
		ToDate:   w.EndKey(),
		NumDays:  w.NumDays(),
		Settings: s,
	}

	dates := w.Dates()
	report.Days = make([]DayBalance, 0, len(dates))
	dayIndex := make(map[string]int, len(dates))
	for _, d := range dates {
		key := d.Format(dateLayout)
		dayIndex[key] = len(report.Days)
		report.Days = append(report.Days, DayBalance{Date: key, BasalCalories: s.DailyBasalCalories})
	}

	inWindow := make([]model.Record, 0)
	for _, rec := range records {
		if w.ContainsKey(rec.DateKey()) {
			inWindow = append(inWindow, rec)
		}
	}
	sortByTimestamp(inWindow)
	report.Records = inWindow

	byType := map[string]*ExerciseTypeBreakdown{}
	byAlcoholDay := map[string]*AlcoholDay{}
	report.DistanceEntries = make([]DistanceEntry, 0)

	for _, rec := range inWindow {
		day := &report.Days[dayIndex[rec.DateKey()]]
		switch rec.Category {
		case model.CategoryFood:
			report.TotalFood += rec.Calories
			day.FoodCalories += rec.Calories
			day.IntakeEntries++
		case model.CategoryAlcohol:
			report.TotalAlcohol += rec.Calories
			day.AlcoholCalories += rec.Calories
			day.IntakeEntries++
			ad, ok := byAlcoholDay[day.Date]
			if !ok {
				ad = &AlcoholDay{Date: day.Date}
				byAlcoholDay[day.Date] = ad
			}
			ad.Calories += rec.Calories
			ad.Drinks++
		case model.CategoryExercise:
			report.TotalExerciseBurn += rec.Calories
			day.ExerciseCalories += rec.Calories
			day.ExerciseEntries++
			label := exerciseLabel(rec.ExerciseType)
			bt, ok := byType[label]
			if !ok {
				bt = &ExerciseTypeBreakdown{Type: label}
				byType[label] = bt
			}
			bt.Calories += rec.Calories
			bt.Sessions++
			bt.DurationMinutes += rec.DurationMinutes
			bt.DistanceMiles += rec.DistanceMiles
			if rec.DistanceMiles > 0 {
				report.DistanceEntries = append(report.DistanceEntries, distanceEntry(rec))
				report.TotalDistanceMiles += rec.DistanceMiles
			}
		}
	}

	for i := range report.Days {
		d := &report.Days[i]
		d.IntakeCalories = d.FoodCalories + d.AlcoholCalories
		d.BurnCalories = d.BasalCalories + d.ExerciseCalories
		d.NetCalories = d.IntakeCalories - d.BurnCalories
		d.TargetIntake = d.BasalCalories + d.ExerciseCalories + s.DeficitGoalOffset
	}

	report.TotalIntake = report.TotalFood + report.TotalAlcohol
	report.TotalBasalBurn = s.DailyBasalCalories * report.NumDays
	report.TotalBurn = report.TotalExerciseBurn + report.TotalBasalBurn
	report.NetBalance = report.TotalIntake - report.TotalBurn
	report.EstimatedWeightDeltaLbs = float64(report.TotalBurn-report.TotalIntake) / s.CaloriesPerPound

	if report.NumDays > 0 {
		div := float64(report.NumDays)
		report.AvgIntakePerDay = float64(report.TotalIntake) / div
		report.AvgBurnPerDay = float64(report.TotalBurn) / div
		report.AvgNetPerDay = float64(report.NetBalance) / div
	}
	report.HighestNetDay, report.LowestNetDay = extremeNetDays(report.Days)
	report.Adherence = calculateAdherence(report.Days)

	current, longest := computeBooleanStreak(report.Days, func(d DayBalance) bool {
		return d.HasIntake() && d.NetCalories < 0
	})
	report.DeficitStreak = Streak{Current: current, Longest: longest}

	report.ExerciseByType = make([]ExerciseTypeBreakdown, 0, len(byType))
	for _, bt := range byType {
		bt.SharePct = pctShare(bt.Calories, report.TotalExerciseBurn)
		report.ExerciseByType = append(report.ExerciseByType, *bt)
	}
	sort.Slice(report.ExerciseByType, func(i, j int) bool {
		a, b := report.ExerciseByType[i], report.ExerciseByType[j]
		if a.Calories != b.Calories {
			return a.Calories > b.Calories
		}
		return a.Type < b.Type
	})

	report.AlcoholByDay = make([]AlcoholDay, 0, len(byAlcoholDay))
	for _, ad := range byAlcoholDay {
		report.AlcoholByDay = append(report.AlcoholByDay, *ad)
	}
	sort.Slice(report.AlcoholByDay, func(i, j int) bool {
		return report.AlcoholByDay[i].Date < report.AlcoholByDay[j].Date
	})

	return report, nil
}

func exerciseLabel(t model.ExerciseType) string {
	if t == "" {
		return "Unspecified"
	}
	return string(t)
}

func distanceEntry(rec model.Record) DistanceEntry {
	out := DistanceEntry{
		Date:            rec.DateKey(),
		Time:            rec.ClockString(),
		Type:            exerciseLabel(rec.ExerciseType),
		Description:     rec.Description,
		DistanceMiles:   rec.DistanceMiles,
		DurationMinutes: rec.DurationMinutes,
	}
	if rec.DurationMinutes > 0 {
		pace := rec.DurationMinutes / rec.DistanceMiles
		out.PaceMinPerMile = &pace
	}
	return out
}

// calculateAdherence counts days with logged intake that stayed at or under
// the day's target intake.
func calculateAdherence(days []DayBalance) GoalAdherence {
	out := GoalAdherence{}
	for _, d := range days {
		if !d.HasIntake() {
			continue
		}
		out.LoggedDays++
		if d.IntakeCalories <= d.TargetIntake {
			out.WithinTargetDays++
		}
	}
	if out.LoggedDays > 0 {
		out.PercentWithin = (float64(out.WithinTargetDays) / float64(out.LoggedDays)) * 100
	}
	return out
}

func extremeNetDays(days []DayBalance) (*DayBalance, *DayBalance) {
	if len(days) == 0 {
		return nil, nil
	}
	copied := make([]DayBalance, len(days))
	copy(copied, days)
	sort.SliceStable(copied, func(i, j int) bool {
		return copied[i].NetCalories < copied[j].NetCalories
	})
	low := copied[0]
	high := copied[len(copied)-1]
	return &high, &low
}

func computeBooleanStreak(days []DayBalance, predicate func(DayBalance) bool) (current, longest int) {
	run := 0
	for i := range days {
		if predicate(days[i]) {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	for i := len(days) - 1; i >= 0; i-- {
		if predicate(days[i]) {
			current++
			continue
		}
		break
	}
	return current, longest
}

func pctShare(value, total int) float64 {
	if total == 0 {
		return 0
	}
	return (float64(value) / float64(total)) * 100
}

// sortByTimestamp orders records by date then time of day, keeping append
// order for ties.
func sortByTimestamp(records []model.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.DateKey() != b.DateKey() {
			return a.DateKey() < b.DateKey()
		}
		return a.TimeOfDay < b.TimeOfDay
	})
}
