package balance

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/saadjs/kcal-balance/internal/model"
	"github.com/saadjs/kcal-balance/internal/service"
)

const barWidth = 24

func printBalanceReport(out io.Writer, w service.Window, r *service.BalanceReport, noCharts bool) {
	fmt.Fprintf(out, "Window: %s [%s]\n", w.Label(), r.Mode)
	fmt.Fprintf(out, "Intake: food=%d alcohol=%d total=%d kcal\n", r.TotalFood, r.TotalAlcohol, r.TotalIntake)
	fmt.Fprintf(out, "Burn: basal=%d exercise=%d total=%d kcal\n", r.TotalBasalBurn, r.TotalExerciseBurn, r.TotalBurn)
	fmt.Fprintf(out, "Net balance: %d kcal\n", r.NetBalance)
	fmt.Fprintln(out, formatWeightDelta(r.EstimatedWeightDeltaLbs))
	if r.NumDays > 1 {
		fmt.Fprintf(out, "Averages/day: intake=%.1f burn=%.1f net=%.1f\n", r.AvgIntakePerDay, r.AvgBurnPerDay, r.AvgNetPerDay)
	}
	if r.HighestNetDay != nil && r.LowestNetDay != nil && r.NumDays > 1 {
		fmt.Fprintf(out, "Highest net day: %s (%d kcal)\n", r.HighestNetDay.Date, r.HighestNetDay.NetCalories)
		fmt.Fprintf(out, "Lowest net day: %s (%d kcal)\n", r.LowestNetDay.Date, r.LowestNetDay.NetCalories)
	}
	fmt.Fprintf(out, "Target intake: %d/%d logged days at or under target (%.1f%%)\n", r.Adherence.WithinTargetDays, r.Adherence.LoggedDays, r.Adherence.PercentWithin)
	fmt.Fprintf(out, "Deficit streak: current=%d longest=%d\n", r.DeficitStreak.Current, r.DeficitStreak.Longest)

	fmt.Fprintln(out, "\nDays")
	fmt.Fprintln(out, "DATE\tFOOD\tALCOHOL\tEXERCISE\tBURN\tNET\tTARGET")
	for _, d := range r.Days {
		fmt.Fprintf(out, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n", d.Date, d.FoodCalories, d.AlcoholCalories, d.ExerciseCalories, d.BurnCalories, d.NetCalories, d.TargetIntake)
	}

	if len(r.ExerciseByType) > 0 {
		fmt.Fprintln(out, "\nExercise by type")
		fmt.Fprintln(out, "TYPE\tKCAL\tSHARE\tSESSIONS\tMIN\tMILES")
		for _, e := range r.ExerciseByType {
			fmt.Fprintf(out, "%s\t%d\t%.1f%%\t%d\t%.1f\t%.2f\n", e.Type, e.Calories, e.SharePct, e.Sessions, e.DurationMinutes, e.DistanceMiles)
		}
	}
	if len(r.AlcoholByDay) > 0 {
		fmt.Fprintln(out, "\nAlcohol")
		fmt.Fprintln(out, "DATE\tKCAL\tDRINKS")
		for _, a := range r.AlcoholByDay {
			fmt.Fprintf(out, "%s\t%d\t%d\n", a.Date, a.Calories, a.Drinks)
		}
	}
	if len(r.DistanceEntries) > 0 {
		fmt.Fprintf(out, "\nDistance (%.2f mi total)\n", r.TotalDistanceMiles)
		fmt.Fprintln(out, "DATE\tTIME\tTYPE\tMILES\tMIN\tPACE")
		for _, d := range r.DistanceEntries {
			pace := "-"
			if d.PaceMinPerMile != nil {
				pace = formatPace(*d.PaceMinPerMile)
			}
			fmt.Fprintf(out, "%s\t%s\t%s\t%.2f\t%.1f\t%s\n", d.Date, d.Time, d.Type, d.DistanceMiles, d.DurationMinutes, pace)
		}
	}

	if noCharts || len(r.Days) < 2 {
		return
	}
	fmt.Fprintln(out, "\nNet per day")
	maxAbs := 0
	for _, d := range r.Days {
		if abs(d.NetCalories) > maxAbs {
			maxAbs = abs(d.NetCalories)
		}
	}
	if maxAbs == 0 {
		fmt.Fprintln(out, "  (all zero)")
	} else {
		for _, d := range r.Days {
			fmt.Fprintf(out, "  %-10s %s %d\n", d.Date, horizontalBar(d.NetCalories, maxAbs, barWidth), d.NetCalories)
		}
	}
	intake := make([]float64, 0, len(r.Days))
	for _, d := range r.Days {
		intake = append(intake, float64(d.IntakeCalories))
	}
	fmt.Fprintf(out, "Intake %s\n", sparkline(intake))
}

func printInsights(out io.Writer, r *service.InsightsReport) {
	if r.Span.DaysLogged == 0 {
		fmt.Fprintln(out, "No dated records yet")
		return
	}
	fmt.Fprintf(out, "History: %s to %s (%d days logged, %d records)\n", r.Span.FirstDate, r.Span.LastDate, r.Span.DaysLogged, r.Span.Records)
	if r.Span.UndatedRecords > 0 {
		fmt.Fprintf(out, "Undated records skipped: %d\n", r.Span.UndatedRecords)
	}

	fmt.Fprintln(out, "\nExercise the day after drinking")
	ne := r.NextDayExercise
	if !ne.Sufficient {
		fmt.Fprintf(out, "Not enough data (%d post-drinking days, %d sober days)\n", len(ne.PostDrinkingDays), len(ne.SoberDays))
	} else {
		fmt.Fprintf(out, "After drinking: %.1f kcal/day over %d days\n", *ne.PostDrinkingAvg, len(ne.PostDrinkingDays))
		fmt.Fprintf(out, "Otherwise: %.1f kcal/day over %d days\n", *ne.SoberAvg, len(ne.SoberDays))
		fmt.Fprintf(out, "Difference: %+.1f kcal/day\n", *ne.DifferenceCalories)
	}

	fmt.Fprintf(out, "\nBy weekday (%s)\n", r.WeekdayMode)
	fmt.Fprintln(out, "WEEKDAY\tDAYS\tFOOD\tALCOHOL\tEXERCISE")
	for _, w := range r.Weekdays {
		fmt.Fprintf(out, "%s\t%d\t%.0f\t%.0f\t%.0f\n", w.Weekday, w.Occurrences,
			w.Value(model.CategoryFood, r.WeekdayMode),
			w.Value(model.CategoryAlcohol, r.WeekdayMode),
			w.Value(model.CategoryExercise, r.WeekdayMode))
	}

	fmt.Fprintln(out, "\nMeal timing")
	maxCal := 0
	for _, b := range r.MealTiming {
		if b.Calories > maxCal {
			maxCal = b.Calories
		}
	}
	for _, b := range r.MealTiming {
		if b.Entries == 0 {
			continue
		}
		fmt.Fprintf(out, "  %02d:00 %s %d\n", b.Hour, horizontalBar(b.Calories, maxCal, barWidth), b.Calories)
	}
	if r.PeakMealHour != nil {
		fmt.Fprintf(out, "Peak hour: %02d:00\n", *r.PeakMealHour)
	}
}

func formatWeightDelta(lbs float64) string {
	switch {
	case lbs > 0:
		return fmt.Sprintf("Estimated weight change: -%.2f lb", lbs)
	case lbs < 0:
		return fmt.Sprintf("Estimated weight change: +%.2f lb", -lbs)
	default:
		return "Estimated weight change: 0.00 lb"
	}
}

func formatPace(minPerMile float64) string {
	total := int(math.Round(minPerMile * 60))
	return fmt.Sprintf("%d:%02d/mi", total/60, total%60)
}

func horizontalBar(value, maxAbs, width int) string {
	if width <= 0 || maxAbs <= 0 {
		return ""
	}
	bars := int(math.Round((float64(abs(value)) / float64(maxAbs)) * float64(width)))
	if bars == 0 && value != 0 {
		bars = 1
	}
	prefix := ""
	if value < 0 {
		prefix = "-"
	}
	return prefix + strings.Repeat("#", bars)
}

func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	chars := []rune("._-~=*#@")
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	if maxV == minV {
		return strings.Repeat(string(chars[0]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - minV) / (maxV - minV) * float64(len(chars)-1)))
		b.WriteRune(chars[idx])
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
