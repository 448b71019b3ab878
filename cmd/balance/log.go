package balance

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/kcal-balance/internal/model"
	"github.com/saadjs/kcal-balance/internal/service"
	"github.com/saadjs/kcal-balance/internal/store"
)

var (
	logCalories int
	logDate     string
	logTime     string
	logType     string
	logMinutes  float64
	logMiles    float64
	logJSON     bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log food, alcohol or exercise",
}

func newLogCmd(category model.Category, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <description>",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd, category, strings.Join(args, " "))
		},
	}
}

var (
	logFoodCmd     = newLogCmd(model.CategoryFood, "food", "Log a food entry (calories in)")
	logAlcoholCmd  = newLogCmd(model.CategoryAlcohol, "alcohol", "Log a drink (calories in)")
	logExerciseCmd = newLogCmd(model.CategoryExercise, "exercise", "Log exercise (calories out)")
)

func runLog(cmd *cobra.Command, category model.Category, description string) error {
	c, err := currentClock()
	if err != nil {
		return err
	}
	in := service.LogInput{
		Category:        category,
		Description:     description,
		Calories:        logCalories,
		ExerciseType:    logType,
		DurationMinutes: logMinutes,
		DistanceMiles:   logMiles,
	}
	if strings.TrimSpace(logDate) != "" {
		d, err := parseDate("--date", logDate, cfg.Location())
		if err != nil {
			return err
		}
		in.Date = d
	}
	tod, err := parseTimeOfDay(logTime)
	if err != nil {
		return err
	}
	in.TimeOfDay = tod

	return withStore(func(s store.Store) error {
		if !cmd.Flags().Changed("calories") {
			calories, err := suggestedCalories(s, category, description)
			if err != nil {
				return err
			}
			in.Calories = calories
		}
		rec, err := service.LogRecord(s, in, c)
		if err != nil {
			return err
		}
		if logJSON {
			return printJSON(cmd, service.ToExportRecord(rec))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged %s %q %d kcal on %s %s (id %s)\n",
			rec.Category, rec.Description, rec.Calories, rec.DateKey(), rec.ClockString(), rec.ID)
		return nil
	})
}

// suggestedCalories fills in calories for intake entries from history or
// the built-in table when --calories is omitted.
func suggestedCalories(s store.Store, category model.Category, description string) (int, error) {
	if !category.IsIntake() {
		return 0, fmt.Errorf("--calories is required for exercise")
	}
	records, err := s.LoadAll()
	if err != nil {
		return 0, err
	}
	sug, ok := service.BuildSuggestionIndex(records).Lookup(description)
	if !ok {
		return 0, fmt.Errorf("--calories is required (no suggestion for %q)", description)
	}
	appLog.WithField("source", sug.Source).Debugf("using suggested calories for %q", sug.Label)
	return sug.Calories, nil
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.AddCommand(logFoodCmd, logAlcoholCmd, logExerciseCmd)

	for _, c := range []*cobra.Command{logFoodCmd, logAlcoholCmd, logExerciseCmd} {
		c.Flags().IntVar(&logCalories, "calories", 0, "Calories (omit for food/alcohol to use a suggestion)")
		c.Flags().StringVar(&logDate, "date", "", "Date YYYY-MM-DD (default: today)")
		c.Flags().StringVar(&logTime, "time", "", "Time HH:MM[:SS] (default: now)")
		c.Flags().BoolVar(&logJSON, "json", false, "Output as JSON")
	}
	logExerciseCmd.Flags().StringVar(&logType, "type", "", "Exercise type: run|walk|bike|peloton|lift|stairstepper|other")
	logExerciseCmd.Flags().Float64Var(&logMinutes, "minutes", 0, "Duration in minutes")
	logExerciseCmd.Flags().Float64Var(&logMiles, "miles", 0, "Distance in miles")
}
