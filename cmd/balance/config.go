package balance

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configJSON bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if configJSON {
			return printJSON(cmd, cfg)
		}
		out := cmd.OutOrStdout()
		file := cfg.File
		if file == "" {
			file = "(none)"
		}
		tz := cfg.Timezone
		if tz == "" {
			tz = "local"
		}
		fmt.Fprintf(out, "config_file=%s\n", file)
		fmt.Fprintf(out, "store.backend=%s\n", cfg.Store.Backend)
		fmt.Fprintf(out, "store.path=%s\n", cfg.Store.Path)
		fmt.Fprintf(out, "timezone=%s\n", tz)
		fmt.Fprintf(out, "energy.daily_basal_calories=%d\n", cfg.Energy.DailyBasalCalories)
		fmt.Fprintf(out, "energy.deficit_goal_offset=%d\n", cfg.Energy.DeficitGoalOffset)
		fmt.Fprintf(out, "energy.calories_per_pound=%g\n", cfg.Energy.CaloriesPerPound)
		fmt.Fprintf(out, "log.level=%s\n", cfg.Log.Level)
		fmt.Fprintf(out, "log.format=%s\n", cfg.Log.Format)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configShowCmd.Flags().BoolVar(&configJSON, "json", false, "Output as JSON")
}
