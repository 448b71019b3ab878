package balance

import (
	"github.com/spf13/cobra"

	"github.com/saadjs/kcal-balance/internal/service"
	"github.com/saadjs/kcal-balance/internal/store"
)

var (
	insightsWeekdayMode string
	insightsJSON        bool
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show cross-day patterns over the whole history",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := service.ParseWeekdayMode(insightsWeekdayMode)
		if err != nil {
			return err
		}
		return withStore(func(s store.Store) error {
			records, err := s.LoadAll()
			if err != nil {
				return err
			}
			report := service.InsightsFromHistory(records, mode)
			if insightsJSON {
				return printJSON(cmd, report)
			}
			printInsights(cmd.OutOrStdout(), report)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(insightsCmd)
	insightsCmd.Flags().StringVar(&insightsWeekdayMode, "weekday-mode", "sum", "Weekday aggregation: sum|avg")
	insightsCmd.Flags().BoolVar(&insightsJSON, "json", false, "Output as JSON")
}
