package balance

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/kcal-balance/internal/service"
	"github.com/saadjs/kcal-balance/internal/store"
)

var (
	suggestLimit int
	suggestJSON  bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [prefix]",
	Short: "Suggest calorie values for food and drinks",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := strings.Join(args, " ")
		return withStore(func(s store.Store) error {
			records, err := s.LoadAll()
			if err != nil {
				return err
			}
			items := service.BuildSuggestionIndex(records).Suggest(prefix)
			if suggestLimit > 0 && len(items) > suggestLimit {
				items = items[:suggestLimit]
			}
			if suggestJSON {
				return printJSON(cmd, items)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ITEM\tKCAL\tTYPE\tSOURCE")
			for _, it := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\t%s\n", it.Label, it.Calories, it.Category, it.Source)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 20, "Maximum suggestions (0 for all)")
	suggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "Output as JSON")
}
