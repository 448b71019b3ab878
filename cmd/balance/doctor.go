package balance

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/kcal-balance/internal/service"
	"github.com/saadjs/kcal-balance/internal/store"
)

var doctorJSON bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run data integrity checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		open := func(opts store.Options) (store.Store, error) {
			return store.Open(cfg.Store.Backend, cfg.Store.Path, opts)
		}
		report, err := service.RunDoctor(open, storeOptions())
		if err != nil {
			return err
		}
		if doctorJSON {
			if err := printJSON(cmd, report); err != nil {
				return err
			}
		} else {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Records: %d\n", report.Records)
			fmt.Fprintf(out, "Coerced fields: %d\n", len(report.CoercedFields))
			for _, w := range report.CoercedFields {
				fmt.Fprintf(out, "  row %d %s=%q: %s\n", w.Row, w.Field, w.Value, w.Reason)
			}
			fmt.Fprintf(out, "Undated records: %d\n", report.UndatedRecords)
			fmt.Fprintf(out, "Duplicate ids: %d\n", len(report.DuplicateIDs))
			for _, id := range report.DuplicateIDs {
				fmt.Fprintf(out, "  %s\n", id)
			}
			fmt.Fprintf(out, "Records without id: %d\n", report.MissingIDs)
		}
		if !report.Healthy() {
			return fmt.Errorf("doctor found integrity issues")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Output as JSON")
}
