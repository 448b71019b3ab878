package balance

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/kcal-balance/internal/service"
	"github.com/saadjs/kcal-balance/internal/store"
)

var deleteID string

var deleteCmd = &cobra.Command{
	Use:     "delete [index]",
	Aliases: []string{"rm"},
	Short:   "Delete a record by list index or by --id",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if (len(args) == 1) == (deleteID != "") {
			return fmt.Errorf("provide either an index or --id")
		}
		return withStore(func(s store.Store) error {
			if deleteID != "" {
				if err := service.DeleteRecord(s, deleteID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted record %s\n", deleteID)
				return nil
			}
			index, err := parseIndexArg(args[0])
			if err != nil {
				return err
			}
			if err := service.DeleteRecordAt(s, index); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted record at index %d\n", index)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().StringVar(&deleteID, "id", "", "Record id")
}
