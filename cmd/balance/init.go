package balance

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/kcal-balance/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the record store",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.Init(cfg.Store.Backend, cfg.Store.Path, storeOptions()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s store at %s\n", cfg.Store.Backend, cfg.Store.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
