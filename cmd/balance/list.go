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
	listFrom     string
	listTo       string
	listCategory string
	listLimit    int
	listJSON     bool
)

type listedRecord struct {
	Index int `json:"index"`
	service.ExportRecord
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List logged records in append order",
	RunE: func(cmd *cobra.Command, args []string) error {
		loc := cfg.Location()
		fromKey, toKey := "", ""
		if listFrom != "" {
			d, err := parseDate("--from", listFrom, loc)
			if err != nil {
				return err
			}
			fromKey = d.Format("2006-01-02")
		}
		if listTo != "" {
			d, err := parseDate("--to", listTo, loc)
			if err != nil {
				return err
			}
			toKey = d.Format("2006-01-02")
		}
		var category model.Category
		if strings.TrimSpace(listCategory) != "" {
			c, err := model.ParseCategory(listCategory)
			if err != nil {
				return err
			}
			category = c
		}

		return withStore(func(s store.Store) error {
			records, err := s.LoadAll()
			if err != nil {
				return err
			}
			rows := make([]listedRecord, 0, len(records))
			for i, rec := range records {
				key := rec.DateKey()
				if fromKey != "" && (key == "" || key < fromKey) {
					continue
				}
				if toKey != "" && (key == "" || key > toKey) {
					continue
				}
				if category != "" && rec.Category != category {
					continue
				}
				rows = append(rows, listedRecord{Index: i, ExportRecord: service.ToExportRecord(rec)})
			}
			if listLimit > 0 && len(rows) > listLimit {
				rows = rows[len(rows)-listLimit:]
			}
			if listJSON {
				return printJSON(cmd, rows)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "INDEX\tID\tDATE\tTIME\tTYPE\tITEM\tKCAL")
			for _, r := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%s\t%s\t%d\n", r.Index, r.ID, r.Date, r.Time, r.Category, r.Description, r.Calories)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listFrom, "from", "", "Only records on or after YYYY-MM-DD")
	listCmd.Flags().StringVar(&listTo, "to", "", "Only records on or before YYYY-MM-DD")
	listCmd.Flags().StringVar(&listCategory, "type", "", "Only records of this type: food|alcohol|exercise")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Show only the last N matching records")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
}
