package balance

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/saadjs/kcal-balance/internal/service"
	"github.com/saadjs/kcal-balance/internal/store"
)

var (
	exportFormat string
	exportOut    string
	importFormat string
	importIn     string
	importMode   string
	importDryRun bool
	importJSON   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all records (json, csv or xlsx)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(exportOut) == "" {
			return fmt.Errorf("--out is required")
		}
		format, err := service.ParseFileFormat(exportFormat, exportOut)
		if err != nil {
			return err
		}
		return withStore(func(s store.Store) error {
			records, err := s.LoadAll()
			if err != nil {
				return err
			}
			if err := service.ExportRecords(records, format, exportOut, time.Now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", len(records), exportOut)
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Append records from an export file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(importIn) == "" {
			return fmt.Errorf("--in is required")
		}
		format, err := service.ParseFileFormat(importFormat, importIn)
		if err != nil {
			return err
		}
		mode, err := service.ParseImportMode(importMode)
		if err != nil {
			return err
		}
		return withStore(func(s store.Store) error {
			report, err := service.ImportRecords(s, importIn, format, service.ImportOptions{
				Mode:     mode,
				DryRun:   importDryRun,
				Location: cfg.Location(),
			})
			if err != nil {
				return err
			}
			if importJSON {
				return printJSON(cmd, report)
			}
			verb := "Imported"
			if importDryRun {
				verb = "Would import"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d of %d records (%d duplicates skipped)\n", verb, report.Imported, report.Read, report.Skipped)
			for _, w := range report.Warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: row %d %s=%q: %s\n", w.Row, w.Field, w.Value, w.Reason)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Export format: json|csv|xlsx (default: from --out extension)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file path")
	importCmd.Flags().StringVar(&importFormat, "format", "", "Import format: json|csv|xlsx (default: from --in extension)")
	importCmd.Flags().StringVar(&importIn, "in", "", "Input file path")
	importCmd.Flags().StringVar(&importMode, "mode", "skip", "Duplicate id handling: skip|fail")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate without writing")
	importCmd.Flags().BoolVar(&importJSON, "json", false, "Output the import report as JSON")
}
