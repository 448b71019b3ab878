package balance

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/saadjs/kcal-balance/internal/service"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage store backups",
}

var (
	backupOut    string
	backupDir    string
	restoreFile  string
	restoreForce bool
)

func resolveBackupDir() string {
	if backupDir != "" {
		return backupDir
	}
	return filepath.Join(filepath.Dir(cfg.Store.Path), "backups")
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a store backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := backupOut
		if out == "" {
			out = filepath.Join(resolveBackupDir(), service.BackupFileName(cfg.Store.Path, time.Now()))
		}
		info, err := service.CreateBackup(cfg.Store.Path, out)
		if err != nil {
			return err
		}
		appLog.WithField("path", info.Path).Info("created backup")
		fmt.Fprintf(cmd.OutOrStdout(), "Created backup: %s\n", info.Path)
		fmt.Fprintf(cmd.OutOrStdout(), "Checksum: %s\n", info.Checksum)
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := service.ListBackups(resolveBackupDir())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "FILE\tSIZE\tCREATED\tCHECKSUM")
		for _, it := range items {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\t%s\n", it.Path, it.SizeBytes, it.CreatedAt.Format(time.RFC3339), it.Checksum)
		}
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the store from a backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		if restoreFile == "" {
			return fmt.Errorf("--file is required")
		}
		if err := service.RestoreBackup(restoreFile, cfg.Store.Path, restoreForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored backup from %s\n", restoreFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupRestoreCmd)

	backupCreateCmd.Flags().StringVar(&backupOut, "out", "", "Backup output file path")
	backupCreateCmd.Flags().StringVar(&backupDir, "dir", "", "Backup directory (used when --out is empty)")
	backupListCmd.Flags().StringVar(&backupDir, "dir", "", "Backup directory (default: backups/ next to the store)")
	backupRestoreCmd.Flags().StringVar(&restoreFile, "file", "", "Backup file path")
	backupRestoreCmd.Flags().BoolVar(&restoreForce, "force", false, "Overwrite the existing store")
}
