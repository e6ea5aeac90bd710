package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scancart/scancart/internal/backup"
	"github.com/scancart/scancart/internal/database"
	"github.com/scancart/scancart/internal/storage"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export and import shopping list backups",
}

var backupUpload bool

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Write a backup file of all lists and settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		codec := backup.NewCodec(storage.New(db), cfg.BackupDir, cfg.BackupPassphrase, logger)
		result, err := codec.Create()
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d lists, %d items)\n", result.Path, result.ListCount, result.ItemCount)

		if backupUpload {
			if !cfg.Remote.Configured() {
				return fmt.Errorf("upload requested but no S3 remote is configured")
			}
			remote := backup.NewRemote(cfg.Remote, logger)
			key, err := remote.Upload(cmd.Context(), result.Path)
			if err != nil {
				return fmt.Errorf("upload: %w", err)
			}
			fmt.Printf("uploaded to %s\n", key)
		}
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace all data with the contents of a backup file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		codec := backup.NewCodec(storage.New(db), cfg.BackupDir, cfg.BackupPassphrase, logger)
		summary, err := codec.RestoreFromFile(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("restored %d lists, %d items\n", summary.ListCount, summary.ItemCount)
		return nil
	},
}

func init() {
	backupCreateCmd.Flags().BoolVar(&backupUpload, "upload", false, "also upload the backup to the configured S3 remote")
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupRestoreCmd)
}
