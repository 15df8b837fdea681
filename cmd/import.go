package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"guest-manager/core/config"
	"guest-manager/core/database"
	"guest-manager/core/logger"
	"guest-manager/core/storage"
	"guest-manager/feature/guest/models"
	"guest-manager/feature/importer"

	"github.com/spf13/cobra"
)

var (
	// Flags for the import command
	importMode    string
	importDryRun  bool
	importConfirm string
)

// importCmd runs a bulk guest import from the command line.
var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import guests from a CSV file",
	Long: `Reconciles the guest list against a CSV file without going through
the HTTP API. The report is printed as JSON.

Modes:
  ADD_ONLY  create missing guests, skip every match
  UPSERT    also update administrative fields on match
  SYNC      upsert plus deletion of guests absent from the file
  REPLACE   wipe the guest list and reseed it from the file

SYNC and REPLACE are destructive and require --confirm "BORRAR TODO".

Examples:
  # Preview an upsert without committing
  guest-manager import guests.csv --mode UPSERT --dry-run

  # Full resync of the list
  guest-manager import guests.csv --mode SYNC --confirm "BORRAR TODO"`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importMode, "mode", "ADD_ONLY", "Import mode: ADD_ONLY | UPSERT | SYNC | REPLACE")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Plan the run and print the report without committing")
	importCmd.Flags().StringVar(&importConfirm, "confirm", "", "Confirmation phrase for destructive modes")

	RootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	mode, err := importer.ParseMode(importMode)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.Guest{}, &models.Companion{}, &models.RsvpLog{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	var archiver *importer.Archiver
	if cfg.Storage.Enabled() {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		archiver = importer.NewArchiver(client, cfg.Storage.Bucket, l)
	}

	svc := importer.NewService(db, l, archiver, cfg.Event)
	report, err := svc.Run(ctx, data, importer.Options{
		Mode:        mode,
		DryRun:      importDryRun,
		ConfirmText: importConfirm,
	})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
