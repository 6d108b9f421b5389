package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ciftci/ciftci-backend/config"
	"github.com/ciftci/ciftci-backend/internal/app/repository"
	"github.com/ciftci/ciftci-backend/internal/db"
	"github.com/ciftci/ciftci-backend/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
)

var (
	sheetName string
	batchSize int
	assumeYes bool
	dryRun    bool
)

var rootCmd = &cobra.Command{
	Use:   "ciftci-seed",
	Short: "Bulk data import for the Çiftçi database",
}

var locationsCmd = &cobra.Command{
	Use:   "locations <xlsx_file_path>",
	Short: "Import provinces, districts and villages from an .xlsx sheet",
	Long: `Import locations from the first sheet (or --sheet) of an .xlsx file.

The header row names the columns. Accepted headers:
  province  | il
  district  | ilçe
  village   | köy | mahalle   (optional)
  latitude  | enlem          (optional)
  longitude | boylam         (optional)

Rows whose province/district/village already exist are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImportLocations(args[0])
	},
}

func init() {
	locationsCmd.Flags().StringVar(&sheetName, "sheet", "", "sheet to read (default: first sheet)")
	locationsCmd.Flags().IntVar(&batchSize, "batch-size", 1000, "rows per insert batch")
	locationsCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "import without asking for confirmation")
	locationsCmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and report without writing")
	rootCmd.AddCommand(locationsCmd)
}

func runImportLocations(filePath string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Service:     "ciftci-seed",
		EnableColor: cfg.Log.Format == "console",
	})

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	locations, summary, err := readLocations(f, sheetName)
	if err != nil {
		return err
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", summary.TotalRows)
	fmt.Printf("  Valid locations: %d\n", summary.Valid)
	fmt.Printf("  Duplicate rows: %d\n", summary.Duplicates)
	fmt.Printf("  Skipped rows: %d\n", summary.Skipped)

	if dryRun || len(locations) == 0 {
		return nil
	}

	if !assumeYes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		confirm = strings.ToLower(strings.TrimSpace(confirm))
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return nil
		}
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return err
	}

	inserted, err := repository.NewLocationRepository(db.GetDB()).BulkCreate(locations, batchSize)
	if err != nil {
		return fmt.Errorf("failed to import locations: %w", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Locations inserted: %d (already present: %d)\n", inserted, int64(len(locations))-inserted)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
