// Command aptscrape drives the daily Chicago apartment availability sweep.
//
// Subcommands:
//
//	aptscrape                     one batch cycle, exit (default)
//	aptscrape --schedule          daemon: cycle at 02:00 America/Chicago
//	aptscrape scrape --building   one-off scrape of a single building
//	aptscrape validate-building   scrape one building, push to the sheet
//	aptscrape sheets-sync         refresh the building registry only
//
// Exit status is 0 on nominal completion; per-building scrape failures are
// surfaced in the scrape_run table, the status tab, and the log, never in
// the exit code.  Non-zero means the orchestrator itself could not run.
package main

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yanizio/aptscrape/internal/config"
	"github.com/yanizio/aptscrape/internal/database"
	"github.com/yanizio/aptscrape/internal/logger"
	"github.com/yanizio/aptscrape/internal/sheets"

	// Bind every platform adapter into the registry.
	_ "github.com/yanizio/aptscrape/internal/scraper/platforms"
)

var (
	flagRunNow   bool
	flagDryRun   bool
	flagSkipSync bool
	flagSchedule bool
	flagDebug    bool
)

func main() {
	root := &cobra.Command{
		Use:           "aptscrape",
		Short:         "Scrape Chicago rental availability into the unit database",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScrapeAll,
	}
	root.Flags().BoolVar(&flagRunNow, "run-now", false, "run one cycle immediately (the default)")
	root.Flags().BoolVar(&flagDryRun, "dry-run", false, "enumerate and simulate, no writes or publishes")
	root.Flags().BoolVar(&flagSkipSync, "skip-sync", false, "skip the registry refresh step")
	root.Flags().BoolVar(&flagSchedule, "schedule", false, "stay up and fire the cycle on the daily cron")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "debug logging")

	root.AddCommand(newScrapeCmd(), newValidateCmd(), newSheetsSyncCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "aptscrape:", err)
		os.Exit(1)
	}
}

// boot performs the shared startup: logging, config, store.  toFile turns
// on the rotating log sink (daemon mode).
func boot(toFile bool) (*config.Config, *sqlx.DB, func(), error) {
	cfg := config.Get()
	if cfg == nil {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load config: %w", err)
		}
	}

	flush, err := logger.Init(logger.Options{
		Dir:        cfg.Log.Dir,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		ToFile:     toFile,
		Debug:      flagDebug,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logging: %w", err)
	}

	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		flush()
		return nil, nil, nil, fmt.Errorf("open store: %w", err)
	}

	cleanup := func() {
		db.Close()
		flush()
	}
	return cfg, db, cleanup, nil
}

// sheetsClient builds the spreadsheet collaborator, or nil when the
// deployment runs without one.
func sheetsClient(cmd *cobra.Command, cfg *config.Config, db *sqlx.DB) *sheets.Client {
	if cfg.Sheets.SpreadsheetID == "" {
		zap.S().Info("sheets disabled (no spreadsheet id configured)")
		return nil
	}
	tabs := sheets.DefaultTabs
	if cfg.Sheets.RegistryTab != "" {
		tabs.Registry = cfg.Sheets.RegistryTab
	}
	if cfg.Sheets.StatusTab != "" {
		tabs.Status = cfg.Sheets.StatusTab
	}
	if cfg.Sheets.AvailabilityTab != "" {
		tabs.Availability = cfg.Sheets.AvailabilityTab
	}
	if cfg.Sheets.ValidationTab != "" {
		tabs.Validation = cfg.Sheets.ValidationTab
	}

	cli, err := sheets.New(cmd.Context(), db,
		cfg.Sheets.SpreadsheetID, cfg.Sheets.CredentialsFile, tabs)
	if err != nil {
		zap.S().Errorw("sheets client unavailable, continuing without it", "err", err)
		return nil
	}
	return cli
}
