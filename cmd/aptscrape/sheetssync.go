// cmd/aptscrape/sheetssync.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSheetsSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets-sync",
		Short: "Refresh the building registry from the spreadsheet, nothing else",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, cleanup, err := boot(false)
			if err != nil {
				return err
			}
			defer cleanup()

			cli := sheetsClient(cmd, cfg, db)
			if cli == nil {
				return fmt.Errorf("sheets-sync needs a configured spreadsheet")
			}
			return cli.SyncRegistry(cmd.Context())
		},
	}
}
