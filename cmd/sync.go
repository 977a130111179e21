package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/weekly-punch/internal/model"
	"github.com/Tiliavir/weekly-punch/internal/timesheet"
)

var (
	syncPrevious bool
	syncDryRun   bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import checkpoints from the remote timesheet",
	Args:  cobra.NoArgs,
	RunE:  runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncPrevious, "previous", false, "Also sync the previous page")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Print planned operations without writing")
}

func runSync(cmd *cobra.Command, args []string) error {
	e := loadEnv()
	ts := e.cfg.Timesheet
	if ts.BaseURL == "" || ts.ClientID == "" {
		fmt.Fprintln(os.Stderr, "timesheet.base_url and timesheet.client_id must be set in ~/.wp/config.json")
		os.Exit(1)
	}

	offsets := []int{0}
	if syncPrevious {
		offsets = []int{-1, 0}
	}

	dryTag := ""
	if syncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Syncing timesheet %s%s...\n", ts.BaseURL, dryTag)
	fmt.Println()

	ctx := cmd.Context()
	auth := e.cfg.TimesheetAuth()
	tokenFile, err := timesheet.DefaultTokenFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	auth.TokenFile = tokenFile

	tok, cfg, err := timesheet.Authenticate(ctx, auth, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Authentication failed: %v\n", err)
		os.Exit(1)
	}
	client := timesheet.NewClient(ctx, ts.BaseURL, tok, cfg, tokenFile)

	opts := timesheet.SyncOptions{Base: e.base, DryRun: syncDryRun}
	var total timesheet.SyncResult
	for _, offset := range offsets {
		page, err := client.Page(ctx, offset)
		if errors.Is(err, model.ErrNoPage) {
			fmt.Fprintf(os.Stderr, "Warning: no timesheet page at offset %d\n", offset)
			continue
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to fetch timesheet page: %v\n", err)
			os.Exit(2)
		}

		result, err := timesheet.SyncPage(page, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Sync error: %v\n", err)
			os.Exit(2)
		}
		total.Imported += result.Imported
		total.Skipped += result.Skipped
		total.Updated += result.Updated
		total.Errors += result.Errors
	}

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  %d imported\n", total.Imported)
	fmt.Printf("  %d skipped\n", total.Skipped)
	fmt.Printf("  %d updated\n", total.Updated)
	if total.Errors > 0 {
		fmt.Printf("  %d errors\n", total.Errors)
		os.Exit(2)
	}
	return nil
}
