package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/bb/internal/cache"
	"github.com/raphi011/bb/internal/config"
	"github.com/raphi011/bb/internal/log"
	"github.com/raphi011/bb/internal/output"
	"github.com/raphi011/bb/internal/ui/progress"
	"github.com/raphi011/bb/internal/ui/prompt"
	"github.com/raphi011/bb/internal/ui/static"
)

func newPruneCmd() *cobra.Command {
	var (
		dryRun bool
		force  bool
		format string
	)

	cmd := &cobra.Command{
		Use:     "prune",
		Short:   "Delete stale cache records",
		GroupID: GroupCache,
		Args:    cobra.NoArgs,
		Long: `Delete cache records whose source file no longer exists and records
that cannot be read.

On a terminal the stale records are listed and confirmed first; --force
skips the confirmation.`,
		Example: `  bb prune --dry-run   # Show what would be deleted
  bb prune -f          # Delete without asking`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			if err := config.ValidateFormat(format); err != nil {
				return err
			}

			dir, err := globalCacheDir(ctx)
			if err != nil {
				return err
			}

			unlock, err := cache.Lock(dir)
			if err != nil {
				l.Warnf("%v", err)
				unlock = func() {}
			}
			defer unlock()

			interactive := isInteractive() && format == output.FormatText
			if !dryRun && !force && interactive {
				stale, err := checkStale(ctx, dir)
				if err != nil {
					return err
				}
				if len(stale) == 0 {
					l.Println("Nothing to prune")
					return nil
				}
				printEntries(out, stale)
				res, err := prompt.Confirm(fmt.Sprintf("Delete %d stale records?", len(stale)))
				if err != nil {
					return err
				}
				if !res.Confirmed {
					return nil
				}
			}

			pruned, err := cache.Prune(ctx, dir, dryRun)
			if err != nil {
				return err
			}
			if pruned == nil {
				pruned = []cache.Entry{}
			}

			if handled, err := out.Encode(format, pruned); handled || err != nil {
				return err
			}

			switch {
			case len(pruned) == 0:
				l.Println("Nothing to prune")
			case dryRun:
				printEntries(out, pruned)
				l.Printf("Would delete %d records\n", len(pruned))
			default:
				l.Printf("Deleted %d records\n", len(pruned))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show stale records without deleting them")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without confirmation")
	addFormatFlag(cmd, &format)

	return cmd
}

// checkStale finds stale records behind a spinner.
func checkStale(ctx context.Context, dir string) ([]cache.Entry, error) {
	sp := progress.NewSpinner("Checking cache records")
	sp.Start()
	defer sp.Stop()
	return cache.Prune(ctx, dir, true)
}

// printEntries prints entries as a record table.
func printEntries(out *output.Printer, entries []cache.Entry) {
	now := time.Now()
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, static.RecordTableRow(e, now))
	}
	out.Print(static.RenderTable(static.RecordHeaders, rows))
}
