package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/bb/internal/cache"
	"github.com/raphi011/bb/internal/config"
	"github.com/raphi011/bb/internal/log"
	"github.com/raphi011/bb/internal/output"
)

func newListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List cached bookmark records",
		Aliases: []string{"ls"},
		GroupID: GroupCache,
		Args:    cobra.NoArgs,
		Long: `List every record in the cache directory with its active layer and
mark counts per layer. Unreadable records are listed as such; remove them
with 'bb prune'.`,
		Example: `  bb list
  bb list -o json`,
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
			l.Debugf("Listing records in %s", dir)

			entries, err := cache.List(dir)
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []cache.Entry{}
			}

			if handled, err := out.Encode(format, entries); handled || err != nil {
				return err
			}

			if len(entries) == 0 {
				l.Println("No bookmarks cached")
				return nil
			}

			printEntries(out, entries)
			return nil
		},
	}

	addFormatFlag(cmd, &format)

	return cmd
}
