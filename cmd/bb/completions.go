package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/bb/internal/bookmark"
	"github.com/raphi011/bb/internal/config"
)

// completeLayers completes layer names from the effective config of the
// file given as first argument, or the global config.
func completeLayers(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	effective := &cfg
	if len(args) > 0 {
		if abs, err := filepath.Abs(args[0]); err == nil {
			if merged, err := config.NewResolver(&cfg).ConfigForFile(abs); err == nil {
				effective = merged
			}
		}
	}

	return effective.LayerNames(), cobra.ShellCompDirectiveNoFileComp
}

// completeFileThenLayer completes a file first and a layer name second.
func completeFileThenLayer(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	return completeLayers(cmd, args, toComplete)
}

// completeSwap completes a file first and a direction second.
func completeSwap(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return nil, cobra.ShellCompDirectiveDefault
	case 1:
		return []string{string(bookmark.Next), string(bookmark.Prev)}, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
