package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/bb/internal/config"
	"github.com/raphi011/bb/internal/log"
	"github.com/raphi011/bb/internal/output"
)

// Command group IDs for organizing help output
const (
	GroupMarks  = "marks"
	GroupHooks  = "hooks"
	GroupCache  = "cache"
	GroupConfig = "config"
)

// newRootCmd builds the command tree. A fresh tree per call keeps flag
// state from leaking between runs.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bb",
		Short: "Layered bookmarks for source files",
		Long: `bb keeps bookmarks on lines and regions of source files.

Bookmarks live on named layers (bookmarks, todo, bug, ...). One layer is
active at a time; marking the same line again removes the mark. Marks are
cached per file in ~/.bb/cache and restored on the next run.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2, // Enable typo suggestions
		PersistentPreRunE:          setupContext,
		// Run is not set - shows help when no subcommand provided
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log cache activity")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Add command groups for organized help output
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupMarks, Title: "Bookmark Commands:"},
		&cobra.Group{ID: GroupHooks, Title: "Editor Hooks:"},
		&cobra.Group{ID: GroupCache, Title: "Cache Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Bookmark commands
	rootCmd.AddCommand(newMarkCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newSwapCmd())
	rootCmd.AddCommand(newLayerCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newCopyCmd())

	// Editor hooks
	rootCmd.AddCommand(newHookCmd())

	// Cache commands
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newPruneCmd())

	// Config commands
	rootCmd.AddCommand(newLayersCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// setupContext loads the global config and attaches the logger, printer and
// config resolver to the command context.
func setupContext(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
		return nil
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	cfg, err := config.Load()

	// Diagnostics on stderr, primary data on stdout
	logger := log.New(cmd.ErrOrStderr(), verbose || cfg.Verbose, quiet)
	if err != nil {
		logger.Warnf("%v (using defaults)", err)
	}

	ctx := cmd.Context()
	ctx = log.WithLogger(ctx, logger)
	ctx = output.WithPrinter(ctx, cmd.OutOrStdout())
	ctx = config.WithResolver(ctx, config.NewResolver(&cfg))
	cmd.SetContext(ctx)

	return nil
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'bb -h' for help")
		cancel()
		os.Exit(1)
	}
}
